// Package myinvois provides a public API for the Malaysian MyInvois e-invoicing platform.
//
// This package exposes the invoice model, the UBL document transformer, XML
// signing and the platform API client.
//
// Example usage:
//
//	inv, err := myinvois.ParseInvoice(r, "invoice.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := myinvois.Transform(inv, myinvois.WithValidation())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	payload, _ := doc.JSON()
package myinvois

import (
	"io"

	"github.com/rezonia/myinvois/internal/model"
)

// Re-export core types for public API
type (
	Invoice            = model.Invoice
	Party              = model.Party
	Address            = model.Address
	PaymentMeans       = model.PaymentMeans
	LineItem           = model.LineItem
	TaxTotal           = model.TaxTotal
	LegalMonetaryTotal = model.LegalMonetaryTotal
)

// Re-export error types
type (
	ParseError         = model.ParseError
	ValidationError    = model.ValidationError
	MalformedTimeError = model.MalformedTimeError
	APIError           = model.APIError
	APIErrorDetail     = model.APIErrorDetail
)

// ParseInvoice decodes an invoice JSON document. source names the input in errors.
func ParseInvoice(r io.Reader, source string) (*Invoice, error) {
	return model.ParseInvoice(r, source)
}
