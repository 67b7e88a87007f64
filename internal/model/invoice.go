package model

import (
	"github.com/shopspring/decimal"
)

// Invoice is the simplified invoice accepted by the document transformer.
// Zero-valued optional amounts and empty optional strings are treated as absent.
type Invoice struct {
	// Identity
	EInvoiceCodeOrNumber string `json:"eInvoiceCodeOrNumber"`
	EInvoiceTypeCode     string `json:"eInvoiceTypeCode"` // 01 invoice, 02 credit note, ...
	EInvoiceVersion      string `json:"eInvoiceVersion"`  // "1.0" or "1.1"
	EInvoiceDate         string `json:"eInvoiceDate"`     // YYYY-MM-DD
	EInvoiceTime         string `json:"eInvoiceTime"`     // HH:MM:SSZ

	// Applied to every monetary amount, tax currency included
	InvoiceCurrencyCode string `json:"invoiceCurrencyCode"`

	// Parties
	Supplier Party `json:"supplier"`
	Buyer    Party `json:"buyer"`

	// Billing period
	BillingPeriodStartDate string `json:"billingPeriodStartDate,omitempty"`
	BillingPeriodEndDate   string `json:"billingPeriodEndDate,omitempty"`
	FrequencyOfBilling     string `json:"frequencyOfBilling,omitempty"`

	PaymentMeans []PaymentMeans `json:"paymentMeans,omitempty"`

	InvoiceLineItems []LineItem `json:"invoiceLineItems"`

	TaxTotal           TaxTotal           `json:"taxTotal"`
	LegalMonetaryTotal LegalMonetaryTotal `json:"legalMonetaryTotal"`
}

// Party is the supplier or the buyer
type Party struct {
	TIN                   string  `json:"tin"`
	RegistrationNumber    string  `json:"registrationNumber"`
	SSTRegistrationNumber string  `json:"sstRegistrationNumber,omitempty"`
	Name                  string  `json:"name"`
	ContactNumber         string  `json:"contactNumber"`
	Email                 string  `json:"email,omitempty"`
	Address               Address `json:"address"`
}

// Address is a postal address with up to three free-text lines
type Address struct {
	AddressLine0 string `json:"addressLine0,omitempty"`
	AddressLine1 string `json:"addressLine1,omitempty"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	CityName     string `json:"cityName"`
	PostalZone   string `json:"postalZone,omitempty"`
	State        string `json:"state"`   // state code, e.g. "14"
	Country      string `json:"country"` // ISO 3166-1 alpha-3
}

// Lines returns the non-empty address lines in order
func (a Address) Lines() []string {
	lines := make([]string, 0, 3)
	for _, l := range []string{a.AddressLine0, a.AddressLine1, a.AddressLine2} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// PaymentMeans describes one way the invoice may be settled
type PaymentMeans struct {
	PaymentMeansCode        string `json:"paymentMeansCode"`
	PayeeFinancialAccountID string `json:"payeeFinancialAccountID,omitempty"`
	PaymentTerms            string `json:"paymentTerms,omitempty"`
}

// LineItem is a single invoice line. Amounts are already rounded by the caller;
// DiscountRate and TaxRate are whole percentages.
type LineItem struct {
	// Quantity defaults to 1 and Measurement to EA when absent
	Quantity                  decimal.Decimal `json:"quantity"`
	Measurement               string          `json:"measurement,omitempty"`
	TotalTaxableAmountPerLine decimal.Decimal `json:"totalTaxableAmountPerLine"`
	DiscountAmount            decimal.Decimal `json:"discountAmount"`
	DiscountRate              decimal.Decimal `json:"discountRate"`
	TaxAmount                 decimal.Decimal `json:"taxAmount"`
	TaxRate                   decimal.Decimal `json:"taxRate"`
	TaxType                   string          `json:"taxType"`
	TaxExemptionReasonCode    string          `json:"taxExemptionReasonCode,omitempty"`
	ItemClassificationCode    string          `json:"itemClassificationCode"`
	ItemDescription           string          `json:"itemDescription"`
	CountryOfOrigin           string          `json:"countryOfOrigin,omitempty"`
	UnitPrice                 decimal.Decimal `json:"unitPrice"`
}

// TaxTotal is the document tax amount
type TaxTotal struct {
	TaxAmount decimal.Decimal `json:"taxAmount"`
}

// LegalMonetaryTotal holds the document totals
type LegalMonetaryTotal struct {
	TaxExclusiveAmount    decimal.Decimal `json:"taxExclusiveAmount"`
	TaxInclusiveAmount    decimal.Decimal `json:"taxInclusiveAmount"`
	AllowanceTotalAmount  decimal.Decimal `json:"allowanceTotalAmount"`
	ChargeTotalAmount     decimal.Decimal `json:"chargeTotalAmount"`
	PrepaidAmount         decimal.Decimal `json:"prepaidAmount"`
	PayableRoundingAmount decimal.Decimal `json:"payableRoundingAmount"`
	PayableAmount         decimal.Decimal `json:"payableAmount"`
}

// HasBillingPeriod reports whether any billing period field is set
func (inv *Invoice) HasBillingPeriod() bool {
	return inv.BillingPeriodStartDate != "" || inv.BillingPeriodEndDate != "" || inv.FrequencyOfBilling != ""
}

// PaymentTerms returns the first non-empty payment terms across payment means
func (inv *Invoice) PaymentTerms() (string, bool) {
	for _, pm := range inv.PaymentMeans {
		if pm.PaymentTerms != "" {
			return pm.PaymentTerms, true
		}
	}
	return "", false
}
