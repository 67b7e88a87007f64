package model

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/myinvois/internal/codes"
	money "github.com/rezonia/myinvois/internal/decimal"
)

var issueTimePattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}Z$`)

// ValidIssueTime reports whether s matches HH:MM:SSZ
func ValidIssueTime(s string) bool {
	return issueTimePattern.MatchString(s)
}

// Validate checks required fields and code-table membership.
// All failures are returned joined; use errors.As to inspect them.
func (inv *Invoice) Validate() error {
	v := &validator{}

	v.required("eInvoiceCodeOrNumber", inv.EInvoiceCodeOrNumber)
	v.code("eInvoiceTypeCode", inv.EInvoiceTypeCode, codes.EInvoiceTypes)
	v.required("eInvoiceVersion", inv.EInvoiceVersion)
	v.date("eInvoiceDate", inv.EInvoiceDate, true)
	if !ValidIssueTime(inv.EInvoiceTime) {
		v.errs = append(v.errs, &MalformedTimeError{Value: inv.EInvoiceTime})
	}
	v.code("invoiceCurrencyCode", inv.InvoiceCurrencyCode, codes.Currencies)

	v.party("supplier", inv.Supplier)
	v.party("buyer", inv.Buyer)

	v.date("billingPeriodStartDate", inv.BillingPeriodStartDate, false)
	v.date("billingPeriodEndDate", inv.BillingPeriodEndDate, false)

	for i, pm := range inv.PaymentMeans {
		v.code(fmt.Sprintf("paymentMeans[%d].paymentMeansCode", i), pm.PaymentMeansCode, codes.PaymentModes)
	}

	if len(inv.InvoiceLineItems) == 0 {
		v.add("invoiceLineItems", nil, "required", "at least one line item is required")
	}
	for i, item := range inv.InvoiceLineItems {
		v.lineItem(fmt.Sprintf("invoiceLineItems[%d]", i), item)
	}

	v.nonNegative("legalMonetaryTotal.taxExclusiveAmount", inv.LegalMonetaryTotal.TaxExclusiveAmount)
	v.nonNegative("legalMonetaryTotal.taxInclusiveAmount", inv.LegalMonetaryTotal.TaxInclusiveAmount)
	v.nonNegative("legalMonetaryTotal.payableAmount", inv.LegalMonetaryTotal.PayableAmount)

	return errors.Join(v.errs...)
}

type validator struct {
	errs []error
}

func (v *validator) add(field string, value interface{}, rule, message string) {
	v.errs = append(v.errs, NewValidationError(field, value, rule, message))
}

func (v *validator) required(field, value string) bool {
	if value == "" {
		v.add(field, nil, "required", "field is required")
		return false
	}
	return true
}

func (v *validator) code(field, value string, table *codes.Table) {
	if !v.required(field, value) {
		return
	}
	if !table.Valid(value) {
		v.add(field, value, table.Name(), "unknown code")
	}
}

func (v *validator) date(field, value string, required bool) {
	if value == "" {
		if required {
			v.required(field, value)
		}
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		v.add(field, value, "date", "must be YYYY-MM-DD")
	}
}

func (v *validator) nonNegative(field string, d decimal.Decimal) {
	if !money.IsNonNegative(d) {
		v.add(field, d.String(), "non-negative", "amount must not be negative")
	}
}

func (v *validator) party(prefix string, p Party) {
	v.required(prefix+".tin", p.TIN)
	v.required(prefix+".registrationNumber", p.RegistrationNumber)
	v.required(prefix+".name", p.Name)
	v.required(prefix+".contactNumber", p.ContactNumber)
	v.required(prefix+".address.cityName", p.Address.CityName)
	v.code(prefix+".address.state", p.Address.State, codes.States)
	v.code(prefix+".address.country", p.Address.Country, codes.Countries)
}

func (v *validator) lineItem(prefix string, item LineItem) {
	v.code(prefix+".taxType", item.TaxType, codes.TaxTypes)
	v.code(prefix+".itemClassificationCode", item.ItemClassificationCode, codes.Classifications)
	v.required(prefix+".itemDescription", item.ItemDescription)
	if item.CountryOfOrigin != "" && !codes.Countries.Valid(item.CountryOfOrigin) {
		v.add(prefix+".countryOfOrigin", item.CountryOfOrigin, codes.Countries.Name(), "unknown code")
	}
	if item.Quantity.IsNegative() {
		v.add(prefix+".quantity", item.Quantity.String(), "non-negative", "quantity must not be negative")
	}
	v.nonNegative(prefix+".totalTaxableAmountPerLine", item.TotalTaxableAmountPerLine)
	v.nonNegative(prefix+".taxAmount", item.TaxAmount)
	v.nonNegative(prefix+".discountAmount", item.DiscountAmount)
}
