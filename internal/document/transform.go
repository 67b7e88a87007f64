// Package document converts a model.Invoice into the MyInvois UBL document
// tree.
//
// Every scalar is a one-element slice of a leaf node and every block is a
// one-element slice of a structural node. Optional blocks are nil when their
// source data is absent, so they never reach the serialized output.
package document

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rezonia/myinvois/internal/codes"
	money "github.com/rezonia/myinvois/internal/decimal"
	"github.com/rezonia/myinvois/internal/model"
)

const (
	// FallbackIssueTime replaces an issue time that is not HH:MM:SSZ
	FallbackIssueTime = "00:00:00Z"

	reasonDocumentDiscount = "Document level discount"
	reasonDocumentCharge   = "Document level charges"
)

// ErrNilInvoice is returned when Transform is called without an invoice
var ErrNilInvoice = errors.New("document: nil invoice")

// Option configures a transformation
type Option func(*options)

type options struct {
	strictTime bool
	validate   bool
}

// WithStrictTime makes a malformed issue time an error instead of
// substituting FallbackIssueTime.
func WithStrictTime() Option {
	return func(o *options) {
		o.strictTime = true
	}
}

// WithValidation runs Invoice.Validate before transforming
func WithValidation() Option {
	return func(o *options) {
		o.validate = true
	}
}

// Transform builds the document tree for inv. It does not modify inv and
// shares no state between calls.
func Transform(inv *model.Invoice, opts ...Option) (*Document, error) {
	if inv == nil {
		return nil, ErrNilInvoice
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.validate {
		if err := inv.Validate(); err != nil {
			return nil, fmt.Errorf("invoice %s: %w", inv.EInvoiceCodeOrNumber, err)
		}
	}

	issueTime := inv.EInvoiceTime
	if !model.ValidIssueTime(issueTime) {
		if o.strictTime {
			return nil, &model.MalformedTimeError{Value: issueTime}
		}
		issueTime = FallbackIssueTime
	}

	b := &builder{currency: inv.InvoiceCurrencyCode}

	doc := &Document{
		ID:                      text(inv.EInvoiceCodeOrNumber),
		IssueDate:               text(inv.EInvoiceDate),
		IssueTime:               text(issueTime),
		InvoiceTypeCode:         []Code{{Value: inv.EInvoiceTypeCode, ListVersionID: inv.EInvoiceVersion}},
		DocumentCurrencyCode:    text(inv.InvoiceCurrencyCode),
		TaxCurrencyCode:         text(inv.InvoiceCurrencyCode),
		InvoicePeriod:           invoicePeriod(inv),
		AccountingSupplierParty: []PartyRole{{Party: []Party{party(inv.Supplier)}}},
		AccountingCustomerParty: []PartyRole{{Party: []Party{party(inv.Buyer)}}},
		PaymentMeans:            paymentMeans(inv.PaymentMeans),
		PaymentTerms:            paymentTerms(inv),
		AllowanceCharge:         b.documentAllowanceCharges(inv.LegalMonetaryTotal),
		TaxTotal: []TaxTotal{{
			TaxAmount:   b.amount(inv.TaxTotal.TaxAmount),
			TaxSubtotal: b.taxSubtotals(groupTaxes(inv.InvoiceLineItems)),
		}},
		LegalMonetaryTotal: []MonetaryTotal{b.monetaryTotal(inv.LegalMonetaryTotal)},
		InvoiceLine:        b.invoiceLines(inv.InvoiceLineItems),
	}

	return doc, nil
}

// MustTransform is like Transform but panics on error
func MustTransform(inv *model.Invoice, opts ...Option) *Document {
	doc, err := Transform(inv, opts...)
	if err != nil {
		panic(err)
	}
	return doc
}

// builder carries the invoice currency stamped on every amount
type builder struct {
	currency string
}

func (b *builder) amount(d decimal.Decimal) []Amount {
	return []Amount{{Value: d, CurrencyID: b.currency}}
}

// optionalAmount is nil for a zero amount
func (b *builder) optionalAmount(d decimal.Decimal) []Amount {
	if !money.Present(d) {
		return nil
	}
	return b.amount(d)
}

func text(v string) []Text {
	return []Text{{Value: v}}
}

func optionalText(v string) []Text {
	if v == "" {
		return nil
	}
	return text(v)
}

func numeric(d decimal.Decimal) []Numeric {
	return []Numeric{{Value: d}}
}

func indicator(v bool) []Indicator {
	return []Indicator{{Value: v}}
}

func country(code string) []Country {
	return []Country{{IdentificationCode: []Code{{
		Value:        code,
		ListID:       codes.ListCountry,
		ListAgencyID: codes.ListAgencyCountry,
	}}}}
}

func party(p model.Party) Party {
	sst := p.SSTRegistrationNumber
	if sst == "" {
		sst = codes.NotApplicable
	}

	return Party{
		PartyIdentification: []PartyIdentification{
			{ID: []Identifier{{Value: p.TIN, SchemeID: codes.SchemeTIN}}},
			{ID: []Identifier{{Value: p.RegistrationNumber, SchemeID: codes.SchemeBRN}}},
			{ID: []Identifier{{Value: sst, SchemeID: codes.SchemeSST}}},
		},
		PostalAddress:    []Address{address(p.Address)},
		PartyLegalEntity: []PartyLegalEntity{{RegistrationName: text(p.Name)}},
		Contact: []Contact{{
			Telephone:      text(p.ContactNumber),
			ElectronicMail: optionalText(p.Email),
		}},
	}
}

func address(a model.Address) Address {
	var lines []AddressLine
	for _, l := range a.Lines() {
		lines = append(lines, AddressLine{Line: text(l)})
	}

	return Address{
		CityName:             text(a.CityName),
		PostalZone:           optionalText(a.PostalZone),
		CountrySubentityCode: text(a.State),
		AddressLine:          lines,
		Country:              country(a.Country),
	}
}

func invoicePeriod(inv *model.Invoice) []InvoicePeriod {
	if !inv.HasBillingPeriod() {
		return nil
	}
	return []InvoicePeriod{{
		StartDate:   optionalText(inv.BillingPeriodStartDate),
		EndDate:     optionalText(inv.BillingPeriodEndDate),
		Description: optionalText(inv.FrequencyOfBilling),
	}}
}

func paymentMeans(means []model.PaymentMeans) []PaymentMeans {
	if len(means) == 0 {
		return nil
	}

	out := make([]PaymentMeans, 0, len(means))
	for _, pm := range means {
		node := PaymentMeans{PaymentMeansCode: text(pm.PaymentMeansCode)}
		if pm.PayeeFinancialAccountID != "" {
			node.PayeeFinancialAccount = []FinancialAccount{{ID: text(pm.PayeeFinancialAccountID)}}
		}
		out = append(out, node)
	}
	return out
}

func paymentTerms(inv *model.Invoice) []PaymentTerms {
	terms, ok := inv.PaymentTerms()
	if !ok {
		return nil
	}
	return []PaymentTerms{{Note: text(terms)}}
}

func (b *builder) documentAllowanceCharges(t model.LegalMonetaryTotal) []AllowanceCharge {
	var out []AllowanceCharge
	if money.IsPositive(t.AllowanceTotalAmount) {
		out = append(out, AllowanceCharge{
			ChargeIndicator:       indicator(false),
			AllowanceChargeReason: text(reasonDocumentDiscount),
			Amount:                b.amount(t.AllowanceTotalAmount),
		})
	}
	if money.IsPositive(t.ChargeTotalAmount) {
		out = append(out, AllowanceCharge{
			ChargeIndicator:       indicator(true),
			AllowanceChargeReason: text(reasonDocumentCharge),
			Amount:                b.amount(t.ChargeTotalAmount),
		})
	}
	return out
}

func (b *builder) monetaryTotal(t model.LegalMonetaryTotal) MonetaryTotal {
	return MonetaryTotal{
		TaxExclusiveAmount:    b.amount(t.TaxExclusiveAmount),
		TaxInclusiveAmount:    b.amount(t.TaxInclusiveAmount),
		AllowanceTotalAmount:  b.optionalAmount(t.AllowanceTotalAmount),
		ChargeTotalAmount:     b.optionalAmount(t.ChargeTotalAmount),
		PrepaidAmount:         b.optionalAmount(t.PrepaidAmount),
		PayableRoundingAmount: b.optionalAmount(t.PayableRoundingAmount),
		PayableAmount:         b.amount(t.PayableAmount),
	}
}

// taxCategory is "E" with a reason when exemptionCode is set, "01" otherwise
func taxCategory(exemptionCode string) []TaxCategory {
	category := TaxCategory{
		ID: text(codes.TaxCategoryStandard),
		TaxScheme: []TaxScheme{{ID: []Identifier{{
			Value:          codes.TaxSchemeID,
			SchemeID:       codes.TaxSchemeIDScheme,
			SchemeAgencyID: codes.TaxSchemeAgencyID,
		}}}},
	}
	if exemptionCode != "" {
		category.ID = text(codes.TaxCategoryExempt)
		category.TaxExemptionReason = text("Exemption code " + exemptionCode)
	}
	return []TaxCategory{category}
}

func (b *builder) invoiceLines(items []model.LineItem) []InvoiceLine {
	lines := make([]InvoiceLine, 0, len(items))
	for i, item := range items {
		lines = append(lines, b.invoiceLine(i+1, item))
	}
	return lines
}

func (b *builder) invoiceLine(id int, item model.LineItem) InvoiceLine {
	unit := item.Measurement
	if unit == "" {
		unit = codes.UnitEach
	}

	line := InvoiceLine{
		ID:                  text(strconv.Itoa(id)),
		InvoicedQuantity:    []Quantity{{Value: money.OrDefault(item.Quantity, money.One), UnitCode: unit}},
		LineExtensionAmount: b.amount(item.TotalTaxableAmountPerLine),
		TaxTotal: []TaxTotal{{
			TaxAmount: b.amount(item.TaxAmount),
			TaxSubtotal: []TaxSubtotal{{
				TaxableAmount: b.amount(item.TotalTaxableAmountPerLine),
				TaxAmount:     b.amount(item.TaxAmount),
				Percent:       numeric(item.TaxRate),
				TaxCategory:   taxCategory(item.TaxExemptionReasonCode),
			}},
		}},
		Item: []Item{{
			Description: text(item.ItemDescription),
			CommodityClassification: []CommodityClassification{{ItemClassificationCode: []Code{{
				Value:  item.ItemClassificationCode,
				ListID: codes.ListClassification,
			}}}},
		}},
		Price: []Price{{PriceAmount: b.amount(item.UnitPrice)}},
	}

	if item.CountryOfOrigin != "" {
		line.Item[0].OriginCountry = country(item.CountryOfOrigin)
	}

	if money.IsPositive(item.DiscountAmount) {
		discount := AllowanceCharge{
			ChargeIndicator: indicator(false),
			Amount:          b.amount(item.DiscountAmount),
		}
		if money.Present(item.DiscountRate) {
			discount.MultiplierFactorNumeric = numeric(money.Multiplier(item.DiscountRate))
		}
		line.AllowanceCharge = []AllowanceCharge{discount}
	}

	return line
}
