package document

import (
	"encoding/json"
	"encoding/xml"

	"github.com/shopspring/decimal"
)

// Leaf nodes. In JSON the node value lives under "_" and attributes are
// sibling keys; in XML the value is character data.

// Text is a plain text leaf
type Text struct {
	Value string `json:"_" xml:",chardata"`
}

// Code is a coded value with optional list attributes
type Code struct {
	Value         string `json:"_" xml:",chardata"`
	ListID        string `json:"listID,omitempty" xml:"listID,attr,omitempty"`
	ListAgencyID  string `json:"listAgencyID,omitempty" xml:"listAgencyID,attr,omitempty"`
	ListVersionID string `json:"listVersionID,omitempty" xml:"listVersionID,attr,omitempty"`
}

// Identifier is an ID with an optional identification scheme
type Identifier struct {
	Value          string `json:"_" xml:",chardata"`
	SchemeID       string `json:"schemeID,omitempty" xml:"schemeID,attr,omitempty"`
	SchemeAgencyID string `json:"schemeAgencyID,omitempty" xml:"schemeAgencyID,attr,omitempty"`
}

// Amount is a monetary value in a currency
type Amount struct {
	Value      decimal.Decimal `json:"_" xml:",chardata"`
	CurrencyID string          `json:"currencyID" xml:"currencyID,attr"`
}

// MarshalJSON writes the value as a bare JSON number
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value      json.Number `json:"_"`
		CurrencyID string      `json:"currencyID"`
	}{json.Number(a.Value.String()), a.CurrencyID})
}

// Quantity is a count in a unit of measure
type Quantity struct {
	Value    decimal.Decimal `json:"_" xml:",chardata"`
	UnitCode string          `json:"unitCode" xml:"unitCode,attr"`
}

// MarshalJSON writes the value as a bare JSON number
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value    json.Number `json:"_"`
		UnitCode string      `json:"unitCode"`
	}{json.Number(q.Value.String()), q.UnitCode})
}

// Numeric is a unitless number such as a percent or a multiplier
type Numeric struct {
	Value decimal.Decimal `json:"_" xml:",chardata"`
}

// MarshalJSON writes the value as a bare JSON number
func (n Numeric) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value json.Number `json:"_"`
	}{json.Number(n.Value.String())})
}

// Indicator is a boolean leaf
type Indicator struct {
	Value bool `json:"_" xml:",chardata"`
}

// Structural nodes. Every child is a slice; a nil slice is an absent block.

// Document is a single UBL invoice
type Document struct {
	XMLName xml.Name `json:"-" xml:"Invoice"`

	ID                      []Text            `json:"ID,omitempty" xml:"cbc:ID"`
	IssueDate               []Text            `json:"IssueDate,omitempty" xml:"cbc:IssueDate"`
	IssueTime               []Text            `json:"IssueTime,omitempty" xml:"cbc:IssueTime"`
	InvoiceTypeCode         []Code            `json:"InvoiceTypeCode,omitempty" xml:"cbc:InvoiceTypeCode"`
	DocumentCurrencyCode    []Text            `json:"DocumentCurrencyCode,omitempty" xml:"cbc:DocumentCurrencyCode"`
	TaxCurrencyCode         []Text            `json:"TaxCurrencyCode,omitempty" xml:"cbc:TaxCurrencyCode"`
	InvoicePeriod           []InvoicePeriod   `json:"InvoicePeriod,omitempty" xml:"cac:InvoicePeriod"`
	AccountingSupplierParty []PartyRole       `json:"AccountingSupplierParty,omitempty" xml:"cac:AccountingSupplierParty"`
	AccountingCustomerParty []PartyRole       `json:"AccountingCustomerParty,omitempty" xml:"cac:AccountingCustomerParty"`
	PaymentMeans            []PaymentMeans    `json:"PaymentMeans,omitempty" xml:"cac:PaymentMeans"`
	PaymentTerms            []PaymentTerms    `json:"PaymentTerms,omitempty" xml:"cac:PaymentTerms"`
	AllowanceCharge         []AllowanceCharge `json:"AllowanceCharge,omitempty" xml:"cac:AllowanceCharge"`
	TaxTotal                []TaxTotal        `json:"TaxTotal,omitempty" xml:"cac:TaxTotal"`
	LegalMonetaryTotal      []MonetaryTotal   `json:"LegalMonetaryTotal,omitempty" xml:"cac:LegalMonetaryTotal"`
	InvoiceLine             []InvoiceLine     `json:"InvoiceLine,omitempty" xml:"cac:InvoiceLine"`
}

// InvoicePeriod is the billing period
type InvoicePeriod struct {
	StartDate   []Text `json:"StartDate,omitempty" xml:"cbc:StartDate"`
	EndDate     []Text `json:"EndDate,omitempty" xml:"cbc:EndDate"`
	Description []Text `json:"Description,omitempty" xml:"cbc:Description"`
}

// PartyRole wraps the party acting as supplier or customer
type PartyRole struct {
	Party []Party `json:"Party,omitempty" xml:"cac:Party"`
}

// Party is a supplier or buyer
type Party struct {
	PartyIdentification []PartyIdentification `json:"PartyIdentification,omitempty" xml:"cac:PartyIdentification"`
	PostalAddress       []Address             `json:"PostalAddress,omitempty" xml:"cac:PostalAddress"`
	PartyLegalEntity    []PartyLegalEntity    `json:"PartyLegalEntity,omitempty" xml:"cac:PartyLegalEntity"`
	Contact             []Contact             `json:"Contact,omitempty" xml:"cac:Contact"`
}

// PartyIdentification carries one identifier (TIN, BRN or SST)
type PartyIdentification struct {
	ID []Identifier `json:"ID,omitempty" xml:"cbc:ID"`
}

// Address is a postal address
type Address struct {
	CityName             []Text        `json:"CityName,omitempty" xml:"cbc:CityName"`
	PostalZone           []Text        `json:"PostalZone,omitempty" xml:"cbc:PostalZone"`
	CountrySubentityCode []Text        `json:"CountrySubentityCode,omitempty" xml:"cbc:CountrySubentityCode"`
	AddressLine          []AddressLine `json:"AddressLine,omitempty" xml:"cac:AddressLine"`
	Country              []Country     `json:"Country,omitempty" xml:"cac:Country"`
}

// AddressLine is one free-text address line
type AddressLine struct {
	Line []Text `json:"Line,omitempty" xml:"cbc:Line"`
}

// Country holds an ISO 3166-1 alpha-3 code
type Country struct {
	IdentificationCode []Code `json:"IdentificationCode,omitempty" xml:"cbc:IdentificationCode"`
}

// PartyLegalEntity holds the registered name
type PartyLegalEntity struct {
	RegistrationName []Text `json:"RegistrationName,omitempty" xml:"cbc:RegistrationName"`
}

// Contact holds telephone and e-mail
type Contact struct {
	Telephone      []Text `json:"Telephone,omitempty" xml:"cbc:Telephone"`
	ElectronicMail []Text `json:"ElectronicMail,omitempty" xml:"cbc:ElectronicMail"`
}

// PaymentMeans is one payment method
type PaymentMeans struct {
	PaymentMeansCode      []Text             `json:"PaymentMeansCode,omitempty" xml:"cbc:PaymentMeansCode"`
	PayeeFinancialAccount []FinancialAccount `json:"PayeeFinancialAccount,omitempty" xml:"cac:PayeeFinancialAccount"`
}

// FinancialAccount is the payee bank account
type FinancialAccount struct {
	ID []Text `json:"ID,omitempty" xml:"cbc:ID"`
}

// PaymentTerms is a free-text payment terms note
type PaymentTerms struct {
	Note []Text `json:"Note,omitempty" xml:"cbc:Note"`
}

// AllowanceCharge is a discount (ChargeIndicator false) or a charge
type AllowanceCharge struct {
	ChargeIndicator         []Indicator `json:"ChargeIndicator,omitempty" xml:"cbc:ChargeIndicator"`
	AllowanceChargeReason   []Text      `json:"AllowanceChargeReason,omitempty" xml:"cbc:AllowanceChargeReason"`
	MultiplierFactorNumeric []Numeric   `json:"MultiplierFactorNumeric,omitempty" xml:"cbc:MultiplierFactorNumeric"`
	Amount                  []Amount    `json:"Amount,omitempty" xml:"cbc:Amount"`
}

// TaxTotal is the tax amount with its breakdown
type TaxTotal struct {
	TaxAmount   []Amount      `json:"TaxAmount,omitempty" xml:"cbc:TaxAmount"`
	TaxSubtotal []TaxSubtotal `json:"TaxSubtotal,omitempty" xml:"cac:TaxSubtotal"`
}

// TaxSubtotal is the tax for one tax category and rate
type TaxSubtotal struct {
	TaxableAmount []Amount      `json:"TaxableAmount,omitempty" xml:"cbc:TaxableAmount"`
	TaxAmount     []Amount      `json:"TaxAmount,omitempty" xml:"cbc:TaxAmount"`
	Percent       []Numeric     `json:"Percent,omitempty" xml:"cbc:Percent"`
	TaxCategory   []TaxCategory `json:"TaxCategory,omitempty" xml:"cac:TaxCategory"`
}

// TaxCategory is standard ("01") or exempt ("E")
type TaxCategory struct {
	ID                 []Text      `json:"ID,omitempty" xml:"cbc:ID"`
	TaxExemptionReason []Text      `json:"TaxExemptionReason,omitempty" xml:"cbc:TaxExemptionReason"`
	TaxScheme          []TaxScheme `json:"TaxScheme,omitempty" xml:"cac:TaxScheme"`
}

// TaxScheme identifies the tax scheme
type TaxScheme struct {
	ID []Identifier `json:"ID,omitempty" xml:"cbc:ID"`
}

// MonetaryTotal holds the document totals
type MonetaryTotal struct {
	TaxExclusiveAmount    []Amount `json:"TaxExclusiveAmount,omitempty" xml:"cbc:TaxExclusiveAmount"`
	TaxInclusiveAmount    []Amount `json:"TaxInclusiveAmount,omitempty" xml:"cbc:TaxInclusiveAmount"`
	AllowanceTotalAmount  []Amount `json:"AllowanceTotalAmount,omitempty" xml:"cbc:AllowanceTotalAmount"`
	ChargeTotalAmount     []Amount `json:"ChargeTotalAmount,omitempty" xml:"cbc:ChargeTotalAmount"`
	PrepaidAmount         []Amount `json:"PrepaidAmount,omitempty" xml:"cbc:PrepaidAmount"`
	PayableRoundingAmount []Amount `json:"PayableRoundingAmount,omitempty" xml:"cbc:PayableRoundingAmount"`
	PayableAmount         []Amount `json:"PayableAmount,omitempty" xml:"cbc:PayableAmount"`
}

// InvoiceLine is a single line of the invoice
type InvoiceLine struct {
	ID                  []Text            `json:"ID,omitempty" xml:"cbc:ID"`
	InvoicedQuantity    []Quantity        `json:"InvoicedQuantity,omitempty" xml:"cbc:InvoicedQuantity"`
	LineExtensionAmount []Amount          `json:"LineExtensionAmount,omitempty" xml:"cbc:LineExtensionAmount"`
	AllowanceCharge     []AllowanceCharge `json:"AllowanceCharge,omitempty" xml:"cac:AllowanceCharge"`
	TaxTotal            []TaxTotal        `json:"TaxTotal,omitempty" xml:"cac:TaxTotal"`
	Item                []Item            `json:"Item,omitempty" xml:"cac:Item"`
	Price               []Price           `json:"Price,omitempty" xml:"cac:Price"`
}

// Item describes what was sold
type Item struct {
	Description             []Text                    `json:"Description,omitempty" xml:"cbc:Description"`
	OriginCountry           []Country                 `json:"OriginCountry,omitempty" xml:"cac:OriginCountry"`
	CommodityClassification []CommodityClassification `json:"CommodityClassification,omitempty" xml:"cac:CommodityClassification"`
}

// CommodityClassification holds the item classification code
type CommodityClassification struct {
	ItemClassificationCode []Code `json:"ItemClassificationCode,omitempty" xml:"cbc:ItemClassificationCode"`
}

// Price is the unit price
type Price struct {
	PriceAmount []Amount `json:"PriceAmount,omitempty" xml:"cbc:PriceAmount"`
}
