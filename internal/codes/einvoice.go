package codes

// EInvoiceType identifies the kind of document being issued
type EInvoiceType string

const (
	EInvoiceTypeInvoice              EInvoiceType = "01"
	EInvoiceTypeCreditNote           EInvoiceType = "02"
	EInvoiceTypeDebitNote            EInvoiceType = "03"
	EInvoiceTypeRefundNote           EInvoiceType = "04"
	EInvoiceTypeSelfBilledInvoice    EInvoiceType = "11"
	EInvoiceTypeSelfBilledCreditNote EInvoiceType = "12"
	EInvoiceTypeSelfBilledDebitNote  EInvoiceType = "13"
	EInvoiceTypeSelfBilledRefundNote EInvoiceType = "14"
)

// EInvoiceTypes lists the supported document types
var EInvoiceTypes = register(newTable("einvoice-types", []Entry{
	{"01", "Invoice"},
	{"02", "Credit Note"},
	{"03", "Debit Note"},
	{"04", "Refund Note"},
	{"11", "Self-billed Invoice"},
	{"12", "Self-billed Credit Note"},
	{"13", "Self-billed Debit Note"},
	{"14", "Self-billed Refund Note"},
}))

// TaxType identifies the tax levied on a line
type TaxType string

const (
	TaxTypeSales          TaxType = "01"
	TaxTypeService        TaxType = "02"
	TaxTypeTourism        TaxType = "03"
	TaxTypeHighValueGoods TaxType = "04"
	TaxTypeLowValueGoods  TaxType = "05"
	TaxTypeNotApplicable  TaxType = "06"
	TaxTypeExemption      TaxType = "E"
)

// TaxTypes lists the tax types
var TaxTypes = register(newTable("tax-types", []Entry{
	{"01", "Sales Tax"},
	{"02", "Service Tax"},
	{"03", "Tourism Tax"},
	{"04", "High-Value Goods Tax"},
	{"05", "Sales Tax on Low Value Goods"},
	{"06", "Not Applicable"},
	{"E", "Tax exemption (where applicable)"},
}))

// PaymentMode identifies how an invoice is settled
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "01"
	PaymentModeCheque       PaymentMode = "02"
	PaymentModeBankTransfer PaymentMode = "03"
	PaymentModeCreditCard   PaymentMode = "04"
	PaymentModeDebitCard    PaymentMode = "05"
	PaymentModeEWallet      PaymentMode = "06"
	PaymentModeDigitalBank  PaymentMode = "07"
	PaymentModeOthers       PaymentMode = "08"
)

// PaymentModes lists the payment means codes
var PaymentModes = register(newTable("payment-modes", []Entry{
	{"01", "Cash"},
	{"02", "Cheque"},
	{"03", "Bank Transfer"},
	{"04", "Credit Card"},
	{"05", "Debit Card"},
	{"06", "e-Wallet / Digital Wallet"},
	{"07", "Digital Bank"},
	{"08", "Others"},
}))

// States lists Malaysian state codes used as CountrySubentityCode
var States = register(newTable("states", []Entry{
	{"01", "Johor"},
	{"02", "Kedah"},
	{"03", "Kelantan"},
	{"04", "Melaka"},
	{"05", "Negeri Sembilan"},
	{"06", "Pahang"},
	{"07", "Pulau Pinang"},
	{"08", "Perak"},
	{"09", "Perlis"},
	{"10", "Selangor"},
	{"11", "Terengganu"},
	{"12", "Sabah"},
	{"13", "Sarawak"},
	{"14", "Wilayah Persekutuan Kuala Lumpur"},
	{"15", "Wilayah Persekutuan Labuan"},
	{"16", "Wilayah Persekutuan Putrajaya"},
	{"17", "Not Applicable"},
}))
