package document

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/myinvois/internal/model"
)

// taxGroup accumulates the lines sharing a tax type and rate
type taxGroup struct {
	taxType string
	rate    decimal.Decimal

	// exemptionCode is taken from the first line of the group only
	exemptionCode string

	taxable decimal.Decimal
	tax     decimal.Decimal
}

// groupTaxes groups items by (taxType, taxRate) in order of first occurrence
func groupTaxes(items []model.LineItem) []*taxGroup {
	var groups []*taxGroup
	index := make(map[string]*taxGroup)

	for _, item := range items {
		// String normalizes trailing zeros, so 6 and 6.00 share a key
		key := item.TaxType + "|" + item.TaxRate.String()

		g, ok := index[key]
		if !ok {
			g = &taxGroup{
				taxType:       item.TaxType,
				rate:          item.TaxRate,
				exemptionCode: item.TaxExemptionReasonCode,
				taxable:       decimal.Zero,
				tax:           decimal.Zero,
			}
			index[key] = g
			groups = append(groups, g)
		}

		g.taxable = g.taxable.Add(item.TotalTaxableAmountPerLine)
		g.tax = g.tax.Add(item.TaxAmount)
	}

	return groups
}

func (b *builder) taxSubtotals(groups []*taxGroup) []TaxSubtotal {
	if len(groups) == 0 {
		return nil
	}

	out := make([]TaxSubtotal, 0, len(groups))
	for _, g := range groups {
		out = append(out, TaxSubtotal{
			TaxableAmount: b.amount(g.taxable),
			TaxAmount:     b.amount(g.tax),
			Percent:       numeric(g.rate),
			TaxCategory:   taxCategory(g.exemptionCode),
		})
	}
	return out
}
