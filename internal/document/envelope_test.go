package document_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/myinvois/internal/document"
)

func TestEnvelope_Namespaces(t *testing.T) {
	data, err := document.MustTransform(baseInvoice()).JSON()
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, document.NamespaceInvoice, m["_D"])
	assert.Equal(t, document.NamespaceCAC, m["_A"])
	assert.Equal(t, document.NamespaceCBC, m["_B"])

	invoices, ok := m["Invoice"].([]interface{})
	require.True(t, ok)
	assert.Len(t, invoices, 1)
}

func TestEnvelope_MultipleDocuments(t *testing.T) {
	a := document.MustTransform(baseInvoice())
	inv := baseInvoice()
	inv.EInvoiceCodeOrNumber = "INV-0002"
	b := document.MustTransform(inv)

	env := document.NewEnvelope(*a, *b)
	require.Len(t, env.Invoice, 2)
	assert.Equal(t, "INV-0002", env.Invoice[1].ID[0].Value)
}

func TestParseEnvelope_RoundTrip(t *testing.T) {
	data, err := document.MustTransform(baseInvoice()).JSON()
	require.NoError(t, err)

	env, err := document.ParseEnvelope(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, env.Invoice, 1)

	doc := env.Invoice[0]
	assert.Equal(t, "INV-0001", doc.ID[0].Value)
	assert.Equal(t, "106", doc.LegalMonetaryTotal[0].PayableAmount[0].Value.String())
	assert.Equal(t, "MYR", doc.LegalMonetaryTotal[0].PayableAmount[0].CurrencyID)
	assert.Equal(t, "EA", doc.InvoiceLine[0].InvoicedQuantity[0].UnitCode)
}

func TestParseEnvelope_Errors(t *testing.T) {
	_, err := document.ParseEnvelope(strings.NewReader("not json"))
	assert.Error(t, err)

	_, err = document.ParseEnvelope(strings.NewReader(`{"_D": "x", "Invoice": []}`))
	assert.Error(t, err)
}
