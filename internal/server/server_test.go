package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/myinvois/internal/document"
	"github.com/rezonia/myinvois/internal/server"
)

const invoiceJSON = `{
	"eInvoiceCodeOrNumber": "INV-0001",
	"eInvoiceTypeCode": "01",
	"eInvoiceVersion": "1.0",
	"eInvoiceDate": "2024-07-23",
	"eInvoiceTime": "10:15:00Z",
	"invoiceCurrencyCode": "MYR",
	"supplier": {
		"tin": "C2584563222",
		"registrationNumber": "202001234567",
		"name": "Supplier Sdn Bhd",
		"contactNumber": "+60123456789",
		"address": {"cityName": "Kuala Lumpur", "state": "14", "country": "MYS"}
	},
	"buyer": {
		"tin": "C2584563200",
		"registrationNumber": "201901234567",
		"name": "Buyer Sdn Bhd",
		"contactNumber": "+60198765432",
		"address": {"cityName": "Shah Alam", "state": "10", "country": "MYS"}
	},
	"invoiceLineItems": [{
		"quantity": 2,
		"totalTaxableAmountPerLine": 100,
		"discountAmount": 0,
		"discountRate": 0,
		"taxAmount": 6,
		"taxRate": 6,
		"taxType": "01",
		"itemClassificationCode": "022",
		"itemDescription": "Widget",
		"unitPrice": 50
	}],
	"taxTotal": {"taxAmount": 6},
	"legalMonetaryTotal": {
		"taxExclusiveAmount": 100,
		"taxInclusiveAmount": 106,
		"allowanceTotalAmount": 0,
		"chargeTotalAmount": 0,
		"prepaidAmount": 0,
		"payableRoundingAmount": 0,
		"payableAmount": 106
	}
}`

func newTestServer() *server.Server {
	config := &server.Config{
		Address: ":8080",
		Debug:   true,
	}
	return server.NewServer(config)
}

func do(srv *server.Server, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	w := do(newTestServer(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestRequestID(t *testing.T) {
	srv := newTestServer()

	w := do(srv, http.MethodGet, "/health", "")
	assert.NotEmpty(t, w.Header().Get(server.HeaderRequestID))

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set(server.HeaderRequestID, "req-123")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	assert.Equal(t, "req-123", w.Header().Get(server.HeaderRequestID))
}

func TestTransformEndpoint(t *testing.T) {
	w := do(newTestServer(), http.MethodPost, "/api/v1/transform", invoiceJSON)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	env, err := document.ParseEnvelope(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, document.NamespaceInvoice, env.D)
	require.Len(t, env.Invoice, 1)
	doc := env.Invoice[0]
	assert.Equal(t, "INV-0001", doc.ID[0].Value)
	require.Len(t, doc.InvoiceLine, 1)
	assert.Equal(t, "106", doc.LegalMonetaryTotal[0].PayableAmount[0].Value.String())
}

func TestTransformEndpoint_XML(t *testing.T) {
	w := do(newTestServer(), http.MethodPost, "/api/v1/transform?format=xml", invoiceJSON)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "<cbc:ID>INV-0001</cbc:ID>")
	assert.Contains(t, w.Body.String(), `xmlns:cac="`+document.NamespaceCAC+`"`)
}

func TestTransformEndpoint_UnknownFormat(t *testing.T) {
	w := do(newTestServer(), http.MethodPost, "/api/v1/transform?format=pdf", invoiceJSON)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransformEndpoint_EmptyBody(t *testing.T) {
	w := do(newTestServer(), http.MethodPost, "/api/v1/transform", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransformEndpoint_InvalidJSON(t *testing.T) {
	w := do(newTestServer(), http.MethodPost, "/api/v1/transform", "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "invalid invoice", response.Error)
}

func TestTransformEndpoint_MalformedTime(t *testing.T) {
	body := strings.Replace(invoiceJSON, `"10:15:00Z"`, `"10:15"`, 1)
	srv := newTestServer()

	// lenient by default
	w := do(srv, http.MethodPost, "/api/v1/transform", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"IssueTime":[{"_":"00:00:00Z"}]`)

	w = do(srv, http.MethodPost, "/api/v1/transform?strict=true", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response server.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Valid)
	require.Len(t, response.Errors, 1)
	assert.Equal(t, "eInvoiceTime", response.Errors[0].Field)
}

func TestTransformEndpoint_Validation(t *testing.T) {
	body := strings.Replace(invoiceJSON, `"invoiceCurrencyCode": "MYR"`, `"invoiceCurrencyCode": "XXX"`, 1)

	body = strings.Replace(body, `"state": "14"`, `"state": "99"`, 1)

	w := do(newTestServer(), http.MethodPost, "/api/v1/transform?validate=true", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response server.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Valid)

	fields := make([]string, 0, len(response.Errors))
	for _, e := range response.Errors {
		fields = append(fields, e.Field)
	}
	// every issue is reported, not only the first
	assert.ElementsMatch(t, []string{"invoiceCurrencyCode", "supplier.address.state"}, fields)
}

func TestValidateEndpoint(t *testing.T) {
	w := do(newTestServer(), http.MethodPost, "/api/v1/validate", invoiceJSON)

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.ValidationResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.True(t, response.Valid)
	assert.Empty(t, response.Errors)
}

func TestValidateEndpoint_MissingFields(t *testing.T) {
	body := strings.Replace(invoiceJSON, `"eInvoiceCodeOrNumber": "INV-0001"`, `"eInvoiceCodeOrNumber": ""`, 1)
	body = strings.Replace(body, `"state": "14"`, `"state": "99"`, 1)

	w := do(newTestServer(), http.MethodPost, "/api/v1/validate", body)
	assert.Equal(t, http.StatusOK, w.Code)

	var response server.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.False(t, response.Valid)
	fields := make([]string, 0, len(response.Errors))
	for _, e := range response.Errors {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "eInvoiceCodeOrNumber")
	assert.Contains(t, fields, "supplier.address.state")
}

func TestVerifyEndpoint_NotXML(t *testing.T) {
	w := do(newTestServer(), http.MethodPost, "/api/v1/verify", "plain text")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var response server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Details, "[UNSUPPORTED_FORMAT] unsupported format: text/plain")
}

func TestVerifyEndpoint_Unsigned(t *testing.T) {
	srv := newTestServer()

	w := do(srv, http.MethodPost, "/api/v1/transform?format=xml", invoiceJSON)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(srv, http.MethodPost, "/api/v1/verify", w.Body.String())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCodesEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(srv, http.MethodGet, "/api/v1/codes/states", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response server.CodesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "states", response.Table)
	assert.Equal(t, 17, response.Count)

	w = do(srv, http.MethodGet, "/api/v1/codes/currencies?q=ringgit", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Entries)
	assert.Equal(t, "MYR", response.Entries[0].Code)

	w = do(srv, http.MethodGet, "/api/v1/codes/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(srv, http.MethodGet, "/api/v1/codes", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tax-types")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer()

	do(srv, http.MethodPost, "/api/v1/transform", invoiceJSON)
	do(srv, http.MethodPost, "/api/v1/transform?strict=true", strings.Replace(invoiceJSON, `"10:15:00Z"`, `"bad"`, 1))

	w := do(srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `myinvois_transforms_total{outcome="success"} 1`)
	assert.Contains(t, body, `myinvois_transforms_total{outcome="malformed_time"} 1`)
	assert.Contains(t, body, "myinvois_transform_duration_seconds_count 2")
	assert.Contains(t, body, "myinvois_transform_line_items_sum 2")
}

// Benchmark tests

func BenchmarkTransform(b *testing.B) {
	srv := newTestServer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transform", strings.NewReader(invoiceJSON))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}

func BenchmarkHealth(b *testing.B) {
	srv := newTestServer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}
