package client_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/myinvois/internal/client"
	"github.com/rezonia/myinvois/internal/document"
)

func testDocument(id string) document.Document {
	return document.Document{
		ID:        []document.Text{{Value: id}},
		IssueDate: []document.Text{{Value: "2024-07-01"}},
	}
}

func TestNewSubmission_HashAndEncoding(t *testing.T) {
	content := []byte(`<Invoice/>`)
	sub := client.NewXMLSubmission(content, "INV-9")

	sum := sha256.Sum256(content)
	assert.Equal(t, client.FormatXML, sub.Format)
	assert.Equal(t, hex.EncodeToString(sum[:]), sub.DocumentHash)
	assert.Equal(t, base64.StdEncoding.EncodeToString(content), sub.Document)
	assert.Equal(t, "INV-9", sub.CodeNumber)
}

func TestSubmitDocuments(t *testing.T) {
	fp := newFakePlatform(t)
	fp.handle(t, "POST /api/v1.0/documentsubmissions", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Documents []client.DocumentSubmission `json:"documents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Documents, 2)

		for _, d := range body.Documents {
			assert.Equal(t, client.FormatJSON, d.Format)

			raw, err := base64.StdEncoding.DecodeString(d.Document)
			require.NoError(t, err)
			sum := sha256.Sum256(raw)
			assert.Equal(t, hex.EncodeToString(sum[:]), d.DocumentHash)

			env, err := document.ParseEnvelope(bytes.NewReader(raw))
			require.NoError(t, err)
			assert.Equal(t, d.CodeNumber, env.Invoice[0].ID[0].Value)
		}

		writeJSON(w, http.StatusAccepted, `{
			"submissionUid":"HJSD135P2S7D8IU",
			"acceptedDocuments":[{"uuid":"F9D425P6DS7D8IU","invoiceCodeNumber":"INV-1"}],
			"rejectedDocuments":[{"invoiceCodeNumber":"INV-2","error":{"code":"DS302","message":"Duplicate submission"}}]
		}`)
	})

	res, err := fp.client().SubmitDocuments(context.Background(), []document.Document{
		testDocument("INV-1"),
		testDocument("INV-2"),
	})
	require.NoError(t, err)

	assert.Equal(t, "HJSD135P2S7D8IU", res.SubmissionUID)
	require.Len(t, res.AcceptedDocuments, 1)
	assert.Equal(t, "INV-1", res.AcceptedDocuments[0].InvoiceCodeNumber)
	require.Len(t, res.RejectedDocuments, 1)
	assert.Equal(t, "DS302", res.RejectedDocuments[0].Error.Code)
}

func TestSubmit_Limits(t *testing.T) {
	fp := newFakePlatform(t)
	c := fp.client()

	_, err := c.Submit(context.Background(), nil)
	assert.Error(t, err)

	subs := make([]client.DocumentSubmission, client.MaxSubmissionDocuments+1)
	_, err = c.Submit(context.Background(), subs)
	assert.Error(t, err)

	assert.Equal(t, int32(0), fp.tokenCalls.Load())
}

func TestGetSubmission(t *testing.T) {
	fp := newFakePlatform(t)
	fp.handle(t, "GET /api/v1.0/documentsubmissions/{uid}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "HJSD135P2S7D8IU", r.PathValue("uid"))
		assert.Equal(t, "1", r.URL.Query().Get("pageNo"))
		writeJSON(w, http.StatusOK, `{
			"submissionUid":"HJSD135P2S7D8IU",
			"documentCount":1,
			"dateTimeReceived":"2024-07-01T10:00:05Z",
			"overallStatus":"InProgress",
			"documentSummary":[{"uuid":"F9D425P6DS7D8IU","status":"Submitted","dateTimeIssued":"2024-07-01T10:00:00Z","dateTimeReceived":"2024-07-01T10:00:05Z"}]
		}`)
	})

	sub, err := fp.client().GetSubmission(context.Background(), "HJSD135P2S7D8IU", 1, 0)
	require.NoError(t, err)

	assert.Equal(t, client.SubmissionInProgress, sub.OverallStatus)
	assert.Equal(t, 1, sub.DocumentCount)
	require.Len(t, sub.DocumentSummary, 1)
	assert.Equal(t, client.StatusSubmitted, sub.DocumentSummary[0].Status)
}
