package client

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/rezonia/myinvois/internal/document"
	"github.com/rezonia/myinvois/internal/model"
)

// Submission formats
const (
	FormatJSON = "JSON"
	FormatXML  = "XML"
)

// MaxSubmissionDocuments is the platform limit per submission
const MaxSubmissionDocuments = 100

// DocumentSubmission is one encoded document in a submission request
type DocumentSubmission struct {
	Format       string `json:"format"`
	Document     string `json:"document"`
	DocumentHash string `json:"documentHash"`
	CodeNumber   string `json:"codeNumber"`
}

// NewSubmission encodes content as base64 with its SHA-256 hex digest
func NewSubmission(format string, content []byte, codeNumber string) DocumentSubmission {
	sum := sha256.Sum256(content)
	return DocumentSubmission{
		Format:       format,
		Document:     base64.StdEncoding.EncodeToString(content),
		DocumentHash: hex.EncodeToString(sum[:]),
		CodeNumber:   codeNumber,
	}
}

// NewJSONSubmission wraps doc in its envelope and encodes it
func NewJSONSubmission(doc *document.Document) (DocumentSubmission, error) {
	data, err := doc.JSON()
	if err != nil {
		return DocumentSubmission{}, err
	}
	return NewSubmission(FormatJSON, data, documentID(doc)), nil
}

// NewXMLSubmission encodes an already rendered (and usually signed) UBL XML document
func NewXMLSubmission(content []byte, codeNumber string) DocumentSubmission {
	return NewSubmission(FormatXML, content, codeNumber)
}

func documentID(doc *document.Document) string {
	if len(doc.ID) == 0 {
		return ""
	}
	return doc.ID[0].Value
}

// AcceptedDocument is a document the platform queued for validation
type AcceptedDocument struct {
	UUID              string `json:"uuid"`
	InvoiceCodeNumber string `json:"invoiceCodeNumber"`
}

// RejectedDocument is a document refused at submission time
type RejectedDocument struct {
	InvoiceCodeNumber string        `json:"invoiceCodeNumber"`
	Error             RejectedError `json:"error"`
}

// RejectedError explains a rejected document
type RejectedError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Target  string                 `json:"target,omitempty"`
	Details []model.APIErrorDetail `json:"details,omitempty"`
}

// SubmissionResponse is the platform's reply to SubmitDocuments
type SubmissionResponse struct {
	SubmissionUID     string             `json:"submissionUid"`
	AcceptedDocuments []AcceptedDocument `json:"acceptedDocuments"`
	RejectedDocuments []RejectedDocument `json:"rejectedDocuments"`
}

// SubmitDocuments submits transformed documents as JSON
func (c *Client) SubmitDocuments(ctx context.Context, docs []document.Document) (*SubmissionResponse, error) {
	subs := make([]DocumentSubmission, 0, len(docs))
	for i := range docs {
		sub, err := NewJSONSubmission(&docs[i])
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		subs = append(subs, sub)
	}
	return c.Submit(ctx, subs)
}

// Submit sends pre-encoded documents in a single submission
func (c *Client) Submit(ctx context.Context, subs []DocumentSubmission) (*SubmissionResponse, error) {
	if len(subs) == 0 {
		return nil, errors.New("submit: no documents")
	}
	if len(subs) > MaxSubmissionDocuments {
		return nil, fmt.Errorf("submit: %d documents exceeds the limit of %d", len(subs), MaxSubmissionDocuments)
	}

	var out SubmissionResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/v1.0/documentsubmissions",
		body: map[string][]DocumentSubmission{
			"documents": subs,
		},
	}, &out)
	if err != nil {
		return nil, err
	}

	c.logger.Info("documents submitted",
		zap.String("submission_uid", out.SubmissionUID),
		zap.Int("accepted", len(out.AcceptedDocuments)),
		zap.Int("rejected", len(out.RejectedDocuments)),
	)
	return &out, nil
}

// Submission status values
const (
	SubmissionInProgress     = "InProgress"
	SubmissionValid          = "Valid"
	SubmissionPartiallyValid = "PartiallyValid"
	SubmissionInvalid        = "Invalid"
)

// Submission is the processing state of a submission
type Submission struct {
	SubmissionUID    string            `json:"submissionUid"`
	DocumentCount    int               `json:"documentCount"`
	DateTimeReceived time.Time         `json:"dateTimeReceived"`
	OverallStatus    string            `json:"overallStatus"`
	DocumentSummary  []DocumentSummary `json:"documentSummary"`
}

// GetSubmission fetches the status of a submission and its documents
func (c *Client) GetSubmission(ctx context.Context, uid string, pageNo, pageSize int) (*Submission, error) {
	q := url.Values{}
	setInt(q, "pageNo", pageNo)
	setInt(q, "pageSize", pageSize)

	var out Submission
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1.0/documentsubmissions/" + url.PathEscape(uid),
		query:  q,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
