package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rezonia/myinvois/internal/document"
)

// Document status values reported by the platform
const (
	StatusSubmitted = "Submitted"
	StatusValid     = "Valid"
	StatusInvalid   = "Invalid"
	StatusCancelled = "Cancelled"
)

// Search direction values
const (
	DirectionSent     = "Sent"
	DirectionReceived = "Received"
)

// apiTimeFormat is the UTC timestamp layout used in query strings
const apiTimeFormat = "2006-01-02T15:04:05Z"

// DocumentSummary is the metadata the platform keeps for a submitted document
type DocumentSummary struct {
	UUID                  string          `json:"uuid"`
	SubmissionUID         string          `json:"submissionUid"`
	LongID                string          `json:"longId"`
	InternalID            string          `json:"internalId"`
	TypeName              string          `json:"typeName"`
	TypeVersionName       string          `json:"typeVersionName"`
	IssuerTIN             string          `json:"issuerTin"`
	IssuerName            string          `json:"issuerName"`
	ReceiverID            string          `json:"receiverId"`
	ReceiverName          string          `json:"receiverName"`
	DateTimeIssued        time.Time       `json:"dateTimeIssued"`
	DateTimeReceived      time.Time       `json:"dateTimeReceived"`
	DateTimeValidated     *time.Time      `json:"dateTimeValidated,omitempty"`
	TotalSales            decimal.Decimal `json:"totalSales"`
	TotalDiscount         decimal.Decimal `json:"totalDiscount"`
	NetAmount             decimal.Decimal `json:"netAmount"`
	Total                 decimal.Decimal `json:"total"`
	Status                string          `json:"status"`
	CancelDateTime        *time.Time      `json:"cancelDateTime,omitempty"`
	RejectRequestDateTime *time.Time      `json:"rejectRequestDateTime,omitempty"`
	DocumentStatusReason  string          `json:"documentStatusReason"`
	CreatedByUserID       string          `json:"createdByUserId"`
	IntermediaryTIN       string          `json:"intermediaryTIN,omitempty"`
	IntermediaryName      string          `json:"intermediaryName,omitempty"`
}

// RawDocument is a stored document with its original submitted content
type RawDocument struct {
	DocumentSummary
	Document string `json:"document"`
}

// Envelope decodes the stored content. Only JSON submissions can be decoded.
func (d *RawDocument) Envelope() (*document.Envelope, error) {
	env, err := document.ParseEnvelope(strings.NewReader(d.Document))
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", d.UUID, err)
	}
	return env, nil
}

// ValidationStep is one check the platform ran against a document
type ValidationStep struct {
	Status string         `json:"status"`
	Name   string         `json:"name"`
	Error  *ValidationErr `json:"error,omitempty"`
}

// ValidationErr describes a failed validation step
type ValidationErr struct {
	PropertyName string          `json:"propertyName,omitempty"`
	PropertyPath string          `json:"propertyPath,omitempty"`
	ErrorCode    string          `json:"errorCode,omitempty"`
	Error        string          `json:"error,omitempty"`
	InnerError   []ValidationErr `json:"innerError,omitempty"`
}

// ValidationResults is the outcome of platform validation
type ValidationResults struct {
	Status          string           `json:"status"`
	ValidationSteps []ValidationStep `json:"validationSteps"`
}

// DocumentDetails is a document summary plus its validation outcome
type DocumentDetails struct {
	DocumentSummary
	ValidationResults *ValidationResults `json:"validationResults,omitempty"`
}

// Metadata carries paging information for list endpoints
type Metadata struct {
	TotalPages        int    `json:"totalPages,omitempty"`
	TotalCount        int    `json:"totalCount,omitempty"`
	HasNext           bool   `json:"hasNext,omitempty"`
	ContinuationToken string `json:"continuationToken,omitempty"`
}

// DocumentList is a page of documents
type DocumentList struct {
	Result   []DocumentSummary `json:"result"`
	Metadata Metadata          `json:"metadata"`
}

// SearchParams filters SearchDocuments. Zero fields are not sent.
type SearchParams struct {
	UUID               string
	SubmissionDateFrom time.Time
	SubmissionDateTo   time.Time
	IssueDateFrom      time.Time
	IssueDateTo        time.Time
	PageNo             int
	PageSize           int
	Direction          string
	Status             string
	DocumentType       string
	SearchQuery        string
	ReceiverID         string
	ReceiverIDType     string
	ReceiverTIN        string
	IssuerTIN          string
	IssuerID           string
	IssuerIDType       string
}

func (p SearchParams) values() url.Values {
	q := url.Values{}
	setString(q, "uuid", p.UUID)
	setTime(q, "submissionDateFrom", p.SubmissionDateFrom)
	setTime(q, "submissionDateTo", p.SubmissionDateTo)
	setTime(q, "issueDateFrom", p.IssueDateFrom)
	setTime(q, "issueDateTo", p.IssueDateTo)
	setInt(q, "pageNo", p.PageNo)
	setInt(q, "pageSize", p.PageSize)
	setString(q, "invoiceDirection", p.Direction)
	setString(q, "status", p.Status)
	setString(q, "documentType", p.DocumentType)
	setString(q, "searchQuery", p.SearchQuery)
	setString(q, "receiverId", p.ReceiverID)
	setString(q, "receiverIdType", p.ReceiverIDType)
	setString(q, "receiverTin", p.ReceiverTIN)
	setString(q, "issuerTin", p.IssuerTIN)
	setString(q, "issuerId", p.IssuerID)
	setString(q, "issuerIdType", p.IssuerIDType)
	return q
}

// RecentParams filters GetRecentDocuments. Zero fields are not sent.
type RecentParams struct {
	PageNo             int
	PageSize           int
	SubmissionDateFrom time.Time
	SubmissionDateTo   time.Time
	IssueDateFrom      time.Time
	IssueDateTo        time.Time
	Direction          string
	Status             string
	DocumentType       string
	ReceiverID         string
	ReceiverIDType     string
	ReceiverTIN        string
	IssuerTIN          string
	IssuerID           string
	IssuerIDType       string
}

func (p RecentParams) values() url.Values {
	q := url.Values{}
	setInt(q, "pageNo", p.PageNo)
	setInt(q, "pageSize", p.PageSize)
	setTime(q, "submissionDateFrom", p.SubmissionDateFrom)
	setTime(q, "submissionDateTo", p.SubmissionDateTo)
	setTime(q, "issueDateFrom", p.IssueDateFrom)
	setTime(q, "issueDateTo", p.IssueDateTo)
	setString(q, "invoiceDirection", p.Direction)
	setString(q, "status", p.Status)
	setString(q, "documentType", p.DocumentType)
	setString(q, "receiverId", p.ReceiverID)
	setString(q, "receiverIdType", p.ReceiverIDType)
	setString(q, "receiverTin", p.ReceiverTIN)
	setString(q, "issuerTin", p.IssuerTIN)
	setString(q, "issuerId", p.IssuerID)
	setString(q, "issuerIdType", p.IssuerIDType)
	return q
}

// GetDocument fetches a document with its raw content
func (c *Client) GetDocument(ctx context.Context, uuid string) (*RawDocument, error) {
	var out RawDocument
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1.0/documents/" + url.PathEscape(uuid) + "/raw",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDocumentDetails fetches a document summary with validation results
func (c *Client) GetDocumentDetails(ctx context.Context, uuid string) (*DocumentDetails, error) {
	var out DocumentDetails
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1.0/documents/" + url.PathEscape(uuid) + "/details",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchDocuments searches documents sent or received by the taxpayer
func (c *Client) SearchDocuments(ctx context.Context, params SearchParams) (*DocumentList, error) {
	var out DocumentList
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1.0/documents/search",
		query:  params.values(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecentDocuments lists documents from the last 31 days
func (c *Client) GetRecentDocuments(ctx context.Context, params RecentParams) (*DocumentList, error) {
	var out DocumentList
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1.0/documents/recent",
		query:  params.values(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// StateChange is the platform's reply to a cancel or reject request
type StateChange struct {
	UUID   string `json:"uuid"`
	Status string `json:"status"`
}

// CancelDocument cancels a document the taxpayer issued
func (c *Client) CancelDocument(ctx context.Context, uuid, reason string) (*StateChange, error) {
	return c.changeState(ctx, uuid, "cancelled", reason)
}

// RejectDocument requests rejection of a document the taxpayer received
func (c *Client) RejectDocument(ctx context.Context, uuid, reason string) (*StateChange, error) {
	return c.changeState(ctx, uuid, "rejected", reason)
}

func (c *Client) changeState(ctx context.Context, uuid, status, reason string) (*StateChange, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%s document %s: reason is required", status, uuid)
	}

	var out StateChange
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/api/v1.0/documents/state/" + url.PathEscape(uuid) + "/state",
		body: map[string]string{
			"status": status,
			"reason": reason,
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateTaxpayerTIN checks a TIN against a registration identifier.
// A nil error means the pair is valid.
func (c *Client) ValidateTaxpayerTIN(ctx context.Context, tin, idType, idValue string) error {
	q := url.Values{}
	setString(q, "idType", idType)
	setString(q, "idValue", idValue)
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1.0/taxpayer/validate/" + url.PathEscape(tin),
		query:  q,
	}, nil)
}

func setString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setInt(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, strconv.Itoa(value))
	}
}

func setTime(q url.Values, key string, value time.Time) {
	if !value.IsZero() {
		q.Set(key, value.UTC().Format(apiTimeFormat))
	}
}
