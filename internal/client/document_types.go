package client

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

// DocumentTypeVersion is one published schema version of a document type
type DocumentTypeVersion struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ActiveFrom    time.Time  `json:"activeFrom"`
	ActiveTo      *time.Time `json:"activeTo,omitempty"`
	VersionNumber float64    `json:"versionNumber"`
	Status        string     `json:"status"`
}

// WorkflowParameter is a platform rule attached to a document type
type WorkflowParameter struct {
	ID         int        `json:"id"`
	Parameter  string     `json:"parameter"`
	Value      int        `json:"value"`
	ActiveFrom time.Time  `json:"activeFrom"`
	ActiveTo   *time.Time `json:"activeTo,omitempty"`
}

// DocumentType describes an e-invoice type the platform accepts
type DocumentType struct {
	ID                   int                   `json:"id"`
	InvoiceTypeCode      int                   `json:"invoiceTypeCode"`
	Description          string                `json:"description"`
	ActiveFrom           time.Time             `json:"activeFrom"`
	ActiveTo             *time.Time            `json:"activeTo,omitempty"`
	DocumentTypeVersions []DocumentTypeVersion `json:"documentTypeVersions"`
	WorkflowParameters   []WorkflowParameter   `json:"workflowParameters,omitempty"`
}

// DocumentTypeVersionDetail is a version together with its schema
type DocumentTypeVersionDetail struct {
	DocumentTypeVersion
	InvoiceTypeCode int    `json:"invoiceTypeCode"`
	Document        string `json:"document"`
}

// GetDocumentTypes lists every document type
func (c *Client) GetDocumentTypes(ctx context.Context) ([]DocumentType, error) {
	var out struct {
		Result []DocumentType `json:"result"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/v1.0/documenttypes"}, &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

// GetDocumentType fetches a single document type
func (c *Client) GetDocumentType(ctx context.Context, id int) (*DocumentType, error) {
	var out DocumentType
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1.0/documenttypes/" + strconv.Itoa(id),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDocumentTypeVersion fetches a document type version with its schema
func (c *Client) GetDocumentTypeVersion(ctx context.Context, id, versionID int) (*DocumentTypeVersionDetail, error) {
	var out DocumentTypeVersionDetail
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/v1.0/documenttypes/" + strconv.Itoa(id) + "/versions/" + strconv.Itoa(versionID),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
