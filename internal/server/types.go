package server

import (
	"time"

	"github.com/rezonia/myinvois/internal/codes"
)

// ValidationIssue is a single failed check on an invoice
type ValidationIssue struct {
	Field   string `json:"field,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

// ValidationResponse is the response for validate endpoint and for
// transform requests that fail validation
type ValidationResponse struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// CodesResponse is the response for code table lookups
type CodesResponse struct {
	Table   string        `json:"table"`
	Count   int           `json:"count"`
	Entries []codes.Entry `json:"entries"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error    string   `json:"error"`
	Details  string   `json:"details,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// VerifyResponse is the response for signature verification endpoint
type VerifyResponse struct {
	Valid          bool              `json:"valid"`
	SignatureFound bool              `json:"signature_found"`
	SignatureValid bool              `json:"signature_valid"`
	CertChainValid bool              `json:"cert_chain_valid"`
	CertInValidity bool              `json:"cert_in_validity"`
	DocumentID     string            `json:"document_id,omitempty"`
	Format         string            `json:"format,omitempty"`
	Signer         *SignerInfoOutput `json:"signer,omitempty"`
	SignedAt       *time.Time        `json:"signed_at,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
	Errors         []string          `json:"errors,omitempty"`
}

// SignerInfoOutput holds signer info for API response
type SignerInfoOutput struct {
	Name          string     `json:"name,omitempty"`
	Organization  string     `json:"organization,omitempty"`
	SubjectSerial string     `json:"subject_serial,omitempty"`
	SerialNumber  string     `json:"serial_number,omitempty"`
	Issuer        string     `json:"issuer,omitempty"`
	ValidFrom     *time.Time `json:"valid_from,omitempty"`
	ValidTo       *time.Time `json:"valid_to,omitempty"`
}
