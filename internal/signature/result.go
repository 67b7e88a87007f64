package signature

import (
	"crypto/x509"
	"time"
)

// VerificationResult contains the complete signature verification outcome
type VerificationResult struct {
	// Overall validity - true only if all checks pass
	Valid bool `json:"valid"`

	// Individual check results
	SignatureFound bool `json:"signature_found"`
	SignatureValid bool `json:"signature_valid"`
	CertChainValid bool `json:"cert_chain_valid"`
	CertInValidity bool `json:"cert_in_validity"`

	// Invoice number (cbc:ID) of the signed document
	DocumentID string `json:"document_id,omitempty"`

	// Signer information
	Signer *SignerInfo `json:"signer,omitempty"`

	// Signing timestamp
	SignedAt *time.Time `json:"signed_at,omitempty"`

	// Certificate chain (not serialized to JSON)
	CertChain []*x509.Certificate `json:"-"`

	// Warnings (non-fatal issues)
	Warnings []string `json:"warnings,omitempty"`

	// Errors (reasons for invalid result)
	Errors []string `json:"errors,omitempty"`

	// Format of the verified document
	Format string `json:"format,omitempty"`
}

// SignerInfo contains certificate subject information
type SignerInfo struct {
	// Common name (CN)
	Name string `json:"name"`

	// Organization (O)
	Organization string `json:"organization,omitempty"`

	// Subject serial number, which carries the TIN or BRN on MyInvois certificates
	SubjectSerial string `json:"subject_serial,omitempty"`

	// Certificate serial number
	SerialNumber string `json:"serial_number"`

	// Issuer common name
	Issuer string `json:"issuer"`

	// Certificate validity period
	ValidFrom time.Time `json:"valid_from"`
	ValidTo   time.Time `json:"valid_to"`
}

// NewVerificationResult creates a new empty result
func NewVerificationResult() *VerificationResult {
	return &VerificationResult{
		Warnings: make([]string, 0),
		Errors:   make([]string, 0),
	}
}

// AddWarning adds a warning message to the result
func (r *VerificationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AddError adds an error message and sets Valid to false
func (r *VerificationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

// SetSigner populates SignerInfo from an x509 certificate
func (r *VerificationResult) SetSigner(cert *x509.Certificate) {
	if cert == nil {
		return
	}

	signer := &SignerInfo{
		Name:          cert.Subject.CommonName,
		SubjectSerial: cert.Subject.SerialNumber,
		ValidFrom:     cert.NotBefore,
		ValidTo:       cert.NotAfter,
	}
	if cert.SerialNumber != nil {
		signer.SerialNumber = cert.SerialNumber.String()
	}

	if len(cert.Subject.Organization) > 0 {
		signer.Organization = cert.Subject.Organization[0]
	}

	if len(cert.Issuer.CommonName) > 0 {
		signer.Issuer = cert.Issuer.CommonName
	} else if len(cert.Issuer.Organization) > 0 {
		signer.Issuer = cert.Issuer.Organization[0]
	}

	r.Signer = signer
}

// CheckValidityPeriod records whether cert is valid at the given time
func (r *VerificationResult) CheckValidityPeriod(cert *x509.Certificate, at time.Time) {
	switch {
	case at.Before(cert.NotBefore):
		r.AddError(ErrCertNotYetValid(cert.Subject.CommonName).Error())
	case at.After(cert.NotAfter):
		r.AddError(ErrCertExpired(cert.Subject.CommonName).Error())
	default:
		r.CertInValidity = true
	}
}

// ComputeValidity sets the Valid field based on individual check results
func (r *VerificationResult) ComputeValidity() {
	r.Valid = r.SignatureFound &&
		r.SignatureValid &&
		r.CertChainValid &&
		r.CertInValidity &&
		len(r.Errors) == 0
}
