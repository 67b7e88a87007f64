package myinvois

import (
	"context"
	"crypto/x509"
	"io"

	"github.com/rezonia/myinvois/internal/document"
	"github.com/rezonia/myinvois/internal/signature"
	"github.com/rezonia/myinvois/internal/signature/trust"
	xmlsig "github.com/rezonia/myinvois/internal/signature/xml"
)

type (
	// Document is one UBL invoice as submitted to the platform
	Document = document.Document
	// Envelope wraps documents with the UBL namespace keys
	Envelope = document.Envelope
	// TransformOption configures Transform
	TransformOption = document.Option

	Signer             = xmlsig.Signer
	VerificationResult = signature.VerificationResult
	SignatureError     = signature.SignatureError
)

// ErrCodeNoSignature is the SignatureError code Verify reports for unsigned XML
const ErrCodeNoSignature = signature.ErrCodeNoSignature

// Transform converts an invoice into its UBL document
func Transform(inv *Invoice, opts ...TransformOption) (*Document, error) {
	return document.Transform(inv, opts...)
}

// WithStrictTime fails Transform on a malformed issue time instead of
// falling back to midnight.
func WithStrictTime() TransformOption { return document.WithStrictTime() }

// WithValidation runs Invoice.Validate before transforming.
func WithValidation() TransformOption { return document.WithValidation() }

// NewEnvelope wraps docs for submission
func NewEnvelope(docs ...Document) *Envelope { return document.NewEnvelope(docs...) }

// ParseEnvelope decodes a UBL JSON envelope
func ParseEnvelope(r io.Reader) (*Envelope, error) { return document.ParseEnvelope(r) }

// RenderXML renders doc as UBL 2.1 XML
func RenderXML(doc *Document) ([]byte, error) { return xmlsig.RenderXMLBytes(doc) }

// NewSignerFromFiles loads a PEM certificate and RSA key for enveloped signatures
func NewSignerFromFiles(certFile, keyFile string) (*Signer, error) {
	return xmlsig.NewSignerFromFiles(certFile, keyFile)
}

// Verify checks an enveloped XML signature against roots.
func Verify(ctx context.Context, data []byte, roots ...*x509.Certificate) (*VerificationResult, error) {
	ts, err := trust.NewTrustStore(trust.WithCertificates(roots...))
	if err != nil {
		return nil, err
	}
	return xmlsig.NewXMLVerifier(ts).Verify(ctx, data)
}
