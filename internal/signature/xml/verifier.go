package xml

import (
	"context"
	"crypto/x509"
	"time"

	dsig "github.com/russellhaering/goxmldsig"

	"github.com/rezonia/myinvois/internal/signature"
	"github.com/rezonia/myinvois/internal/signature/trust"
)

// XMLVerifier verifies XMLDSig signatures on UBL invoices
type XMLVerifier struct {
	trustStore *trust.TrustStore
	extractor  *SignatureExtractor
	now        func() time.Time
}

// NewXMLVerifier creates a new XML signature verifier
func NewXMLVerifier(ts *trust.TrustStore) *XMLVerifier {
	return &XMLVerifier{
		trustStore: ts,
		extractor:  NewSignatureExtractor(),
		now:        time.Now,
	}
}

// Verify verifies the XMLDSig signature in the given XML data.
// A missing signature is returned as an error; every other failure is
// recorded on the result.
func (v *XMLVerifier) Verify(ctx context.Context, data []byte) (*signature.VerificationResult, error) {
	result := signature.NewVerificationResult()
	result.Format = signature.FormatXML

	extraction, err := v.extractor.Extract(data)
	if err != nil {
		result.AddError(err.Error())
		return result, signature.ErrNoSignature()
	}

	result.SignatureFound = true
	result.DocumentID = extraction.DocumentID

	certs, err := ExtractCertificates(extraction.SignatureElement)
	if err != nil {
		result.AddError(err.Error())
		result.ComputeValidity()
		return result, nil
	}
	cert := certs[0]
	result.SetSigner(cert)

	// The signing certificate is validated separately against the trust
	// store, so goxmldsig only checks the signature made with it.
	validationCtx := dsig.NewDefaultValidationContext(&dsig.MemoryX509CertificateStore{
		Roots: []*x509.Certificate{cert},
	})
	validationCtx.Clock = dsig.NewFakeClockAt(cert.NotBefore)

	if _, err := validationCtx.Validate(extraction.Document.Root()); err != nil {
		result.AddError(signature.ErrInvalidSignature(err).Error())
	} else {
		result.SignatureValid = true
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	chain, err := v.trustStore.VerifyChain(cert, certs[1:])
	if err != nil {
		result.AddError(signature.ErrChainInvalid(err).Error())
	} else {
		result.CertChain = chain
		result.CertChainValid = true
	}

	result.CheckValidityPeriod(cert, v.now())

	if signedAt := extractSigningTime(extraction.SignatureElement); signedAt != nil {
		result.SignedAt = signedAt
	} else {
		result.AddWarning("signature carries no signing time")
	}

	result.ComputeValidity()
	return result, nil
}

// CanVerify returns true if the data appears to be XML
func (v *XMLVerifier) CanVerify(data []byte) bool {
	return looksLikeXML(data)
}

// Format returns the format this verifier handles
func (v *XMLVerifier) Format() string {
	return signature.FormatXML
}

var _ signature.Verifier = (*XMLVerifier)(nil)
