package signature

import "context"

// FormatXML is the only signed format MyInvois accepts besides plain JSON
const FormatXML = "xml"

// Verifier defines the interface for signature verification
type Verifier interface {
	// Verify verifies the digital signature on the given data
	// Returns VerificationResult with detailed check outcomes
	Verify(ctx context.Context, data []byte) (*VerificationResult, error)

	// CanVerify returns true if this verifier can handle the given data format
	CanVerify(data []byte) bool

	// Format returns the format this verifier handles
	Format() string
}
