package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/myinvois/internal/signature"
	"github.com/rezonia/myinvois/internal/signature/trust"
	xmlsig "github.com/rezonia/myinvois/internal/signature/xml"
)

var caFile string

var verifyCmd = &cobra.Command{
	Use:   "verify [files...]",
	Short: "Verify XML digital signatures",
	Long: `Verify enveloped XMLDSig signatures on UBL XML invoices.

Verifies:
  - Signature validity (cryptographic verification)
  - Certificate chain (to the roots in --ca-file)
  - Certificate validity period
  - Signer information

Examples:
  myinvois verify --ca-file root.pem invoice.xml
  myinvois verify --ca-file root.pem signed/ --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&caFile, "ca-file", "", "Trusted root certificates (PEM)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".xml")
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to verify")
	}

	var opts []trust.TrustStoreOption
	if caFile != "" {
		opts = append(opts, trust.WithCertsFromFile(caFile))
	}

	trustStore, err := trust.NewTrustStore(opts...)
	if err != nil {
		return fmt.Errorf("failed to create trust store: %w", err)
	}
	if trustStore.Len() == 0 {
		printVerbose("No trusted roots configured; certificate chains will not verify\n")
	}

	verifier := xmlsig.NewXMLVerifier(trustStore)

	results := make([]*VerifyResult, 0, len(files))
	allValid := true

	for _, file := range files {
		printVerbose("Verifying: %s\n", file)

		result := verifyFile(cmd.Context(), verifier, file)
		results = append(results, result)

		if !result.Valid {
			allValid = false
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if err := printJSON(out, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			printVerifyResult(cmd, r)
		}
	}

	if !allValid {
		return fmt.Errorf("verification failed for some files")
	}

	return nil
}

func printVerifyResult(cmd *cobra.Command, r *VerifyResult) {
	out := cmd.OutOrStdout()

	statusIcon := "✓"
	statusText := "VALID"
	if !r.Valid {
		statusIcon = "✗"
		statusText = "INVALID"
	}

	fmt.Fprintf(out, "%s %s: %s\n", statusIcon, r.File, statusText)

	if r.DocumentID != "" {
		fmt.Fprintf(out, "  Invoice: %s\n", r.DocumentID)
	}

	if r.Signer != nil {
		fmt.Fprintf(out, "  Signer: %s\n", r.Signer.Name)
		if r.Signer.Organization != "" {
			fmt.Fprintf(out, "  Org:    %s\n", r.Signer.Organization)
		}
		if r.Signer.Issuer != "" {
			fmt.Fprintf(out, "  Issuer: %s\n", r.Signer.Issuer)
		}
	}

	if r.SignedAt != nil {
		fmt.Fprintf(out, "  Signed: %s\n", r.SignedAt.Format(time.RFC3339))
	}

	if r.SignatureFound {
		fmt.Fprintf(out, "  Signature:  %s\n", mark(r.SignatureValid))
		fmt.Fprintf(out, "  Cert Chain: %s\n", mark(r.CertChainValid))
		fmt.Fprintf(out, "  In Validity: %s\n", mark(r.CertInValidity))
	}

	for _, e := range r.Errors {
		fmt.Fprintf(out, "  ✗ %s\n", e)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(out, "  ⚠ %s\n", w)
	}
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func verifyFile(parent context.Context, verifier signature.Verifier, filePath string) *VerifyResult {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, 60*time.Second)
	defer cancel()

	result := &VerifyResult{File: filePath}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read file: %v", err))
		return result
	}

	if !verifier.CanVerify(data) {
		result.Errors = append(result.Errors, "not an XML document")
		return result
	}

	result.Format = verifier.Format()

	verifyResult, err := verifier.Verify(ctx, data)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("verification error: %v", err))
		return result
	}

	result.Valid = verifyResult.Valid
	result.SignatureFound = verifyResult.SignatureFound
	result.SignatureValid = verifyResult.SignatureValid
	result.CertChainValid = verifyResult.CertChainValid
	result.CertInValidity = verifyResult.CertInValidity
	result.DocumentID = verifyResult.DocumentID
	result.SignedAt = verifyResult.SignedAt
	result.Errors = append(result.Errors, verifyResult.Errors...)
	result.Warnings = append(result.Warnings, verifyResult.Warnings...)

	if verifyResult.Signer != nil {
		result.Signer = &SignerOutput{
			Name:          verifyResult.Signer.Name,
			Organization:  verifyResult.Signer.Organization,
			SubjectSerial: verifyResult.Signer.SubjectSerial,
			SerialNumber:  verifyResult.Signer.SerialNumber,
			Issuer:        verifyResult.Signer.Issuer,
			ValidFrom:     &verifyResult.Signer.ValidFrom,
			ValidTo:       &verifyResult.Signer.ValidTo,
		}
	}

	return result
}

// VerifyResult holds the result of verifying a single file
type VerifyResult struct {
	File           string        `json:"file"`
	Valid          bool          `json:"valid"`
	Format         string        `json:"format,omitempty"`
	DocumentID     string        `json:"document_id,omitempty"`
	SignatureFound bool          `json:"signature_found"`
	SignatureValid bool          `json:"signature_valid"`
	CertChainValid bool          `json:"cert_chain_valid"`
	CertInValidity bool          `json:"cert_in_validity"`
	Signer         *SignerOutput `json:"signer,omitempty"`
	SignedAt       *time.Time    `json:"signed_at,omitempty"`
	Errors         []string      `json:"errors,omitempty"`
	Warnings       []string      `json:"warnings,omitempty"`
}

// SignerOutput holds signer info for output
type SignerOutput struct {
	Name          string     `json:"name,omitempty"`
	Organization  string     `json:"organization,omitempty"`
	SubjectSerial string     `json:"subject_serial,omitempty"`
	SerialNumber  string     `json:"serial_number,omitempty"`
	Issuer        string     `json:"issuer,omitempty"`
	ValidFrom     *time.Time `json:"valid_from,omitempty"`
	ValidTo       *time.Time `json:"valid_to,omitempty"`
}
