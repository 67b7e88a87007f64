package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/myinvois/internal/model"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate invoice JSON files",
	Long: `Validate one or more invoice JSON files before transforming them.

Checks performed:
  - Required fields present (number, type, version, date, parties, lines)
  - Code table membership (invoice type, currency, state, country,
    payment mode, tax type, classification)
  - Issue time in HH:MM:SSZ form
  - Dates in YYYY-MM-DD form and non-negative amounts

Examples:
  myinvois validate invoice.json
  myinvois validate invoices/ --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		result := validateFile(file)
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
			if r.Valid {
				fmt.Fprintf(out, "✓ %s: VALID\n", r.File)
				continue
			}
			fmt.Fprintf(out, "✗ %s: INVALID\n", r.File)
			for _, e := range r.Errors {
				fmt.Fprintf(out, "  - %s\n", e)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}

	return nil
}

func validateFile(filePath string) *ValidationResult {
	result := &ValidationResult{
		File:  filePath,
		Valid: true,
	}

	inv, err := readInvoice(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	if err := inv.Validate(); err != nil {
		result.Valid = false
		for _, e := range unwrapJoined(err) {
			var verr *model.ValidationError
			if errors.As(e, &verr) {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", verr.Field, verr.Message))
				continue
			}
			result.Errors = append(result.Errors, e.Error())
		}
	}

	return result
}

func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
