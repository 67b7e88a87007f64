package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/myinvois/internal/document"
	xmlsig "github.com/rezonia/myinvois/internal/signature/xml"
)

var (
	transformFormat   string
	transformStrict   bool
	transformValidate bool
	outputFile        string
)

var transformCmd = &cobra.Command{
	Use:   "transform [files...]",
	Short: "Convert invoice JSON into a UBL document",
	Long: `Convert one or more simplified invoice JSON files into the UBL 2.1
document MyInvois accepts.

JSON output is a single submission envelope holding every document.
XML output renders one unsigned Invoice element and accepts one file.

Examples:
  myinvois transform invoice.json
  myinvois transform invoices/ -o envelope.json
  myinvois transform invoice.json --format xml --strict`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTransform,
}

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().StringVar(&transformFormat, "format", "json", "Output format (json, xml)")
	transformCmd.Flags().BoolVar(&transformStrict, "strict", false, "Fail on a malformed issue time instead of using 00:00:00Z")
	transformCmd.Flags().BoolVar(&transformValidate, "validate", false, "Validate invoices before transforming")
	transformCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
}

func transformOptions() []document.Option {
	var opts []document.Option
	if transformStrict {
		opts = append(opts, document.WithStrictTime())
	}
	if transformValidate {
		opts = append(opts, document.WithValidation())
	}
	return opts
}

func transformFiles(files []string, opts ...document.Option) ([]document.Document, error) {
	docs := make([]document.Document, 0, len(files))
	for _, file := range files {
		printVerbose("Transforming: %s\n", file)

		inv, err := readInvoice(file)
		if err != nil {
			return nil, err
		}

		doc, err := document.Transform(inv, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func runTransform(cmd *cobra.Command, args []string) error {
	if transformFormat != "json" && transformFormat != "xml" {
		return fmt.Errorf("unsupported format: %s", transformFormat)
	}

	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to transform")
	}
	if transformFormat == "xml" && len(files) > 1 {
		return fmt.Errorf("xml output takes a single invoice, got %d", len(files))
	}

	docs, err := transformFiles(files, transformOptions()...)
	if err != nil {
		return err
	}

	var data []byte
	if transformFormat == "xml" {
		data, err = xmlsig.RenderXMLBytes(&docs[0])
	} else {
		data, err = document.NewEnvelope(docs...).JSON()
	}
	if err != nil {
		return err
	}

	w, closeFn, err := openOutput(outputFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}
