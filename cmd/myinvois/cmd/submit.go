package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/myinvois/internal/client"
	xmlsig "github.com/rezonia/myinvois/internal/signature/xml"
)

var (
	submitSigned bool
	submitPage   int
	submitSize   int
)

var submitCmd = &cobra.Command{
	Use:   "submit [files...]",
	Short: "Submit invoices to MyInvois",
	Long: `Validate, transform and submit invoice JSON files in one submission.

Documents are sent as JSON by default. With --sign they are rendered as UBL
XML and signed with --cert/--key before submission.

Examples:
  myinvois submit invoice.json
  myinvois submit invoices/ --sign --cert cert.pem --key key.pem`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSubmit,
}

var submissionCmd = &cobra.Command{
	Use:   "submission <uid>",
	Short: "Show the status of a submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		sub, err := c.GetSubmission(cmd.Context(), args[0], submitPage, submitSize)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), sub)
	},
}

func init() {
	rootCmd.AddCommand(submitCmd, submissionCmd)

	submitCmd.Flags().BoolVar(&submitSigned, "sign", false, "Submit signed UBL XML instead of JSON")
	submitCmd.Flags().StringVar(&certFile, "cert", "", "Signing certificate (PEM), with --sign")
	submitCmd.Flags().StringVar(&keyFile, "key", "", "Private key (PEM), with --sign")
	submitCmd.Flags().BoolVar(&transformStrict, "strict", false, "Fail on a malformed issue time instead of using 00:00:00Z")

	submissionCmd.Flags().IntVar(&submitPage, "page", 0, "Page of the document summary")
	submissionCmd.Flags().IntVar(&submitSize, "page-size", 0, "Page size of the document summary")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, ".json")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to submit")
	}
	if len(files) > client.MaxSubmissionDocuments {
		return fmt.Errorf("%d files exceeds the limit of %d per submission", len(files), client.MaxSubmissionDocuments)
	}

	// submissions are always validated locally first
	transformValidate = true
	docs, err := transformFiles(files, transformOptions()...)
	if err != nil {
		return err
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	var res *client.SubmissionResponse
	if submitSigned {
		if certFile == "" || keyFile == "" {
			return fmt.Errorf("--sign needs --cert and --key")
		}
		signer, err := xmlsig.NewSignerFromFiles(certFile, keyFile)
		if err != nil {
			return err
		}

		subs := make([]client.DocumentSubmission, 0, len(docs))
		for i := range docs {
			signed, err := signDocument(signer, &docs[i])
			if err != nil {
				return fmt.Errorf("%s: %w", files[i], err)
			}
			subs = append(subs, client.NewXMLSubmission(signed, docs[i].ID[0].Value))
		}
		res, err = c.Submit(cmd.Context(), subs)
		if err != nil {
			return err
		}
	} else {
		res, err = c.SubmitDocuments(cmd.Context(), docs)
		if err != nil {
			return err
		}
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), res)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Submission: %s\n", res.SubmissionUID)
	for _, d := range res.AcceptedDocuments {
		fmt.Fprintf(out, "✓ %s: %s\n", d.InvoiceCodeNumber, d.UUID)
	}
	for _, d := range res.RejectedDocuments {
		fmt.Fprintf(out, "✗ %s: [%s] %s\n", d.InvoiceCodeNumber, d.Error.Code, d.Error.Message)
		for _, detail := range d.Error.Details {
			fmt.Fprintf(out, "  - %s: %s\n", detail.Target, detail.Message)
		}
	}

	if n := len(res.RejectedDocuments); n > 0 {
		return fmt.Errorf("%d documents rejected", n)
	}
	return nil
}
