package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/myinvois/internal/client"
)

var (
	docEnvelope bool
	docReason   string

	docPageNo      int
	docPageSize    int
	docDirection   string
	docStatus      string
	docType        string
	docQuery       string
	docIssuedFrom  string
	docIssuedTo    string
	docSubmitFrom  string
	docSubmitTo    string
	docReceiverTIN string
	docIssuerTIN   string
	tinIDType      string
	tinIDValue     string
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Retrieve and manage submitted documents",
}

var documentsGetCmd = &cobra.Command{
	Use:   "get <uuid>",
	Short: "Fetch a document with its submitted content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		doc, err := c.GetDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if docEnvelope {
			env, err := doc.Envelope()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), env)
		}
		return printJSON(cmd.OutOrStdout(), doc)
	},
}

var documentsDetailsCmd = &cobra.Command{
	Use:   "details <uuid>",
	Short: "Fetch a document summary with validation results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		details, err := c.GetDocumentDetails(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), details)
	},
}

var documentsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search documents sent or received",
	Long: `Search documents by issue or submission date and other filters.

Dates are YYYY-MM-DD or RFC 3339. The platform requires either an issue
date range or a submission date range.

Examples:
  myinvois documents search --issued-from 2024-07-01 --issued-to 2024-07-31
  myinvois documents search --submitted-from 2024-07-01 --submitted-to 2024-07-02 --status Valid`,
	Args: cobra.NoArgs,
	RunE: runDocumentsSearch,
}

var documentsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List documents from the last 31 days",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsRecent,
}

var documentsCancelCmd = &cobra.Command{
	Use:   "cancel <uuid>",
	Short: "Cancel an issued document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		res, err := c.CancelDocument(cmd.Context(), args[0], docReason)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var documentsRejectCmd = &cobra.Command{
	Use:   "reject <uuid>",
	Short: "Request rejection of a received document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		res, err := c.RejectDocument(cmd.Context(), args[0], docReason)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var taxpayerCmd = &cobra.Command{
	Use:   "taxpayer-validate <tin>",
	Short: "Check a TIN against a registration identifier",
	Long: `Check a TIN against a registration identifier.

Examples:
  myinvois taxpayer-validate C2584563200 --id-type BRN --id-value 201901234567`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		if err := c.ValidateTaxpayerTIN(cmd.Context(), args[0], tinIDType, tinIDValue); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid for %s %s\n", args[0], tinIDType, tinIDValue)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(taxpayerCmd)
	documentsCmd.AddCommand(documentsGetCmd, documentsDetailsCmd, documentsSearchCmd,
		documentsRecentCmd, documentsCancelCmd, documentsRejectCmd)

	documentsGetCmd.Flags().BoolVar(&docEnvelope, "envelope", false, "Print only the decoded document envelope")

	for _, c := range []*cobra.Command{documentsCancelCmd, documentsRejectCmd} {
		c.Flags().StringVar(&docReason, "reason", "", "Reason shown to the counterparty")
		_ = c.MarkFlagRequired("reason")
	}

	for _, c := range []*cobra.Command{documentsSearchCmd, documentsRecentCmd} {
		f := c.Flags()
		f.IntVar(&docPageNo, "page", 0, "Page number")
		f.IntVar(&docPageSize, "page-size", 0, "Page size")
		f.StringVar(&docDirection, "direction", "", "Sent or Received")
		f.StringVar(&docStatus, "status", "", "Valid, Invalid, Cancelled or Submitted")
		f.StringVar(&docType, "type", "", "Document type code, e.g. 01")
		f.StringVar(&docIssuedFrom, "issued-from", "", "Issue date from")
		f.StringVar(&docIssuedTo, "issued-to", "", "Issue date to")
		f.StringVar(&docSubmitFrom, "submitted-from", "", "Submission date from")
		f.StringVar(&docSubmitTo, "submitted-to", "", "Submission date to")
		f.StringVar(&docReceiverTIN, "receiver-tin", "", "Receiver TIN")
		f.StringVar(&docIssuerTIN, "issuer-tin", "", "Issuer TIN")
	}
	documentsSearchCmd.Flags().StringVarP(&docQuery, "query", "q", "", "Free text search")

	taxpayerCmd.Flags().StringVar(&tinIDType, "id-type", "BRN", "Identifier type: NRIC, PASSPORT, BRN or ARMY")
	taxpayerCmd.Flags().StringVar(&tinIDValue, "id-value", "", "Identifier value")
	_ = taxpayerCmd.MarkFlagRequired("id-value")
}

// dateFilters parses the shared date flags
type dateFilters struct {
	issuedFrom, issuedTo, submitFrom, submitTo time.Time
}

func parseDateFilters() (dateFilters, error) {
	var (
		f   dateFilters
		err error
	)
	for _, p := range []struct {
		flag, value string
		dst         *time.Time
	}{
		{"issued-from", docIssuedFrom, &f.issuedFrom},
		{"issued-to", docIssuedTo, &f.issuedTo},
		{"submitted-from", docSubmitFrom, &f.submitFrom},
		{"submitted-to", docSubmitTo, &f.submitTo},
	} {
		if *p.dst, err = parseDate(p.value); err != nil {
			return f, fmt.Errorf("--%s: %w", p.flag, err)
		}
	}
	return f, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want YYYY-MM-DD or RFC 3339, got %q", s)
	}
	return t, nil
}

func runDocumentsSearch(cmd *cobra.Command, args []string) error {
	dates, err := parseDateFilters()
	if err != nil {
		return err
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	list, err := c.SearchDocuments(cmd.Context(), client.SearchParams{
		IssueDateFrom:      dates.issuedFrom,
		IssueDateTo:        dates.issuedTo,
		SubmissionDateFrom: dates.submitFrom,
		SubmissionDateTo:   dates.submitTo,
		PageNo:             docPageNo,
		PageSize:           docPageSize,
		Direction:          docDirection,
		Status:             docStatus,
		DocumentType:       docType,
		SearchQuery:        docQuery,
		ReceiverTIN:        docReceiverTIN,
		IssuerTIN:          docIssuerTIN,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), list)
}

func runDocumentsRecent(cmd *cobra.Command, args []string) error {
	dates, err := parseDateFilters()
	if err != nil {
		return err
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	list, err := c.GetRecentDocuments(cmd.Context(), client.RecentParams{
		IssueDateFrom:      dates.issuedFrom,
		IssueDateTo:        dates.issuedTo,
		SubmissionDateFrom: dates.submitFrom,
		SubmissionDateTo:   dates.submitTo,
		PageNo:             docPageNo,
		PageSize:           docPageSize,
		Direction:          docDirection,
		Status:             docStatus,
		DocumentType:       docType,
		ReceiverTIN:        docReceiverTIN,
		IssuerTIN:          docIssuerTIN,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), list)
}
