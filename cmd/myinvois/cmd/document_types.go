package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var documentTypesCmd = &cobra.Command{
	Use:   "document-types [id [version]]",
	Short: "List document types or show one type or version",
	Long: `List the document types MyInvois accepts, or show one type or one version
of a type.

Examples:
  myinvois document-types
  myinvois document-types 45
  myinvois document-types 45 454`,
	Args: cobra.MaximumNArgs(2),
	RunE: runDocumentTypes,
}

func init() {
	rootCmd.AddCommand(documentTypesCmd)
}

func runDocumentTypes(cmd *cobra.Command, args []string) error {
	ids := make([]int, len(args))
	for i, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("invalid id %q", a)
		}
		ids[i] = id
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var result interface{}
	switch len(ids) {
	case 0:
		result, err = c.GetDocumentTypes(ctx)
	case 1:
		result, err = c.GetDocumentType(ctx, ids[0])
	default:
		result, err = c.GetDocumentTypeVersion(ctx, ids[0], ids[1])
	}
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}
