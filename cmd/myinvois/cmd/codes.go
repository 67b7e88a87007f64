package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/myinvois/internal/codes"
)

var codesSearch string

var codesCmd = &cobra.Command{
	Use:   "codes [table]",
	Short: "List MyInvois code tables",
	Long: `Print a MyInvois code table, or the available tables when none is named.

Examples:
  myinvois codes
  myinvois codes states
  myinvois codes classifications --search medical`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCodes,
}

func init() {
	rootCmd.AddCommand(codesCmd)

	codesCmd.Flags().StringVarP(&codesSearch, "search", "s", "", "Filter by code or description")
}

func runCodes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		if jsonOutput {
			return printJSON(out, codes.Names())
		}
		for _, name := range codes.Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	table, ok := codes.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown code table %q (try: myinvois codes)", args[0])
	}

	entries := table.Search(codesSearch)
	if jsonOutput {
		return printJSON(out, entries)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t-----------")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.Code, e.Description)
	}
	return tw.Flush()
}
