package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Obtain an access token",
	Long: `Log in with the configured client credentials and print the access token.

With --on-behalf-of the token is issued for the represented taxpayer.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	tok, err := c.Token(cmd.Context())
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), map[string]interface{}{
		"access_token": tok.AccessToken,
		"token_type":   tok.Type(),
		"expires_at":   tok.Expiry.UTC().Format(time.RFC3339),
		"on_behalf_of": c.OnBehalfOf(),
	})
}
