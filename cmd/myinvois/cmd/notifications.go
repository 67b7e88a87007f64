package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rezonia/myinvois/internal/client"
)

var (
	notifFrom     string
	notifTo       string
	notifType     string
	notifLanguage string
	notifStatus   string
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List notifications sent to the taxpayer",
	Long: `List notifications sent to the taxpayer.

Examples:
  myinvois notifications --from 2024-07-01 --to 2024-07-31
  myinvois notifications --status delivered --language ms`,
	Args: cobra.NoArgs,
	RunE: runNotifications,
}

func init() {
	rootCmd.AddCommand(notificationsCmd)

	f := notificationsCmd.Flags()
	f.StringVar(&notifFrom, "from", "", "From date (YYYY-MM-DD or RFC 3339)")
	f.StringVar(&notifTo, "to", "", "To date (YYYY-MM-DD or RFC 3339)")
	f.StringVar(&notifType, "type", "", "Notification type ID")
	f.StringVar(&notifLanguage, "language", "", "ms or en")
	f.StringVar(&notifStatus, "status", "", "pending, batched, delivered, error")
	f.IntVar(&docPageNo, "page", 0, "Page number")
	f.IntVar(&docPageSize, "page-size", 0, "Page size")
}

func runNotifications(cmd *cobra.Command, args []string) error {
	from, err := parseDate(notifFrom)
	if err != nil {
		return err
	}
	to, err := parseDate(notifTo)
	if err != nil {
		return err
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	list, err := c.GetNotifications(cmd.Context(), client.NotificationParams{
		DateFrom: from,
		DateTo:   to,
		Type:     notifType,
		Language: notifLanguage,
		Status:   notifStatus,
		PageNo:   docPageNo,
		PageSize: docPageSize,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), list)
}
