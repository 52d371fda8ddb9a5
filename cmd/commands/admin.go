package commands

import (
	"restaurant-site/internal/tui"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Browse orders and reservations",
	Long: `Open the staff panel: log in, then page, sort and filter the orders and
reservations served by --api.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, err := languageTag()
		if err != nil {
			return err
		}
		return tui.RunAdminUI(newClient(), tag)
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
}
