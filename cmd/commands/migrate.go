package commands

import (
	"restaurant-site/pkg/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long: `Create the users, orders and reservations tables when they do not exist.
Running it again is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup("migrate")
		if err != nil {
			return err
		}
		pool, err := db.ConnectDB(cmd.Context(), cfg.Database, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := db.Migrate(cmd.Context(), pool); err != nil {
			log.Action("migration_failed").Error("Failed to apply schema", err)
			return err
		}
		log.Action("migration_applied").Info("Schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
