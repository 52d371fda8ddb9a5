package commands

import (
	"errors"
	"fmt"
	"os"

	authdb "restaurant-site/internal/authservice/db"
	authservice "restaurant-site/internal/authservice/service"
	"restaurant-site/pkg/db"
	"restaurant-site/pkg/metrics"

	"github.com/spf13/cobra"
)

var useraddPassword string

var useraddCmd = &cobra.Command{
	Use:   "useradd USERNAME",
	Short: "Provision a staff account",
	Long: `Create a staff account able to log in to the admin views.
The password may also be given through RESTAURANT_PASSWORD.

Examples:
  restaurant useradd alice --password s3cret
  RESTAURANT_PASSWORD=s3cret restaurant useradd alice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := useraddPassword
		if password == "" {
			password = os.Getenv("RESTAURANT_PASSWORD")
		}

		cfg, log, err := setup("useradd")
		if err != nil {
			return err
		}
		pool, err := db.ConnectDB(cmd.Context(), cfg.Database, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		auth := authservice.NewAuthService(authdb.NewUserDB(pool), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, metrics.New(), log)
		id, err := auth.CreateUser(cmd.Context(), args[0], password)
		switch {
		case errors.Is(err, authservice.ErrMissingCredentials):
			return errors.New("username and password are required")
		case errors.Is(err, authdb.ErrUserExists):
			return fmt.Errorf("user %q already exists", args[0])
		case err != nil:
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", args[0], id)
		return nil
	},
}

func init() {
	useraddCmd.Flags().StringVarP(&useraddPassword, "password", "p", "", "Password of the new account")
	rootCmd.AddCommand(useraddCmd)
}
