package commands

import (
	"fmt"
	"os"

	"restaurant-site/internal/client"
	"restaurant-site/pkg/config"
	"restaurant-site/pkg/logger"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

var (
	configPath string
	apiURL     string
	locale     string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "restaurant",
	Short: "Restaurant website backend and staff tools",
	Long: `restaurant runs the restaurant website API and the tools around it.

Server side:
  serve     - Start the HTTP API
  migrate   - Create the database schema
  useradd   - Provision a staff account
  notify    - Print order and reservation notifications

Client side (talks to --api):
  cart      - Manage a session cart
  order     - Place the cart as an order
  reserve   - Book a table
  admin     - Browse orders and reservations
  export    - Write orders and reservations to an .xlsx workbook`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "Path to the YAML configuration")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:3000", "Base URL of the site API")
	rootCmd.PersistentFlags().StringVar(&locale, "lang", "en", "Language used to sort text columns")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// setup loads the configuration and a logger tagged with service.
func setup(service string) (*config.Config, *logger.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(service, cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	if cfg.App.Environment != "" {
		log = log.With("environment", cfg.App.Environment)
	}
	return cfg, log, nil
}

func newClient() *client.Client {
	return client.New(apiURL)
}

func languageTag() (language.Tag, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid --lang %q: %w", locale, err)
	}
	return tag, nil
}
