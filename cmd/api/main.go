package main

import (
	"fmt"
	"os"

	"github.com/frostedfabrics/inventory-api/internal/config"
	"github.com/frostedfabrics/inventory-api/internal/infra/db"
	"github.com/frostedfabrics/inventory-api/internal/infra/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "inventory-api",
	Short:         "Inventory and production tracking REST API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	// prices go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/example.yaml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", configPath, err)
	}
	return cfg, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logger.New(cfg.App.Env)
		policy := db.RetryPolicy{Attempts: cfg.Postgres.RetryAttempts, Delay: cfg.Postgres.RetryDelay}
		if err := db.Migrate(cmd.Context(), cfg.Postgres.DSN, policy, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied")
		return nil
	},
}
