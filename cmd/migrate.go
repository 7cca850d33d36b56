package cmd

import (
	"fmt"
	"log"

	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/config"
	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.DB.Driver == config.DriverSQLite {
		db, err := database.Open(cfg)
		if err != nil {
			return fmt.Errorf("db: %w", err)
		}
		if err := database.Migrate(cfg, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	} else if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Println("migrate up: ok")
	return nil
}
