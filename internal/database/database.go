package database

import (
	"fmt"

	"github.com/Camden-Kirkpatrick/helpdesk-api/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. Postgres is the production
// driver; sqlite keeps local development and the test suite self-contained.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		return gorm.Open(sqlite.Open(cfg.DB.SQLitePath), gormCfg)
	case config.DriverPostgres:
		return gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	default:
		return nil, fmt.Errorf("database: unknown driver %q", cfg.DB.Driver)
	}
}
