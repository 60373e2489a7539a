package commands

import (
	"fmt"

	"gorm.io/gorm"

	"landivo/internal/config"
	"landivo/internal/database"
)

// DBFunc opens the database a command operates on.
type DBFunc func() (*gorm.DB, error)

// EnvDB opens the database named by DATABASE_URL and DB_DRIVER.
func EnvDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}
	return db, nil
}
