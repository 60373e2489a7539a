// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"landivo/internal/database"
	"landivo/internal/logging"
)

const (
	defaultPort   = 8080
	defaultSender = "no-reply@landivo.com"
)

// Config holds all service settings.
type Config struct {
	DatabaseURL string
	DBDriver    string
	Port        int
	AutoMigrate bool
	Debug       bool

	MailjetPublicKey  string
	MailjetPrivateKey string
	MailSender        string

	Log logging.Options
}

// MailjetEnabled reports whether both Mailjet keys are configured.
func (c *Config) MailjetEnabled() bool {
	return c.MailjetPublicKey != "" && c.MailjetPrivateKey != ""
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:       strings.TrimSpace(getenv("DATABASE_URL")),
		DBDriver:          strings.ToLower(strings.TrimSpace(getenv("DB_DRIVER"))),
		MailjetPublicKey:  getenv("MAILJET_PUBLIC_KEY"),
		MailjetPrivateKey: getenv("MAILJET_PRIVATE_KEY"),
		MailSender:        strings.TrimSpace(getenv("MAIL_SENDER")),
		Log: logging.Options{
			Level: getenv("LOG_LEVEL"),
			File:  getenv("LOG_FILE"),
		},
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = database.DriverPostgres
	}
	if cfg.DBDriver != database.DriverPostgres && cfg.DBDriver != database.DriverSQLite {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.MailSender == "" {
		cfg.MailSender = defaultSender
	}

	var err error
	if cfg.Port, err = intVar(getenv, "PORT", defaultPort); err != nil {
		return nil, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT out of range: %d", cfg.Port)
	}
	if cfg.AutoMigrate, err = boolVar(getenv, "AUTO_MIGRATE", false); err != nil {
		return nil, err
	}
	if cfg.Debug, err = boolVar(getenv, "DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.Log.MaxSizeMB, err = intVar(getenv, "LOG_MAX_SIZE_MB", 100); err != nil {
		return nil, err
	}
	if cfg.Log.MaxBackups, err = intVar(getenv, "LOG_MAX_BACKUPS", 10); err != nil {
		return nil, err
	}
	if cfg.Log.MaxAgeDays, err = intVar(getenv, "LOG_MAX_AGE_DAYS", 28); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings needed to reach the database.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func boolVar(getenv func(string) string, key string, def bool) (bool, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
