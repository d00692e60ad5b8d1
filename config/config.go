// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Payroll   PayrollConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

// DatabaseConfig holds the SQLite location. ":memory:" is valid and used
// by tests and demos.
type DatabaseConfig struct {
	Path string
}

// PayrollConfig points at the optional JSON rules file consumed by the
// factory package.
type PayrollConfig struct {
	RulesPath string
}

// SchedulerConfig holds the cron expression for the nightly payroll audit.
type SchedulerConfig struct {
	CronSchedule string
	Enabled      bool
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from
		// the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getenvWithDefault("APP_PORT", "8080"),
			CORSOrigins: splitList(getenvWithDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:8080")),
		},
		Database: DatabaseConfig{
			Path: getenvWithDefault("DB_PATH", "farm.db"),
		},
		Payroll: PayrollConfig{
			RulesPath: os.Getenv("PAYROLL_RULES_PATH"),
		},
		Scheduler: SchedulerConfig{
			CronSchedule: getenvWithDefault("PAYROLL_AUDIT_CRON", "0 5 * * *"),
			Enabled:      getenvWithDefault("PAYROLL_AUDIT_ENABLED", "true") == "true",
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if c.Database.Path == "" {
		return errors.New("DB_PATH must be provided")
	}
	if c.Scheduler.Enabled && c.Scheduler.CronSchedule == "" {
		return errors.New("PAYROLL_AUDIT_CRON must be provided when the audit is enabled")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
