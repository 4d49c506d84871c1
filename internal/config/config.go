// Package config provides configuration loading and validation for the CLI
// and server. Values come from the environment (a .env file is loaded by main
// before this runs); there is no process-wide singleton.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds everything the job tracker needs to run. Constructors receive
// this struct explicitly.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string

	// VaultDir is the root directory that tracker files and resume artifact
	// references resolve against when given as relative paths.
	VaultDir string

	// Port is the HTTP listen port for serve.
	Port int

	// JWTSecret signs and verifies API bearer tokens (HS256).
	JWTSecret string

	// LogJSON switches structured JSON log output on.
	LogJSON bool
}

// FromEnv builds a Config from environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		VaultDir:    os.Getenv("JOBTRACK_VAULT_DIR"),
		JWTSecret:   os.Getenv("JOBTRACK_JWT_SECRET"),
		Port:        8080,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("JOBTRACK_LOG_JSON"); v != "" {
		logJSON, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JOBTRACK_LOG_JSON %q: %w", v, err)
		}
		cfg.LogJSON = logJSON
	}

	return cfg, nil
}

// Validate checks that required values are present and sane.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.VaultDir == "" {
		return fmt.Errorf("config error: JOBTRACK_VAULT_DIR is required")
	}
	if info, err := os.Stat(c.VaultDir); err != nil || !info.IsDir() {
		return fmt.Errorf("config error: vault directory not found: %s", c.VaultDir)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	return nil
}
