package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/lifecycle"
	"github.com/jonathan/job-tracker/internal/logging"
)

// openService connects the database and wires the lifecycle service for a
// one-shot CLI command. The caller closes the returned DB when done.
func openService(ctx context.Context) (*lifecycle.Service, *db.DB, *zap.SugaredLogger, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	logger, err := logging.New(cfg.LogJSON)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	database, err := db.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, nil, nil, err
	}

	return lifecycle.New(database, cfg.VaultDir, logger), database, logger, nil
}
