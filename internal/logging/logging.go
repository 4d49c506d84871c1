// Package logging builds the zap logger shared across the CLI and server.
package logging

import (
	"go.uber.org/zap"
)

// New returns a sugared logger. JSON output is meant for machine consumption;
// otherwise a human-readable development console encoder is used.
func New(jsonOutput bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if jsonOutput {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Nop returns a logger that discards everything. Stores accept this when a
// caller wants silence, matching the nil-logger convention in constructors.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
