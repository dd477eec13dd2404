// File: internal/logging/logging.go
// Author: momentics <momentics@gmail.com>
//
// zap logger construction shared by the harness and the CLI.

package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a logger for level (debug, info, warn, error). debug selects the
// development encoder; anything else the production JSON encoder.
func New(level string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(level) {
	case "debug":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
		cfg.Level = ParseLevel(level)
	}
	return cfg.Build()
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(level string) zap.AtomicLevel {
	switch strings.ToLower(level) {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
