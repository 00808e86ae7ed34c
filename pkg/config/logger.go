package config

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a zap logger from [log] settings: json output uses the
// production encoder, console output the development one.
func NewLogger(c LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	if c.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	level := c.Level
	if level == "" {
		level = "warn"
	}
	atom, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc.Level = atom

	out := "stderr"
	if c.File != "" {
		out = c.File
	}
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// NewTUILogger is NewLogger for the full-screen view, which must not write to
// the terminal: without a log file it returns a no-op logger.
func NewTUILogger(c LogConfig) (*zap.Logger, error) {
	if c.File == "" {
		return zap.NewNop(), nil
	}
	return NewLogger(c)
}
