package config

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a production or development logger at the configured
// level. An empty level means info. Output goes to c.File when set.
func NewLogger(c LogConfig) (*zap.Logger, error) {
	level := c.Level
	if level == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = lvl
	if c.File != "" {
		zc.OutputPaths = []string{c.File}
		zc.ErrorOutputPaths = []string{c.File}
	}
	return zc.Build()
}
