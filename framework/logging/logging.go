// Package logging builds the application's zap logger from configuration.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-container/framework/config"
)

// New returns a JSON production logger for APP_ENV=production and a
// console development logger otherwise. LOG_FORMAT overrides the encoding.
func New(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	switch cfg.Log.Format {
	case "":
	case "json", "console":
		zc.Encoding = cfg.Log.Format
	default:
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Log.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return logger.With(zap.String("app", cfg.App.Name)), nil
}
