package logger

import (
	"go.uber.org/zap"
)

// New builds the application logger for env. Production logs JSON at info,
// development logs everything to the console, and any other environment
// (the CLI default) only surfaces warnings and errors.
func New(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "development":
		return zap.NewDevelopment()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.DisableStacktrace = true
	return cfg.Build()
}
