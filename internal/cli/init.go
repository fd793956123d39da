// Package cli provides the bootstrap steps shared by every command: environment
// loading, configuration, logging and store creation.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/joho/godotenv"

	"finance/internal/backend"
	"finance/internal/config"
	applog "finance/internal/log"
)

// LoadEnvFile loads a .env file for local use. A missing file is not an error.
func LoadEnvFile(filenames ...string) {
	_ = godotenv.Load(filenames...)
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the logger described by cfg, writing to out, and installs it
// as the slog default.
func SetupLogger(cfg *config.Config, out io.Writer) (*applog.Logger, error) {
	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: applog.ComponentCLI,
		Output:    out,
	})
	applog.SetDefault(logger)
	return logger, nil
}

// InitBackend opens the store selected by cfg.
func InitBackend(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize backend",
			applog.FieldBackend, bc.Type.String(), applog.FieldError, err)
		return nil, fmt.Errorf("init backend: %w", err)
	}
	return res, nil
}
