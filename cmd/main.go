package main

import (
	"context"
	"errors"
	"os"

	"github.com/soundvault/soundvault/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			logger.Warn("failed to load config file, using defaults", "path", configPath, "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "soundvault",
		Usage:    "Acquire audio, store it, and keep it searchable",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Error("application error", "error", err)
		if isConfigError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// isConfigError reports whether err is a fatal configuration or usage error
// rather than a runtime pipeline failure.
func isConfigError(err error) bool {
	for _, sentinel := range []error{
		shared.ErrMissingConfig,
		shared.ErrInvalidConfig,
		shared.ErrMissingCredentials,
		shared.ErrMissingArgument,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
