package main

import (
	"context"
	"fmt"
	"os"

	"github.com/soundvault/soundvault/internal/repositories"
	"github.com/soundvault/soundvault/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup bootstraps a working installation: a config file, the acquisition
// log schema, and the transient download directory.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing acquisition log", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := repositories.NewAcquisitionRepo(db).Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := os.MkdirAll(config.Fetch.Workdir, 0755); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	r.config = config
	r.configPath = configPath

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Acquisition log: %s\n", config.Database.Path)
	r.writePlain("Download directory: %s\n", config.Fetch.Workdir)
	r.writePlainln("Set storage credentials via config or AWS_ACCESS_KEY / AWS_SECRET_KEY / AWS_S3_BUCKET / AWS_S3_REGION.")

	return nil
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the local acquisition log",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
