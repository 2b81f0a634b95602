package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/soundvault/soundvault/internal/shared"
	"github.com/soundvault/soundvault/internal/ui"
	"github.com/urfave/cli/v3"
)

// Menu launches the interactive terminal UI over the pipeline engine.
func (r *Runner) Menu(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureEngine(ctx, 0); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Log.Path
	if logPath == "" {
		logPath = shared.DefaultConfig().Log.Path
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func menuCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "menu",
		Usage:  "Interactive menu for the acquisition workflows",
		Action: r.Menu,
	}
}
