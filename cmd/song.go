package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/soundvault/soundvault/internal/shared"
	"github.com/soundvault/soundvault/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Song downloads, stores, and indexes a single track resolved from a search query.
func (r *Runner) Song(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: song query", shared.ErrMissingArgument)
	}

	if err := r.ensureEngine(ctx, 0); err != nil {
		return err
	}

	r.logger.Info("acquiring song", "query", query)

	progressCh, stop := r.startProgress()
	out, err := r.engine.AcquireSong(ctx, progressCh, query)
	stop()
	if err != nil {
		return err
	}

	result := tasks.SingleResult(*out)
	if err := r.writeResult(result, cmd.String("format")); err != nil {
		return err
	}

	if result.Failed > 0 {
		return fmt.Errorf("run finished with failures: %s", result.Summary())
	}
	return nil
}

func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "song",
		Usage:     "Download a single song and index it",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format (text, json, or csv)",
				Value:   "text",
			},
		},
		Action: r.Song,
	}
}
