package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/soundvault/soundvault/internal/shared"
	"github.com/urfave/cli/v3"
)

// Artist downloads, stores, and indexes every track in an artist's catalog.
// Per-item failures are reported in the batch summary; only batch-level
// failures (unknown artist, empty catalog, cancellation) abort the run.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if name == "" {
		return fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	if err := r.ensureEngine(ctx, cmd.Int("workers")); err != nil {
		return err
	}

	r.logger.Info("acquiring artist catalog", "artist", name, "workers", cmd.Int("workers"))

	progressCh, stop := r.startProgress()
	result, err := r.engine.AcquireArtist(ctx, progressCh, name)
	stop()
	if err != nil {
		// An unknown artist or empty catalog is an expected outcome, not a failure.
		if errors.Is(err, shared.ErrArtistNotFound) || errors.Is(err, shared.ErrNoCatalogEntries) {
			return r.writePlain("No songs found for %q.\n", name)
		}
		return err
	}

	r.writePlainln("═══════════════════════════════════════")
	r.writePlain("%s\n\n", result.Summary())

	if err := r.writeResult(result, cmd.String("format")); err != nil {
		return err
	}

	if result.Failed > 0 {
		return fmt.Errorf("run finished with failures: %s", result.Summary())
	}
	return nil
}

func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "artist",
		Usage:     "Download an artist's catalog and index every track",
		ArgsUsage: "<artist name>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format (text, json, or csv)",
				Value:   "text",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent downloads (1 = sequential)",
				Value: 1,
			},
		},
		Action: r.Artist,
	}
}
