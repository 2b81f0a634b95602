package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Reindex rebuilds index documents from the objects already in storage.
// Nothing is downloaded or uploaded; metadata comes from the acquisition log
// when present, the catalog provider otherwise.
func (r *Runner) Reindex(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureEngine(ctx, 0); err != nil {
		return err
	}

	r.logger.Info("re-indexing from storage")

	progressCh, stop := r.startProgress()
	result, err := r.engine.Reindex(ctx, progressCh)
	stop()
	if err != nil {
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

func reindexCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reindex",
		Usage: "Rebuild index documents from stored objects",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format (text, json, or csv)",
				Value:   "text",
			},
		},
		Action: r.Reindex,
	}
}
