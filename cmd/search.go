package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/soundvault/soundvault/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search queries the metadata index. An empty query lists every document.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))

	if err := r.ensureIndex(); err != nil {
		return err
	}

	docs, err := r.index.Search(ctx, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(docs, cmd.Bool("pretty"))
	}

	if len(docs) == 0 {
		return r.writePlain("No documents found.\n")
	}

	for i, doc := range docs {
		r.writePlain("%d. %s - %s\n", i+1, doc.Title, strings.Join(doc.Artists, ", "))
		r.writePlain("   %s\n", doc.StoragePath)
	}
	return r.writePlain("\n%d document(s)\n", len(docs))
}

// SearchDelete removes a single document by id. Administrative; the pipeline
// never deletes documents on its own.
func (r *Runner) SearchDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("%w: document id", shared.ErrMissingArgument)
	}

	if err := r.ensureIndex(); err != nil {
		return err
	}

	if err := r.index.Delete(ctx, id); err != nil {
		return err
	}

	r.logger.Info("document deleted", "id", id)
	return r.writePlain("✓ Deleted %s\n", id)
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Query the metadata index",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Search,
		Commands: []*cli.Command{
			{
				Name:      "delete",
				Usage:     "Delete one document by id",
				ArgsUsage: "<id>",
				Action:    r.SearchDelete,
			},
		},
	}
}
