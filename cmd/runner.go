package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/soundvault/soundvault/internal/fetch"
	"github.com/soundvault/soundvault/internal/formatter"
	"github.com/soundvault/soundvault/internal/index"
	"github.com/soundvault/soundvault/internal/models"
	"github.com/soundvault/soundvault/internal/repositories"
	"github.com/soundvault/soundvault/internal/services"
	"github.com/soundvault/soundvault/internal/shared"
	"github.com/soundvault/soundvault/internal/storage"
	"github.com/soundvault/soundvault/internal/tasks"
	"github.com/urfave/cli/v3"
)

// searchIndex is the slice of the index client the CLI needs outside the
// pipeline engine.
type searchIndex interface {
	Search(ctx context.Context, query string) ([]models.IndexDocument, error)
	Delete(ctx context.Context, id string) error
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	engine     *tasks.Engine
	index      searchIndex
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner. Engine and
// Index are normally left nil and built on demand from the config; tests
// inject doubles.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Engine     *tasks.Engine
	Index      searchIndex
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		engine:     opts.Engine,
		index:      opts.Index,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		songCommand, artistCommand, reindexCommand, searchCommand, menuCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// ensureEngine builds the pipeline engine from configuration on first use.
// Validation failures are fatal configuration errors. workers <= 0 keeps the
// sequential default.
func (r *Runner) ensureEngine(ctx context.Context, workers int) error {
	if r.engine != nil {
		return nil
	}

	if err := r.config.Validate(); err != nil {
		return err
	}

	if r.catalog == nil {
		r.catalog = services.NewYouTubeCatalog(r.config.Catalog.BaseURL, r.httpClient)
	}

	store, err := storage.NewStore(ctx, r.config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create blob store: %w", err)
	}

	indexer, err := index.NewSongIndex(r.config.Index, nil)
	if err != nil {
		return fmt.Errorf("failed to create index client: %w", err)
	}
	if r.index == nil {
		r.index = indexer
	}

	var acqLog tasks.AcquisitionLog
	if r.config.Database.Path != "" {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			r.logger.Warn("acquisition log unavailable, continuing without it", "error", err)
		} else {
			shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
			repo := repositories.NewAcquisitionRepo(db)
			if err := repo.Migrate(); err != nil {
				r.logger.Warn("acquisition log migration failed, continuing without it", "error", err)
				db.Close()
			} else {
				r.db = db
				acqLog = repo
			}
		}
	}

	r.engine = tasks.NewEngine(tasks.EngineOpts{
		Catalog: r.catalog,
		Fetcher: fetch.NewAudioFetcher(r.config.Fetch.Workdir),
		Store:   store,
		Indexer: indexer,
		Log:     acqLog,
		Workers: workers,
	})

	return nil
}

// ensureIndex builds the index client alone, for commands that never touch
// the rest of the pipeline.
func (r *Runner) ensureIndex() error {
	if r.index != nil {
		return nil
	}

	if err := r.config.Validate(); err != nil {
		return err
	}

	indexer, err := index.NewSongIndex(r.config.Index, nil)
	if err != nil {
		return fmt.Errorf("failed to create index client: %w", err)
	}
	r.index = indexer
	return nil
}

// startProgress renders engine progress updates until the returned stop
// function is called. stop waits for the drain goroutine to finish so
// progress lines never interleave with the final report.
func (r *Runner) startProgress() (chan tasks.ProgressUpdate, func()) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		r.reportProgress(progressCh)
		close(done)
	}()

	return progressCh, func() {
		close(progressCh)
		<-done
	}
}

// reportProgress drains a progress channel, rendering one line per update.
func (r *Runner) reportProgress(progressCh <-chan tasks.ProgressUpdate) {
	for update := range progressCh {
		switch update.Phase {
		case tasks.Resolve:
			r.writePlain("🔍 %s\n", update.Message)
		case tasks.Enumerate:
			r.writePlain("🔍 %s\n", update.Message)
		case tasks.Fetch:
			r.writePlain("📥 [%d/%d] %s\n", update.Step, update.Total, update.Message)
		case tasks.Store:
			r.writePlain("📤 [%d/%d] %s\n", update.Step, update.Total, update.Message)
		case tasks.Index:
			r.writePlain("📝 [%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}
}

// writeResult renders a batch report in the requested format.
func (r *Runner) writeResult(result *tasks.BatchResult, format string) error {
	switch format {
	case "json":
		data, err := formatter.BatchToJSON(result)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		return r.writePlain("%s\n", data)
	case "csv":
		data, err := formatter.BatchToCSV(result)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		return r.writePlain("%s", data)
	case "text", "":
		return r.writePlain("%s", formatter.BatchToText(result))
	default:
		return fmt.Errorf("%w: unknown format '%s' (must be text, json, or csv)", shared.ErrInvalidInput, format)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
