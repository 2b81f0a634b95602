// package tasks implements the acquisition pipeline workflows.
//
// The core abstraction is Engine, which composes the catalog resolver, audio
// fetcher, blob store and metadata indexer into the three user-facing
// workflows: single-song acquisition, whole-artist acquisition, and
// re-indexing from storage. The engine owns per-item cleanup, bounded retry
// of transient failures, and error aggregation; workflows emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/soundvault/soundvault/internal/models"
	"github.com/soundvault/soundvault/internal/services"
	"github.com/soundvault/soundvault/internal/shared"
)

// Stage identifies how far an item progressed through the pipeline. An item
// only advances on success of its current stage; on failure it halts at that
// stage's failed terminal.
type Stage int

const (
	StageResolved Stage = iota
	StageFetched
	StageStored
	StageIndexed
	StageResolveFailed
	StageFetchFailed
	StageStoreFailed
	StageIndexFailed
)

func (s Stage) String() string {
	switch s {
	case StageResolved:
		return "resolved"
	case StageFetched:
		return "fetched"
	case StageStored:
		return "stored"
	case StageIndexed:
		return "indexed"
	case StageResolveFailed:
		return "resolve_failed"
	case StageFetchFailed:
		return "fetch_failed"
	case StageStoreFailed:
		return "store_failed"
	case StageIndexFailed:
		return "index_failed"
	default:
		return ""
	}
}

// Failed reports whether the stage is a terminal failure state.
func (s Stage) Failed() bool {
	return s >= StageResolveFailed
}

// Status classifies an item's overall outcome.
type Status int

const (
	StatusSuccess Status = iota
	StatusNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "failed"
	default:
		return ""
	}
}

// Outcome is the per-item result record every workflow produces. Stage-local
// errors are converted into outcomes at the engine boundary; they never abort
// a batch's iteration over remaining items.
type Outcome struct {
	Query      string              // Query or artist name that produced this item
	Track      *models.TrackRecord // Resolved metadata (nil when resolution failed)
	Stage      Stage               // Final stage reached
	Status     Status              // Overall classification
	StorageKey string              // Set once the blob is stored
	Orphaned   bool                // Blob stored but index write failed (consistency-class)
	Err        error               // Failure detail, nil on success
}

// Title returns the best display name for the item.
func (o Outcome) Title() string {
	if o.Track != nil {
		return o.Track.Title
	}
	return o.Query
}

// BatchResult aggregates per-item outcomes for a batch workflow.
type BatchResult struct {
	Outcomes  []Outcome
	Succeeded int
	Skipped   int // NotFound-class items
	Failed    int
}

func (b *BatchResult) add(out Outcome) {
	b.Outcomes = append(b.Outcomes, out)
	switch out.Status {
	case StatusSuccess:
		b.Succeeded++
	case StatusNotFound:
		b.Skipped++
	default:
		b.Failed++
	}
}

// SingleResult wraps one outcome in a batch report so single-item workflows
// share the batch rendering path.
func SingleResult(out Outcome) *BatchResult {
	b := &BatchResult{}
	b.add(out)
	return b
}

// Summary renders the batch tally.
func (b *BatchResult) Summary() string {
	return fmt.Sprintf("%d succeeded, %d skipped, %d failed", b.Succeeded, b.Skipped, b.Failed)
}

// Fetcher retrieves audio for a resolved track into a transient local file
// named by the acquisition id.
type Fetcher interface {
	Fetch(ctx context.Context, track models.TrackRecord, acquisitionID string) (string, error)
}

// BlobStore uploads local files under freshly minted keys and enumerates
// stored keys.
type BlobStore interface {
	Put(ctx context.Context, localPath, name string) (string, error)
	Keys(ctx context.Context) ([]string, error)
	URI(key string) string
}

// Indexer maintains the searchable metadata documents.
type Indexer interface {
	EnsureSchema(ctx context.Context) error
	Upsert(ctx context.Context, doc models.IndexDocument) error
}

// AcquisitionLog is the metadata sidecar consulted by re-indexing.
type AcquisitionLog interface {
	Create(acq models.Acquisition) error
	GetByKey(storageKey string) (*models.Acquisition, error)
}

// Engine orchestrates the pipeline. It is the only component that sees all
// four collaborators; none of them depend on each other.
type Engine struct {
	catalog services.Catalog
	fetcher Fetcher
	store   BlobStore
	indexer Indexer
	log     AcquisitionLog

	limiter *rate.Limiter
	retries int
	backoff time.Duration
	workers int

	// removeFile is swapped in tests to observe cleanup.
	removeFile func(string) error
}

// EngineOpts contains construction options for an Engine.
type EngineOpts struct {
	Catalog services.Catalog
	Fetcher Fetcher
	Store   BlobStore
	Indexer Indexer
	Log     AcquisitionLog // optional; nil disables the sidecar

	RateLimit float64       // Resolutions+fetches per second in batch loops (default 2)
	Retries   int           // Extra attempts for transient-class failures (default 2)
	Backoff   time.Duration // Base delay between attempts (default 500ms)
	Workers   int           // Concurrent items in artist batches (default 1, sequential)
}

// NewEngine creates an Engine with the provided collaborators.
func NewEngine(opts EngineOpts) *Engine {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	} else if opts.Retries == 0 {
		opts.Retries = 2
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	return &Engine{
		catalog:    opts.Catalog,
		fetcher:    opts.Fetcher,
		store:      opts.Store,
		indexer:    opts.Indexer,
		log:        opts.Log,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		retries:    opts.Retries,
		backoff:    opts.Backoff,
		workers:    opts.Workers,
		removeFile: os.Remove,
	}
}

func (e *Engine) ready() error {
	if e.catalog == nil || e.fetcher == nil || e.store == nil || e.indexer == nil {
		return fmt.Errorf("%w: engine missing a collaborator", shared.ErrServiceUnavailable)
	}
	return nil
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// notFoundClass reports whether err is an expected empty-lookup outcome.
func notFoundClass(err error) bool {
	return errors.Is(err, shared.ErrTrackNotFound) ||
		errors.Is(err, shared.ErrArtistNotFound) ||
		errors.Is(err, shared.ErrNoCatalogEntries)
}

// retryable reports whether err is a transient-class failure worth another
// attempt. ErrFetchFailed marks download failures only; invalid inputs,
// auth failures, missing local sources, and not-found outcomes are never
// retried.
func retryable(err error) bool {
	return errors.Is(err, shared.ErrTransientIO) ||
		errors.Is(err, shared.ErrIndexUnavailable) ||
		errors.Is(err, shared.ErrFetchFailed)
}

// withRetry runs fn up to 1+retries times, backing off linearly between
// transient-class failures.
func (e *Engine) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= e.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.backoff * time.Duration(attempt)):
			}
		}
		if err = fn(); err == nil || !retryable(err) {
			return err
		}
	}
	return err
}

// AcquireSong runs the single-track workflow: resolve one query, fetch,
// store, and index it. The transient local file is removed whether or not
// the later stages succeed.
func (e *Engine) AcquireSong(ctx context.Context, progress chan<- ProgressUpdate, query string) (*Outcome, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if query == "" {
		return nil, fmt.Errorf("%w: song query", shared.ErrMissingArgument)
	}

	out := Outcome{Query: query}

	e.sendProgress(progress, resolveUpdate(query))
	track, err := e.catalog.SearchTrack(ctx, query)
	if err != nil {
		out.Err = err
		out.Stage = StageResolveFailed
		out.Status = StatusFailed
		if notFoundClass(err) {
			out.Status = StatusNotFound
		}
		return &out, nil
	}

	out.Track = track
	out.Stage = StageResolved
	e.processItem(ctx, progress, 1, 1, &out)
	return &out, nil
}

// AcquireArtist runs the by-artist batch workflow: resolve the artist's
// catalog, then fetch, store, and index each track independently. One item's
// failure never prevents processing of the remaining items.
func (e *Engine) AcquireArtist(ctx context.Context, progress chan<- ProgressUpdate, artistName string) (*BatchResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if artistName == "" {
		return nil, fmt.Errorf("%w: artist name", shared.ErrMissingArgument)
	}

	result := &BatchResult{}

	e.sendProgress(progress, resolveUpdate(artistName))
	tracks, err := e.catalog.ArtistCatalog(ctx, artistName)
	if err != nil {
		if notFoundClass(err) {
			// Informational: the batch performed zero fetch/store/index calls.
			return result, err
		}
		return nil, err
	}

	if e.workers > 1 {
		return e.acquireConcurrent(ctx, progress, artistName, tracks)
	}

	total := len(tracks)
	for i := range tracks {
		// Cooperative cancellation between items; an in-flight item always
		// runs to completion so cancellation cannot strand a half-processed blob.
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := e.limiter.Wait(ctx); err != nil {
			return result, err
		}

		out := Outcome{Query: artistName, Track: &tracks[i], Stage: StageResolved}
		e.processItem(ctx, progress, i+1, total, &out)
		result.add(out)
	}

	return result, nil
}

// acquireConcurrent is the bounded worker-pool upgrade of the artist batch:
// ordering across items is not guaranteed, but each worker still runs
// fetch, store and index strictly in order for its item. Per-item local
// files are keyed by acquisition id, so workers never collide in the
// shared download directory.
func (e *Engine) acquireConcurrent(ctx context.Context, progress chan<- ProgressUpdate, artistName string, tracks []models.TrackRecord) (*BatchResult, error) {
	jobs := make(chan models.TrackRecord, len(tracks))
	outcomes := make(chan Outcome, len(tracks))

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for track := range jobs {
				out := Outcome{Query: artistName, Track: &track, Stage: StageResolved}
				e.processItem(ctx, progress, 0, len(tracks), &out)
				outcomes <- out
			}
		}()
	}

	var cancelled error
	for _, track := range tracks {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		if err := e.limiter.Wait(ctx); err != nil {
			cancelled = err
			break
		}
		jobs <- track
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	result := &BatchResult{}
	for out := range outcomes {
		result.add(out)
	}
	return result, cancelled
}

// processItem advances one resolved item through fetch, store and index.
// It mutates out in place, recording the final stage, status, and storage
// key, and guarantees the transient local file is gone when it returns.
func (e *Engine) processItem(ctx context.Context, progress chan<- ProgressUpdate, step, total int, out *Outcome) {
	track := *out.Track
	acquisitionID := shared.GenerateID()

	var localPath string
	defer func() {
		// Bounds local disk usage to in-flight items only, success or not.
		if localPath != "" {
			_ = e.removeFile(localPath)
		}
	}()

	e.sendProgress(progress, fetchUpdate(step, total, track.Title))
	err := e.withRetry(ctx, func() error {
		path, fetchErr := e.fetcher.Fetch(ctx, track, acquisitionID)
		if fetchErr == nil {
			localPath = path
		}
		return fetchErr
	})
	if err != nil {
		out.Stage = StageFetchFailed
		out.Status = StatusFailed
		out.Err = err
		return
	}
	out.Stage = StageFetched

	e.sendProgress(progress, storeUpdate(step, total, track.Title))
	name := track.Title + filepath.Ext(localPath)
	var key string
	err = e.withRetry(ctx, func() error {
		putKey, putErr := e.store.Put(ctx, localPath, name)
		if putErr == nil {
			key = putKey
		}
		return putErr
	})
	if err != nil {
		out.Stage = StageStoreFailed
		out.Status = StatusFailed
		out.Err = err
		return
	}
	out.Stage = StageStored
	out.StorageKey = key

	if e.log != nil {
		// Sidecar write is best effort; losing it only means re-index falls
		// back to a live catalog lookup for this key.
		_ = e.log.Create(models.Acquisition{
			StorageKey: key,
			Title:      track.Title,
			Artists:    track.ArtistNames(),
			Album:      track.Album,
			VideoID:    track.VideoID,
		})
	}

	e.sendProgress(progress, indexUpdate(step, total, track.Title))
	err = e.withRetry(ctx, func() error {
		if schemaErr := e.indexer.EnsureSchema(ctx); schemaErr != nil {
			return schemaErr
		}
		return e.indexer.Upsert(ctx, models.NewIndexDocument(track, key, e.store.URI(key)))
	})
	if err != nil {
		// The blob exists without an index document: an orphan the re-index
		// workflow can repair. Surfaced distinctly from a skipped item.
		out.Stage = StageIndexFailed
		out.Status = StatusFailed
		out.Orphaned = true
		out.Err = err
		return
	}

	out.Stage = StageIndexed
	out.Status = StatusSuccess
}
