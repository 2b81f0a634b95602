package tasks

import (
	"context"

	"github.com/soundvault/soundvault/internal/models"
	"github.com/soundvault/soundvault/internal/shared"
)

// Reindex runs the re-index-from-storage workflow: enumerate every stored
// key, recover metadata for it, and upsert the corresponding index document.
// It never re-fetches or re-uploads audio; it only backfills or repairs the
// index from blobs that already exist, which is exactly what orphaned blobs
// need.
//
// Metadata comes from the acquisition log when the key was recorded there;
// otherwise the workflow falls back to a live catalog lookup on the key's
// file-stem title. Keys the provider cannot resolve are skipped with a
// not-found outcome rather than aborting the enumeration.
func (e *Engine) Reindex(ctx context.Context, progress chan<- ProgressUpdate) (*BatchResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	keys, err := e.store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, enumerateUpdate(len(keys)))

	result := &BatchResult{}
	if len(keys) == 0 {
		return result, nil
	}

	if err := e.withRetry(ctx, func() error { return e.indexer.EnsureSchema(ctx) }); err != nil {
		return nil, err
	}

	for i, key := range keys {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		out := e.reindexKey(ctx, progress, i+1, len(keys), key)
		result.add(out)
	}

	return result, nil
}

func (e *Engine) reindexKey(ctx context.Context, progress chan<- ProgressUpdate, step, total int, key string) Outcome {
	title := shared.TitleFromKey(key)
	out := Outcome{Query: title, StorageKey: key}

	track := e.loggedTrack(key)
	if track == nil {
		if err := e.limiter.Wait(ctx); err != nil {
			out.Stage = StageResolveFailed
			out.Status = StatusFailed
			out.Err = err
			return out
		}

		resolved, err := e.catalog.SearchTrack(ctx, title)
		if err != nil {
			out.Stage = StageResolveFailed
			out.Status = StatusFailed
			if notFoundClass(err) {
				out.Status = StatusNotFound
			}
			out.Err = err
			return out
		}
		track = resolved
	}

	out.Track = track
	out.Stage = StageResolved

	e.sendProgress(progress, indexUpdate(step, total, track.Title))
	err := e.withRetry(ctx, func() error {
		return e.indexer.Upsert(ctx, models.NewIndexDocument(*track, key, e.store.URI(key)))
	})
	if err != nil {
		out.Stage = StageIndexFailed
		out.Status = StatusFailed
		out.Err = err
		return out
	}

	out.Stage = StageIndexed
	out.Status = StatusSuccess
	return out
}

// loggedTrack returns sidecar metadata for key, or nil when the log has no
// row (or no log is configured).
func (e *Engine) loggedTrack(key string) *models.TrackRecord {
	if e.log == nil {
		return nil
	}
	acq, err := e.log.GetByKey(key)
	if err != nil || acq == nil {
		return nil
	}
	track := acq.Track()
	if track.Title == "" {
		return nil
	}
	return &track
}
