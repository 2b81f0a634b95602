// Package fetch retrieves raw audio for resolved tracks into a transient
// working directory via yt-dlp.
package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lrstanley/go-ytdlp"

	"github.com/soundvault/soundvault/internal/models"
	"github.com/soundvault/soundvault/internal/shared"
)

const watchURL = "https://www.youtube.com/watch?v=%s"

// AudioFetcher downloads the best-available audio-only encoding of a track
// into the working directory. The local file is named by the caller-supplied
// acquisition ID rather than the track title, so concurrent fetches and
// duplicate titles never collide; the human-readable title only appears in
// the storage key minted at upload time.
type AudioFetcher struct {
	workdir string

	// run executes the download; swapped for a stub in tests.
	run func(ctx context.Context, outputTemplate, url string) error
}

// NewAudioFetcher creates an AudioFetcher writing into workdir. The directory
// is created on first use and its contents are lifecycle-managed by the
// orchestrator, never by the fetcher itself.
func NewAudioFetcher(workdir string) *AudioFetcher {
	f := &AudioFetcher{workdir: workdir}
	f.run = runYTDLP
	return f
}

// Workdir returns the transient download directory.
func (f *AudioFetcher) Workdir() string {
	return f.workdir
}

// Fetch downloads the audio for track and returns the local file path.
// Only download failures wrap shared.ErrFetchFailed, the transient class
// the orchestrator retries; bad inputs and an unwritable workdir fail
// permanently on the first attempt.
func (f *AudioFetcher) Fetch(ctx context.Context, track models.TrackRecord, acquisitionID string) (string, error) {
	if err := track.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	if acquisitionID == "" {
		return "", fmt.Errorf("%w: missing acquisition id", shared.ErrInvalidInput)
	}

	if err := os.MkdirAll(f.workdir, 0755); err != nil {
		return "", fmt.Errorf("creating workdir %s: %w", f.workdir, err)
	}

	template := filepath.Join(f.workdir, acquisitionID+".%(ext)s")
	sourceURL := fmt.Sprintf(watchURL, track.VideoID)

	if err := f.run(ctx, template, sourceURL); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrFetchFailed, err)
	}

	// yt-dlp chooses the extension; locate whatever it produced.
	matches, err := filepath.Glob(filepath.Join(f.workdir, acquisitionID+".*"))
	if err != nil {
		return "", fmt.Errorf("locating download: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: download produced no file for %q", shared.ErrFetchFailed, track.Title)
	}

	return matches[0], nil
}

func runYTDLP(ctx context.Context, outputTemplate, url string) error {
	dl := ytdlp.New().
		Format("bestaudio/best").
		NoPlaylist().
		NoWarnings().
		NoProgress().
		Output(outputTemplate)

	if _, err := dl.Run(ctx, url); err != nil {
		return err
	}
	return nil
}
