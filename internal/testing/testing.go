// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/soundvault/soundvault/internal/models"
	"github.com/soundvault/soundvault/internal/shared"
)

// MockCatalog is a configurable test double for [services.Catalog].
type MockCatalog struct {
	Track  *models.TrackRecord
	Tracks []models.TrackRecord
	Err    error
}

func (m *MockCatalog) SearchTrack(ctx context.Context, query string) (*models.TrackRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Track == nil {
		return nil, shared.ErrTrackNotFound
	}
	return m.Track, nil
}

func (m *MockCatalog) ArtistCatalog(ctx context.Context, artistName string) ([]models.TrackRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Tracks) == 0 {
		return nil, shared.ErrNoCatalogEntries
	}
	return m.Tracks, nil
}

func (m *MockCatalog) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
