// package shared defines shared helpers
package shared

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// NewFileLogger creates a [log.Logger] writing to the file at path, creating parent directories as needed.
func NewFileLogger(path string) (*log.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return NewLogger(f), nil
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// SanitizeFileName maps a track title to a string safe for use as a single
// path component. Path separators, control characters and characters invalid
// on common filesystems are replaced with underscores; leading/trailing dots
// and spaces are trimmed so the name cannot be empty, hidden, or traverse
// directories.
func SanitizeFileName(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		default:
			return r
		}
	}, name)

	sanitized = strings.Trim(sanitized, ". ")
	if sanitized == "" {
		return "untitled"
	}
	return sanitized
}

// TitleFromKey derives a search query from a storage key by taking the base
// file name and stripping its extension. "3fa1.../Bohemian Rhapsody.webm"
// yields "Bohemian Rhapsody".
func TitleFromKey(key string) string {
	base := filepath.Base(strings.ReplaceAll(key, "\\", "/"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
