package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// NotFound-class outcomes. Expected results of a lookup,
	// not failures: workflows log and move on.
	ErrTrackNotFound    = fmt.Errorf("track not found")
	ErrArtistNotFound   = fmt.Errorf("artist not found")
	ErrNoCatalogEntries = fmt.Errorf("artist has no catalog entries")

	// Stage failures
	ErrFetchFailed      = fmt.Errorf("audio fetch failed")
	ErrSourceMissing    = fmt.Errorf("local source file missing")
	ErrAuthFailed       = fmt.Errorf("storage authentication failed")
	ErrTransientIO      = fmt.Errorf("transient I/O failure")
	ErrIndexUnavailable = fmt.Errorf("index unavailable")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
