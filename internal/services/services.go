// package services defines interface Catalog for resolving music metadata
package services

import (
	"context"

	"github.com/soundvault/soundvault/internal/models"
)

// Catalog defines the interface for catalog/search providers that resolve
// free-text queries into track metadata.
type Catalog interface {
	// SearchTrack issues a track-scoped search and returns the highest-ranked
	// match. Returns shared.ErrTrackNotFound when the provider has no match.
	SearchTrack(ctx context.Context, query string) (*models.TrackRecord, error)

	// ArtistCatalog issues an artist-scoped search, takes the top-ranked
	// artist, and enumerates that artist's songs in the provider's native
	// order. Returns shared.ErrArtistNotFound when no artist matches and
	// shared.ErrNoCatalogEntries when the match exposes no songs; both come
	// with an empty slice and are informational, not fatal.
	ArtistCatalog(ctx context.Context, artistName string) ([]models.TrackRecord, error)

	// Name returns the provider name (e.g., "YouTube Music")
	Name() string
}
