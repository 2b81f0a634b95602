// Package services defines the [Catalog] interface for music catalog
// providers and implements it for YouTube Music.
//
// # Catalog Interface
//
// A Catalog maps free-text queries to structured [models.TrackRecord] values.
// The orchestrator never sees provider-native shapes: the resolver converts
// them at this boundary and fails fast when a required field is absent.
//
// # YouTube Music Implementation
//
// [YouTubeCatalog] communicates with the FastAPI proxy server wrapping
// ytmusicapi. All catalog operations are synchronous HTTP calls to the proxy
// endpoints; search ranking follows the provider, so the first element of a
// non-empty result list is the best match.
//
// # Error Handling
//
// Lookups that yield nothing return NotFound-class sentinels from the shared
// package ([shared.ErrTrackNotFound], [shared.ErrArtistNotFound],
// [shared.ErrNoCatalogEntries]). These are expected outcomes, not failures.
// Transport problems surface as [shared.ErrAPIRequest].
package services
