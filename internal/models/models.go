// package models defines the data model for the acquisition pipeline
package models

import (
	"fmt"
	"time"
)

// TrackRecord is the normalized representation of one resolved song.
//
// It is produced by the catalog resolver, consumed by the fetcher, and
// treated as immutable for the rest of the pipeline.
type TrackRecord struct {
	Title         string   // Track title as reported by the catalog
	PrimaryArtist string   // First credited artist
	Artists       []string // Full credit list in catalog order, may be empty
	VideoID       string   // Opaque provider track id, required for fetching
	Album         string   // Album name, "unknown" when the catalog omits it
}

// Validate checks that the record carries everything downstream stages need.
func (t TrackRecord) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("track record missing title")
	}
	if t.PrimaryArtist == "" {
		return fmt.Errorf("track record missing artist")
	}
	if t.VideoID == "" {
		return fmt.Errorf("track record missing video id")
	}
	return nil
}

// ArtistNames returns the full credit list, falling back to the primary
// artist when the catalog supplied no list.
func (t TrackRecord) ArtistNames() []string {
	if len(t.Artists) > 0 {
		return t.Artists
	}
	return []string{t.PrimaryArtist}
}

// StoredBlob is the durable result of one successful upload.
type StoredBlob struct {
	Key        string // Storage key: <uuid>/<sanitized file name>
	SourcePath string // Transient local path the blob was uploaded from
}

// IndexDocument is the searchable metadata record for one stored blob.
//
// The document id is the blob's storage key, so a single identifier locates
// both the audio and its metadata.
type IndexDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artists     []string `json:"artist"`
	StoragePath string   `json:"s3_path"`
}

// NewIndexDocument builds the document for a track stored under key,
// addressable at storagePath.
func NewIndexDocument(track TrackRecord, key, storagePath string) IndexDocument {
	return IndexDocument{
		ID:          key,
		Title:       track.Title,
		Artists:     track.ArtistNames(),
		StoragePath: storagePath,
	}
}

// Acquisition is one row of the local acquisition log: the metadata sidecar
// written after each successful upload so re-indexing does not depend on the
// catalog provider still resolving the title.
type Acquisition struct {
	StorageKey string
	Title      string
	Artists    []string
	Album      string
	VideoID    string
	CreatedAt  time.Time
}

// Track converts the logged row back into a TrackRecord.
func (a Acquisition) Track() TrackRecord {
	track := TrackRecord{
		Title:   a.Title,
		Artists: a.Artists,
		VideoID: a.VideoID,
		Album:   a.Album,
	}
	if len(a.Artists) > 0 {
		track.PrimaryArtist = a.Artists[0]
	}
	return track
}
