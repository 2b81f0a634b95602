// package repositories provides the persistence layer for the local
// acquisition log.
//
// The log is the metadata sidecar written after every successful upload.
// Re-indexing consults it before falling back to a live catalog lookup, so
// repairing the search index does not depend on the provider still resolving
// a title it resolved months ago.
package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/soundvault/soundvault/internal/models"
)

const acquisitionSchema = `
CREATE TABLE IF NOT EXISTS acquisitions (
	storage_key TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	artists     TEXT NOT NULL,
	album       TEXT NOT NULL DEFAULT 'unknown',
	video_id    TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_acquisitions_created_at ON acquisitions(created_at);
`

// AcquisitionRepo stores one row per successful upload, keyed by storage key.
type AcquisitionRepo struct {
	db *sql.DB
}

// NewAcquisitionRepo creates a repository backed by db.
func NewAcquisitionRepo(db *sql.DB) *AcquisitionRepo {
	return &AcquisitionRepo{db: db}
}

// Migrate creates the acquisitions table if it does not exist.
func (r *AcquisitionRepo) Migrate() error {
	if _, err := r.db.Exec(acquisitionSchema); err != nil {
		return fmt.Errorf("failed to migrate acquisitions table: %w", err)
	}
	return nil
}

// Create inserts the sidecar row for a completed upload. A second insert for
// the same storage key replaces the first: keys are unique per upload, so a
// replacement only happens when re-recording the same acquisition.
func (r *AcquisitionRepo) Create(acq models.Acquisition) error {
	if acq.StorageKey == "" {
		return fmt.Errorf("acquisition missing storage key")
	}

	artists, err := json.Marshal(acq.Artists)
	if err != nil {
		return fmt.Errorf("failed to encode artists: %w", err)
	}

	createdAt := acq.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.db.Exec(
		`INSERT OR REPLACE INTO acquisitions (storage_key, title, artists, album, video_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		acq.StorageKey, acq.Title, string(artists), acq.Album, acq.VideoID, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert acquisition: %w", err)
	}
	return nil
}

// GetByKey returns the logged acquisition for a storage key, or nil when the
// key was never logged (acquisitions predating the log, or foreign objects in
// the bucket).
func (r *AcquisitionRepo) GetByKey(storageKey string) (*models.Acquisition, error) {
	row := r.db.QueryRow(
		`SELECT storage_key, title, artists, album, video_id, created_at
		 FROM acquisitions WHERE storage_key = ?`,
		storageKey,
	)

	acq, err := scanAcquisition(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get acquisition: %w", err)
	}
	return acq, nil
}

// List returns all logged acquisitions, newest first.
func (r *AcquisitionRepo) List() ([]models.Acquisition, error) {
	rows, err := r.db.Query(
		`SELECT storage_key, title, artists, album, video_id, created_at
		 FROM acquisitions ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list acquisitions: %w", err)
	}
	defer rows.Close()

	var acquisitions []models.Acquisition
	for rows.Next() {
		acq, err := scanAcquisition(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan acquisition: %w", err)
		}
		acquisitions = append(acquisitions, *acq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate acquisitions: %w", err)
	}

	return acquisitions, nil
}

func scanAcquisition(scan func(dest ...any) error) (*models.Acquisition, error) {
	var acq models.Acquisition
	var artistsJSON string

	if err := scan(&acq.StorageKey, &acq.Title, &artistsJSON, &acq.Album, &acq.VideoID, &acq.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(artistsJSON), &acq.Artists); err != nil {
		return nil, fmt.Errorf("corrupt artists column for %s: %w", acq.StorageKey, err)
	}
	return &acq, nil
}
