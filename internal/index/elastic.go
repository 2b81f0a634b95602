// Package index maintains the searchable song metadata documents in
// Elasticsearch.
//
// The index schema matches the original deployment: five primary shards and
// a flat mapping of title, artist and s3_path text fields. Documents are
// keyed by the blob storage key, so one identifier locates both the audio
// object and its metadata.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"

	"github.com/soundvault/soundvault/internal/models"
	"github.com/soundvault/soundvault/internal/shared"
)

// schema is the fixed index body used by EnsureSchema.
const schema = `{
  "settings": {
    "number_of_shards": 5
  },
  "mappings": {
    "properties": {
      "title": {"type": "text"},
      "artist": {"type": "text"},
      "s3_path": {"type": "text"}
    }
  }
}`

// SongIndex is the client for one named metadata index.
type SongIndex struct {
	client *elasticsearch.Client
	name   string
}

// NewSongIndex connects to the index service at the configured address.
// A non-nil transport substitutes the HTTP layer (used by tests).
func NewSongIndex(cfg shared.IndexConfig, transport http.RoundTripper) (*SongIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL()},
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating index client: %v", shared.ErrInvalidConfig, err)
	}

	return &SongIndex{client: client, name: cfg.Name}, nil
}

// Name returns the index name.
func (i *SongIndex) Name() string {
	return i.name
}

// EnsureSchema creates the index with its fixed mapping if it does not
// already exist. Safe and cheap to call before every write: an existing
// index is left untouched.
func (i *SongIndex) EnsureSchema(ctx context.Context) error {
	res, err := i.client.Indices.Exists(
		[]string{i.name},
		i.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("%w: exists check returned status %d", shared.ErrIndexUnavailable, res.StatusCode)
	}

	createRes, err := i.client.Indices.Create(
		i.name,
		i.client.Indices.Create.WithBody(strings.NewReader(schema)),
		i.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrIndexUnavailable, err)
	}
	defer createRes.Body.Close()

	// Another writer may create the index between the check and the create;
	// treat that as success.
	if createRes.IsError() && createRes.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("%w: create returned status %d", shared.ErrIndexUnavailable, createRes.StatusCode)
	}

	return nil
}

// Upsert writes the document under its id, fully replacing any prior
// content for that id.
func (i *SongIndex) Upsert(ctx context.Context, doc models.IndexDocument) error {
	if doc.ID == "" {
		return fmt.Errorf("%w: index document missing id", shared.ErrInvalidInput)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := i.client.Index(
		i.name,
		bytes.NewReader(body),
		i.client.Index.WithDocumentID(doc.ID),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: index write returned status %d", shared.ErrIndexUnavailable, res.StatusCode)
	}

	return nil
}

// Search runs a full-text match over the title and artist fields. An empty
// query returns everything, matching the behavior of the original
// maintenance tooling.
func (i *SongIndex) Search(ctx context.Context, query string) ([]models.IndexDocument, error) {
	var body string
	if query == "" {
		body = `{"query": {"match_all": {}}, "size": 100}`
	} else {
		q, err := json.Marshal(query)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal query: %w", err)
		}
		body = fmt.Sprintf(`{"query": {"multi_match": {"query": %s, "fields": ["title", "artist"]}}, "size": 100}`, q)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.name),
		i.client.Search.WithBody(strings.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: search returned status %d", shared.ErrIndexUnavailable, res.StatusCode)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.IndexDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	docs := make([]models.IndexDocument, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}

// Delete removes the document with the given id. Administrative only: no
// pipeline workflow calls it.
func (i *SongIndex) Delete(ctx context.Context, id string) error {
	res, err := i.client.Delete(
		i.name,
		id,
		i.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrIndexUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("%w: delete returned status %d", shared.ErrIndexUnavailable, res.StatusCode)
	}
	return nil
}
