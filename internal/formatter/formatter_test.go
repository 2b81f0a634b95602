package formatter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/soundvault/soundvault/internal/models"
	"github.com/soundvault/soundvault/internal/tasks"
)

func sampleBatch() *tasks.BatchResult {
	track := &models.TrackRecord{
		Title:         "Bohemian Rhapsody",
		PrimaryArtist: "Queen",
		Artists:       []string{"Queen"},
		VideoID:       "fJ9rUzIMcZQ",
	}

	result := &tasks.BatchResult{}
	result.Outcomes = append(result.Outcomes,
		tasks.Outcome{
			Query:      "Queen",
			Track:      track,
			Stage:      tasks.StageIndexed,
			Status:     tasks.StatusSuccess,
			StorageKey: "3fa1/Bohemian Rhapsody.webm",
		},
		tasks.Outcome{
			Query:  "Obscure B-Side",
			Stage:  tasks.StageResolveFailed,
			Status: tasks.StatusNotFound,
			Err:    errors.New("track not found"),
		},
		tasks.Outcome{
			Query:      "Queen",
			Track:      track,
			Stage:      tasks.StageIndexFailed,
			Status:     tasks.StatusFailed,
			StorageKey: "9bc2/Bohemian Rhapsody.webm",
			Orphaned:   true,
			Err:        errors.New("index unavailable"),
		},
	)
	result.Succeeded, result.Skipped, result.Failed = 1, 1, 1
	return result
}

func TestBatchToText(t *testing.T) {
	text := BatchToText(sampleBatch())

	if !strings.Contains(text, "ok       Bohemian Rhapsody → 3fa1/Bohemian Rhapsody.webm") {
		t.Errorf("missing success line:\n%s", text)
	}
	if !strings.Contains(text, "skipped  Obscure B-Side (not found)") {
		t.Errorf("missing skip line:\n%s", text)
	}
	if !strings.Contains(text, "blob stored, index missing") {
		t.Errorf("orphaned failure not surfaced distinctly:\n%s", text)
	}
	if !strings.Contains(text, "1 succeeded, 1 skipped, 1 failed") {
		t.Errorf("missing summary:\n%s", text)
	}
}

func TestBatchToJSON(t *testing.T) {
	data, err := BatchToJSON(sampleBatch())
	if err != nil {
		t.Fatalf("BatchToJSON failed: %v", err)
	}

	var parsed struct {
		Succeeded int `json:"succeeded"`
		Outcomes  []struct {
			Status     string   `json:"status"`
			Stage      string   `json:"stage"`
			Artists    []string `json:"artists"`
			StorageKey string   `json:"storage_key"`
			Orphaned   bool     `json:"orphaned"`
		} `json:"outcomes"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if parsed.Succeeded != 1 || len(parsed.Outcomes) != 3 {
		t.Errorf("parsed = %+v", parsed)
	}
	if parsed.Outcomes[0].Stage != "indexed" {
		t.Errorf("first stage = %q", parsed.Outcomes[0].Stage)
	}
	if !parsed.Outcomes[2].Orphaned {
		t.Error("orphaned flag lost in JSON")
	}
}

func TestBatchToCSV(t *testing.T) {
	data, err := BatchToCSV(sampleBatch())
	if err != nil {
		t.Fatalf("BatchToCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 records, got %d lines", len(lines))
	}
	if lines[0] != "Status,Stage,Title,Artists,StorageKey,Error" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "success,indexed,Bohemian Rhapsody,Queen") {
		t.Errorf("first record = %q", lines[1])
	}
}
