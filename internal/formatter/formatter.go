// package formatter renders workflow outcomes for the CLI (plain text, JSON, CSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soundvault/soundvault/internal/tasks"
)

// outcomeView is the serializable projection of a [tasks.Outcome].
type outcomeView struct {
	Status     string   `json:"status"`
	Stage      string   `json:"stage"`
	Title      string   `json:"title"`
	Artists    []string `json:"artists,omitempty"`
	StorageKey string   `json:"storage_key,omitempty"`
	Orphaned   bool     `json:"orphaned,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type batchView struct {
	Succeeded int           `json:"succeeded"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Outcomes  []outcomeView `json:"outcomes"`
}

func viewOf(out tasks.Outcome) outcomeView {
	view := outcomeView{
		Status:     out.Status.String(),
		Stage:      out.Stage.String(),
		Title:      out.Title(),
		StorageKey: out.StorageKey,
		Orphaned:   out.Orphaned,
	}
	if out.Track != nil {
		view.Artists = out.Track.ArtistNames()
	}
	if out.Err != nil {
		view.Error = out.Err.Error()
	}
	return view
}

// OutcomeLine renders one item outcome as a single human-readable line.
func OutcomeLine(out tasks.Outcome) string {
	switch out.Status {
	case tasks.StatusSuccess:
		return fmt.Sprintf("ok       %s → %s", out.Title(), out.StorageKey)
	case tasks.StatusNotFound:
		return fmt.Sprintf("skipped  %s (not found)", out.Title())
	default:
		detail := ""
		if out.Err != nil {
			detail = ": " + out.Err.Error()
		}
		if out.Orphaned {
			return fmt.Sprintf("FAILED   %s at %s (blob stored, index missing)%s", out.Title(), out.Stage, detail)
		}
		return fmt.Sprintf("FAILED   %s at %s%s", out.Title(), out.Stage, detail)
	}
}

// BatchToText renders a batch result as a per-item report plus summary line.
func BatchToText(result *tasks.BatchResult) string {
	var sb strings.Builder
	for _, out := range result.Outcomes {
		sb.WriteString(OutcomeLine(out))
		sb.WriteString("\n")
	}
	sb.WriteString(result.Summary())
	sb.WriteString("\n")
	return sb.String()
}

// BatchToJSON renders a batch result as indented JSON.
func BatchToJSON(result *tasks.BatchResult) ([]byte, error) {
	view := batchView{
		Succeeded: result.Succeeded,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
		Outcomes:  make([]outcomeView, 0, len(result.Outcomes)),
	}
	for _, out := range result.Outcomes {
		view.Outcomes = append(view.Outcomes, viewOf(out))
	}

	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch result: %w", err)
	}
	return data, nil
}

// BatchToCSV renders a batch result with columns: Status, Stage, Title,
// Artists, StorageKey, Error.
func BatchToCSV(result *tasks.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Status", "Stage", "Title", "Artists", "StorageKey", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, out := range result.Outcomes {
		view := viewOf(out)
		record := []string{
			view.Status,
			view.Stage,
			view.Title,
			strings.Join(view.Artists, "; "),
			view.StorageKey,
			view.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
