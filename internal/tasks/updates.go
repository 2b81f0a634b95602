package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running workflow.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Workflow phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase (0 when unknown)
	Message string // Human-readable message for display
}

// Workflow phase enumeration
type Phase int

const (
	Resolve Phase = iota
	Fetch
	Store
	Index
	Enumerate
)

func (p Phase) String() string {
	switch p {
	case Resolve:
		return "resolve"
	case Fetch:
		return "fetch"
	case Store:
		return "store"
	case Index:
		return "index"
	case Enumerate:
		return "enumerate"
	default:
		return ""
	}
}

func resolveUpdate(query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resolve,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolving %q...", query),
	}
}

func fetchUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Fetch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Downloading %q...", title),
	}
}

func storeUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Store,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Uploading %q...", title),
	}
}

func indexUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Index,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Indexing %q...", title),
	}
}

func enumerateUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Enumerate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Enumerating stored objects (%d found)...", count),
	}
}
