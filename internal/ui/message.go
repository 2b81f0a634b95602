package ui

import (
	"github.com/soundvault/soundvault/internal/tasks"
)

// progressUpdateMsg carries one engine progress event into the update loop.
type progressUpdateMsg tasks.ProgressUpdate

// runCompleteMsg signals the end of a workflow run.
type runCompleteMsg struct {
	result *tasks.BatchResult
	err    error
}
