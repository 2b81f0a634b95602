// Package ui implements the interactive menu using bubbletea's Elm architecture.
//
// The menu mirrors the original interactive tool: pick one of the three
// pipeline workflows ("download by artist", "re-index from storage",
// "download single song") or quit. Workflows needing a query collect it in a
// text-input view, then run in a background command while progress updates
// flow through a channel from the engine, providing non-blocking status
// reporting. The final view renders the per-item outcome report.
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q).
package ui
