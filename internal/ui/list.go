package ui

import (
	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = menuItem{}
)

// menuItem wraps a workflow entry to implement [list.Item].
type menuItem struct {
	name   string
	desc   string
	action workflow
}

func (i menuItem) FilterValue() string { return i.name }
func (i menuItem) Title() string       { return i.name }
func (i menuItem) Description() string { return i.desc }
