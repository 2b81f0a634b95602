package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/soundvault/soundvault/internal/formatter"
	"github.com/soundvault/soundvault/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MenuView ViewState = iota
	InputView
	RunningView
	ResultView
)

// workflow identifies which pipeline run a menu entry launches.
type workflow int

const (
	workflowSong workflow = iota
	workflowArtist
	workflowReindex
	workflowQuit
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.Engine
	selected     workflow
	menu         list.Model
	input        textinput.Model
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.BatchResult
	err          error
	help         help.Model
	keys         keyMap
	width        int
	height       int
}

// NewModel creates a new TUI model around a configured pipeline engine.
func NewModel(ctx context.Context, engine *tasks.Engine) *Model {
	items := []list.Item{
		menuItem{name: "Download by artist", desc: "Acquire and index an artist's full catalog", action: workflowArtist},
		menuItem{name: "Re-index from storage", desc: "Rebuild index documents from stored objects", action: workflowReindex},
		menuItem{name: "Download single song", desc: "Acquire and index one track by search query", action: workflowSong},
		menuItem{name: "Quit", desc: "Exit the program", action: workflowQuit},
	}

	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "soundvault"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)

	input := textinput.New()
	input.CharLimit = 200

	return &Model{
		ctx:    ctx,
		view:   MenuView,
		engine: engine,
		menu:   menu,
		input:  input,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init performs no startup work; the menu renders immediately.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MenuView:
			return m.handleMenuKeys(msg)
		case InputView:
			return m.handleInputKeys(msg)
		case RunningView:
			return m.handleRunningKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case MenuView:
		return m.renderMenu()
	case InputView:
		return m.renderInput()
	case RunningView:
		return m.renderRunning()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.menu.SelectedItem()
		if selected == nil {
			return m, nil
		}
		item, ok := selected.(menuItem)
		if !ok {
			return m, nil
		}
		switch item.action {
		case workflowQuit:
			return m, tea.Quit
		case workflowReindex:
			m.selected = item.action
			m.view = RunningView
			m.progress = tasks.ProgressUpdate{}
			return m, m.startRun("")
		default:
			m.selected = item.action
			m.view = InputView
			m.input.SetValue("")
			if item.action == workflowArtist {
				m.input.Placeholder = "artist name"
			} else {
				m.input.Placeholder = "song query"
			}
			m.input.Focus()
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MenuView
		m.input.Blur()
		return m, nil
	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.input.Blur()
		m.view = RunningView
		m.progress = tasks.ProgressUpdate{}
		return m, m.startRun(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleRunningKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = MenuView
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) startRun(query string) tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		switch m.selected {
		case workflowSong:
			out, err := m.engine.AcquireSong(m.ctx, m.progressChan, query)
			if out != nil {
				m.result = tasks.SingleResult(*out)
			}
			m.err = err
		case workflowArtist:
			m.result, m.err = m.engine.AcquireArtist(m.ctx, m.progressChan, query)
		case workflowReindex:
			m.result, m.err = m.engine.Reindex(m.ctx, m.progressChan)
		}
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return runCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderMenu() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.menu.View(), helpView)
}

func (m *Model) renderInput() string {
	var title string
	if m.selected == workflowArtist {
		title = styles.title.Render("Download by artist")
	} else {
		title = styles.title.Render("Download single song")
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), helpView)
}

func (m *Model) renderRunning() string {
	title := styles.title.Render("Running")

	var phase string
	switch m.progress.Phase {
	case tasks.Resolve:
		phase = "Resolving catalog entries..."
	case tasks.Fetch:
		phase = fmt.Sprintf("Downloading audio (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Store:
		phase = fmt.Sprintf("Uploading to storage (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Index:
		phase = fmt.Sprintf("Indexing metadata (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.Enumerate:
		phase = "Enumerating stored objects..."
	default:
		phase = "Working..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		body := styles.err.Render(fmt.Sprintf("Run failed: %v", m.err))
		return fmt.Sprintf("%s\n\n%s", body, helpView)
	}

	if m.result == nil {
		body := styles.warn.Render("No result available")
		return fmt.Sprintf("%s\n\n%s", body, helpView)
	}

	title := styles.ok.Render("✓ " + m.result.Summary())
	report := formatter.BatchToText(m.result)
	return fmt.Sprintf("%s\n%s\n%s", title, report, helpView)
}
