// Package tui provides an interactive terminal user interface for browsing
// diagnostics findings across a markdown workspace. It uses the Bubble Tea
// framework to show a scan/validate spinner and a filterable results list.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardomso/gomdls/internal/config"
	"github.com/leonardomso/gomdls/internal/report"
	"github.com/leonardomso/gomdls/internal/workspace"
)

// =============================================================================
// STATE MACHINE
// =============================================================================

// appState represents the current phase of the application lifecycle.
type appState int

const (
	stateLoading appState = iota // Scanning the workspace and running diagnostics
	stateResults                 // Showing results (list view)
)

// =============================================================================
// FILTER TYPES
// =============================================================================

// filterType represents the active finding filter in the UI.
type filterType int

const (
	filterAll      filterType = iota // Every finding
	filterErrors                     // Error severity only
	filterWarnings                   // Warning severity only
)

const filterCount = 3

// String returns the human-readable label for the filter type.
func (f filterType) String() string {
	switch f {
	case filterAll:
		return "All"
	case filterErrors:
		return "Errors"
	case filterWarnings:
		return "Warnings"
	default:
		return "Unknown"
	}
}

// Next returns the next filter type in the cycle.
func (f filterType) Next() filterType {
	return (f + 1) % filterCount
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the main application model.
type Model struct {
	list list.Model
	help help.Model
	err  error

	ws  workspace.Workspace
	cfg *config.Config

	path string
	keys KeyMap

	findings       []report.Finding
	errorFindings  []report.Finding
	warningFindings []report.Finding

	spinner spinner.Model
	state   appState

	filter filterType

	width    int
	height   int
	quitting bool
	showHelp bool
}

// New creates and returns a new Model rooted at path.
func New(path string, ws workspace.Workspace, cfg *config.Config) Model {
	if path == "" {
		path = "."
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle()

	h := help.New()
	k := DefaultKeyMap()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = SelectedStyle
	delegate.Styles.SelectedDesc = StatusStyle

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Markdown Diagnostics"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = TitleStyle

	return Model{
		state:   stateLoading,
		spinner: s,
		list:    l,
		help:    h,
		keys:    k,
		filter:  filterAll,
		path:    path,
		ws:      ws,
		cfg:     cfg,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, ValidateWorkspaceCmd(m.ws, m.cfg))
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := max(msg.Height-12, 5)
		m.list.SetSize(msg.Width, listHeight)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ValidatedMsg:
		return m.handleValidated(msg)
	}

	if m.state == stateResults {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input and dispatches to appropriate handlers.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.state == stateResults {
		if key.Matches(msg, m.keys.Filter) {
			m.filter = m.filter.Next()
			m.updateListItems()
			return m, nil
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleValidated processes the result of scanning and validating the workspace.
func (m *Model) handleValidated(msg ValidatedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.state = stateResults
		return m, nil
	}

	m.findings = msg.Findings
	for _, f := range msg.Findings {
		if f.Severity == report.SeverityWarning {
			m.warningFindings = append(m.warningFindings, f)
		} else {
			m.errorFindings = append(m.errorFindings, f)
		}
	}

	m.state = stateResults
	m.updateListItems()
	return m, nil
}

// updateListItems updates the list with filtered findings.
func (m *Model) updateListItems() {
	filtered := m.getFilteredFindings()
	items := make([]list.Item, len(filtered))
	for i, f := range filtered {
		items[i] = FindingItem{Finding: f}
	}
	m.list.SetItems(items)
}

// getFilteredFindings returns findings based on the current filter.
func (m *Model) getFilteredFindings() []report.Finding {
	switch m.filter {
	case filterErrors:
		return m.errorFindings
	case filterWarnings:
		return m.warningFindings
	default:
		return m.findings
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var s string

	s += TitleStyle.Render("mdls - Markdown Diagnostics")
	s += "\n\n"

	if m.err != nil {
		s += ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
		s += "\n"
		s += HelpStyle.Render("Press q to quit")
		return s
	}

	switch m.state {
	case stateLoading:
		s += m.spinner.View() + fmt.Sprintf(" Scanning %s and validating documents...", m.path)

	case stateResults:
		s += m.renderResults()
	}

	if m.showHelp {
		s += "\n\n" + m.help.View(m.keys)
	} else {
		s += "\n\n" + m.renderShortHelp()
	}

	return s
}

// renderResults renders the final results view with filtering options.
func (m Model) renderResults() string {
	var s string

	s += fmt.Sprintf("%s | %s\n\n",
		ErrorStyle.Render(fmt.Sprintf("✗ %d errors", len(m.errorFindings))),
		WarningStyle.Render(fmt.Sprintf("⚠ %d warnings", len(m.warningFindings))))

	if len(m.findings) == 0 {
		s += SuccessStyle.Render("No problems found!")
		return s
	}

	filteredCount := len(m.getFilteredFindings())
	s += fmt.Sprintf("Filter: %s (%d/%d)\n\n",
		SelectedStyle.Render(m.filter.String()),
		filteredCount,
		len(m.findings))

	s += m.list.View()

	if selected := m.list.SelectedItem(); selected != nil {
		if item, ok := selected.(FindingItem); ok {
			s += "\n" + item.DetailView()
		}
	}

	return s
}

// renderShortHelp renders a compact help line at the bottom of the screen.
func (Model) renderShortHelp() string {
	return HelpStyle.Render("↑/↓ navigate • f filter • ? help • q quit")
}
