// Package picker is the terminal model picker: it fetches a provider's
// model list through a models.Session, lets the user filter and select
// models not yet configured, and returns the selection.
package picker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aitoolbox/aitoolbox-cli/internal/models"
)

const defaultHeight = 15

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	existingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type fetchDoneMsg struct{ err error }

// Model is the bubbletea model for the picker.
type Model struct {
	ctx     context.Context
	session *models.Session

	keys    keyMap
	help    help.Model
	search  textinput.Model
	spinner spinner.Model

	cursor    int
	height    int
	confirmed bool
	cancelled bool
}

// New returns a picker over session. The first fetch starts on Init.
func New(ctx context.Context, session *models.Session) *Model {
	ti := textinput.New()
	ti.Placeholder = "search models"
	ti.Prompt = "/ "
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Model{
		ctx:     ctx,
		session: session,
		keys:    newKeyMap(),
		help:    help.New(),
		search:  ti,
		spinner: s,
		height:  defaultHeight,
	}
}

func (m *Model) fetchCmd() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return fetchDoneMsg{err: session.Fetch(ctx)}
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	m.spinner.Style = cursorStyle
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.fetchCmd())
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		if h := msg.Height - 8; h > 3 {
			m.height = h
		}
		m.help.Width = msg.Width
		return m, nil

	case fetchDoneMsg:
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Confirm):
		m.confirmed = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.session.State().Rows())-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		rows := m.session.State().Rows()
		if m.cursor < len(rows) {
			m.session.Dispatch(models.Toggled{ID: rows[m.cursor].Model.ID})
		}
		return m, nil
	case key.Matches(msg, m.keys.SelectAll):
		m.session.Dispatch(models.SelectAllVisible{})
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.session.Dispatch(models.ClearSelection{})
		return m, nil
	case key.Matches(msg, m.keys.Refetch):
		if m.session.State().Loading {
			return m, nil
		}
		return m, m.fetchCmd()
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != before {
		m.session.Dispatch(models.SearchChanged{Query: q})
		m.cursor = 0
	}
	return m, cmd
}

func (m *Model) clampCursor() {
	n := len(m.session.State().Rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model
func (m *Model) View() string {
	st := m.session.State()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Fetch models"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(st.URL.Value))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch {
	case st.Loading:
		b.WriteString(m.spinner.View() + " loading models...\n")
	case st.Err != nil:
		b.WriteString(errorStyle.Render("fetch failed: "+st.Err.Error()) + "\n")
	}

	rows := st.Rows()
	if len(rows) == 0 && !st.Loading {
		b.WriteString(dimStyle.Render("no models") + "\n")
	}

	start := 0
	if m.cursor >= m.height {
		start = m.cursor - m.height + 1
	}
	end := start + m.height
	if end > len(rows) {
		end = len(rows)
	}
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(rows[i], i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d shown, %d total, %d selected", len(rows), st.Total, len(st.SelectedModels()))))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderRow(r models.Row, atCursor bool) string {
	mark := "[ ]"
	switch {
	case r.AlreadyExists:
		mark = "[=]"
	case r.Selected:
		mark = "[x]"
	}

	label := r.Model.ID
	if r.Model.Name != "" && r.Model.Name != r.Model.ID {
		label += " (" + r.Model.Name + ")"
	}
	if r.Model.OwnedBy != "" {
		label += "  " + dimStyle.Render(r.Model.OwnedBy)
	}

	line := mark + " " + label
	if r.AlreadyExists {
		line = existingStyle.Render(mark+" "+label) + existingStyle.Render("  already added")
	}
	if atCursor {
		return cursorStyle.Render("> ") + line
	}
	return "  " + line
}

// Confirmed reports whether the user accepted the selection.
func (m *Model) Confirmed() bool { return m.confirmed }

// Cancelled reports whether the user backed out.
func (m *Model) Cancelled() bool { return m.cancelled }

// Selected returns the chosen models in fetch order, or nil unless confirmed.
func (m *Model) Selected() []models.FetchedModel {
	if !m.confirmed {
		return nil
	}
	return m.session.State().SelectedModels()
}

// Run shows the picker on the given terminal streams and returns the
// confirmed selection. A cancelled picker returns nil without error.
func Run(ctx context.Context, session *models.Session, in io.Reader, out io.Writer) ([]models.FetchedModel, error) {
	m := New(ctx, session)
	final, err := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	).Run()
	if err != nil {
		return nil, err
	}
	pm, ok := final.(*Model)
	if !ok {
		return nil, nil
	}
	return pm.Selected(), nil
}
