package picker

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aitoolbox/aitoolbox-cli/internal/models"
)

type listerFunc func(ctx context.Context, req models.ListRequest) (*models.ListResponse, error)

func (f listerFunc) FetchProviderModels(ctx context.Context, req models.ListRequest) (*models.ListResponse, error) {
	return f(ctx, req)
}

func fixedLister(ms ...models.FetchedModel) models.Lister {
	return listerFunc(func(context.Context, models.ListRequest) (*models.ListResponse, error) {
		return &models.ListResponse{Models: ms}, nil
	})
}

var inputs = models.Inputs{BaseURL: "https://api.example.com", APIType: models.APIOpenAICompat}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a picker whose first fetch has completed.
func loaded(t *testing.T, lister models.Lister, existing ...string) *Model {
	t.Helper()
	m := New(context.Background(), models.NewSession(lister, inputs, existing...))
	msg := m.fetchCmd()()
	m.Update(msg)
	return m
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func TestPicker_ToggleAndConfirm(t *testing.T) {
	m := loaded(t, fixedLister(
		models.FetchedModel{ID: "gpt-4o"},
		models.FetchedModel{ID: "gpt-4o-mini"},
		models.FetchedModel{ID: "o3"},
	))

	press(m, "tab", "down", "down", "tab")
	cmd := press(m, "enter")

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Confirmed())

	var ids []string
	for _, fm := range m.Selected() {
		ids = append(ids, fm.ID)
	}
	assert.Equal(t, []string{"gpt-4o", "o3"}, ids)
}

func TestPicker_ExistingRowsCannotBeSelected(t *testing.T) {
	m := loaded(t, fixedLister(
		models.FetchedModel{ID: "a"},
		models.FetchedModel{ID: "b"},
	), "a")

	press(m, "tab", "ctrl+a", "enter")

	require.Len(t, m.Selected(), 1)
	assert.Equal(t, "b", m.Selected()[0].ID)
}

func TestPicker_SearchNarrowsRows(t *testing.T) {
	m := loaded(t, fixedLister(
		models.FetchedModel{ID: "claude-sonnet"},
		models.FetchedModel{ID: "gpt-4o"},
		models.FetchedModel{ID: "claude-haiku"},
	))

	press(m, "h", "a", "i")
	rows := m.session.State().Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "claude-haiku", rows[0].Model.ID)

	press(m, "ctrl+a", "enter")
	require.Len(t, m.Selected(), 1)
	assert.Equal(t, "claude-haiku", m.Selected()[0].ID)
}

func TestPicker_ClearSelection(t *testing.T) {
	m := loaded(t, fixedLister(models.FetchedModel{ID: "a"}, models.FetchedModel{ID: "b"}))
	press(m, "ctrl+a", "ctrl+x", "enter")
	assert.Empty(t, m.Selected())
}

func TestPicker_CancelReturnsNothing(t *testing.T) {
	m := loaded(t, fixedLister(models.FetchedModel{ID: "a"}))
	press(m, "tab")
	cmd := press(m, "esc")

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Cancelled())
	assert.Nil(t, m.Selected())
}

func TestPicker_CursorStaysInBounds(t *testing.T) {
	m := loaded(t, fixedLister(models.FetchedModel{ID: "a"}, models.FetchedModel{ID: "b"}))
	press(m, "up", "down", "down", "down")
	assert.Equal(t, 1, m.cursor)
	press(m, "up", "up", "up")
	assert.Equal(t, 0, m.cursor)
}

func TestPicker_FailedFetchShowsError(t *testing.T) {
	lister := listerFunc(func(context.Context, models.ListRequest) (*models.ListResponse, error) {
		return nil, errors.New("401 Unauthorized")
	})
	m := loaded(t, lister)

	view := m.View()
	assert.Contains(t, view, "fetch failed")
	assert.Contains(t, view, "401 Unauthorized")
}

func TestPicker_ViewMarksExisting(t *testing.T) {
	m := loaded(t, fixedLister(models.FetchedModel{ID: "a"}, models.FetchedModel{ID: "b", Name: "Bee"}), "a")
	view := m.View()
	assert.Contains(t, view, "already added")
	assert.Contains(t, view, "b (Bee)")
	assert.Contains(t, view, "2 shown")
}
