package tui

import (
	"testing"

	"github.com/Veraticus/grocer/internal/model"
	"github.com/Veraticus/grocer/internal/testutil/recipes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testViews(t *testing.T) []View {
	t.Helper()
	list := model.NewShoppingList()
	require.NoError(t, list.AddIngredient("oats", "cup", 1, "porridge"))
	require.NoError(t, list.AddIngredient("milk", "cup", 2, "porridge"))
	require.NoError(t, list.AddIngredient("oats", "tablespoon", 8, "cookies"))
	require.NoError(t, list.AddIngredient("eggs", "item", 2, "cookies"))

	views, err := Views(list)
	require.NoError(t, err)
	return views
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m.(Model)
}

func TestViews(t *testing.T) {
	views := testViews(t)
	require.Len(t, views, 3)
	assert.Equal(t, "All recipes", views[0].Title)
	assert.Equal(t, "porridge", views[1].Title)
	assert.Equal(t, "cookies", views[2].Title)
	assert.Equal(t, model.Row{Name: "oats", Unit: "cup", Amount: 1.5}, views[0].Rows[0])
}

func TestViewsSkipsConflictingCombinedView(t *testing.T) {
	list := recipes.NewBuilder(t).WithFixtures(recipes.Porridge, recipes.Granola).Build()

	views, err := Views(list)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "porridge", views[0].Title)
	assert.Equal(t, "granola", views[1].Title)
}

func TestSwitchViews(t *testing.T) {
	m := New(testViews(t))
	assert.Equal(t, "All recipes", m.CurrentView())
	assert.Len(t, m.visibleRows(), 3)

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "porridge", m.CurrentView())
	assert.Len(t, m.visibleRows(), 2)

	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "cookies", m.CurrentView())
}

func TestFilter(t *testing.T) {
	m := New(testViews(t))

	m = press(m, keyRunes("/"))
	require.True(t, m.filtering)

	m = press(m, keyRunes("o"), keyRunes("a"))
	rows := m.visibleRows()
	require.Len(t, rows, 1)
	assert.Equal(t, "oats", rows[0][0])
	assert.Equal(t, "1.5", rows[0][1])

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.filtering)
	assert.Contains(t, m.View(), "oa")

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.visibleRows(), 3)
}

func TestQuit(t *testing.T) {
	m := New(testViews(t))
	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEmptyViewer(t *testing.T) {
	m := New(nil)
	assert.Contains(t, m.View(), "empty")
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Empty(t, m.CurrentView())
}

func TestWindowResize(t *testing.T) {
	m := New(testViews(t))
	m = press(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 24, m.table.Height())
}
