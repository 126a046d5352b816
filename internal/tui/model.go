// Package tui provides an interactive shopping list viewer built on bubbletea.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/grocer/internal/model"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View is one page of the viewer: the combined list or a single recipe.
type View struct {
	Title string
	Rows  []model.Row
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			PaddingRight(2)
	activeTabStyle = tabStyle.
			Foreground(lipgloss.Color("#4ECDC4")).
			Bold(true)
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// Model is the bubbletea model for the viewer.
type Model struct {
	keys      KeyMap
	views     []View
	filter    textinput.Model
	table     table.Model
	current   int
	width     int
	height    int
	filtering bool
}

// New builds a viewer over views. The first view is shown first.
func New(views []View) Model {
	columns := []table.Column{
		{Title: "Ingredient", Width: 30},
		{Title: "Amount", Width: 10},
		{Title: "Unit", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#1a1a1a")).
		Background(lipgloss.Color("#4ECDC4"))
	t.SetStyles(s)

	filter := textinput.New()
	filter.Placeholder = "ingredient name"
	filter.Prompt = "/ "
	filter.CharLimit = 64

	m := Model{
		keys:   DefaultKeyMap(),
		views:  views,
		table:  t,
		filter: filter,
		width:  80,
		height: 24,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		// title, tabs, filter and help lines
		m.table.SetHeight(max(3, msg.Height-6))
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, m.filter.Focus()
		case key.Matches(msg, m.keys.Clear):
			m.filter.SetValue("")
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.NextView):
			m.switchView(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevView):
			m.switchView(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		m.filtering = false
		m.filter.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *Model) switchView(delta int) {
	if len(m.views) == 0 {
		return
	}
	m.current = (m.current + delta + len(m.views)) % len(m.views)
	m.table.SetCursor(0)
	m.refresh()
}

// refresh rebuilds the table rows for the current view and filter.
func (m *Model) refresh() {
	m.table.SetRows(m.visibleRows())
}

func (m Model) visibleRows() []table.Row {
	if len(m.views) == 0 {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(m.filter.Value()))

	var rows []table.Row
	for _, r := range m.views[m.current].Rows {
		if needle != "" && !strings.Contains(strings.ToLower(r.Name), needle) {
			continue
		}
		rows = append(rows, table.Row{r.Name, strconv.FormatFloat(r.Amount, 'g', 4, 64), r.Unit})
	}
	return rows
}

// CurrentView returns the title of the view on screen.
func (m Model) CurrentView() string {
	if len(m.views) == 0 {
		return ""
	}
	return m.views[m.current].Title
}

// View implements tea.Model.
func (m Model) View() string {
	if len(m.views) == 0 {
		return "The shopping list is empty.\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Shopping list"))
	b.WriteString("\n")

	tabs := make([]string, len(m.views))
	for i, v := range m.views {
		style := tabStyle
		if i == m.current {
			style = activeTabStyle
		}
		tabs[i] = style.Render(v.Title)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	help := make([]string, 0, len(m.keys.ShortHelp()))
	for _, k := range m.keys.ShortHelp() {
		help = append(help, fmt.Sprintf("%s %s", k.Help().Key, k.Help().Desc))
	}
	b.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	b.WriteString("\n")
	return b.String()
}
