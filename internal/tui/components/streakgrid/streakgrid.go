// Package streakgrid renders a month of completed days as a calendar.
package streakgrid

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/ogtodo/internal/models"
)

// LoadMonthMsg asks the parent to fetch the given month.
type LoadMonthMsg struct {
	Year  int
	Month time.Month
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	weekdayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(4).Align(lipgloss.Right)
	cellStyle      = lipgloss.NewStyle().Width(4).Align(lipgloss.Right)
	completedStyle = cellStyle.Foreground(lipgloss.Color("42")).Bold(true)
	todayStyle     = cellStyle.Foreground(lipgloss.Color("205")).Underline(true)
	futureStyle    = cellStyle.Foreground(lipgloss.Color("238"))
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

var weekdays = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

type KeyMap struct {
	PrevMonth key.Binding
	NextMonth key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevMonth: key.NewBinding(
			key.WithKeys("[", "h"),
			key.WithHelp("[", "previous month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]", "l"),
			key.WithHelp("]", "next month"),
		),
	}
}

type Model struct {
	year  int
	month time.Month
	view  models.StreakMonth
	ready bool
	err   error
	keys  KeyMap
}

func New(year int, month time.Month) Model {
	return Model{year: year, month: month, keys: DefaultKeyMap()}
}

func (m Model) Keys() KeyMap {
	return m.keys
}

// Month returns the month being shown.
func (m Model) Month() (int, time.Month) {
	return m.year, m.month
}

// Load returns the message that fetches the current month.
func (m Model) Load() tea.Cmd {
	year, month := m.year, m.month
	return func() tea.Msg { return LoadMonthMsg{Year: year, Month: month} }
}

// SetMonth shows view, or err when the fetch failed.
func (m *Model) SetMonth(view models.StreakMonth, err error) {
	if err != nil {
		m.err = err
		return
	}
	if view.Year != m.year || time.Month(view.Month) != m.month {
		return
	}
	m.view = view
	m.ready = true
	m.err = nil
}

func (m Model) Init() tea.Cmd {
	return m.Load()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.shift(-1)
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.shift(1)
	default:
		return m, nil
	}
	return m, m.Load()
}

func (m *Model) shift(delta int) {
	first := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	m.year, m.month = first.Year(), first.Month()
	m.ready = false
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %d", m.month, m.year)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(fmt.Sprintf("Could not load month: %v", m.err))
		return b.String()
	}
	if !m.ready {
		b.WriteString("Loading…")
		return b.String()
	}

	for _, d := range weekdays {
		b.WriteString(weekdayStyle.Render(d))
	}
	b.WriteString("\n")

	for i, cell := range m.view.Grid {
		b.WriteString(renderCell(cell))
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}
	if len(m.view.Grid)%7 != 0 {
		b.WriteString("\n")
	}

	b.WriteString(summaryStyle.Render(fmt.Sprintf("%d days completed · current streak %d · longest %d",
		len(m.view.CompletedDays), m.view.Streak.CurrentStreak, m.view.Streak.LongestStreak)))
	return b.String()
}

func renderCell(cell models.GridCell) string {
	if cell.Empty {
		return cellStyle.Render("")
	}
	day := fmt.Sprintf("%d", cell.Day)
	switch {
	case cell.Completed:
		return completedStyle.Render(day + "✓")
	case cell.Today:
		return todayStyle.Render(day)
	case cell.Future:
		return futureStyle.Render(day)
	}
	return cellStyle.Render(day)
}
