package commitmentlist

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ogtodo/internal/constants"
	"github.com/julianstephens/ogtodo/internal/models"
)

type AddCommitmentMsg struct{}

type ToggleCommitmentMsg struct {
	ID string
}

type DeleteCommitmentMsg struct {
	ID string
}

type RefreshMsg struct{}

type Item struct {
	Commitment models.Commitment
	Now        time.Time
}

func (i Item) Title() string {
	mark := "○ "
	if i.Commitment.IsCompleted {
		mark = "● "
	}
	return mark + i.Commitment.Title
}

func (i Item) Description() string {
	c := i.Commitment
	desc := fmt.Sprintf("%s | %s | due %s", c.Priority.Label(), c.Category, c.DueDate.Local().Format("Jan 2 15:04"))
	switch {
	case c.IsOverdue(i.Now):
		desc += " | overdue"
	case c.IsDueSoon(i.Now, constants.DueSoonWindow):
		desc += " | due soon"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Commitment.Title + " " + i.Commitment.Category }

type KeyMap struct {
	Add     key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Refresh key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Commitments"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	// The root model owns quitting.
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete, keys.Refresh}
	}

	return Model{list: l, keys: keys}
}

// SetCommitments replaces the listed items. now decides the overdue and due soon marks.
func (m *Model) SetCommitments(commitments []models.Commitment, now time.Time) {
	items := make([]list.Item, len(commitments))
	for i, c := range commitments {
		items[i] = Item{Commitment: c, Now: now}
	}
	m.list.SetItems(items)
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Filtering reports whether the list is consuming keys for its filter input.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddCommitmentMsg{} }
		case key.Matches(msg, m.keys.Refresh):
			return m, func() tea.Msg { return RefreshMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleCommitmentMsg{ID: i.Commitment.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteCommitmentMsg{ID: i.Commitment.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No commitments yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
