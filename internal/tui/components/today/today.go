// Package today is the editor for one day's todo. It renders a workspace
// session and turns key presses into session mutations.
package today

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/workspace"
)

type rowKind int

const (
	rowTask rowKind = iota
	rowSubTask
	rowNote
)

type row struct {
	kind      rowKind
	id        string
	taskID    string
	value     string
	completed bool
	expanded  bool
	children  int
	input     textinput.Model
}

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	statsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	statusStyles = map[string]lipgloss.Style{
		StatusSaved:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		StatusUnsaved: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		StatusSaving:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
)

const (
	StatusLoading = "Loading…"
	StatusSaving  = "Saving…"
	StatusUnsaved = "Unsaved"
	StatusSaved   = "Saved"
	StatusFailed  = "Save failed"
)

// StatusLabel is the status line text for a session snapshot.
func StatusLabel(snap workspace.Snapshot) string {
	switch snap.State {
	case workspace.StateLoading:
		return StatusLoading
	case workspace.StateSaving:
		return StatusSaving
	case workspace.StateError:
		return StatusFailed
	case workspace.StateDirty:
		return StatusUnsaved
	}
	return StatusSaved
}

type Model struct {
	session   *workspace.Session
	snap      workspace.Snapshot
	rows      []row
	cursor    int
	lastFocus string
	known     map[string]bool
	width     int
	err       error
}

func New(session *workspace.Session) Model {
	m := Model{session: session}
	m.Sync(session.Snapshot())
	return m
}

func newInput(value string) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "..."
	in.CharLimit = 500
	in.SetValue(value)
	return in
}

func buildRows(todo models.Todo) []row {
	var rows []row
	for _, task := range todo.Tasks {
		rows = append(rows, row{
			kind:      rowTask,
			id:        task.ID,
			taskID:    task.ID,
			value:     task.Title,
			completed: task.Completed,
			expanded:  task.Expanded,
			children:  len(task.SubTasks),
		})
		if !task.Expanded {
			continue
		}
		for _, sub := range task.SubTasks {
			rows = append(rows, row{
				kind:      rowSubTask,
				id:        sub.ID,
				taskID:    task.ID,
				value:     sub.Title,
				completed: sub.Completed,
			})
		}
	}
	for _, note := range todo.Notes {
		rows = append(rows, row{kind: rowNote, id: note.ID, value: note.Content})
	}
	return rows
}

// Sync rebuilds the rows from snap, keeping the text inputs of rows that
// survive. The cursor moves to an item that did not exist before, else to a
// changed session focus, else stays on its row.
func (m *Model) Sync(snap workspace.Snapshot) {
	m.snap = snap

	prev := make(map[string]textinput.Model, len(m.rows))
	for _, r := range m.rows {
		prev[r.id] = r.input
	}
	current := ""
	if m.cursor < len(m.rows) {
		current = m.rows[m.cursor].id
	}

	rows := buildRows(snap.Todo)
	added := ""
	for i := range rows {
		in, ok := prev[rows[i].id]
		if !ok {
			in = newInput(rows[i].value)
			if m.known != nil && !m.known[rows[i].id] && added == "" {
				added = rows[i].id
			}
		} else if in.Value() != rows[i].value {
			in.SetValue(rows[i].value)
		}
		rows[i].input = in
	}

	target := current
	switch {
	case added != "":
		target = added
	case snap.Focus != "" && snap.Focus != m.lastFocus:
		target = snap.Focus
	}
	m.lastFocus = snap.Focus
	m.known = itemIDs(snap.Todo)

	old := m.cursor
	m.rows = rows
	m.cursor = -1
	for i, r := range rows {
		if r.id == target {
			m.cursor = i
			break
		}
	}
	if m.cursor < 0 {
		m.cursor = max(0, min(old-1, len(rows)-1))
	}
	m.focusCursor()
}

func itemIDs(todo models.Todo) map[string]bool {
	ids := make(map[string]bool)
	for _, task := range todo.Tasks {
		ids[task.ID] = true
		for _, sub := range task.SubTasks {
			ids[sub.ID] = true
		}
	}
	for _, note := range todo.Notes {
		ids[note.ID] = true
	}
	return ids
}

func (m *Model) focusCursor() {
	for i := range m.rows {
		if i == m.cursor {
			m.rows[i].input.Focus()
		} else {
			m.rows[i].input.Blur()
		}
	}
}

// Snapshot is the state last rendered.
func (m Model) Snapshot() workspace.Snapshot {
	return m.snap
}

// Err is the error of the last rejected edit, if any.
func (m Model) Err() error {
	return m.err
}

// Cursor returns the id of the row under the cursor.
func (m Model) Cursor() string {
	if m.cursor < len(m.rows) {
		return m.rows[m.cursor].id
	}
	return ""
}

func (m *Model) SetSize(width, _ int) {
	m.width = width
}

func (m *Model) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.rows) {
		return
	}
	m.cursor = next
	m.focusCursor()
	m.lastFocus = m.rows[next].taskID
	if m.lastFocus != "" {
		m.session.SetFocus(m.lastFocus)
	}
}

// protocolKey maps terminal keys onto the task key protocol. Terminals do not
// report shift+enter, so alt+enter stands in for it.
func protocolKey(msg tea.KeyMsg) (workspace.Key, bool) {
	switch msg.String() {
	case "enter":
		return workspace.Key{Name: workspace.KeyEnter}, true
	case "alt+enter":
		return workspace.Key{Name: workspace.KeyEnter, Shift: true}, true
	case "backspace":
		return workspace.Key{Name: workspace.KeyBackspace}, true
	case "delete":
		return workspace.Key{Name: workspace.KeyDelete}, true
	}
	return workspace.Key{}, false
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.rows) == 0 {
		return m, nil
	}

	switch keyMsg.String() {
	case "up":
		m.move(-1)
		return m, nil
	case "down":
		m.move(1)
		return m, nil
	case "ctrl+t":
		m.apply(m.toggle())
		return m, nil
	case "ctrl+e":
		m.apply(m.session.ToggleExpanded(m.rows[m.cursor].taskID))
		return m, nil
	case "ctrl+o":
		_, err := m.session.AddNote()
		m.apply(err)
		for i, r := range m.rows {
			if r.kind == rowNote {
				m.cursor = i
				m.focusCursor()
			}
		}
		return m, nil
	}

	if consumed, err := m.handleProtocol(keyMsg); consumed {
		m.apply(err)
		return m, nil
	}

	r := &m.rows[m.cursor]
	before := r.input.Value()
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(keyMsg)
	if after := r.input.Value(); after != before {
		m.apply(m.setText(*r, after))
	}
	return m, cmd
}

func (m *Model) handleProtocol(msg tea.KeyMsg) (bool, error) {
	key, ok := protocolKey(msg)
	if !ok {
		return false, nil
	}
	r := m.rows[m.cursor]
	value := r.input.Value()

	switch r.kind {
	case rowTask:
		return m.session.HandleKey(r.id, key, value)
	case rowSubTask:
		switch {
		case key.Name == workspace.KeyEnter:
			_, err := m.session.AddSubTask(r.taskID)
			return true, err
		case key.Name == workspace.KeyDelete, key.Name == workspace.KeyBackspace && value == "":
			return true, m.session.DeleteSubTask(r.id)
		}
	case rowNote:
		if key.Name == workspace.KeyDelete || key.Name == workspace.KeyBackspace && value == "" {
			return true, m.session.DeleteNote(r.id)
		}
	}
	return false, nil
}

func (m *Model) toggle() error {
	r := m.rows[m.cursor]
	switch r.kind {
	case rowTask:
		return m.session.ToggleTask(r.id)
	case rowSubTask:
		return m.session.ToggleSubTask(r.id)
	}
	return nil
}

func (m *Model) setText(r row, value string) error {
	switch r.kind {
	case rowTask:
		return m.session.UpdateTask(r.id, workspace.TaskUpdate{Title: &value})
	case rowSubTask:
		return m.session.UpdateSubTask(r.id, workspace.SubTaskUpdate{Title: &value})
	default:
		return m.session.UpdateNote(r.id, value)
	}
}

// apply records err and re-renders from the session.
func (m *Model) apply(err error) {
	m.err = err
	m.Sync(m.session.Snapshot())
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) View() string {
	var b strings.Builder

	for i, r := range m.rows {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("› ")
		}

		text := r.input.View()
		if r.completed && i != m.cursor {
			text = doneStyle.Render(r.value)
		}

		switch r.kind {
		case rowTask:
			fold := "  "
			if r.children > 0 {
				fold = "▾ "
				if !r.expanded {
					fold = "▸ "
				}
			}
			line := pointer + checkbox(r.completed) + " " + fold + text
			if r.children > 0 && !r.expanded {
				line += statsStyle.Render(fmt.Sprintf(" (%d)", r.children))
			}
			b.WriteString(line)
		case rowSubTask:
			b.WriteString(pointer + "      " + checkbox(r.completed) + " " + text)
		case rowNote:
			b.WriteString("\n" + pointer + noteStyle.Render("Note: ") + text)
		}
		b.WriteString("\n")
	}

	stats := m.snap.Stats
	b.WriteString("\n")
	b.WriteString(statsStyle.Render(fmt.Sprintf("%d/%d tasks · %d/%d subtasks",
		stats.CompletedTasks, stats.TotalTasks, stats.CompletedSubTasks, stats.TotalSubTasks)))
	if m.snap.Todo.HasCompletedAllTasks {
		b.WriteString(statsStyle.Render("  ✓ all done"))
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
	return b.String()
}

// StatusView renders the save status for the header.
func (m Model) StatusView() string {
	label := StatusLabel(m.snap)
	style, ok := statusStyles[label]
	if !ok {
		return label
	}
	return style.Render(label)
}
