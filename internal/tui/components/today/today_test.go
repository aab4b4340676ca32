package today_test

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/ogtodo/internal/testutil"
	"github.com/julianstephens/ogtodo/internal/tui/components/today"
	"github.com/julianstephens/ogtodo/internal/workspace"
)

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

// idleScheduler never fires, so edits stay unsaved until flushed.
type idleScheduler struct{}

func (idleScheduler) AfterFunc(time.Duration, func()) workspace.Timer { return idleTimer{} }

func newEditor(t *testing.T) (today.Model, *workspace.Session) {
	t.Helper()
	store := testutil.NewTestStore(t)
	user := testutil.CreateUser(t, store)
	session := workspace.New(store, user.ID, "2026-03-09", workspace.WithScheduler(idleScheduler{}))
	require.NoError(t, session.Load(context.Background()))
	return today.New(session), session
}

func typeText(m today.Model, s string) today.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(m today.Model, msg tea.KeyMsg) today.Model {
	m, _ = m.Update(msg)
	return m
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		state workspace.State
		want  string
	}{
		{workspace.StateLoading, today.StatusLoading},
		{workspace.StateClean, today.StatusSaved},
		{workspace.StateDirty, today.StatusUnsaved},
		{workspace.StateSaving, today.StatusSaving},
		{workspace.StateError, today.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, today.StatusLabel(workspace.Snapshot{State: tt.state}))
		})
	}
}

func TestTypingEditsFocusedTask(t *testing.T) {
	m, session := newEditor(t)

	m = typeText(m, "buy milk")

	snap := session.Snapshot()
	require.Len(t, snap.Todo.Tasks, 1)
	assert.Equal(t, "buy milk", snap.Todo.Tasks[0].Title)
	assert.Equal(t, today.StatusUnsaved, today.StatusLabel(m.Snapshot()))
	assert.Contains(t, m.View(), "buy milk")
}

func TestEnterAndBackspaceManageTasks(t *testing.T) {
	m, session := newEditor(t)
	m = typeText(m, "first")
	first := session.Snapshot().Todo.Tasks[0].ID

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	tasks := session.Snapshot().Todo.Tasks
	require.Len(t, tasks, 2)
	assert.Equal(t, tasks[1].ID, m.Cursor(), "cursor follows the new task")

	m = typeText(m, "x")
	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	require.Len(t, session.Snapshot().Todo.Tasks, 2, "backspace on a non-empty title edits text")
	assert.Equal(t, "", session.Snapshot().Todo.Tasks[1].Title)

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	require.Len(t, session.Snapshot().Todo.Tasks, 1)
	assert.Equal(t, first, m.Cursor())

	m = press(m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Len(t, session.Snapshot().Todo.Tasks, 1, "the last task is kept")
	assert.NoError(t, m.Err())
}

func TestSubTasks(t *testing.T) {
	m, session := newEditor(t)
	m = typeText(m, "parent")

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	task := session.Snapshot().Todo.Tasks[0]
	require.Len(t, task.SubTasks, 1)
	assert.Equal(t, task.SubTasks[0].ID, m.Cursor())

	m = typeText(m, "child")
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	sub := session.Snapshot().Todo.Tasks[0].SubTasks[0]
	assert.Equal(t, "child", sub.Title)
	assert.True(t, sub.Completed)

	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, task.ID, m.Cursor())
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.NotContains(t, m.View(), "child", "collapsed subtasks are hidden")
	assert.Contains(t, m.View(), "(1)")

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Empty(t, session.Snapshot().Todo.Tasks[0].SubTasks)
	assert.Equal(t, task.ID, m.Cursor())
}

func TestNotes(t *testing.T) {
	m, session := newEditor(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	notes := session.Snapshot().Todo.Notes
	require.Len(t, notes, 1)
	assert.Equal(t, notes[0].ID, m.Cursor())

	m = typeText(m, "remember")
	assert.Equal(t, "remember", session.Snapshot().Todo.Notes[0].Content)
	assert.Contains(t, m.View(), "Note:")

	m = press(m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Empty(t, session.Snapshot().Todo.Notes)
}

func TestFlushMarksSaved(t *testing.T) {
	m, session := newEditor(t)
	m = typeText(m, "done soon")

	require.NoError(t, session.Flush(context.Background()))
	m.Sync(session.Snapshot())
	assert.Equal(t, today.StatusSaved, today.StatusLabel(m.Snapshot()))
	assert.Contains(t, m.StatusView(), today.StatusSaved)
}
