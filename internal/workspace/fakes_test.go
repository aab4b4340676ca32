package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/models"
)

type fakeTimer struct {
	sched   *fakeScheduler
	f       func()
	d       time.Duration
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler records timers and runs them only when told to.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{sched: s, f: f, d: d}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) pending() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs every pending timer on the calling goroutine.
func (s *fakeScheduler) fire() int {
	due := s.pending()
	s.mu.Lock()
	for _, t := range due {
		t.fired = true
	}
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
	return len(due)
}

// memTodoStore is an in-memory Store that records every write.
type memTodoStore struct {
	mu      sync.Mutex
	todos   map[string]models.Todo
	creates []models.Todo
	updates []models.Todo
	deletes []string

	saveErr error
	// block, when set, is received from inside every create and update.
	block chan struct{}
	// entered is signalled when a write starts, if set.
	entered chan struct{}
}

func newMemTodoStore() *memTodoStore {
	return &memTodoStore{todos: map[string]models.Todo{}}
}

func (m *memTodoStore) GetTodoByDate(_ context.Context, userID, date string) (models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo, ok := m.todos[userID+"/"+date]
	if !ok {
		return models.Todo{}, apperrors.NotFound("todo.not_found", "todo not found")
	}
	return todo.Clone(), nil
}

func (m *memTodoStore) CreateTodo(_ context.Context, todo models.Todo) (models.Todo, error) {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return models.Todo{}, m.saveErr
	}
	key := todo.UserID + "/" + todo.Date
	if _, ok := m.todos[key]; ok {
		return models.Todo{}, apperrors.Conflict("todo.exists", "a todo already exists for this date")
	}
	todo.ID = uuid.New().String()
	m.todos[key] = todo.Clone()
	m.creates = append(m.creates, todo.Clone())
	return todo, nil
}

func (m *memTodoStore) UpdateTodo(_ context.Context, todo models.Todo) error {
	m.wait()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	key := todo.UserID + "/" + todo.Date
	if existing, ok := m.todos[key]; !ok || existing.ID != todo.ID {
		return apperrors.NotFound("todo.not_found", "todo not found")
	}
	m.todos[key] = todo.Clone()
	m.updates = append(m.updates, todo.Clone())
	return nil
}

func (m *memTodoStore) DeleteTodo(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, todo := range m.todos {
		if todo.UserID == userID && todo.ID == id {
			delete(m.todos, key)
			m.deletes = append(m.deletes, id)
			return nil
		}
	}
	return apperrors.NotFound("todo.not_found", "todo not found")
}

func (m *memTodoStore) wait() {
	m.mu.Lock()
	entered, block := m.entered, m.block
	m.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
}

func (m *memTodoStore) setSaveErr(err error) {
	m.mu.Lock()
	m.saveErr = err
	m.mu.Unlock()
}

func (m *memTodoStore) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.creates) + len(m.updates)
}

func (m *memTodoStore) lastWrite() models.Todo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.updates) > 0 {
		return m.updates[len(m.updates)-1]
	}
	if len(m.creates) > 0 {
		return m.creates[len(m.creates)-1]
	}
	return models.Todo{}
}

// mockStore is a testify mock for failure paths.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetTodoByDate(ctx context.Context, userID, date string) (models.Todo, error) {
	args := m.Called(ctx, userID, date)
	return args.Get(0).(models.Todo), args.Error(1)
}

func (m *mockStore) CreateTodo(ctx context.Context, todo models.Todo) (models.Todo, error) {
	args := m.Called(ctx, todo)
	return args.Get(0).(models.Todo), args.Error(1)
}

func (m *mockStore) UpdateTodo(ctx context.Context, todo models.Todo) error {
	args := m.Called(ctx, todo)
	return args.Error(0)
}

func (m *mockStore) DeleteTodo(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
