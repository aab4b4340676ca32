// Package workspace implements the per-date editing session for a todo: local
// edits, debounced autosave and the keyboard protocol used by the clients.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/ogtodo/internal/constants"
	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/utils"
)

type State int

const (
	StateLoading State = iota
	StateClean
	StateDirty
	StateSaving
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Store is the persistence the session saves through.
type Store interface {
	GetTodoByDate(ctx context.Context, userID, date string) (models.Todo, error)
	CreateTodo(ctx context.Context, todo models.Todo) (models.Todo, error)
	UpdateTodo(ctx context.Context, todo models.Todo) error
	DeleteTodo(ctx context.Context, userID, id string) error
}

// Snapshot is a point-in-time copy of the session, safe to hand to renderers.
type Snapshot struct {
	Todo  models.Todo
	State State
	Focus string
	// Dirty reports edits not yet persisted. It can be true while State is saving.
	Dirty bool
	Err   error
	Stats models.TaskStats
}

type Session struct {
	mu sync.Mutex

	store  Store
	userID string
	date   string

	todo  models.Todo
	state State
	focus string
	err   error

	// rev counts edits; savedRev is the rev last persisted.
	rev      uint64
	savedRev uint64
	// epoch changes on Load and Delete so results of older saves are dropped.
	epoch  uint64
	saving bool
	// saveDone is closed when the current save or delete finishes.
	saveDone chan struct{}

	timer    Timer
	timerSeq uint64

	debounce time.Duration
	sched    Scheduler
	now      func() time.Time
	baseCtx  context.Context
	onChange func(Snapshot)
}

type Option func(*Session)

// WithDebounce sets how long the session waits after the last edit before saving.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.debounce = d
		}
	}
}

func WithScheduler(sched Scheduler) Option {
	return func(s *Session) {
		if sched != nil {
			s.sched = sched
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithContext sets the context autosaves run under.
func WithContext(ctx context.Context) Option {
	return func(s *Session) { s.baseCtx = ctx }
}

// OnChange registers fn to receive a snapshot after every state change.
// fn is called without the session lock held and may run on the timer goroutine.
func OnChange(fn func(Snapshot)) Option {
	return func(s *Session) { s.onChange = fn }
}

// New returns a session for userID's todo on date (YYYY-MM-DD). Call Load before editing.
func New(store Store, userID, date string, opts ...Option) *Session {
	s := &Session{
		store:    store,
		userID:   userID,
		date:     date,
		state:    StateLoading,
		debounce: constants.DefaultAutosaveDebounce,
		sched:    RealScheduler(),
		now:      time.Now,
		baseCtx:  context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Date() string { return s.date }

func (s *Session) UserID() string { return s.userID }

// Load fetches the todo for the session's date. A missing todo, or a failed
// fetch, leaves the session on a fresh todo with one empty task; a failed
// fetch is also returned.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	s.stopTimerLocked()
	s.epoch++
	s.state = StateLoading
	s.mu.Unlock()

	todo, err := s.store.GetTodoByDate(ctx, s.userID, s.date)

	s.mu.Lock()
	var loadErr error
	switch {
	case err == nil:
		s.todo = todo.Clone()
		if len(s.todo.Tasks) == 0 {
			s.todo.Tasks = []models.Task{newTask()}
		}
		s.focus = firstFocus(s.todo.Tasks)
	case apperrors.Is(err, apperrors.ErrNotFound):
		s.resetLocked()
	default:
		logger.Warn("Failed to load todo", "date", s.date, "error", err)
		s.resetLocked()
		loadErr = fmt.Errorf("loading todo for %s: %w", s.date, err)
	}
	s.rev, s.savedRev = 0, 0
	s.state = StateClean
	s.err = loadErr
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return loadErr
}

// Flush saves pending edits now, cancelling any scheduled autosave. Edits
// made while it runs are saved before it returns.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
	return s.save(ctx, true)
}

// Retry saves again after a failure.
func (s *Session) Retry(ctx context.Context) error {
	return s.Flush(ctx)
}

// Close cancels the autosave timer and flushes outstanding edits.
func (s *Session) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

// Delete removes the persisted todo and resets the session to a fresh one.
// A save in flight is waited for so the row it writes is deleted too.
func (s *Session) Delete(ctx context.Context) error {
	s.mu.Lock()
	for s.saving {
		done := s.saveDone
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
	}
	s.stopTimerLocked()
	// Holding the save slot keeps autosaves out until the reset.
	s.saving = true
	s.saveDone = make(chan struct{})
	s.epoch++
	id := s.todo.ID
	s.mu.Unlock()

	var err error
	if id != "" {
		err = s.store.DeleteTodo(ctx, s.userID, id)
		if apperrors.Is(err, apperrors.ErrNotFound) {
			err = nil
		}
	}

	s.mu.Lock()
	s.saving = false
	close(s.saveDone)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("deleting todo %s: %w", id, err)
	}
	s.resetLocked()
	s.savedRev = s.rev
	s.state = StateClean
	s.err = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	logger.Debug("Deleted todo", "date", s.date, "id", id)
	s.notify(snap)
	return nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Focus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// SetFocus moves focus to taskID. Unknown ids are ignored.
func (s *Session) SetFocus(taskID string) {
	s.mu.Lock()
	if taskIndex(s.todo.Tasks, taskID) < 0 {
		s.mu.Unlock()
		return
	}
	s.focus = taskID
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Err returns the last load or save error, cleared by the next edit or successful save.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// save persists the latest revision. With drain set it keeps saving until
// no edits are left; otherwise edits that arrive meanwhile wait for the
// debounce timer.
func (s *Session) save(ctx context.Context, drain bool) error {
	for {
		s.mu.Lock()
		if s.saving && drain {
			done := s.saveDone
			s.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		if s.saving || s.state == StateLoading {
			// The in-flight save reschedules newer revisions when it finishes.
			s.mu.Unlock()
			return nil
		}
		if s.rev == s.savedRev {
			s.mu.Unlock()
			return nil
		}
		s.saving = true
		s.saveDone = make(chan struct{})
		s.state = StateSaving
		rev, epoch := s.rev, s.epoch
		todo := s.todo.Clone()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.notify(snap)

		saved, err := s.persist(ctx, todo)

		s.mu.Lock()
		s.saving = false
		close(s.saveDone)
		if epoch != s.epoch {
			s.mu.Unlock()
			return nil
		}
		if err != nil {
			s.state = StateError
			s.err = err
			snap = s.snapshotLocked()
			s.mu.Unlock()
			logger.Warn("Failed to save todo", "date", s.date, "error", err)
			s.notify(snap)
			return err
		}
		if s.todo.ID == "" {
			s.todo.ID = saved.ID
			s.todo.CreatedAt = saved.CreatedAt
		}
		s.savedRev = rev
		s.err = nil
		again := s.rev != s.savedRev
		switch {
		case !again:
			s.state = StateClean
		case drain:
			s.stopTimerLocked()
			s.state = StateDirty
		default:
			s.state = StateDirty
			// The edit's timer may have fired while this save was running.
			if s.timer == nil {
				s.scheduleLocked()
			}
			again = false
		}
		snap = s.snapshotLocked()
		s.mu.Unlock()

		logger.Debug("Saved todo", "date", s.date, "id", saved.ID, "rev", rev)
		s.notify(snap)
		if !again {
			return nil
		}
	}
}

func (s *Session) persist(ctx context.Context, todo models.Todo) (models.Todo, error) {
	if todo.IsPersisted() {
		if err := s.store.UpdateTodo(ctx, todo); err != nil {
			return models.Todo{}, fmt.Errorf("updating todo: %w", err)
		}
		return todo, nil
	}

	created, err := s.store.CreateTodo(ctx, todo)
	if err == nil {
		return created, nil
	}
	if !apperrors.Is(err, apperrors.ErrConflict) {
		return models.Todo{}, fmt.Errorf("creating todo: %w", err)
	}

	// Someone else created the date first; take over their row.
	existing, getErr := s.store.GetTodoByDate(ctx, s.userID, s.date)
	if getErr != nil {
		return models.Todo{}, fmt.Errorf("creating todo: %w", err)
	}
	todo.ID = existing.ID
	todo.CreatedAt = existing.CreatedAt
	if err := s.store.UpdateTodo(ctx, todo); err != nil {
		return models.Todo{}, fmt.Errorf("updating todo: %w", err)
	}
	return todo, nil
}

func (s *Session) autosave(seq uint64) {
	s.mu.Lock()
	if seq != s.timerSeq {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	ctx := s.baseCtx
	s.mu.Unlock()

	if err := s.save(ctx, false); err != nil {
		logger.Debug("Autosave failed", "date", s.date, "error", err)
	}
}

func (s *Session) scheduleLocked() {
	s.stopTimerLocked()
	s.timerSeq++
	seq := s.timerSeq
	s.timer = s.sched.AfterFunc(s.debounce, func() { s.autosave(seq) })
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerSeq++
}

func (s *Session) resetLocked() {
	now := s.now().UTC()
	task := newTask()
	s.todo = models.Todo{
		UserID:    s.userID,
		Date:      s.date,
		Tasks:     []models.Task{task},
		Notes:     []models.Note{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.focus = task.ID
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Todo:  s.todo.Clone(),
		State: s.state,
		Focus: s.focus,
		Dirty: s.rev != s.savedRev,
		Err:   s.err,
		Stats: utils.CalculateStats(s.todo.Tasks),
	}
}

func (s *Session) notify(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}

func newTask() models.Task {
	return models.Task{ID: uuid.New().String(), SubTasks: []models.SubTask{}}
}

func firstFocus(tasks []models.Task) string {
	for _, task := range tasks {
		if task.Title == "" {
			return task.ID
		}
	}
	if len(tasks) > 0 {
		return tasks[0].ID
	}
	return ""
}

func taskIndex(tasks []models.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
