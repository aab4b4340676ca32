// Package tui is the terminal client: a sign-in form, then tabs for the
// day's todo, the streak calendar and commitments.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ogtodo/internal/auth"
	"github.com/julianstephens/ogtodo/internal/commitments"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/tui/components/commitmentlist"
	"github.com/julianstephens/ogtodo/internal/tui/components/streakgrid"
	"github.com/julianstephens/ogtodo/internal/tui/components/today"
	"github.com/julianstephens/ogtodo/internal/utils"
	"github.com/julianstephens/ogtodo/internal/workspace"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateStreak
	StateCommitments
	StateSignIn
	StateAddCommitment
	StateConfirmDelete
)

const tabCount = 3

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (models.User, auth.Token, error)
}

type MonthViewer interface {
	StreakMonth(ctx context.Context, userID string, year, month int) (models.StreakMonth, error)
}

type CommitmentManager interface {
	Add(ctx context.Context, userID string, in commitments.AddInput) (models.Commitment, error)
	List(ctx context.Context, userID string, filter models.CommitmentFilter) ([]models.Commitment, error)
	Toggle(ctx context.Context, userID, id string) (models.Commitment, error)
	Delete(ctx context.Context, userID, id string) error
}

// Deps are the services the terminal client drives.
type Deps struct {
	Auth        Authenticator
	Todos       workspace.Store
	Months      MonthViewer
	Commitments CommitmentManager
	Location    *time.Location
	Debounce    time.Duration
	// Scheduler overrides the autosave timers.
	Scheduler workspace.Scheduler
	Now       func() time.Time
}

type SignInFormModel struct {
	Email    string
	Password string
}

type CommitmentFormModel struct {
	Title       string
	Description string
	Priority    string
	Category    string
	DueDate     string
}

type Model struct {
	deps           Deps
	ctx            context.Context
	state          SessionState
	keys           KeyMap
	help           help.Model
	user           models.User
	form           *huh.Form
	signInForm     *SignInFormModel
	commitmentForm *CommitmentFormModel
	signInErr      string

	date       string
	session    *workspace.Session
	changes    chan struct{}
	watchCtx   context.Context
	stopWatch  context.CancelFunc
	todayModel today.Model

	streakModel     streakgrid.Model
	commitmentsList commitmentlist.Model

	status   string
	quitting bool
	width    int
	height   int
}

type Option func(*Model)

// WithUser skips the sign-in form.
func WithUser(user models.User) Option {
	return func(m *Model) { m.user = user }
}

func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

func NewModel(deps Deps, opts ...Option) Model {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Scheduler == nil {
		deps.Scheduler = workspace.RealScheduler()
	}
	now := deps.Now().In(deps.Location)

	m := Model{
		deps:            deps,
		ctx:             context.Background(),
		state:           StateSignIn,
		keys:            DefaultKeyMap(),
		help:            help.New(),
		streakModel:     streakgrid.New(now.Year(), now.Month()),
		commitmentsList: commitmentlist.New(0, 0),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.user.ID != "" {
		m.state = StateToday
		m.openDay(utils.DateKey(now, deps.Location))
	} else {
		m.initSignInForm()
	}
	return m
}

func (m Model) State() SessionState {
	return m.state
}

func (m Model) Date() string {
	return m.date
}

func (m Model) User() models.User {
	return m.user
}

// Session returns the workspace of the day being edited, nil before sign in.
func (m Model) Session() *workspace.Session {
	return m.session
}

// Close saves pending edits of the open day.
func (m Model) Close(ctx context.Context) error {
	if m.stopWatch != nil {
		m.stopWatch()
	}
	if m.session == nil {
		return nil
	}
	return m.session.Close(ctx)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit}
	switch m.state {
	case StateToday:
		keys = append(keys, m.keys.Toggle, m.keys.SubTask, m.keys.NextDay, m.keys.PrevDay)
	case StateStreak:
		streakKeys := m.streakModel.Keys()
		keys = append(keys, streakKeys.PrevMonth, streakKeys.NextMonth, m.keys.Help)
	case StateCommitments:
		keys = append(keys, m.keys.Help)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	editing := []key.Binding{m.keys.Toggle, m.keys.Expand, m.keys.SubTask, m.keys.Note, m.keys.Save, m.keys.Retry}
	days := []key.Binding{m.keys.NextDay, m.keys.PrevDay, m.keys.DeleteDay}
	return [][]key.Binding{global, editing, days}
}

func (m Model) Init() tea.Cmd {
	if m.state == StateSignIn {
		return m.form.Init()
	}
	return tea.Batch(m.loadDay(), m.streakModel.Load(), m.loadCommitments())
}
