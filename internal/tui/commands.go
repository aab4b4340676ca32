package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ogtodo/internal/commitments"
	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/tui/components/today"
	"github.com/julianstephens/ogtodo/internal/utils"
	"github.com/julianstephens/ogtodo/internal/workspace"
)

type signedInMsg struct {
	user models.User
}

type signInFailedMsg struct {
	err error
}

type dayLoadedMsg struct {
	session *workspace.Session
	err     error
}

type dayChangedMsg struct {
	session *workspace.Session
}

type saveDoneMsg struct {
	session *workspace.Session
	err     error
}

type dayDeletedMsg struct {
	session *workspace.Session
	err     error
}

type monthLoadedMsg struct {
	view models.StreakMonth
	err  error
}

type commitmentsLoadedMsg struct {
	list []models.Commitment
	now  time.Time
	err  error
}

type commitmentChangedMsg struct {
	err error
}

// openDay replaces the workspace session with one for date. The previous
// session is closed by the next loadDay.
func (m *Model) openDay(date string) *workspace.Session {
	previous := m.session
	if m.stopWatch != nil {
		m.stopWatch()
	}
	m.watchCtx, m.stopWatch = context.WithCancel(m.ctx)

	changes := make(chan struct{}, 1)
	m.session = workspace.New(m.deps.Todos, m.user.ID, date,
		workspace.WithDebounce(m.deps.Debounce),
		workspace.WithScheduler(m.deps.Scheduler),
		workspace.WithClock(m.deps.Now),
		workspace.WithContext(m.ctx),
		workspace.OnChange(func(workspace.Snapshot) {
			select {
			case changes <- struct{}{}:
			default:
			}
		}),
	)
	m.changes = changes
	m.date = date
	m.todayModel = today.New(m.session)
	m.todayModel.SetSize(m.width, m.height)
	return previous
}

// loadDay saves and closes previous, then loads the current session.
func (m Model) loadDay(previous ...*workspace.Session) tea.Cmd {
	ctx, session := m.ctx, m.session
	load := func() tea.Msg {
		for _, p := range previous {
			if p == nil {
				continue
			}
			if err := p.Close(ctx); err != nil {
				logger.Warn("Failed to save todo before switching days", "date", p.Date(), "error", err)
			}
		}
		return dayLoadedMsg{session: session, err: session.Load(ctx)}
	}
	return tea.Batch(load, watch(m.watchCtx, session, m.changes))
}

func watch(ctx context.Context, session *workspace.Session, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-changes:
			return dayChangedMsg{session: session}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) flush(retry bool) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		var err error
		if retry {
			err = session.Retry(ctx)
		} else {
			err = session.Flush(ctx)
		}
		return saveDoneMsg{session: session, err: err}
	}
}

func (m Model) deleteDay() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return dayDeletedMsg{session: session, err: session.Delete(ctx)}
	}
}

func (m Model) signIn(email, password string) tea.Cmd {
	ctx, svc := m.ctx, m.deps.Auth
	return func() tea.Msg {
		user, _, err := svc.SignIn(ctx, email, password)
		if err != nil {
			return signInFailedMsg{err: err}
		}
		return signedInMsg{user: user}
	}
}

func (m Model) fetchMonth(year int, month time.Month) tea.Cmd {
	ctx, svc, userID := m.ctx, m.deps.Months, m.user.ID
	return func() tea.Msg {
		view, err := svc.StreakMonth(ctx, userID, year, int(month))
		return monthLoadedMsg{view: view, err: err}
	}
}

func (m Model) loadCommitments() tea.Cmd {
	if m.deps.Commitments == nil {
		return nil
	}
	ctx, svc, userID, now := m.ctx, m.deps.Commitments, m.user.ID, m.deps.Now
	return func() tea.Msg {
		list, err := svc.List(ctx, userID, models.CommitmentFilter{})
		return commitmentsLoadedMsg{list: list, now: now(), err: err}
	}
}

func (m Model) changeCommitment(fn func(ctx context.Context, svc CommitmentManager, userID string) error) tea.Cmd {
	ctx, svc, userID := m.ctx, m.deps.Commitments, m.user.ID
	return func() tea.Msg {
		return commitmentChangedMsg{err: fn(ctx, svc, userID)}
	}
}

func (m Model) addCommitment(form CommitmentFormModel) tea.Cmd {
	due, err := utils.ParseDueDate(form.DueDate, m.deps.Location)
	if err != nil {
		return func() tea.Msg { return commitmentChangedMsg{err: err} }
	}
	in := commitments.AddInput{
		Title:       form.Title,
		Description: form.Description,
		Priority:    form.Priority,
		Category:    form.Category,
		DueDate:     due,
	}
	return m.changeCommitment(func(ctx context.Context, svc CommitmentManager, userID string) error {
		_, err := svc.Add(ctx, userID, in)
		return err
	})
}
