package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ogtodo/internal/tui/components/commitmentlist"
	"github.com/julianstephens/ogtodo/internal/tui/components/streakgrid"
	"github.com/julianstephens/ogtodo/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.todayModel.SetSize(msg.Width-4, msg.Height-6)
		m.commitmentsList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case signedInMsg:
		m.user = msg.user
		m.signInErr = ""
		m.state = StateToday
		m.openDay(utils.DateKey(m.deps.Now(), m.deps.Location))
		return m, tea.Batch(m.loadDay(), m.streakModel.Load(), m.loadCommitments())

	case signInFailedMsg:
		m.signInErr = msg.err.Error()
		m.initSignInForm()
		return m, m.form.Init()

	case dayLoadedMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not load %s: %v", m.date, msg.err)
		}
		m.todayModel.Sync(m.session.Snapshot())
		return m, nil

	case dayChangedMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.todayModel.Sync(m.session.Snapshot())
		return m, watch(m.watchCtx, m.session, m.changes)

	case saveDoneMsg:
		if msg.session == m.session {
			m.status = ""
			if msg.err != nil {
				m.status = fmt.Sprintf("Save failed: %v (ctrl+r to retry)", msg.err)
			}
			m.todayModel.Sync(m.session.Snapshot())
		}
		return m, nil

	case dayDeletedMsg:
		if msg.session == m.session {
			m.status = ""
			if msg.err != nil {
				m.status = fmt.Sprintf("Delete failed: %v", msg.err)
			}
			m.todayModel.Sync(m.session.Snapshot())
		}
		return m, nil

	case streakgrid.LoadMonthMsg:
		return m, m.fetchMonth(msg.Year, msg.Month)

	case monthLoadedMsg:
		m.streakModel.SetMonth(msg.view, msg.err)
		return m, nil

	case commitmentsLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not load commitments: %v", msg.err)
			return m, nil
		}
		m.commitmentsList.SetCommitments(msg.list, msg.now)
		return m, nil

	case commitmentChangedMsg:
		m.status = ""
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		return m, m.loadCommitments()

	case commitmentlist.AddCommitmentMsg:
		m.initCommitmentForm()
		m.state = StateAddCommitment
		return m, m.form.Init()

	case commitmentlist.ToggleCommitmentMsg:
		id := msg.ID
		return m, m.changeCommitment(func(ctx context.Context, svc CommitmentManager, userID string) error {
			_, err := svc.Toggle(ctx, userID, id)
			return err
		})

	case commitmentlist.DeleteCommitmentMsg:
		id := msg.ID
		return m, m.changeCommitment(func(ctx context.Context, svc CommitmentManager, userID string) error {
			return svc.Delete(ctx, userID, id)
		})

	case commitmentlist.RefreshMsg:
		return m, m.loadCommitments()
	}

	switch m.state {
	case StateSignIn:
		return m.updateSignIn(msg)
	case StateAddCommitment:
		return m.updateCommitmentForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		if m.state == StateCommitments && m.commitmentsList.Filtering() && !key.Matches(keyMsg, m.keys.Quit) {
			var cmd tea.Cmd
			m.commitmentsList, cmd = m.commitmentsList.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Tab):
			return m.switchTab((m.state + 1) % tabCount)
		case key.Matches(keyMsg, m.keys.ShiftTab):
			return m.switchTab((m.state - 1 + tabCount) % tabCount)
		case m.state != StateToday && key.Matches(keyMsg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		if isKey {
			if handled, cmd := m.updateDayKeys(keyMsg); handled {
				return m, cmd
			}
		}
		m.todayModel, cmd = m.todayModel.Update(msg)
	case StateStreak:
		m.streakModel, cmd = m.streakModel.Update(msg)
	case StateCommitments:
		m.commitmentsList, cmd = m.commitmentsList.Update(msg)
	}
	return m, cmd
}

func (m Model) switchTab(state SessionState) (tea.Model, tea.Cmd) {
	m.state = state
	switch state {
	case StateStreak:
		return m, m.streakModel.Load()
	case StateCommitments:
		return m, m.loadCommitments()
	}
	return m, nil
}

func (m *Model) updateDayKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextDay), key.Matches(msg, m.keys.PrevDay):
		delta := 1
		if key.Matches(msg, m.keys.PrevDay) {
			delta = -1
		}
		date, err := utils.AddDays(m.date, delta)
		if err != nil {
			m.status = err.Error()
			return true, nil
		}
		previous := m.openDay(date)
		return true, m.loadDay(previous)
	case key.Matches(msg, m.keys.Save):
		return true, m.flush(false)
	case key.Matches(msg, m.keys.Retry):
		return true, m.flush(true)
	case key.Matches(msg, m.keys.DeleteDay):
		m.state = StateConfirmDelete
		return true, nil
	}
	return false, nil
}

func (m Model) updateSignIn(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.signInErr = ""
		return m, m.signIn(m.signInForm.Email, m.signInForm.Password)
	case huh.StateAborted:
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m Model) updateCommitmentForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = StateCommitments
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateCommitments
		return m, m.addCommitment(*m.commitmentForm)
	case huh.StateAborted:
		m.state = StateCommitments
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		m.state = StateToday
		return m, m.deleteDay()
	case key.Matches(keyMsg, m.keys.Cancel):
		m.state = StateToday
	}
	return m, nil
}
