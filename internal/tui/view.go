package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/ogtodo/internal/utils"
)

var tabTitles = []string{"Today", "Streak", "Commitments"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateSignIn:
		return docStyle.Render(m.viewSignIn())
	case StateToday:
		content = m.viewToday()
	case StateStreak:
		content = docStyle.Render(m.streakModel.View())
	case StateCommitments:
		content = docStyle.Render(m.commitmentsList.View())
	case StateAddCommitment:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, dangerStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	active := m.state
	switch m.state {
	case StateAddCommitment:
		active = StateCommitments
	case StateConfirmDelete:
		active = StateToday
	}
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewSignIn() string {
	header := dateStyle.Render("Sign in to ogtodo")
	if m.signInErr == "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", m.form.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, dangerStyle.Render(m.signInErr), "", m.form.View())
}

func (m Model) viewToday() string {
	title := m.date
	if day, err := utils.ParseDateInLocation(m.date, time.UTC); err == nil {
		title = day.Format("Monday, January 2 2006")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		dateStyle.Render(title),
		"   ",
		m.todayModel.StatusView(),
	)
	hint := mutedStyle.Render("enter new task · alt+enter subtask · backspace on empty deletes")
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", m.todayModel.View(), "", hint))
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete the whole todo for "+m.date+"?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
