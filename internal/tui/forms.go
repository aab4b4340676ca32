package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/utils"
)

func (m *Model) initSignInForm() {
	email := ""
	if m.signInForm != nil {
		email = m.signInForm.Email
	}
	m.signInForm = &SignInFormModel{Email: email}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&m.signInForm.Email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("email is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.signInForm.Password),
		),
	).WithShowHelp(false)
}

func (m *Model) initCommitmentForm() {
	m.commitmentForm = &CommitmentFormModel{Priority: string(models.PriorityMedium)}
	loc := m.deps.Location
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.commitmentForm.Title).
				Validate(requiredField("title")),
			huh.NewInput().
				Title("Description").
				Value(&m.commitmentForm.Description).
				Validate(requiredField("description")),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption(models.PriorityLow.Label(), string(models.PriorityLow)),
					huh.NewOption(models.PriorityMedium.Label(), string(models.PriorityMedium)),
					huh.NewOption(models.PriorityHigh.Label(), string(models.PriorityHigh)),
				).
				Value(&m.commitmentForm.Priority),
			huh.NewInput().
				Title("Category").
				Value(&m.commitmentForm.Category).
				Validate(requiredField("category")),
			huh.NewInput().
				Title("Due").
				Description("YYYY-MM-DD or YYYY-MM-DD HH:MM").
				Value(&m.commitmentForm.DueDate).
				Validate(func(s string) error {
					_, err := utils.ParseDueDate(s, loc)
					return err
				}),
		),
	).WithShowHelp(false)
}

func requiredField(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}
