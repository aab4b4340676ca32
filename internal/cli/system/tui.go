package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ogtodo/internal/cli"
	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	svc, err := ctx.Services()
	if err != nil {
		return err
	}

	opts := []tui.Option{tui.WithContext(ctx.Context())}
	// With --email the sign-in form is skipped.
	if ctx.Email != "" {
		user, err := ctx.SignIn()
		if err != nil {
			return err
		}
		opts = append(opts, tui.WithUser(user))
	}

	model := tui.NewModel(tui.Deps{
		Auth:        svc.Auth,
		Todos:       ctx.Store,
		Months:      svc.Dashboard,
		Commitments: svc.Commitments,
		Location:    ctx.Location(),
		Debounce:    ctx.Config.AutosaveDebounce,
		Now:         ctx.Clock(),
	}, opts...)

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx.Context())).Run()
	if err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	if m, ok := final.(tui.Model); ok {
		// Persist anything typed after the last autosave.
		if err := m.Close(ctx.Context()); err != nil {
			logger.Error("Failed to save on exit", "error", err)
			return err
		}
	}
	return nil
}
