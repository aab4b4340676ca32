// Package account holds the per-user commands: sign up, streak, stats, export
// and the read-only day view.
package account

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/ogtodo/internal/cli"
	"github.com/julianstephens/ogtodo/internal/profile"
	"github.com/julianstephens/ogtodo/internal/tui/components/streakgrid"
	"github.com/julianstephens/ogtodo/internal/utils"
)

type SignUpCmd struct {
	Name string `help:"Display name. Defaults to the part of the email before @."`
}

func (c *SignUpCmd) Run(ctx *cli.Context) error {
	if ctx.Email == "" {
		return fmt.Errorf("--email (or OGTODO_EMAIL) is required to sign up")
	}
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	svc, err := ctx.Services()
	if err != nil {
		return err
	}
	password, err := cli.PromptPassword("Choose a password", ctx.Password)
	if err != nil {
		return err
	}

	name := c.Name
	if name == "" {
		name, _, _ = strings.Cut(ctx.Email, "@")
	}
	user, token, err := svc.Auth.SignUp(ctx.Context(), name, ctx.Email, password)
	if err != nil {
		return err
	}
	if err := svc.Auth.SignOut(ctx.Context(), token.Value); err != nil {
		return err
	}
	ctx.Printf("✓ Account created for %s (%s)\n", user.Name, user.Email)
	return nil
}

type StreakCmd struct {
	Month string `help:"Month to show as YYYY-MM. Defaults to the current month."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	year, month, err := c.parseMonth(ctx.Clock()().In(ctx.Location()))
	if err != nil {
		return err
	}
	user, err := ctx.SignIn()
	if err != nil {
		return err
	}
	svc, err := ctx.Services()
	if err != nil {
		return err
	}

	view, err := svc.Dashboard.StreakMonth(ctx.Context(), user.ID, year, int(month))
	if err != nil {
		return err
	}
	grid := streakgrid.New(year, month)
	grid.SetMonth(view, nil)
	ctx.Println(grid.View())
	return nil
}

func (c *StreakCmd) parseMonth(now time.Time) (int, time.Month, error) {
	if c.Month == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", c.Month)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", c.Month)
	}
	return t.Year(), t.Month(), nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	user, err := ctx.SignIn()
	if err != nil {
		return err
	}
	svc, err := ctx.Services()
	if err != nil {
		return err
	}

	stats, err := svc.Profile.Stats(ctx.Context(), user.ID)
	if err != nil {
		return err
	}
	commitments, err := svc.Dashboard.CommitmentStats(ctx.Context(), user.ID)
	if err != nil {
		return err
	}

	ctx.Printf("Stats for %s\n\n", user.Email)
	ctx.Printf("Current streak:     %d day(s)\n", stats.CurrentStreak)
	ctx.Printf("Longest streak:     %d day(s)\n", stats.LongestStreak)
	ctx.Printf("Todos:              %d (%.1f%% completed)\n", stats.TotalTodos, stats.TodoCompletionRate)
	ctx.Printf("Commitments:        %d total, %d completed, %d active (%d%%)\n",
		commitments.Total, commitments.Completed, commitments.Active, commitments.CompletionRate)
	ctx.Printf("Overdue / due soon: %d / %d\n", commitments.Overdue, commitments.DueSoon)
	return nil
}

type ExportCmd struct {
	Format string `short:"f" default:"json" enum:"json,yaml,yml" help:"Output format (json, yaml)."`
	Output string `short:"o" type:"path" help:"Write to this file instead of stdout."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format, err := profile.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	user, err := ctx.SignIn()
	if err != nil {
		return err
	}
	svc, err := ctx.Services()
	if err != nil {
		return err
	}

	export, err := svc.Profile.Export(ctx.Context(), user.ID)
	if err != nil {
		return err
	}
	data, err := profile.EncodeExport(export, format)
	if err != nil {
		return err
	}

	if c.Output == "" {
		ctx.Printf("%s", data)
		return nil
	}
	if err := os.WriteFile(c.Output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.Printf("✓ Exported %d todo(s) and %d commitment(s) to %s\n", len(export.Todos), len(export.Commitments), c.Output)
	return nil
}

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Day to show as YYYY-MM-DD or 'today'."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	date := c.Date
	if date == "" || date == "today" {
		date = utils.DateKey(ctx.Clock()(), ctx.Location())
	}
	user, err := ctx.SignIn()
	if err != nil {
		return err
	}
	svc, err := ctx.Services()
	if err != nil {
		return err
	}

	todo, err := svc.Todos.Get(ctx.Context(), user.ID, date)
	if err != nil {
		return err
	}

	stats := utils.CalculateStats(todo.Tasks)
	ctx.Printf("%s  %d/%d tasks · %d/%d subtasks\n\n", todo.Date,
		stats.CompletedTasks, stats.TotalTasks, stats.CompletedSubTasks, stats.TotalSubTasks)
	for _, task := range todo.Tasks {
		ctx.Printf("%s %s\n", checkbox(task.Completed), task.Title)
		for _, sub := range task.SubTasks {
			ctx.Printf("    %s %s\n", checkbox(sub.Completed), sub.Title)
		}
	}
	for _, note := range todo.Notes {
		ctx.Printf("\nNote: %s\n", note.Content)
	}
	return nil
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
