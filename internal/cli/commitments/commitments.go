// Package commitments holds the commitment subcommands.
package commitments

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/ogtodo/internal/cli"
	"github.com/julianstephens/ogtodo/internal/commitments"
	"github.com/julianstephens/ogtodo/internal/constants"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/utils"
)

type AddCmd struct {
	Title       string `arg:"" help:"Commitment title."`
	Description string `short:"d" required:"" help:"What the commitment involves."`
	Category    string `short:"c" required:"" help:"Category, e.g. work or family."`
	Priority    string `short:"p" default:"medium" help:"low, medium or high."`
	Due         string `required:"" help:"Due date as YYYY-MM-DD or 'YYYY-MM-DD HH:MM' in the configured timezone."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	due, err := utils.ParseDueDate(c.Due, ctx.Location())
	if err != nil {
		return fmt.Errorf("invalid --due: %w", err)
	}
	user, err := ctx.SignIn()
	if err != nil {
		return err
	}
	svc, err := ctx.Services()
	if err != nil {
		return err
	}

	created, err := svc.Commitments.Add(ctx.Context(), user.ID, commitments.AddInput{
		Title:       c.Title,
		Description: c.Description,
		Priority:    c.Priority,
		Category:    c.Category,
		DueDate:     due,
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Added commitment %q (%s)\n", created.Title, created.ID)
	return nil
}

type ListCmd struct {
	Priority string `short:"p" help:"Only this priority."`
	Category string `short:"c" help:"Only this category."`
	Pending  bool   `help:"Hide completed commitments." xor:"status"`
	Done     bool   `help:"Only completed commitments." xor:"status"`
	Overdue  bool   `help:"Only overdue commitments."`
	DueSoon  bool   `name:"due-soon" help:"Only commitments due within a week."`
}

func (c *ListCmd) filter(now time.Time) (models.CommitmentFilter, error) {
	f := models.CommitmentFilter{Overdue: c.Overdue, DueSoon: c.DueSoon, Now: now}
	if c.Priority != "" {
		p, err := models.ParsePriority(c.Priority)
		if err != nil {
			return f, err
		}
		f.Priority = &p
	}
	if c.Category != "" {
		f.Category = &c.Category
	}
	if c.Pending || c.Done {
		completed := c.Done
		f.Completed = &completed
	}
	return f, nil
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	now := ctx.Clock()()
	filter, err := c.filter(now)
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

	list, err := svc.Commitments.List(ctx.Context(), user.ID, filter)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ctx.Println("No commitments found.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "ID", "TITLE", "PRIORITY", "CATEGORY", "DUE", "STATUS")
	for _, cm := range list {
		t.Row(
			checkbox(cm.IsCompleted),
			cm.ID,
			cm.Title,
			cm.Priority.Label(),
			cm.Category,
			cm.DueDate.In(ctx.Location()).Format(constants.DueDateTimeFormat),
			status(cm, now),
		)
	}
	ctx.Println(t.Render())
	return nil
}

func checkbox(done bool) string {
	if done {
		return "●"
	}
	return "○"
}

func status(c models.Commitment, now time.Time) string {
	switch {
	case c.IsCompleted:
		return "done"
	case c.IsOverdue(now):
		return "overdue"
	case c.IsDueSoon(now, constants.DueSoonWindow):
		return "due soon"
	}
	return ""
}

type DoneCmd struct {
	ID   string `arg:"" help:"Commitment ID."`
	Undo bool   `help:"Mark the commitment as not completed."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	user, err := ctx.SignIn()
	if err != nil {
		return err
	}
	svc, err := ctx.Services()
	if err != nil {
		return err
	}

	completed := !c.Undo
	updated, err := svc.Commitments.Update(ctx.Context(), user.ID, c.ID, commitments.UpdateInput{IsCompleted: &completed})
	if err != nil {
		return err
	}
	if updated.IsCompleted {
		ctx.Printf("✓ Completed %q\n", updated.Title)
	} else {
		ctx.Printf("○ Reopened %q\n", updated.Title)
	}
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"Commitment ID."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.SignIn()
	if err != nil {
		return err
	}
	svc, err := ctx.Services()
	if err != nil {
		return err
	}
	if err := svc.Commitments.Delete(ctx.Context(), user.ID, c.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted commitment %s\n", c.ID)
	return nil
}
