package tasks

import (
	"context"

	"github.com/julianstephens/rindful/internal/cli"
)

type TaskDoneCmd struct {
	Task string `arg:"" help:"Task number from 'task list', id, or id prefix."`
	Date string `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
	Undo bool   `short:"u" help:"Mark the task not done."`
}

func (c *TaskDoneCmd) Run(app *cli.Context, ctx context.Context) error {
	date, err := app.Date(c.Date)
	if err != nil {
		return err
	}
	task, err := resolve(ctx, app, date, c.Task)
	if err != nil {
		return err
	}
	updated, err := app.Journal.SetTaskCompleted(ctx, date, task.ID, !c.Undo)
	if err != nil {
		return err
	}
	if updated.Completed {
		app.Printf("✓ Done: %s\n", updated.Title)
	} else {
		app.Printf("○ Not done: %s\n", updated.Title)
	}
	return nil
}
