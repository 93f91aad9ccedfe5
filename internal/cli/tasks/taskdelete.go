package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/rindful/internal/cli"
)

type TaskRemoveCmd struct {
	Task string `arg:"" help:"Task number from 'task list', id, or id prefix."`
	Date string `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *TaskRemoveCmd) Run(app *cli.Context, ctx context.Context) error {
	date, err := app.Date(c.Date)
	if err != nil {
		return err
	}
	task, err := resolve(ctx, app, date, c.Task)
	if err != nil {
		return err
	}
	ok, err := app.Confirm(fmt.Sprintf("Remove task %q from %s?", task.Title, date), c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("remove cancelled")
	}
	if err := app.Journal.RemoveTask(ctx, date, task.ID); err != nil {
		return err
	}
	app.Printf("✓ Removed task: %s\n", task.Title)
	return nil
}
