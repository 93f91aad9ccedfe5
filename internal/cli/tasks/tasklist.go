package tasks

import (
	"context"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/models"
)

type TaskListCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *TaskListCmd) Run(app *cli.Context, ctx context.Context) error {
	date, err := app.Date(c.Date)
	if err != nil {
		return err
	}
	tasks, err := app.Journal.Tasks(ctx, date)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		app.Printf("No tasks for %s.\n", date)
		return nil
	}

	app.Printf("Tasks for %s (%d/%d done):\n", date, models.CountCompleted(tasks), len(tasks))
	for i, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		app.Printf("%3d. %s %s  (%s)\n", i+1, mark, t.Title, shortID(t.ID))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
