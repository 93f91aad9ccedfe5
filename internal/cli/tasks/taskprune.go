package tasks

import (
	"context"

	"github.com/julianstephens/rindful/internal/cli"
)

// TaskPruneCmd drops unfinished tasks left on earlier days of the week.
type TaskPruneCmd struct{}

func (c *TaskPruneCmd) Run(app *cli.Context, ctx context.Context) error {
	l, err := app.WriterLock("task prune")
	if err != nil {
		return err
	}
	defer l.Release()

	removed, err := app.Journal.PruneIncomplete(ctx)
	if err != nil {
		return err
	}
	if removed == 0 {
		app.Println("No unfinished tasks to prune.")
		return nil
	}
	app.Printf("✓ Pruned %d unfinished task(s)\n", removed)
	return nil
}
