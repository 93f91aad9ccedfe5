package tasks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/journal"
	"github.com/julianstephens/rindful/internal/models"
)

type TaskAddCmd struct {
	Title string `arg:"" help:"Task title."`
	Date  string `short:"d" help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *TaskAddCmd) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	return nil
}

func (c *TaskAddCmd) Run(app *cli.Context, ctx context.Context) error {
	date, err := app.Date(c.Date)
	if err != nil {
		return err
	}
	task, err := app.Journal.AddTask(ctx, date, c.Title)
	if err != nil {
		return err
	}
	app.Printf("✓ Added task %q for %s (id: %s)\n", task.Title, date, task.ID)
	return nil
}

// resolve finds a task by its position in the list output, its id, or an
// unambiguous id prefix.
func resolve(ctx context.Context, app *cli.Context, date, ref string) (models.Task, error) {
	tasks, err := app.Journal.Tasks(ctx, date)
	if err != nil {
		return models.Task{}, err
	}
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(tasks) {
		return tasks[n-1], nil
	}

	var matches []models.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return models.Task{}, fmt.Errorf("%w: %q on %s", journal.ErrTaskNotFound, ref, date)
	default:
		return models.Task{}, fmt.Errorf("task reference %q is ambiguous on %s", ref, date)
	}
}
