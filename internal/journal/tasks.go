package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/rindful/internal/constants"
	rerrors "github.com/julianstephens/rindful/internal/errors"
	"github.com/julianstephens/rindful/internal/logger"
	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/utils"
)

// ErrTaskNotFound is returned when a task id is not on the given date.
var ErrTaskNotFound = errors.New("task not found")

// Tasks returns the tasks of date in display order.
func (s *Service) Tasks(ctx context.Context, date string) ([]models.Task, error) {
	entry, err := s.GetEntry(ctx, date)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return []models.Task{}, nil
	}
	return models.SortTasksForDisplay(entry.Tasks), nil
}

func (s *Service) storedTasks(ctx context.Context, date string) ([]models.Task, error) {
	entry, err := s.GetEntry(ctx, date)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return []models.Task{}, nil
	}
	return entry.Tasks, nil
}

// AddTask appends a new incomplete task to date.
func (s *Service) AddTask(ctx context.Context, date, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, rerrors.Malformed("task title cannot be empty")
	}
	tasks, err := s.storedTasks(ctx, date)
	if err != nil {
		return nil, err
	}
	task := models.Task{ID: s.idgen.New(), Title: title, Date: date}
	if _, err := s.UpdateTasks(ctx, date, append(tasks, task)); err != nil {
		return nil, err
	}
	return &task, nil
}

// SetTaskCompleted marks a task done or not done.
func (s *Service) SetTaskCompleted(ctx context.Context, date, id string, completed bool) (*models.Task, error) {
	tasks, err := s.storedTasks(ctx, date)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		tasks[i].Completed = completed
		task := tasks[i]
		if _, err := s.UpdateTasks(ctx, date, tasks); err != nil {
			return nil, err
		}
		return &task, nil
	}
	return nil, fmt.Errorf("%w: %s on %s", ErrTaskNotFound, id, date)
}

// ToggleTask flips the completion state of a task.
func (s *Service) ToggleTask(ctx context.Context, date, id string) (*models.Task, error) {
	tasks, err := s.storedTasks(ctx, date)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return s.SetTaskCompleted(ctx, date, id, !t.Completed)
		}
	}
	return nil, fmt.Errorf("%w: %s on %s", ErrTaskNotFound, id, date)
}

// RemoveTask deletes a task from date.
func (s *Service) RemoveTask(ctx context.Context, date, id string) error {
	tasks, err := s.storedTasks(ctx, date)
	if err != nil {
		return err
	}
	kept := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return fmt.Errorf("%w: %s on %s", ErrTaskNotFound, id, date)
	}
	_, err = s.UpdateTasks(ctx, date, kept)
	return err
}

// PruneIncomplete is the daily reset: incomplete tasks on days before today
// within the last week are dropped, completed ones are kept. It returns the
// number of tasks removed.
func (s *Service) PruneIncomplete(ctx context.Context) (int, error) {
	today := s.Today()
	start, err := utils.AddDays(today, -(constants.TaskLookbackDays - 1))
	if err != nil {
		return 0, err
	}
	entries, err := s.GetEntriesInRange(ctx, start, today)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if e.Date >= today || len(e.Tasks) == 0 {
			continue
		}
		done := make([]models.Task, 0, len(e.Tasks))
		for _, t := range e.Tasks {
			if t.Completed {
				done = append(done, t)
			}
		}
		if len(done) == len(e.Tasks) {
			continue
		}
		if _, err := s.UpdateTasks(ctx, e.Date, done); err != nil {
			return removed, err
		}
		logger.Debug("Pruned incomplete tasks", "date", e.Date, "count", len(e.Tasks)-len(done))
		removed += len(e.Tasks) - len(done)
	}
	return removed, nil
}
