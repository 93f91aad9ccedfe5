package journal

import (
	"context"
	"fmt"

	"github.com/julianstephens/rindful/internal/constants"
	rerrors "github.com/julianstephens/rindful/internal/errors"
	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/storage"
	"github.com/julianstephens/rindful/internal/streak"
	"github.com/julianstephens/rindful/internal/utils"
	"github.com/julianstephens/rindful/internal/validation"
)

// GetStats returns the cached streak state as seen today. An owner with no
// cache row reads as zero stats. A cache advanced past today by a
// future-dated check-in is viewed through the history up to today.
func (s *Service) GetStats(ctx context.Context) (models.UserStats, error) {
	owner := s.Owner()
	var cached *models.UserStats
	err := s.handle.Do(ctx, func(p storage.Provider) error {
		var err error
		cached, err = p.GetStats(ctx, owner)
		return err
	})
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to read stats: %w", err)
	}
	stats := models.UserStats{OwnerID: owner}
	if cached != nil {
		stats = *cached
	}
	today := s.Today()
	if stats.LastCheckInDate <= today {
		return streak.Normalize(stats, today), nil
	}
	entries, err := s.ListAll(ctx)
	if err != nil {
		return models.UserStats{}, err
	}
	return streak.View(stats, entries, today), nil
}

// GetStreakSummary recomputes streak statistics from the full history.
func (s *Service) GetStreakSummary(ctx context.Context) (models.StreakSummary, error) {
	entries, err := s.ListAll(ctx)
	if err != nil {
		return models.StreakSummary{}, err
	}
	return streak.ComputeSummary(entries, s.Today()), nil
}

// ReconcileStats rebuilds the cache from history after a bulk write,
// keeping the longest streak.
func (s *Service) ReconcileStats(ctx context.Context) (models.UserStats, error) {
	s.Wait()
	owner := s.Owner()
	err := s.handle.Do(ctx, func(p storage.Provider) error {
		return s.engine.Reconcile(ctx, p, owner)
	})
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to reconcile stats: %w", err)
	}
	return s.GetStats(ctx)
}

// RebuildStats recomputes the cache from history and overwrites it,
// longest streak included. It is the explicit repair.
func (s *Service) RebuildStats(ctx context.Context) (models.UserStats, error) {
	s.Wait()
	owner := s.Owner()
	var stats models.UserStats
	err := s.handle.Do(ctx, func(p storage.Provider) error {
		var err error
		stats, err = s.engine.Recompute(ctx, p, owner)
		return err
	})
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to rebuild stats: %w", err)
	}
	return streak.Normalize(stats, s.Today()), nil
}

// TaskProgress reports tasks completed over the last seven days and the
// average per day.
func (s *Service) TaskProgress(ctx context.Context) (int, float64, error) {
	today := s.Today()
	start, err := utils.AddDays(today, -(constants.TaskLookbackDays - 1))
	if err != nil {
		return 0, 0, err
	}
	entries, err := s.GetEntriesInRange(ctx, start, today)
	if err != nil {
		return 0, 0, err
	}
	count, avg := streak.CompletedInWindow(entries, constants.TaskLookbackDays)
	return count, avg, nil
}

// TaskStats returns per-date task totals for start..end.
func (s *Service) TaskStats(ctx context.Context, start, end string) (map[string]models.TaskDayStats, error) {
	entries, err := s.GetEntriesInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return streak.TaskRollup(entries), nil
}

// MoodEntries returns the entries in start..end that carry a mood, oldest
// first.
func (s *Service) MoodEntries(ctx context.Context, start, end string) ([]models.DailyEntry, error) {
	if err := validation.ValidateRange(start, end); err != nil {
		return nil, rerrors.Malformed("%v", err)
	}
	entries, err := s.GetEntriesInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	rated := make([]models.DailyEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Mood != nil {
			rated = append(rated, entries[i])
		}
	}
	return rated, nil
}

// MoodSummary aggregates mood ratings for start..end.
func (s *Service) MoodSummary(ctx context.Context, start, end string) (models.MoodSummary, error) {
	entries, err := s.MoodEntries(ctx, start, end)
	if err != nil {
		return models.MoodSummary{}, err
	}
	return streak.MoodSummary(entries), nil
}
