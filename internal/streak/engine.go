// Package streak maintains the per-owner streak cache and derives streak,
// weekly and task statistics from entry history.
package streak

import (
	"context"
	"fmt"
	"sync"

	"github.com/julianstephens/rindful/internal/logger"
	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/storage"
	"github.com/julianstephens/rindful/internal/utils"
)

// Engine updates the UserStats cache. It serializes its own
// read-modify-write cycles; callers may run Advance from any goroutine.
type Engine struct {
	mu sync.Mutex
}

func NewEngine() *Engine {
	return &Engine{}
}

// Advance folds one written entry into the owner's cache.
//
// Only check-ins move the streak. A write dated before the last check-in
// (backfill), or one that turns the last check-in day back into a non
// check-in, cannot be folded incrementally; the cache is rebuilt from
// history instead, keeping the longest streak.
func (e *Engine) Advance(ctx context.Context, store storage.Provider, entry models.DailyEntry) error {
	if !utils.IsValidDate(entry.Date) {
		return fmt.Errorf("advance: invalid date %q", entry.Date)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := store.GetStats(ctx, entry.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}
	stats := models.UserStats{OwnerID: entry.OwnerID}
	if current != nil {
		stats = *current
	}

	checkIn := entry.IsCheckIn()
	last := stats.LastCheckInDate

	switch {
	case last != "" && entry.Date < last,
		entry.Date == last && !checkIn:
		return e.repair(ctx, store, stats)
	case !checkIn:
		return nil
	}

	next := step(stats, entry.Date)
	if next == stats {
		return nil
	}
	if err := store.PutStats(ctx, next); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	return nil
}

// step applies a check-in on date at or after the last check-in.
func step(stats models.UserStats, date string) models.UserStats {
	last := stats.LastCheckInDate
	switch {
	case last == date:
	case last != "" && shiftDay(last, 1) == date:
		stats.CurrentStreak++
	default:
		stats.CurrentStreak = 1
	}
	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastCheckInDate = date

	if ws := weekStart(date); ws != stats.WeekStart {
		stats.WeekStart = ws
		stats.WeeklyDays = [7]bool{}
	}
	stats.WeeklyDays[weekday(date)] = true
	return stats
}

func (e *Engine) repair(ctx context.Context, store storage.Provider, prev models.UserStats) error {
	entries, err := store.ListAll(ctx, prev.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	next := Rebuild(prev.OwnerID, entries)
	if prev.LongestStreak > next.LongestStreak {
		next.LongestStreak = prev.LongestStreak
	}
	logger.Debug("Rebuilt streak cache", "owner", prev.OwnerID, "last", next.LastCheckInDate, "current", next.CurrentStreak)
	if err := store.PutStats(ctx, next); err != nil {
		return fmt.Errorf("failed to write stats: %w", err)
	}
	return nil
}

// Reconcile rebuilds the owner's cache from history after a change Advance
// cannot fold in, such as a deletion. The longest streak is kept.
func (e *Engine) Reconcile(ctx context.Context, store storage.Provider, ownerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, err := store.GetStats(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}
	prev := models.UserStats{OwnerID: ownerID}
	if current != nil {
		prev = *current
	}
	return e.repair(ctx, store, prev)
}

// Recompute rebuilds the owner's cache from history and overwrites it,
// longest streak included.
func (e *Engine) Recompute(ctx context.Context, store storage.Provider, ownerID string) (models.UserStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := store.ListAll(ctx, ownerID)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to read history: %w", err)
	}
	stats := Rebuild(ownerID, entries)
	if err := store.PutStats(ctx, stats); err != nil {
		return models.UserStats{}, fmt.Errorf("failed to write stats: %w", err)
	}
	return stats, nil
}

// Rebuild computes the cache state that replaying every check-in in date
// order through Advance would produce.
func Rebuild(ownerID string, entries []models.DailyEntry) models.UserStats {
	stats := models.UserStats{OwnerID: ownerID}
	for _, date := range checkInDates(entries) {
		stats = step(stats, date)
	}
	return stats
}

// Normalize is the read view of a cached UserStats as of today: a streak
// whose last check-in is not today reads as 0 and a week other than today's
// reads as empty. The stored value is not changed.
func Normalize(stats models.UserStats, today string) models.UserStats {
	if stats.LastCheckInDate != today {
		stats.CurrentStreak = 0
	}
	if stats.WeekStart != weekStart(today) {
		stats.WeekStart = weekStart(today)
		stats.WeeklyDays = [7]bool{}
	}
	return stats
}

// View is the read view of a cached UserStats as of today given the owner's
// history. A cache whose last check-in is after today (a check-in written
// for a future date) is rebuilt from the check-ins up to today. The current
// week then counts every check-in in it, the same way ComputeSummary does.
func View(stats models.UserStats, entries []models.DailyEntry, today string) models.UserStats {
	if stats.LastCheckInDate <= today {
		return Normalize(stats, today)
	}

	past := make([]models.DailyEntry, 0, len(entries))
	for _, e := range entries {
		if e.Date <= today {
			past = append(past, e)
		}
	}
	view := Rebuild(stats.OwnerID, past)
	if stats.LongestStreak > view.LongestStreak {
		view.LongestStreak = stats.LongestStreak
	}
	view = Normalize(view, today)

	ws := weekStart(today)
	view.WeekStart = ws
	view.WeeklyDays = [7]bool{}
	for _, d := range checkInDates(entries) {
		if weekStart(d) == ws {
			view.WeeklyDays[weekday(d)] = true
		}
	}
	return view
}
