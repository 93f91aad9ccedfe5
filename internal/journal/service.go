// Package journal is the only writer of daily entries. Every mutation is a
// merge of the supplied fields onto the stored record for (owner, date).
package journal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/rindful/internal/constants"
	rerrors "github.com/julianstephens/rindful/internal/errors"
	"github.com/julianstephens/rindful/internal/identity"
	"github.com/julianstephens/rindful/internal/logger"
	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/storage"
	"github.com/julianstephens/rindful/internal/streak"
	"github.com/julianstephens/rindful/internal/validation"
)

// Service reads and merge-writes daily entries for the current owner.
type Service struct {
	handle   *storage.Handle
	identity identity.Provider
	engine   *streak.Engine
	clock    Clock
	idgen    IDGenerator
	location *time.Location

	// pending tracks background stats updates.
	pending sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock that stamps writes and decides "today".
func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

// WithIDGenerator sets the source of new task ids.
func WithIDGenerator(g IDGenerator) Option { return func(s *Service) { s.idgen = g } }

// WithLocation sets the timezone that decides which date is "today".
func WithLocation(loc *time.Location) Option { return func(s *Service) { s.location = loc } }

// NewService returns a journal over handle. The owner is read from id on
// every call.
func NewService(handle *storage.Handle, id identity.Provider, engine *streak.Engine, opts ...Option) *Service {
	s := &Service{
		handle:   handle,
		identity: id,
		engine:   engine,
		clock:    RealClock{},
		idgen:    UUIDGenerator{},
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WriteOption adjusts a single MergeWrite.
type WriteOption func(*writeOptions)

type writeOptions struct {
	skipStats bool
}

// WithoutStats skips the background stats update. Bulk writers use it and
// rebuild the cache once at the end.
func WithoutStats() WriteOption {
	return func(o *writeOptions) { o.skipStats = true }
}

// Owner returns the current owner id.
func (s *Service) Owner() string {
	return s.identity.OwnerID()
}

// Today returns the current date in the service's timezone.
func (s *Service) Today() string {
	return s.clock.Now().In(s.location).Format(constants.DateFormat)
}

// NewTaskID returns a fresh task id.
func (s *Service) NewTaskID() string {
	return s.idgen.New()
}

func (s *Service) key(date string) models.EntryKey {
	return models.EntryKey{OwnerID: s.Owner(), Date: date}
}

func validatePatch(date string, patch models.EntryPatch) error {
	if err := validation.ValidateDate(date); err != nil {
		return rerrors.Malformed("%v", err)
	}
	if patch.Mood.Set {
		if err := validation.ValidateRating(models.RatingMood, patch.Mood.Value); err != nil {
			return rerrors.Malformed("%v", err)
		}
	}
	if patch.Energy.Set {
		if err := validation.ValidateRating(models.RatingEnergy, patch.Energy.Value); err != nil {
			return rerrors.Malformed("%v", err)
		}
	}
	if patch.WordCount.Set && patch.WordCount.Value < 0 {
		return rerrors.Malformed("word count %d is negative", patch.WordCount.Value)
	}
	return nil
}

// merge applies patch onto base. Unset fields keep base's value.
func merge(base models.DailyEntry, patch models.EntryPatch) models.DailyEntry {
	out := base.Clone()
	out.Content = patch.Content.Or(base.Content)
	if patch.Mood.Set {
		out.Mood = copyRating(patch.Mood.Value)
	}
	if patch.Energy.Set {
		out.Energy = copyRating(patch.Energy.Value)
	}
	out.WordCount = patch.WordCount.Or(base.WordCount)
	if patch.Tasks.Set {
		out.Tasks = append([]models.Task{}, patch.Tasks.Value...)
	}
	out.Tasks = models.CleanTasks(out.Tasks)
	return out
}

func copyRating(v *int) *int {
	if v == nil {
		return nil
	}
	return models.IntPtr(*v)
}

// MergeWrite merges patch onto the stored entry for date and writes the
// result. The streak cache is updated in the background; a failure there
// is logged and never returned.
func (s *Service) MergeWrite(ctx context.Context, date string, patch models.EntryPatch, opts ...WriteOption) (*models.DailyEntry, error) {
	if err := validatePatch(date, patch); err != nil {
		return nil, err
	}
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}

	key := s.key(date)
	var written models.DailyEntry
	err := s.handle.Do(ctx, func(p storage.Provider) error {
		existing, err := p.GetEntry(ctx, key)
		if err != nil {
			return err
		}
		base := models.NewEntry(key)
		if existing != nil {
			base = *existing
		}
		written = merge(base, patch)
		written.ID = key.String()
		written.OwnerID = key.OwnerID
		written.Date = key.Date
		written.Timestamp = s.clock.Now().UnixMilli()
		return p.PutEntry(ctx, written)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write entry for %s: %w", date, err)
	}

	if !o.skipStats {
		s.advance(ctx, written.Clone())
	}
	return &written, nil
}

// advance folds entry into the stats cache in the background. It goes
// through the handle, so a store invalidated in the meantime is reopened.
func (s *Service) advance(ctx context.Context, entry models.DailyEntry) {
	bg := context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		err := s.handle.Do(bg, func(p storage.Provider) error {
			return s.engine.Advance(bg, p, entry)
		})
		if err != nil {
			err = fmt.Errorf("%w: %v", rerrors.ErrStatsUpdateFailed, err)
			logger.Warn("Stats update failed", "date", entry.Date, "error", err)
		}
	}()
}

// Wait blocks until background stats updates have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// Close drains background work and closes the store.
func (s *Service) Close() error {
	s.Wait()
	return s.handle.Close()
}

// UpdateContent replaces the journal text and its word count.
func (s *Service) UpdateContent(ctx context.Context, date, html string, wordCount int) (*models.DailyEntry, error) {
	return s.MergeWrite(ctx, date, models.EntryPatch{
		Content:   models.Some(html),
		WordCount: models.Some(wordCount),
	})
}

// UpdateMood sets or, with nil, clears the mood rating.
func (s *Service) UpdateMood(ctx context.Context, date string, mood *int) (*models.DailyEntry, error) {
	return s.MergeWrite(ctx, date, models.EntryPatch{Mood: models.Some(mood)})
}

// UpdateEnergy sets or, with nil, clears the energy rating.
func (s *Service) UpdateEnergy(ctx context.Context, date string, energy *int) (*models.DailyEntry, error) {
	return s.MergeWrite(ctx, date, models.EntryPatch{Energy: models.Some(energy)})
}

// UpdateTasks replaces the task list.
func (s *Service) UpdateTasks(ctx context.Context, date string, tasks []models.Task) (*models.DailyEntry, error) {
	return s.MergeWrite(ctx, date, models.EntryPatch{Tasks: models.Some(tasks)})
}

// GetEntry returns the entry for date, or nil when there is none.
func (s *Service) GetEntry(ctx context.Context, date string) (*models.DailyEntry, error) {
	if err := validation.ValidateDate(date); err != nil {
		return nil, rerrors.Malformed("%v", err)
	}
	var entry *models.DailyEntry
	err := s.handle.Do(ctx, func(p storage.Provider) error {
		var err error
		entry, err = p.GetEntry(ctx, s.key(date))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read entry for %s: %w", date, err)
	}
	return entry, nil
}

// GetEntriesInRange returns entries with start <= date <= end, newest first.
func (s *Service) GetEntriesInRange(ctx context.Context, start, end string) ([]models.DailyEntry, error) {
	if err := validation.ValidateRange(start, end); err != nil {
		return nil, rerrors.Malformed("%v", err)
	}
	var entries []models.DailyEntry
	err := s.handle.Do(ctx, func(p storage.Provider) error {
		var err error
		entries, err = p.QueryRange(ctx, s.Owner(), start, end)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}

// ListAll returns every entry of the owner, newest first.
func (s *Service) ListAll(ctx context.Context) ([]models.DailyEntry, error) {
	var entries []models.DailyEntry
	err := s.handle.Do(ctx, func(p storage.Provider) error {
		var err error
		entries, err = p.ListAll(ctx, s.Owner())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}

// DeleteEntry removes the entry for date, if any, and reconciles the stats
// cache. Deleting an absent entry is not an error.
func (s *Service) DeleteEntry(ctx context.Context, date string) error {
	if err := validation.ValidateDate(date); err != nil {
		return rerrors.Malformed("%v", err)
	}
	owner := s.Owner()
	err := s.handle.Do(ctx, func(p storage.Provider) error {
		if err := p.DeleteEntry(ctx, models.EntryKey{OwnerID: owner, Date: date}); err != nil {
			return err
		}
		if err := s.engine.Reconcile(ctx, p, owner); err != nil {
			logger.Warn("Stats update failed", "date", date, "error", fmt.Errorf("%w: %v", rerrors.ErrStatsUpdateFailed, err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete entry for %s: %w", date, err)
	}
	return nil
}

// Wipe removes every entry and the stats cache of the current owner.
func (s *Service) Wipe(ctx context.Context) error {
	s.Wait()
	owner := s.Owner()
	err := s.handle.Do(ctx, func(p storage.Provider) error {
		return p.WipeOwner(ctx, owner)
	})
	if err != nil {
		return fmt.Errorf("failed to wipe data: %w", err)
	}
	logger.Info("Wiped local data", "owner", owner)
	return nil
}
