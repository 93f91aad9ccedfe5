package storage

import (
	"context"

	"github.com/julianstephens/rindful/internal/models"
)

// Provider is a storage backend for daily entries and the derived stats cache.
// Absent records are reported as a nil result with a nil error.
type Provider interface {
	// Lifecycle
	// Init creates the database if needed and applies pending migrations.
	Init(ctx context.Context) error
	// Load opens an existing database and refuses an out-of-date schema.
	Load(ctx context.Context) error
	// Verify checks that the open handle is usable and its schema current.
	Verify(ctx context.Context) error
	Close() error

	// Entries
	GetEntry(ctx context.Context, key models.EntryKey) (*models.DailyEntry, error)
	// PutEntry replaces the record at entry.ID. Callers outside the journal
	// service must not use it directly.
	PutEntry(ctx context.Context, entry models.DailyEntry) error
	// QueryRange returns the owner's entries with start <= date <= end, newest first.
	QueryRange(ctx context.Context, ownerID, start, end string) ([]models.DailyEntry, error)
	DeleteEntry(ctx context.Context, key models.EntryKey) error
	ListAll(ctx context.Context, ownerID string) ([]models.DailyEntry, error)

	// Stats cache
	GetStats(ctx context.Context, ownerID string) (*models.UserStats, error)
	PutStats(ctx context.Context, stats models.UserStats) error

	// WipeOwner removes every entry and the stats row of an owner.
	WipeOwner(ctx context.Context, ownerID string) error

	// Location returns a non-secret identifier of the backing store.
	Location() string
}
