package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/storage"
)

const entryColumns = `id, owner_id, date, content, mood, energy, word_count, tasks, timestamp`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.DailyEntry, error) {
	var e models.DailyEntry
	var mood, energy sql.NullInt64
	var tasks sql.NullString

	if err := row.Scan(&e.ID, &e.OwnerID, &e.Date, &e.Content, &mood, &energy, &e.WordCount, &tasks, &e.Timestamp); err != nil {
		return models.DailyEntry{}, err
	}
	e.Mood = storage.IntFromNull(mood)
	e.Energy = storage.IntFromNull(energy)

	decoded, err := storage.DecodeTasks(tasks)
	if err != nil {
		return models.DailyEntry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	e.Tasks = decoded
	return e, nil
}

func (s *Store) GetEntry(ctx context.Context, key models.EntryKey) (*models.DailyEntry, error) {
	db := s.conn()
	if db == nil {
		return nil, storage.Classify("get entry", sql.ErrConnDone)
	}
	row := db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM daily_entries WHERE id = $1`, key.String())
	e, err := scanEntry(row)
	if err != nil {
		if storage.IsNoRows(err) {
			return nil, nil
		}
		return nil, storage.Classify("get entry", err)
	}
	return &e, nil
}

func (s *Store) PutEntry(ctx context.Context, e models.DailyEntry) error {
	db := s.conn()
	if db == nil {
		return storage.Classify("put entry", sql.ErrConnDone)
	}
	tasks, err := storage.EncodeTasks(e.Tasks)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO daily_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			date = EXCLUDED.date,
			content = EXCLUDED.content,
			mood = EXCLUDED.mood,
			energy = EXCLUDED.energy,
			word_count = EXCLUDED.word_count,
			tasks = EXCLUDED.tasks,
			timestamp = EXCLUDED.timestamp`,
		e.ID, e.OwnerID, e.Date, e.Content,
		storage.NullableInt(e.Mood), storage.NullableInt(e.Energy),
		e.WordCount, tasks, e.Timestamp,
	)
	return storage.Classify("put entry", err)
}

func (s *Store) queryEntries(ctx context.Context, op, query string, args ...any) ([]models.DailyEntry, error) {
	db := s.conn()
	if db == nil {
		return nil, storage.Classify(op, sql.ErrConnDone)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storage.Classify(op, err)
	}
	defer rows.Close()

	entries := []models.DailyEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, storage.Classify(op, err)
		}
		entries = append(entries, e)
	}
	return entries, storage.Classify(op, rows.Err())
}

// QueryRange compares dates with COLLATE "C" so ordering is bytewise, as in SQLite.
func (s *Store) QueryRange(ctx context.Context, ownerID, start, end string) ([]models.DailyEntry, error) {
	return s.queryEntries(ctx, "query range", `
		SELECT `+entryColumns+` FROM daily_entries
		WHERE owner_id = $1 AND date COLLATE "C" >= $2 AND date COLLATE "C" <= $3
		ORDER BY date COLLATE "C" DESC`, ownerID, start, end)
}

func (s *Store) ListAll(ctx context.Context, ownerID string) ([]models.DailyEntry, error) {
	return s.queryEntries(ctx, "list entries", `
		SELECT `+entryColumns+` FROM daily_entries
		WHERE owner_id = $1
		ORDER BY date COLLATE "C" DESC`, ownerID)
}

func (s *Store) DeleteEntry(ctx context.Context, key models.EntryKey) error {
	db := s.conn()
	if db == nil {
		return storage.Classify("delete entry", sql.ErrConnDone)
	}
	_, err := db.ExecContext(ctx, `DELETE FROM daily_entries WHERE id = $1`, key.String())
	return storage.Classify("delete entry", err)
}

func (s *Store) WipeOwner(ctx context.Context, ownerID string) error {
	db := s.conn()
	if db == nil {
		return storage.Classify("wipe", sql.ErrConnDone)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Classify("wipe", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_entries WHERE owner_id = $1`, ownerID); err != nil {
		return storage.Classify("wipe entries", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_stats WHERE owner_id = $1`, ownerID); err != nil {
		return storage.Classify("wipe stats", err)
	}
	return storage.Classify("wipe", tx.Commit())
}
