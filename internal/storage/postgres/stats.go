package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/storage"
)

func (s *Store) GetStats(ctx context.Context, ownerID string) (*models.UserStats, error) {
	db := s.conn()
	if db == nil {
		return nil, storage.Classify("get stats", sql.ErrConnDone)
	}
	row := db.QueryRowContext(ctx, `
		SELECT owner_id, last_check_in_date, current_streak, longest_streak, week_start, weekly_days
		FROM user_stats WHERE owner_id = $1`, ownerID)

	var st models.UserStats
	var week string
	if err := row.Scan(&st.OwnerID, &st.LastCheckInDate, &st.CurrentStreak, &st.LongestStreak, &st.WeekStart, &week); err != nil {
		if storage.IsNoRows(err) {
			return nil, nil
		}
		return nil, storage.Classify("get stats", err)
	}

	days, err := storage.DecodeWeek(week)
	if err != nil {
		return nil, fmt.Errorf("stats for %s: %w", ownerID, err)
	}
	st.WeeklyDays = days
	return &st, nil
}

func (s *Store) PutStats(ctx context.Context, st models.UserStats) error {
	db := s.conn()
	if db == nil {
		return storage.Classify("put stats", sql.ErrConnDone)
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO user_stats (owner_id, last_check_in_date, current_streak, longest_streak, week_start, weekly_days)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id) DO UPDATE SET
			last_check_in_date = EXCLUDED.last_check_in_date,
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			week_start = EXCLUDED.week_start,
			weekly_days = EXCLUDED.weekly_days`,
		st.OwnerID, st.LastCheckInDate, st.CurrentStreak, st.LongestStreak, st.WeekStart, storage.EncodeWeek(st.WeeklyDays),
	)
	return storage.Classify("put stats", err)
}
