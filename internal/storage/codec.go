package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/rindful/internal/models"
)

// Column encodings shared by the SQL backends.

// EncodeTasks serializes a task list for the tasks column.
func EncodeTasks(tasks []models.Task) (string, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to encode tasks: %w", err)
	}
	return string(b), nil
}

// DecodeTasks parses the tasks column. NULL (rows written before the tasks
// migration) and empty values read as an empty list; malformed elements are
// dropped by the same rule as imports.
func DecodeTasks(col sql.NullString) ([]models.Task, error) {
	if !col.Valid || strings.TrimSpace(col.String) == "" {
		return []models.Task{}, nil
	}
	var raw []models.RawImportedTask
	if err := json.Unmarshal([]byte(col.String), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return models.NormalizeTasks(raw), nil
}

// EncodeWeek stores WeeklyDays as seven '0'/'1' characters, Sunday first.
func EncodeWeek(days [7]bool) string {
	var sb strings.Builder
	for _, d := range days {
		if d {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// DecodeWeek parses the weekly_days column.
func DecodeWeek(s string) ([7]bool, error) {
	var days [7]bool
	if s == "" {
		return days, nil
	}
	if len(s) != 7 {
		return days, fmt.Errorf("invalid weekly_days %q", s)
	}
	for i := 0; i < 7; i++ {
		switch s[i] {
		case '1':
			days[i] = true
		case '0':
		default:
			return days, fmt.Errorf("invalid weekly_days %q", s)
		}
	}
	return days, nil
}

// NullableInt maps an optional rating to a column value.
func NullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// IntFromNull maps a rating column back to an optional value.
func IntFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return models.IntPtr(int(v.Int64))
}

// IsNoRows reports whether err is the database/sql not-found error.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
