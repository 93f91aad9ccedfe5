package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	rerrors "github.com/julianstephens/rindful/internal/errors"
)

// Classify wraps err with op and maps closed-connection failures to
// ErrStaleHandle so the owning Handle discards the store.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isStale(err) {
		return fmt.Errorf("%s: %w: %v", op, rerrors.ErrStaleHandle, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isStale(err error) bool {
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, rerrors.ErrStaleHandle) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "no such table")
}
