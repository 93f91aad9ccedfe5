package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/rindful/internal/logger"
)

var (
	// ErrStorageUnavailable means the storage engine could not be opened or used at all.
	// It is fatal for the calling operation and never retried internally.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrMalformedInput marks import/parse failures: bad dates, bad ratings,
	// unparseable files or missing required columns.
	ErrMalformedInput = errors.New("malformed input")

	// ErrStatsUpdateFailed wraps failures of the incremental stats update.
	// It is logged at the spawn site and never returned to the writer.
	ErrStatsUpdateFailed = errors.New("stats update failed")

	// ErrStaleHandle is reported by a store whose connection or schema is no
	// longer usable; the owning handle must be discarded and reopened.
	ErrStaleHandle = errors.New("stale storage handle")

	// ErrNoData is returned by range exports that select nothing.
	ErrNoData = errors.New("no data in range")

	// ErrLocked is returned when another live process holds the writer lock.
	ErrLocked = errors.New("another rindful writer is running")
)

// Unavailable wraps cause as ErrStorageUnavailable.
func Unavailable(cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, cause)
}

// Malformed builds an ErrMalformedInput with a message.
func Malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if errors.Is(err, ErrStorageUnavailable) {
			fmt.Fprintln(os.Stderr, "Hint: run 'rindful init' or check the database setting in your config.")
		}
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
