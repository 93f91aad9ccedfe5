// Package lock keeps two rindful processes from running bulk mutations
// (import, wipe, restore, prune) against the same data at once.
package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/rindful/internal/constants"
	rerrors "github.com/julianstephens/rindful/internal/errors"
	"github.com/julianstephens/rindful/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpid          = os.Getpid
)

// Lock is a held writer lockfile.
type Lock struct {
	path string
	pid  int
}

// Acquire takes the writer lock in dir. A lockfile left by a process that
// is no longer running, or whose PID now belongs to another program, is
// stale and replaced. A live holder yields ErrLocked.
func Acquire(dir, command string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, constants.WriterLockfileName)
	pid := getpid()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d|%s", pid, command)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path, pid: pid}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		holder, holderCmd, alive := inspect(path)
		if alive {
			return nil, fmt.Errorf("%w (pid %d, running %q)", rerrors.ErrLocked, holder, holderCmd)
		}
		logger.Warn("Removing stale writer lock", "path", path, "pid", holder)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: lockfile %s keeps reappearing", rerrors.ErrLocked, path)
}

// inspect reads a lockfile and reports whether its holder is a live rindful
// process. Unreadable or malformed files are treated as stale.
func inspect(path string) (int, string, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, "", false
	}
	parts := strings.SplitN(strings.TrimSpace(string(content)), "|", 2)
	if len(parts) != 2 {
		return 0, "", false
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, "", false
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return pid, parts[1], false
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return pid, parts[1], false
	}
	return pid, parts[1], true
}

// Release removes the lockfile if this process still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	content, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read lockfile: %w", err)
	}
	if !strings.HasPrefix(string(content), strconv.Itoa(l.pid)+"|") {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Path returns the lockfile location.
func (l *Lock) Path() string {
	return l.path
}
