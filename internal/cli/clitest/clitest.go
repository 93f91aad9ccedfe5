// Package clitest builds command contexts over throwaway databases.
package clitest

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/config"
	"github.com/julianstephens/rindful/internal/journal"
	"github.com/julianstephens/rindful/internal/storage/backend"
)

// Now is the fixed clock of every test context: 2024-06-04 09:30 UTC.
var Now = time.Date(2024, 6, 4, 9, 30, 0, 0, time.UTC)

// New returns a context over a SQLite path in a temp dir that has not been
// initialized yet. Output is captured in the returned buffer and
// confirmations are answered yes.
func New(t *testing.T, opts ...journal.Option) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Database = filepath.Join(dir, "rindful.db")
	cfg.Timezone = "UTC"
	cfg.Owner = "alice"

	opts = append([]journal.Option{journal.WithClock(journal.FixedClock{T: Now})}, opts...)
	app, err := cli.NewContext(cfg, filepath.Join(dir, "config.toml"), opts...)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	var out bytes.Buffer
	app.Out = &out
	app.ConfirmFunc = func(string) (bool, error) { return true, nil }
	t.Cleanup(func() { app.Close() })
	return app, &out
}

// NewInitialized is New with the database schema already created.
func NewInitialized(t *testing.T, opts ...journal.Option) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	app, out := New(t, opts...)
	store, err := backend.New(app.Config.Database)
	if err != nil {
		t.Fatalf("backend.New() error = %v", err)
	}
	defer store.Close()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return app, out
}

// SeqIDs hands out t1, t2, ... as task ids.
type SeqIDs struct{ n int }

func (s *SeqIDs) New() string {
	s.n++
	return "t" + strconv.Itoa(s.n)
}
