package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/rindful/internal/logger"
	"github.com/julianstephens/rindful/internal/migration"
	"github.com/julianstephens/rindful/migrations"
)

// busyTimeoutMS bounds how long a writer waits on another connection's lock.
const busyTimeoutMS = 5000

type Store struct {
	path string

	// mu guards db; Close may run while another goroutine still holds the
	// store.
	mu sync.RWMutex
	db *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// dsn applies the pragmas to every pooled connection, not just the first.
func (s *Store) dsn() string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", s.path, busyTimeoutMS)
}

// open returns the connection pool, opening it if needed.
func (s *Store) open() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}
	db, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return db, nil
}

// conn returns the open connection pool, or nil when the store is closed.
func (s *Store) conn() *sql.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// Init creates the database file if needed and applies pending migrations.
// Safe to call from several processes at once.
func (s *Store) Init(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := s.runMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Load opens an existing database without creating or migrating it.
func (s *Store) Load(ctx context.Context) error {
	if s.conn() != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'rindful init' first")
	}

	if _, err := s.open(); err != nil {
		return err
	}

	return s.Verify(ctx)
}

// Verify checks the connection and that the schema is at the latest version.
func (s *Store) Verify(ctx context.Context) error {
	db := s.conn()
	if db == nil {
		return fmt.Errorf("database not open")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	for _, table := range []string{"daily_entries", "user_stats"} {
		exists, err := s.tableExists(ctx, table)
		if err != nil {
			return fmt.Errorf("failed to inspect schema: %w", err)
		}
		if !exists {
			return fmt.Errorf("schema is missing table %s", table)
		}
	}
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion(ctx)
}

func (s *Store) Close() error {
	s.mu.Lock()
	db := s.db
	s.db = nil
	s.mu.Unlock()
	if db == nil {
		return nil
	}
	return db.Close()
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	db := s.conn()
	if db == nil {
		return nil, fmt.Errorf("database not open")
	}
	return migration.NewRunner(db, subFS, migration.DriverSQLite)
}

func (s *Store) runMigrations(ctx context.Context) error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(ctx, func(msg string) {
		logger.Debug(msg)
	})
	return err
}

// tableExists checks if a table exists in the SQLite database.
// The check is case-insensitive to match SQLite's behavior.
func (s *Store) tableExists(ctx context.Context, tableName string) (bool, error) {
	db := s.conn()
	if db == nil {
		return false, fmt.Errorf("database not open")
	}
	var count int
	row := db.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Location returns the database file path.
func (s *Store) Location() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *Store) GetDB() *sql.DB {
	return s.conn()
}

// Migrate opens the database if needed and applies pending migrations.
func (s *Store) Migrate(ctx context.Context, logFn func(string)) (int, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return 0, fmt.Errorf("storage not initialized, run 'rindful init' first")
	}
	if _, err := s.open(); err != nil {
		return 0, err
	}
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(ctx, logFn)
}

// SchemaVersion reports the applied and the latest known schema version.
func (s *Store) SchemaVersion(ctx context.Context) (int, int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	current, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		return 0, 0, err
	}
	latest, err := runner.GetLatestVersion()
	return current, latest, err
}
