package migration

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestDB(t *testing.T) *sql.DB {
	return openTestDB(t, filepath.Join(t.TempDir(), "test.db"))
}

func setupTestMigrations(t *testing.T, migrations map[string]string) string {
	tempDir := t.TempDir()

	for filename, content := range migrations {
		path := filepath.Join(tempDir, filename)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test migration %s: %v", filename, err)
		}
	}

	return tempDir
}

func newRunner(t *testing.T, db *sql.DB, dir string) *Runner {
	t.Helper()
	runner, err := NewRunner(db, os.DirFS(dir), DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	return runner
}

func TestNewRunnerRejectsUnknownDriver(t *testing.T) {
	if _, err := NewRunner(nil, fstest.MapFS{}, Driver("mysql")); err == nil {
		t.Error("NewRunner should reject an unknown driver")
	}
}

func TestGetCurrentVersion(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := newRunner(t, db, setupTestMigrations(t, map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}))

	version, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(ctx, 5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	version, err = runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	db := setupTestDB(t)
	runner, err := NewRunner(db, fstest.MapFS{
		"002_tasks.sql":    {Data: []byte("ALTER TABLE daily_entries ADD COLUMN tasks TEXT;")},
		"001_init.sql":     {Data: []byte("CREATE TABLE daily_entries (id TEXT PRIMARY KEY);")},
		"003_another.sql":  {Data: []byte("SELECT 1;")},
		"README.md":        {Data: []byte("ignored")},
		"nested/004_x.sql": {Data: []byte("ignored")},
	}, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}

	migrations, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}

	names := []string{"init", "tasks", "another"}
	for i, m := range migrations {
		if m.Version != i+1 || m.Name != names[i] {
			t.Errorf("migration %d: got version %d name %q", i, m.Version, m.Name)
		}
	}
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := newRunner(t, db, setupTestMigrations(t, map[string]string{
		"001_init.sql": `CREATE TABLE daily_entries (id TEXT PRIMARY KEY, content TEXT);`,
		"002_tasks.sql": `ALTER TABLE daily_entries ADD COLUMN tasks TEXT;`,
	}))

	var logged []string
	count, err := runner.ApplyMigrations(ctx, func(s string) { logged = append(logged, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logged) == 0 {
		t.Error("expected progress messages")
	}

	version, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	if _, err := db.Exec("INSERT INTO daily_entries (id, content, tasks) VALUES ('a', 'b', '[]')"); err != nil {
		t.Errorf("migrated table missing columns: %v", err)
	}

	if err := runner.ValidateVersion(ctx); err != nil {
		t.Errorf("ValidateVersion after migrate: %v", err)
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	migrationsPath := setupTestMigrations(t, map[string]string{
		"001_init.sql": `CREATE TABLE daily_entries (id TEXT PRIMARY KEY);`,
	})
	runner := newRunner(t, db, migrationsPath)

	count, err := runner.ApplyMigrations(ctx, nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (1st) failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied, got %d", count)
	}

	newMigration := `ALTER TABLE daily_entries ADD COLUMN tasks TEXT;`
	if err := os.WriteFile(filepath.Join(migrationsPath, "002_tasks.sql"), []byte(newMigration), 0644); err != nil {
		t.Fatalf("failed to write new migration: %v", err)
	}

	if err := runner.ValidateVersion(ctx); err == nil {
		t.Error("ValidateVersion should report a database behind the latest migration")
	}

	count, err = runner.ApplyMigrations(ctx, nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (2nd) failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 more migration applied, got %d", count)
	}

	count, err = runner.ApplyMigrations(ctx, nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (3rd) failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 migrations applied on third run, got %d", count)
	}
}

func TestApplyMigrationsConcurrentOpeners(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")
	migrationsPath := setupTestMigrations(t, map[string]string{
		"001_init.sql":  `CREATE TABLE daily_entries (id TEXT PRIMARY KEY);`,
		"002_tasks.sql": `ALTER TABLE daily_entries ADD COLUMN tasks TEXT;`,
	})

	// Prime the file so both openers agree on WAL mode.
	primer := openTestDB(t, path)
	if err := primer.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}

	const openers = 4
	var wg sync.WaitGroup
	counts := make([]int, openers)
	errs := make([]error, openers)
	for i := 0; i < openers; i++ {
		db := openTestDB(t, path)
		runner := newRunner(t, db, migrationsPath)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			counts[i], errs[i] = runner.ApplyMigrations(ctx, nil)
		}(i)
	}
	wg.Wait()

	total := 0
	for i := range counts {
		if errs[i] != nil {
			t.Fatalf("opener %d failed: %v", i, errs[i])
		}
		total += counts[i]
	}
	if total != 2 {
		t.Errorf("expected each migration applied exactly once (2 total), got %d", total)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := newRunner(t, db, setupTestMigrations(t, map[string]string{
		"001_init.sql": `
			CREATE TABLE daily_entries (id TEXT PRIMARY KEY);
			-- Invalid SQL to cause error
			THIS IS INVALID SQL;
		`,
	}))

	if _, err := runner.ApplyMigrations(ctx, nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with invalid SQL")
	}

	version, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='daily_entries'").Scan(&count)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Error("table should not exist after failed migration")
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := newRunner(t, db, setupTestMigrations(t, map[string]string{
		"001_init.sql": `CREATE TABLE daily_entries (id TEXT PRIMARY KEY);`,
	}))

	if err := runner.SetVersion(ctx, 10); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	if err := runner.ValidateVersion(ctx); !errors.Is(err, ErrNewerSchema) {
		t.Fatalf("ValidateVersion error = %v, want ErrNewerSchema", err)
	}

	if _, err := runner.ApplyMigrations(ctx, nil); !errors.Is(err, ErrNewerSchema) {
		t.Fatalf("ApplyMigrations error = %v, want ErrNewerSchema", err)
	}
}

func TestReadMigrationFilesRejectsBadNames(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "missing underscore",
			files:   map[string]string{"001init.sql": `SELECT 1;`},
			wantErr: "invalid migration filename format",
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_init.sql": `SELECT 1;`},
			wantErr: "version must be at least 1",
		},
		{
			name: "duplicate version",
			files: map[string]string{
				"001_init.sql":  `SELECT 1;`,
				"001_other.sql": `SELECT 2;`,
			},
			wantErr: "duplicate migration version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := newRunner(t, setupTestDB(t), setupTestMigrations(t, tt.files))
			_, err := runner.ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadMigrationFiles() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetLatestVersion(t *testing.T) {
	runner := newRunner(t, setupTestDB(t), setupTestMigrations(t, map[string]string{
		"001_init.sql":  `SELECT 1;`,
		"003_mood.sql":  `SELECT 3;`,
		"002_tasks.sql": `SELECT 2;`,
	}))

	latestVersion, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if latestVersion != 3 {
		t.Errorf("expected latest version 3, got %d", latestVersion)
	}
}
