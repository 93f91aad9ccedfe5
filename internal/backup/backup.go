// Package backup snapshots the local SQLite journal, rotates old snapshots
// and restores them. Snapshots may be encrypted with an age passphrase.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"filippo.io/age"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/rindful/internal/constants"
	"github.com/julianstephens/rindful/internal/logger"
)

// ErrPassphraseRequired is returned when restoring an encrypted snapshot
// without a passphrase.
var ErrPassphraseRequired = errors.New("backup is encrypted; a passphrase is required")

// Info describes a snapshot file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	Encrypted bool
}

// Name returns the snapshot file name.
func (i Info) Name() string {
	return filepath.Base(i.Path)
}

// Manager handles backup operations for one database file.
type Manager struct {
	dbPath     string
	backupDir  string
	keep       int
	workFactor int
	now        func() time.Time
}

type Option func(*Manager)

// WithKeep sets how many snapshots survive rotation.
func WithKeep(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.keep = n
		}
	}
}

// WithClock overrides the clock used to name snapshots.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithWorkFactor sets the scrypt work factor (log2 N) used for encrypted
// snapshots. Zero keeps the age default.
func WithWorkFactor(logN int) Option {
	return func(m *Manager) { m.workFactor = logN }
}

// NewManager creates a backup manager that stores snapshots in a
// "backups" directory next to dbPath.
func NewManager(dbPath string, opts ...Option) *Manager {
	m := &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the backup directory path.
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create snapshots the database and rotates old snapshots. A non-empty
// passphrase encrypts the snapshot; only the encrypted file is kept.
func (m *Manager) Create(ctx context.Context, passphrase string) (string, error) {
	path, err := m.create(ctx, passphrase)
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create(ctx context.Context, passphrase string) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	snapshot, err := m.uniquePath()
	if err != nil {
		return "", err
	}
	if err := m.vacuumInto(ctx, snapshot); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	if passphrase == "" {
		logger.Info("Created backup", "path", snapshot)
		return snapshot, nil
	}

	encrypted := snapshot + constants.EncryptedFileSuffix
	if err := m.encryptFile(snapshot, encrypted, passphrase); err != nil {
		os.Remove(snapshot)
		os.Remove(encrypted)
		return "", fmt.Errorf("failed to encrypt backup: %w", err)
	}
	if err := os.Remove(snapshot); err != nil {
		return "", fmt.Errorf("failed to remove plaintext snapshot: %w", err)
	}
	logger.Info("Created encrypted backup", "path", encrypted)
	return encrypted, nil
}

// uniquePath picks a free snapshot name: minute precision first, then
// seconds, then a numeric counter.
func (m *Manager) uniquePath() (string, error) {
	now := m.now()
	candidate := func(stamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+constants.BackupFileSuffix)
	}
	taken := func(p string) bool {
		_, errPlain := os.Stat(p)
		_, errEnc := os.Stat(p + constants.EncryptedFileSuffix)
		return errPlain == nil || errEnc == nil
	}

	path := candidate(now.Format(constants.BackupTimestampFormat))
	if !taken(path) {
		return path, nil
	}
	stamp := now.Format(constants.BackupTimestampFormatSeconds)
	path = candidate(stamp)
	for counter := 1; taken(path); counter++ {
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = candidate(fmt.Sprintf("%s-%d", stamp, counter))
	}
	return path, nil
}

func (m *Manager) vacuumInto(ctx context.Context, dest string) error {
	src, err := sql.Open("sqlite", readOnlyDSN(m.dbPath))
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	var count int
	if err := src.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, falling back to file copy", "error", err)
		src.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

func (m *Manager) encryptFile(src, dst, passphrase string) error {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if m.workFactor > 0 {
		recipient.SetWorkFactor(m.workFactor)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	w, err := age.Encrypt(out, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return out.Sync()
}

func decryptFile(src, dst, passphrase string) error {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt identity: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	r, err := age.Decrypt(in, identity)
	if err != nil {
		return fmt.Errorf("decrypting backup: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("reading decrypted backup: %w", err)
	}
	return out.Sync()
}

// List returns all snapshots, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ts, encrypted, ok := parseName(name)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: ts,
			Size:      info.Size(),
			Encrypted: encrypted,
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseName extracts the timestamp from a snapshot file name.
func parseName(name string) (time.Time, bool, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) {
		return time.Time{}, false, false
	}
	stem := strings.TrimPrefix(name, constants.BackupFilePrefix)
	encrypted := strings.HasSuffix(stem, constants.BackupFileSuffix+constants.EncryptedFileSuffix)
	stem = strings.TrimSuffix(stem, constants.EncryptedFileSuffix)
	if !strings.HasSuffix(stem, constants.BackupFileSuffix) {
		return time.Time{}, false, false
	}
	stem = strings.TrimSuffix(stem, constants.BackupFileSuffix)

	// Strip a collision counter: YYYYMMDD-HHMMSS-N.
	if parts := strings.Split(stem, "-"); len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err == nil {
			stem = parts[0] + "-" + parts[1]
		}
	}

	for _, layout := range []string{constants.BackupTimestampFormat, constants.BackupTimestampFormatSeconds} {
		if ts, err := time.ParseInLocation(layout, stem, time.Local); err == nil {
			return ts, encrypted, true
		}
	}
	return time.Time{}, false, false
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("Removed old backup", "path", backups[i].Path)
	}
	return nil
}

// Restore replaces the database with the snapshot at path. The current
// database, if any, is snapshotted first; that snapshot's path is returned.
// The database must not be open while restoring.
func (m *Manager) Restore(ctx context.Context, path, passphrase string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", path)
	}

	source := path
	if strings.HasSuffix(path, constants.EncryptedFileSuffix) {
		if passphrase == "" {
			return "", ErrPassphraseRequired
		}
		plain := filepath.Join(m.backupDir, ".restore-decrypted"+constants.BackupFileSuffix)
		if err := decryptFile(path, plain, passphrase); err != nil {
			os.Remove(plain)
			return "", err
		}
		defer os.Remove(plain)
		source = plain
	}

	if err := verify(ctx, source); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.dbPath); err == nil {
		// No rotation here so the snapshot being restored is never pruned.
		previous, err = m.create(ctx, passphrase)
		if err != nil {
			return "", fmt.Errorf("failed to backup current database before restore: %w", err)
		}
	}

	// Leftover WAL files belong to the database being replaced.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(m.dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return previous, fmt.Errorf("failed to remove %s file: %w", suffix, err)
		}
	}

	tempPath := m.dbPath + ".restore.tmp"
	if err := copyFile(source, tempPath); err != nil {
		os.Remove(tempPath)
		return previous, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dbPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary restore file", "path", tempPath, "error", removeErr)
		}
		return previous, fmt.Errorf("failed to restore database: %w", err)
	}
	logger.Info("Restored database", "from", path, "previous", previous)
	return previous, nil
}

// verify checks that path is a readable SQLite database.
func verify(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}

func readOnlyDSN(path string) string {
	return "file:" + filepath.ToSlash(path) + "?mode=ro"
}
