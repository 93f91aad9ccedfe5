package backups

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/rindful/internal/backup"
	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/constants"
	"github.com/julianstephens/rindful/internal/logger"
)

type BackupCreateCmd struct {
	Encrypt bool `short:"e" help:"Encrypt the snapshot with a passphrase (always on when backup.encrypt is set)."`
}

func (c *BackupCreateCmd) Run(app *cli.Context, ctx context.Context) error {
	mgr, err := app.Backups()
	if err != nil {
		return err
	}

	passphrase := ""
	if c.Encrypt || app.Config.Backup.Encrypt {
		if passphrase, err = app.Passphrase("Backup passphrase: "); err != nil {
			return err
		}
	}

	// Let pending stats writes land in the snapshot.
	app.Journal.Wait()
	backupPath, err := mgr.Create(ctx, passphrase)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	app.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(app *cli.Context) error {
	mgr, err := app.Backups()
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		app.Println("No backups found.")
		app.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	app.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), app.Config.Backup.Keep)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		lock := ""
		if b.Encrypted {
			lock = "  [encrypted]"
		}
		app.Printf("  %s  %s  (%.1f KB)%s\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Name(), sizeKB, lock)
	}
	app.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

// locate resolves a backup argument against the working directory and then
// the backup directory.
func locate(name, backupDir string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return filepath.Abs(name)
	}
	candidate := filepath.Join(backupDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", backupDir)
}

func (c *BackupRestoreCmd) Run(app *cli.Context, ctx context.Context) error {
	mgr, err := app.Backups()
	if err != nil {
		return err
	}
	backupPath, err := locate(c.BackupFile, mgr.Dir())
	if err != nil {
		return err
	}

	app.Println("⚠️  WARNING: This will replace your current database with the backup.")
	app.Println("A backup of your current database will be created before restoring.")
	app.Printf("\nRestore from: %s\n", backupPath)
	ok, err := app.Confirm("Restore this backup?", c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		app.Println("Restore cancelled.")
		return nil
	}

	passphrase := ""
	if strings.HasSuffix(backupPath, constants.EncryptedFileSuffix) {
		if passphrase, err = app.Passphrase("Backup passphrase: "); err != nil {
			return err
		}
	}

	l, err := app.WriterLock("backup restore")
	if err != nil {
		return err
	}
	defer l.Release()

	if err := app.Close(); err != nil {
		logger.Warn("Failed to close database before restore", "error", err)
	}

	previous, err := mgr.Restore(ctx, backupPath, passphrase)
	if errors.Is(err, backup.ErrPassphraseRequired) {
		return fmt.Errorf("%w: set the passphrase used when the backup was created", err)
	}
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	app.Println("✓ Database restored successfully!")
	if previous != "" {
		app.Printf("  Previous database saved as %s\n", filepath.Base(previous))
	}
	return nil
}
