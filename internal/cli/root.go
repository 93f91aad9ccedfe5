package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/julianstephens/rindful/internal/backup"
	"github.com/julianstephens/rindful/internal/config"
	"github.com/julianstephens/rindful/internal/constants"
	"github.com/julianstephens/rindful/internal/identity"
	"github.com/julianstephens/rindful/internal/journal"
	"github.com/julianstephens/rindful/internal/lock"
	"github.com/julianstephens/rindful/internal/logger"
	"github.com/julianstephens/rindful/internal/storage"
	"github.com/julianstephens/rindful/internal/storage/backend"
	"github.com/julianstephens/rindful/internal/streak"
	"github.com/julianstephens/rindful/internal/utils"
	"github.com/julianstephens/rindful/internal/validation"
)

// Context is handed to every command's Run method.
type Context struct {
	Config     *config.Config
	ConfigPath string
	Out        io.Writer

	Handle  *storage.Handle
	Journal *journal.Service

	// ConfirmFunc and PassphraseFunc replace the interactive prompts in tests.
	ConfirmFunc    func(title string) (bool, error)
	PassphraseFunc func(prompt string) (string, error)

	// BackupOptions are applied after the configured retention.
	BackupOptions []backup.Option
}

// NewContext wires the storage handle and journal service for cfg. The
// database is not opened until a command first uses it.
func NewContext(cfg *config.Config, configPath string, opts ...journal.Option) (*Context, error) {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", constants.SettingTimezone, cfg.Timezone, err)
	}

	handle := storage.NewHandle(backend.Opener(cfg.Database))
	opts = append([]journal.Option{journal.WithLocation(loc)}, opts...)
	svc := journal.NewService(handle, identity.FromConfig(cfg.Owner), streak.NewEngine(), opts...)

	return &Context{
		Config:     cfg,
		ConfigPath: configPath,
		Out:        os.Stdout,
		Handle:     handle,
		Journal:    svc,
	}, nil
}

// Close waits for background stats updates and closes the database.
func (c *Context) Close() error {
	return c.Journal.Close()
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

// Println writes a line to the command output.
func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// Date resolves an optional date argument; empty means today.
func (c *Context) Date(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" || date == "today" {
		return c.Journal.Today(), nil
	}
	if date == "yesterday" {
		return utils.AddDays(c.Journal.Today(), -1)
	}
	if err := validation.ValidateDate(date); err != nil {
		return "", err
	}
	return date, nil
}

// DBPath returns the SQLite file path, or false when the database is
// PostgreSQL.
func (c *Context) DBPath() (string, bool) {
	if os.Getenv(constants.EnvDBConn) != "" || c.Config.Database == backend.KeyringLocation || backend.IsPostgres(c.Config.Database) {
		return "", false
	}
	path, err := backend.Resolve(c.Config.Database)
	if err != nil {
		return "", false
	}
	return path, true
}

// Backups returns the snapshot manager for the local database.
func (c *Context) Backups() (*backup.Manager, error) {
	path, ok := c.DBPath()
	if !ok {
		return nil, errors.New("backups are only available for SQLite databases; use pg_dump for PostgreSQL")
	}
	opts := append([]backup.Option{backup.WithKeep(c.Config.Backup.Keep)}, c.BackupOptions...)
	return backup.NewManager(path, opts...), nil
}

// PerformAutomaticBackup snapshots the local database before a bulk
// mutation. Failures are logged and never stop the command.
func (c *Context) PerformAutomaticBackup(ctx context.Context) {
	mgr, err := c.Backups()
	if err != nil {
		logger.Debug("Skipping automatic backup", "reason", err)
		return
	}
	path, ok := c.DBPath()
	if !ok {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}

	passphrase := ""
	if c.Config.Backup.Encrypt {
		passphrase = os.Getenv(constants.EnvBackupPassphrase)
		if passphrase == "" {
			logger.Warn("Automatic backup skipped: encryption is on but no passphrase is set", "env", constants.EnvBackupPassphrase)
			return
		}
	}
	if _, err := mgr.Create(ctx, passphrase); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// WriterLock takes the cross-process writer lock for a bulk mutation.
func (c *Context) WriterLock(command string) (*lock.Lock, error) {
	return lock.Acquire(config.Dir(c.ConfigPath), command)
}

// Confirm asks a yes/no question. assumeYes skips the prompt.
func (c *Context) Confirm(title string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if c.ConfirmFunc != nil {
		return c.ConfirmFunc(title)
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("confirmation required; rerun with --yes")
	}

	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return confirmed, nil
}

// Passphrase reads the backup passphrase from the environment or, without
// echo, from the terminal.
func (c *Context) Passphrase(prompt string) (string, error) {
	if env := os.Getenv(constants.EnvBackupPassphrase); env != "" {
		return env, nil
	}
	if c.PassphraseFunc != nil {
		return c.PassphraseFunc(prompt)
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no terminal to read a passphrase; set %s", constants.EnvBackupPassphrase)
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	if len(b) == 0 {
		return "", errors.New("passphrase must not be empty")
	}
	return string(b), nil
}

// Now returns the current time in the configured timezone.
func (c *Context) Now() time.Time {
	now, err := utils.NowInTimezone(c.Config.Timezone)
	if err != nil {
		return time.Now()
	}
	return now
}

// Location returns the configured timezone.
func (c *Context) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Config.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
