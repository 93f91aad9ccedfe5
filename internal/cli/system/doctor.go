package system

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/keyring"
	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/storage/backend"
	"github.com/julianstephens/rindful/internal/utils"
	"github.com/julianstephens/rindful/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Give duplicate task ids fresh ids."`
}

type check struct {
	name    string
	needsDB bool
	warning bool
	run     func(ctx context.Context, app *cli.Context) error
}

func (cmd *DoctorCmd) checks() []check {
	return []check{
		{name: "Configuration", run: checkConfig},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "Keyring", warning: true, run: checkKeyring},
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Data validation", needsDB: true, run: cmd.checkValidation},
		{name: "Stats cache", needsDB: true, warning: true, run: checkStatsCache},
		{name: "Backups present", warning: true, run: checkBackupsPresent},
	}
}

func (cmd *DoctorCmd) Run(app *cli.Context, ctx context.Context) error {
	app.Println("Running diagnostics...")
	app.Println()

	failed := 0
	dbReachable := true
	for _, c := range cmd.checks() {
		if c.needsDB && !dbReachable {
			app.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx, app)
		switch {
		case err == nil:
			app.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			app.Printf("⚠ %s: WARNING\n", c.name)
			app.Printf("   %v\n", err)
		default:
			app.Printf("✗ %s: FAIL\n", c.name)
			app.Printf("   Error: %v\n", err)
			failed++
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	app.Println()
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	app.Println("All checks passed.")
	return nil
}

func checkConfig(ctx context.Context, app *cli.Context) error {
	return app.Config.Validate()
}

func checkClockTimezone(ctx context.Context, app *cli.Context) error {
	now, err := utils.NowInTimezone(app.Config.Timezone)
	if err != nil {
		return err
	}
	if now.Year() < 2000 {
		return fmt.Errorf("system clock reads %s", now.Format("2006-01-02"))
	}
	return nil
}

func checkKeyring(ctx context.Context, app *cli.Context) error {
	if app.Config.Database != backend.KeyringLocation {
		return nil
	}
	if !keyring.IsAvailable() {
		return errors.New("database is read from the keyring but the keyring is unavailable")
	}
	if _, err := keyring.GetConnectionString(); err != nil {
		return fmt.Errorf("no connection string in keyring: %w", err)
	}
	return nil
}

// checkDBReachable opens a separate store with Load so that the check
// never creates or migrates a database.
func checkDBReachable(ctx context.Context, app *cli.Context) error {
	store, err := backend.New(app.Config.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	m, ok := store.(migrator)
	if !ok {
		return store.Load(ctx)
	}
	if err := store.Load(ctx); err != nil {
		// Load refuses an outdated schema; report reachability separately.
		if _, latest, verr := m.SchemaVersion(ctx); verr == nil && latest > 0 {
			return nil
		}
		return err
	}
	return nil
}

func checkSchemaVersion(ctx context.Context, app *cli.Context) error {
	store, err := backend.New(app.Config.Database)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Load(ctx); err != nil {
		return err
	}
	if m, ok := store.(migrator); ok {
		current, latest, err := m.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		if current != latest {
			return fmt.Errorf("schema version %d, expected %d", current, latest)
		}
	}
	return nil
}

func (cmd *DoctorCmd) checkValidation(ctx context.Context, app *cli.Context) error {
	entries, err := app.Journal.ListAll(ctx)
	if err != nil {
		return err
	}
	result := validation.New().ValidateEntries(entries)
	if !result.HasConflicts() {
		return nil
	}
	if !cmd.Fix {
		return fmt.Errorf("%s(run 'rindful doctor --fix' to re-id duplicate tasks)", result.FormatReport())
	}

	actions := validation.AutoFixDuplicateTaskIDs(result.Conflicts, entries, app.Journal.NewTaskID,
		func(date string, tasks []models.Task) error {
			_, err := app.Journal.UpdateTasks(ctx, date, tasks)
			return err
		})
	for _, a := range actions {
		app.Printf("   fix: %s\n", a.Action)
	}

	entries, err = app.Journal.ListAll(ctx)
	if err != nil {
		return err
	}
	if result := validation.New().ValidateEntries(entries); result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

// checkStatsCache compares the cached streak with one recomputed from the
// entry history.
func checkStatsCache(ctx context.Context, app *cli.Context) error {
	stats, err := app.Journal.GetStats(ctx)
	if err != nil {
		return err
	}
	summary, err := app.Journal.GetStreakSummary(ctx)
	if err != nil {
		return err
	}
	if stats.CurrentStreak != summary.CurrentStreak {
		return fmt.Errorf("cached streak %d differs from history %d; run 'rindful rebuild-stats'",
			stats.CurrentStreak, summary.CurrentStreak)
	}
	return nil
}

func checkBackupsPresent(ctx context.Context, app *cli.Context) error {
	mgr, err := app.Backups()
	if err != nil {
		return nil
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s; run 'rindful backup create'", mgr.Dir())
	}
	if _, err := os.Stat(backups[0].Path); err != nil {
		return err
	}
	return nil
}
