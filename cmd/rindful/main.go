package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/rindful/internal/cli"
	"github.com/julianstephens/rindful/internal/cli/backups"
	"github.com/julianstephens/rindful/internal/cli/data"
	"github.com/julianstephens/rindful/internal/cli/entries"
	"github.com/julianstephens/rindful/internal/cli/stats"
	"github.com/julianstephens/rindful/internal/cli/system"
	"github.com/julianstephens/rindful/internal/cli/tasks"
	"github.com/julianstephens/rindful/internal/config"
	"github.com/julianstephens/rindful/internal/constants"
	rerrors "github.com/julianstephens/rindful/internal/errors"
	"github.com/julianstephens/rindful/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path (default ~/.config/rindful/config.toml, or the RINDFUL_CONFIG variable)." type:"path"`
	DB      string `name:"db" help:"SQLite path, PostgreSQL connection string without credentials, or 'keyring'. Overrides the config file." env:"RINDFUL_DB"`
	TZ      string `name:"tz" help:"IANA timezone that decides which day 'today' is. Overrides the config file."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize rindful storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Wipe    system.WipeCmd    `cmd:"" help:"Delete all entries and stats of the current owner."`
	Mcp     system.McpCmd     `cmd:"" help:"Serve the journal to an MCP client over stdio."`

	ConfigCmd struct {
		Init system.ConfigInitCmd `cmd:"" help:"Write a config file with the current settings."`
		Show system.ConfigShowCmd `cmd:"" help:"Print the effective configuration." default:"1"`
	} `cmd:"" name:"config" help:"Manage the config file."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring availability and contents." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
	Identity struct {
		Show  system.IdentityShowCmd  `cmd:"" help:"Show the owner id entries are stored under." default:"1"`
		Set   system.IdentitySetCmd   `cmd:"" help:"Store an owner id in the keyring."`
		Clear system.IdentityClearCmd `cmd:"" help:"Remove the owner id from the keyring."`
	} `cmd:"" help:"Manage the journal owner identity."`

	Entry struct {
		Show   entries.EntryShowCmd   `cmd:"" help:"Show one day's entry." default:"withargs"`
		List   entries.EntryListCmd   `cmd:"" help:"List entries, newest first."`
		Delete entries.EntryDeleteCmd `cmd:"" help:"Delete one day's entry."`
	} `cmd:"" help:"Read and delete entries."`
	Write  entries.WriteCmd  `cmd:"" help:"Write the journal text for a day."`
	Prompt entries.PromptCmd `cmd:"" help:"Show a reflection prompt for the day."`
	Mood   entries.MoodCmd   `cmd:"" help:"Set the mood rating for a day."`
	Energy entries.EnergyCmd `cmd:"" help:"Set the energy rating for a day."`

	Task struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a task."`
		Done   tasks.TaskDoneCmd   `cmd:"" help:"Mark a task done (or not done with --undo)."`
		Remove tasks.TaskRemoveCmd `cmd:"" help:"Remove a task."`
		List   tasks.TaskListCmd   `cmd:"" help:"List a day's tasks." default:"withargs"`
		Prune  tasks.TaskPruneCmd  `cmd:"" help:"Drop unfinished tasks from earlier days this week."`
	} `cmd:"" help:"Manage daily tasks."`

	Stats        stats.StatsCmd        `cmd:"" help:"Show streak and weekly progress." default:"1"`
	Streak       stats.StreakCmd       `cmd:"" help:"Recompute streak statistics from history."`
	RebuildStats stats.RebuildStatsCmd `cmd:"" name:"rebuild-stats" help:"Rebuild the stats cache from history."`
	TasksWeek    stats.TaskStatsCmd    `cmd:"" name:"tasks-week" help:"Show per-day task completion."`
	MoodSummary  stats.MoodSummaryCmd  `cmd:"" name:"mood-summary" help:"Summarize mood ratings over a range."`

	Export     data.ExportCmd     `cmd:"" help:"Export entries as CSV or JSON."`
	Import     data.ImportCmd     `cmd:"" help:"Import entries from CSV or JSON."`
	Validate   data.ValidateCmd   `cmd:"" help:"Check an import file without importing."`
	MoodExport data.MoodExportCmd `cmd:"" name:"mood-export" help:"Export mood history with a summary."`

	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, string, error) {
	path, err := config.Path(CLI.Config)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	if CLI.DB != "" {
		cfg.Database = CLI.DB
	}
	if CLI.TZ != "" {
		cfg.Timezone = CLI.TZ
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	return cfg, path, cfg.Validate()
}

func main() {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("A private daily journal: mood, energy, tasks and streaks."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
		kong.BindTo(sigCtx, (*context.Context)(nil)),
	)

	cfg, configPath, err := loadConfig()
	if err != nil {
		rerrors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: config.Dir(configPath)}); err != nil {
		rerrors.Fatal(err)
	}
	logger.Debug("Starting", "command", kctx.Command(), "config", configPath)

	app, err := cli.NewContext(cfg, configPath)
	if err != nil {
		rerrors.Fatal(err)
	}

	err = kctx.Run(app)
	if cerr := app.Close(); cerr != nil {
		logger.Warn("Failed to close database", "error", cerr)
	}
	if err != nil {
		stop()
		rerrors.Fatal(err)
	}
}
