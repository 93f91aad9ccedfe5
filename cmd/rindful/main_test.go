package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
)

func TestCommandTree(t *testing.T) {
	parser, err := kong.New(&CLI, kong.Name("rindful"), kong.Exit(func(int) { t.Fatal("parser exited") }))
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"write", "hello", "--date", "2024-06-01"}, "write <text>"},
		{[]string{"mood", "Good"}, "mood <rating>"},
		{[]string{"prompt", "--random"}, "prompt"},
		{[]string{"entry", "list", "--from", "2024-06-01"}, "entry list"},
		{[]string{"task", "done", "2", "--undo"}, "task done <task>"},
		{[]string{"task", "prune"}, "task prune"},
		{[]string{"rebuild-stats"}, "rebuild-stats"},
		{[]string{"mood-export", "--from", "2024-06-01"}, "mood-export"},
		{[]string{"backup", "list"}, "backup list"},
		{[]string{"keyring", "status"}, "keyring status"},
		{[]string{"config", "show"}, "config show"},
		{[]string{"--tz", "UTC", "streak", "--json"}, "streak"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			ctx, err := parser.Parse(tc.args)
			if err != nil {
				t.Fatalf("Parse(%v) error = %v", tc.args, err)
			}
			if got := ctx.Command(); got != tc.want {
				t.Errorf("Command() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "database = \"/data/journal.db\"\ntimezone = \"America/New_York\"\n"
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		db, tz string
		wantDB string
		wantTZ string
	}{
		{"file values", "", "", "/data/journal.db", "America/New_York"},
		{"flags win", filepath.Join(dir, "other.db"), "UTC", filepath.Join(dir, "other.db"), "UTC"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			CLI.Config, CLI.DB, CLI.TZ = path, tc.db, tc.tz
			t.Cleanup(func() { CLI.Config, CLI.DB, CLI.TZ = "", "", "" })

			cfg, gotPath, err := loadConfig()
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			if gotPath != path || cfg.Database != tc.wantDB || cfg.Timezone != tc.wantTZ {
				t.Errorf("got path=%s db=%s tz=%s", gotPath, cfg.Database, cfg.Timezone)
			}
		})
	}

	CLI.Config, CLI.TZ = path, "Mars/Olympus"
	t.Cleanup(func() { CLI.Config, CLI.TZ = "", "" })
	if _, _, err := loadConfig(); err == nil {
		t.Error("an invalid --tz should be rejected")
	}
}
