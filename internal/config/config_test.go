package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		Database: "/data/rindful.db",
		Timezone: "America/New_York",
		Owner:    "alice",
		Debug:    true,
		Backup:   BackupConfig{Encrypt: true, Keep: 3},
	}

	var buf bytes.Buffer
	m := &Manager{}
	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if *got != *original {
		t.Errorf("Read() = %+v, want %+v", *got, *original)
	}
}

func TestManager_ReadPartialFillsDefaults(t *testing.T) {
	m := &Manager{}
	got, err := m.Read(strings.NewReader(`timezone = "UTC"`))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	d := Default()
	if got.Database != d.Database {
		t.Errorf("Database = %q, want %q", got.Database, d.Database)
	}
	if got.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", got.Timezone)
	}
	if got.Backup.Keep != d.Backup.Keep {
		t.Errorf("Backup.Keep = %d, want %d", got.Backup.Keep, d.Backup.Keep)
	}
}

func TestManager_ReadRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown key", `databse = "typo.db"`},
		{"not toml", `database = `},
		{"wrong type", `debug = "yes"`},
	}

	m := &Manager{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Read(strings.NewReader(tt.input)); err == nil {
				t.Errorf("Read(%q) should fail", tt.input)
			}
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults", *cfg)
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`timezone = "Mars/Olympus"`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should reject an unknown timezone")
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Owner = "bob"

	if err := Init(path, cfg, false); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	if err := Init(path, cfg, false); err == nil {
		t.Error("Init() should refuse to overwrite")
	}
	cfg.Owner = "carol"
	if err := Init(path, cfg, true); err != nil {
		t.Fatalf("Init(force) error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Owner != "carol" {
		t.Errorf("Owner = %q, want carol", got.Owner)
	}
}

func TestPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("RINDFUL_CONFIG", "")

	got, _ := Path("")
	if got != "/home/tester/.config/rindful/config.toml" {
		t.Errorf("Path(\"\") = %q", got)
	}

	t.Setenv("RINDFUL_CONFIG", "/etc/rindful.toml")
	if got, _ := Path(""); got != "/etc/rindful.toml" {
		t.Errorf("Path with env = %q", got)
	}
	if got, _ := Path("~/custom.toml"); got != "/home/tester/custom.toml" {
		t.Errorf("Path(explicit) = %q", got)
	}
	if Dir("/home/tester/.config/rindful/config.toml") != "/home/tester/.config/rindful" {
		t.Error("Dir() wrong")
	}
}
