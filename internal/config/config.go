// Package config reads and writes the rindful TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/rindful/internal/constants"
	"github.com/julianstephens/rindful/internal/utils"
)

// Config is the on-disk configuration. Postgres credentials never live here;
// they come from the OS keyring or .pgpass.
type Config struct {
	Database string       `toml:"database"`
	Timezone string       `toml:"timezone"`
	Owner    string       `toml:"owner,omitempty"` // fixed owner id, overrides the keyring
	Debug    bool         `toml:"debug"`
	Backup   BackupConfig `toml:"backup"`
}

// BackupConfig controls automatic snapshots.
type BackupConfig struct {
	Encrypt bool `toml:"encrypt"`
	Keep    int  `toml:"keep,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Database: constants.DefaultDBPath,
		Timezone: constants.DefaultTimezone,
		Backup: BackupConfig{
			Encrypt: constants.DefaultBackupEncrypt,
			Keep:    constants.MaxBackups,
		},
	}
}

// Validate checks the values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid %s %q", constants.SettingTimezone, c.Timezone)
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup.keep must not be negative")
	}
	return nil
}

// applyDefaults fills fields a partial file left empty.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Database == "" {
		c.Database = d.Database
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.Backup.Keep == 0 {
		c.Backup.Keep = d.Backup.Keep
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. Unknown keys are rejected.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Path returns the config file location: explicit path, then
// RINDFUL_CONFIG, then the default. A leading ~ is expanded.
func Path(explicit string) (string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(constants.EnvConfigPath)
	}
	if path == "" {
		path = constants.DefaultConfigFile
	}
	return expandHome(path)
}

// Dir returns the directory holding the config file, logs and backups.
func Dir(configPath string) string {
	return filepath.Dir(configPath)
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. An existing file is left alone unless force is set.
func Init(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path == "~" || (len(path) > 1 && path[0] == '~' && path[1] == '/') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
