// Package config handles configuration loading and validation for snaprotate.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"snaprotate/src/naming"
)

// Error is a fatal configuration problem: missing file, unparseable YAML, or
// an invalid setting.
type Error struct{ Msg string }

func (e *Error) Error() string { return "config: " + e.Msg }

func errf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// StoreConfig selects and parameterizes the external archive store.
type StoreConfig struct {
	Command string `yaml:"command"` // archiver binary driven by the exec client
	Options string `yaml:"options"` // opaque string forwarded verbatim to create/copy
}

// Config is the immutable run configuration. It is loaded once and handed to
// each component at construction; there is no process-wide mutable state.
type Config struct {
	Hostname     string `yaml:"hostname"`       // default: system hostname
	UseLocalTime bool   `yaml:"use_local_time"` // false: UTC timestamps

	BackupTargets []string `yaml:"backup_targets"` // required, non-empty

	// Per-tier retention. 0 means retain indefinitely (never prune that
	// tier), N > 0 keeps the N most recent archives per (tier, target).
	DailyBackups   int `yaml:"daily_backups"`
	MonthlyBackups int `yaml:"monthly_backups"`
	YearlyBackups  int `yaml:"yearly_backups"`

	LockPath string `yaml:"lock_path"`

	PreBackupHook  string `yaml:"pre_backup_hook"`
	PostBackupHook string `yaml:"post_backup_hook"`

	Store StoreConfig `yaml:"store"`
}

// DefaultLockPath is used when lock_path is not configured.
const DefaultLockPath = "/var/lock/snaprotate.lock"

// Load reads, parses and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errf("read %s: %v", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errf("parse %s: %v", path, err)
	}

	// Apply defaults
	if cfg.Hostname == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, errf("hostname not set and system hostname unavailable: %v", err)
		}
		cfg.Hostname = host
	}
	if cfg.LockPath == "" {
		cfg.LockPath = DefaultLockPath
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.BackupTargets) == 0 {
		return errf("backup_targets must list at least one path")
	}
	if c.Store.Command == "" {
		return errf("store.command is required")
	}
	if c.DailyBackups < 0 || c.MonthlyBackups < 0 || c.YearlyBackups < 0 {
		return errf("retention counts must be non-negative (0 = retain indefinitely)")
	}

	// Targets that normalize to the same archive suffix would silently share
	// one rotation group; reject the collision up front.
	seen := map[string]string{}
	for _, target := range c.BackupTargets {
		suffix := naming.SuffixOf(target)
		if prev, ok := seen[suffix]; ok {
			return errf("targets %q and %q normalize to the same archive suffix %q",
				prev, target, suffix)
		}
		seen[suffix] = target
	}
	return nil
}

// Retention returns the configured keep-count for a tier.
func (c *Config) Retention(tier naming.Tier) (int, error) {
	switch tier {
	case naming.Daily:
		return c.DailyBackups, nil
	case naming.Monthly:
		return c.MonthlyBackups, nil
	case naming.Yearly:
		return c.YearlyBackups, nil
	}
	return 0, fmt.Errorf("internal: unrecognized tier %q", tier)
}
