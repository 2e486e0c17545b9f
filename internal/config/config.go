// Package config loads eventcal settings. Values are layered as built-in
// defaults, then an optional YAML file, then EVENTCAL_* environment
// variables.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/scheduler"
)

// Config holds user-tunable settings.
type Config struct {
	// DBPath is the badger directory. Empty means the XDG data dir.
	DBPath string `koanf:"db_path" yaml:"db_path" json:"db_path"`

	// PollInterval is the cron spec, with seconds, for notification polls.
	PollInterval string `koanf:"poll_interval" yaml:"poll_interval" json:"poll_interval"`

	// DefaultView is the list view used when --view is not given.
	DefaultView string `koanf:"default_view" yaml:"default_view" json:"default_view"`

	// Timezone names the IANA zone events are read in. Empty means local.
	Timezone string `koanf:"timezone" yaml:"timezone" json:"timezone"`

	// ExpandRecurring makes views and the daemon materialize repeat rules.
	ExpandRecurring bool `koanf:"expand_recurring" yaml:"expand_recurring" json:"expand_recurring"`

	// MetricsAddr enables the daemon's /metrics and /health listener.
	MetricsAddr string `koanf:"metrics_addr" yaml:"metrics_addr" json:"metrics_addr"`

	LogJSON bool   `koanf:"log_json" yaml:"log_json" json:"log_json"`
	LogFile string `koanf:"log_file" yaml:"log_file" json:"log_file"`

	HTTPTimeout    time.Duration `koanf:"http_timeout" yaml:"http_timeout" json:"http_timeout"`
	HTTPMaxRetries int           `koanf:"http_max_retries" yaml:"http_max_retries" json:"http_max_retries"`

	// StartupWait is how long 'daemon start' waits before checking the pid.
	StartupWait time.Duration `koanf:"startup_wait" yaml:"startup_wait" json:"startup_wait"`
	// KillTimeout bounds graceful shutdown before a forced kill.
	KillTimeout time.Duration `koanf:"kill_timeout" yaml:"kill_timeout" json:"kill_timeout"`
	// SleepThreshold is the gap between polls treated as a system sleep.
	SleepThreshold time.Duration `koanf:"sleep_threshold" yaml:"sleep_threshold" json:"sleep_threshold"`
}

// Views accepted for DefaultView.
var Views = []string{"week", "month", "all"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PollInterval:   "0 * * * * *",
		DefaultView:    "week",
		HTTPTimeout:    30 * time.Second,
		HTTPMaxRetries: 3,
		StartupWait:    500 * time.Millisecond,
		KillTimeout:    5 * time.Second,
		SleepThreshold: time.Hour,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/eventcal/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "eventcal", "config.yaml")
}

// DefaultLogPath returns $XDG_STATE_HOME/eventcal/daemon.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "eventcal", "daemon.log")
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	d := Default()
	if c.PollInterval == "" {
		c.PollInterval = d.PollInterval
	}
	if c.DefaultView == "" {
		c.DefaultView = d.DefaultView
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = d.HTTPTimeout
	}
	if c.HTTPMaxRetries < 0 {
		c.HTTPMaxRetries = 0
	}
	if c.StartupWait <= 0 {
		c.StartupWait = d.StartupWait
	}
	if c.KillTimeout <= 0 {
		c.KillTimeout = d.KillTimeout
	}
	if c.SleepThreshold <= 0 {
		c.SleepThreshold = d.SleepThreshold
	}
}

// Validate reports settings that cannot be normalized.
func (c *Config) Validate() error {
	valid := false
	for _, v := range Views {
		if c.DefaultView == v {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("default_view must be one of %v, got %q", Views, c.DefaultView)
	}
	if err := scheduler.ValidateSpec(c.PollInterval); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LogPath returns LogFile or the default daemon log path.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return DefaultLogPath()
}
