package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/fitkeeper/internal/client/persist"
	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/logging"
	"github.com/spf13/pflag"
)

// Config holds runtime settings for the fitkeeper CLI.
//
// DispatchTimeout bounds a single fire-and-forget remote mutation.
// WatchRetryInterval is the pause before a failed live subscription is
// re-opened. MetricsAddr, when non-empty, serves Prometheus metrics.
type Config struct {
	RemoteAddr         string
	DataDir            string
	Storage            string
	LogFormat          string
	LogLevel           string
	DispatchTimeout    time.Duration
	WatchRetryInterval time.Duration
	MetricsAddr        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RemoteAddr = common.DefaultRemoteAddr
	c.DataDir = "~/.fitkeeper"
	c.Storage = persist.StorageSQLite
	c.LogFormat = logging.FormatText
	c.LogLevel = "info"
	c.DispatchTimeout = 10 * time.Second
	c.WatchRetryInterval = 3 * time.Second
	c.MetricsAddr = ""
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	switch c.Storage {
	case persist.StorageSQLite, persist.StorageBolt, persist.StorageMemory:
	default:
		return fmt.Errorf("%w: unknown storage %q", common.ErrValidation, c.Storage)
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON, logging.FormatZap:
	default:
		return fmt.Errorf("%w: unknown log format %q", common.ErrValidation, c.LogFormat)
	}
	if c.DispatchTimeout <= 0 {
		return fmt.Errorf("%w: dispatch timeout must be positive", common.ErrValidation)
	}
	if c.WatchRetryInterval <= 0 {
		return fmt.Errorf("%w: watch retry interval must be positive", common.ErrValidation)
	}
	return nil
}

// LoadConfig constructs a Config: defaults, then the JSON file named by the
// --config flag (if any), then every flag in fs that was set explicitly.
// fs must have been prepared with RegisterFlags and parsed.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path, err := fs.GetString(FlagConfig)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyFlags(cfg, fs); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
