package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by the CLI.
const (
	FlagConfig          = "config"
	FlagRemote          = "remote"
	FlagDataDir         = "data-dir"
	FlagStorage         = "storage"
	FlagLogFormat       = "log-format"
	FlagLogLevel        = "log-level"
	FlagDispatchTimeout = "dispatch-timeout"
	FlagWatchRetry      = "watch-retry"
	FlagMetricsAddr     = "metrics-addr"
)

// RegisterFlags declares the configuration flags on fs, with defaults taken
// from LoadDefaults.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(FlagConfig, "c", "", "path to a JSON config file")
	fs.StringP(FlagRemote, "a", d.RemoteAddr, "address and port of the sync backend")
	fs.String(FlagDataDir, d.DataDir, "directory for on-device state")
	fs.String(FlagStorage, d.Storage, "storage backend: sqlite, bolt or memory")
	fs.String(FlagLogFormat, d.LogFormat, "log format: text, json or zap")
	fs.String(FlagLogLevel, d.LogLevel, "log level: debug, info, warn or error")
	fs.Duration(FlagDispatchTimeout, d.DispatchTimeout, "timeout of a single remote mutation")
	fs.Duration(FlagWatchRetry, d.WatchRetryInterval, "pause before re-opening a failed subscription")
	fs.String(FlagMetricsAddr, d.MetricsAddr, "serve Prometheus metrics on this address")
}

// applyFlags copies explicitly set flags into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	strs := map[string]*string{
		FlagRemote:      &cfg.RemoteAddr,
		FlagDataDir:     &cfg.DataDir,
		FlagStorage:     &cfg.Storage,
		FlagLogFormat:   &cfg.LogFormat,
		FlagLogLevel:    &cfg.LogLevel,
		FlagMetricsAddr: &cfg.MetricsAddr,
	}
	for name, dst := range strs {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if fs.Changed(FlagDispatchTimeout) {
		v, err := fs.GetDuration(FlagDispatchTimeout)
		if err != nil {
			return err
		}
		cfg.DispatchTimeout = v
	}
	if fs.Changed(FlagWatchRetry) {
		v, err := fs.GetDuration(FlagWatchRetry)
		if err != nil {
			return err
		}
		cfg.WatchRetryInterval = v
	}
	return nil
}
