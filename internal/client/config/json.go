package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Duration is a time.Duration that unmarshals from "3s"-style strings or
// integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// leave the corresponding Config value untouched.
type JsonConfig struct {
	RemoteAddr         string    `json:"remote_addr"`
	DataDir            string    `json:"data_dir"`
	Storage            string    `json:"storage"`
	LogFormat          string    `json:"log_format"`
	LogLevel           string    `json:"log_level"`
	DispatchTimeout    *Duration `json:"dispatch_timeout"`
	WatchRetryInterval *Duration `json:"watch_retry_interval"`
	MetricsAddr        *string   `json:"metrics_addr"`
}

// parseJSON overlays cfg with values loaded from the JSON file at path.
func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIfNotEmpty(&cfg.RemoteAddr, jc.RemoteAddr)
	setIfNotEmpty(&cfg.DataDir, jc.DataDir)
	setIfNotEmpty(&cfg.Storage, jc.Storage)
	setIfNotEmpty(&cfg.LogFormat, jc.LogFormat)
	setIfNotEmpty(&cfg.LogLevel, jc.LogLevel)
	if jc.DispatchTimeout != nil {
		cfg.DispatchTimeout = jc.DispatchTimeout.Duration
	}
	if jc.WatchRetryInterval != nil {
		cfg.WatchRetryInterval = jc.WatchRetryInterval.Duration
	}
	if jc.MetricsAddr != nil {
		cfg.MetricsAddr = *jc.MetricsAddr
	}
	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
