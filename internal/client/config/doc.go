// Package config loads runtime configuration for the fitkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c / --config.
//  3. Command-line flags, which override earlier values when set explicitly.
//
// # JSON schema
//
// Durations are either strings like "3s" or integer nanoseconds:
//
//	{
//	  "remote_addr": "127.0.0.1:50061",
//	  "data_dir": "~/.fitkeeper",
//	  "storage": "sqlite",
//	  "log_format": "text",
//	  "log_level": "info",
//	  "dispatch_timeout": "10s",
//	  "watch_retry_interval": "3s",
//	  "metrics_addr": ""
//	}
//
// Environment variables are not read; use the JSON file or flags.
package config
