package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestParseJSON_OverlaysOnlyPresentFields(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"remote_addr":          "www.example:9000",
		"watch_retry_interval": "10s",
		"dispatch_timeout":     int64(5 * time.Second),
		"metrics_addr":         ":9100",
	})

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseJSON(&cfg, path))

	assert.Equal(t, "www.example:9000", cfg.RemoteAddr)
	assert.Equal(t, 10*time.Second, cfg.WatchRetryInterval)
	assert.Equal(t, 5*time.Second, cfg.DispatchTimeout)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, "sqlite", cfg.Storage)
}

func TestParseJSON_Errors(t *testing.T) {
	var cfg Config

	require.Error(t, parseJSON(&cfg, filepath.Join(t.TempDir(), "missing.json")))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
	require.Error(t, parseJSON(&cfg, bad))

	badDur := writeTempJSON(t, map[string]any{"dispatch_timeout": "soon"})
	require.Error(t, parseJSON(&cfg, badDur))
}

func TestLoadConfig_FlagsBeatJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"remote_addr": "from-json:1",
		"storage":     "memory",
	})

	cfg, err := LoadConfig(newFlagSet(t, "-c", path, "--remote", "from-flag:2"))
	require.NoError(t, err)

	assert.Equal(t, "from-flag:2", cfg.RemoteAddr)
	assert.Equal(t, "memory", cfg.Storage)
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &d))
	assert.Equal(t, 90*time.Second, d.Duration)

	require.NoError(t, json.Unmarshal([]byte(`1000`), &d))
	assert.Equal(t, time.Microsecond, d.Duration)

	require.Error(t, json.Unmarshal([]byte(`true`), &d))

	out, err := json.Marshal(Duration{2 * time.Second})
	require.NoError(t, err)
	assert.JSONEq(t, `"2s"`, string(out))
}
