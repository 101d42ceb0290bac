package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  host: 0.0.0.0
  port: 9999
  read_timeout: 5s
store:
  path: /tmp/feedlens-test.db
telemetry:
  enabled: true
  spool_events: true
sources:
  - name: nuget.org
    location: https://api.nuget.org/v3/index.json
    enabled: true
  - name: legacy
    location: https://www.nuget.org/api/v2
    enabled: true
    protocol_version: 2
  - name: local
    location: /var/feeds/local
    enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "/tmp/feedlens-test.db", cfg.Store.Path)
	require.True(t, cfg.Telemetry.SpoolEvents)

	require.Len(t, cfg.Sources, 3)
	require.Nil(t, cfg.Sources[0].ProtocolVersion)
	require.NotNil(t, cfg.Sources[1].ProtocolVersion)
	require.Equal(t, 2, *cfg.Sources[1].ProtocolVersion)
	require.False(t, cfg.Sources[2].Enabled)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfigFile(t, "{}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	require.Equal(t, "libsql", cfg.Store.Driver)
	require.Equal(t, "info", cfg.Logging.Level)
	require.True(t, cfg.Telemetry.Enabled)
	require.False(t, cfg.Telemetry.SpoolEvents)

	// No explicit store path or url: the XDG default is filled in
	require.NotEmpty(t, cfg.Store.Path)
}

func TestLoadRuntimeOverrides(t *testing.T) {
	path := writeConfigFile(t, "{}\n")

	cfg, err := Load(path, map[string]any{
		"server.port":     7070,
		"metrics.port":    9191,
		"metrics.enabled": true,
	})
	require.NoError(t, err)

	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, 9191, cfg.Metrics.Port)
	require.True(t, cfg.Metrics.Enabled)
}

func TestLoadStoresGlobalConfig(t *testing.T) {
	path := writeConfigFile(t, "{}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Same(t, cfg, GetConfig())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDescriptors(t *testing.T) {
	version := 3
	cfg := &Config{
		Sources: []SourceEntry{
			{Name: "v3", Location: "https://example.com/index.json", Enabled: true},
			{Name: "pinned", Location: "https://example.com/feed", Enabled: true, ProtocolVersion: &version},
			{Name: "local", Location: `C:\feeds`, Enabled: false},
		},
	}

	descriptors := cfg.Descriptors()
	require.Len(t, descriptors, 3)
	require.True(t, descriptors[0].IsHTTP)
	require.Equal(t, 3, *descriptors[1].ProtocolVersion)
	require.False(t, descriptors[2].Enabled)

	var empty *Config
	require.Nil(t, empty.Descriptors())
}
