package spool

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feedlens/feedlens/internal/config"
)

func TestBuildLibsqlDSNMemory(t *testing.T) {
	dsn, err := buildLibsqlDSN(config.StoreConfig{Path: ":memory:"})
	require.NoError(t, err)
	require.Equal(t, ":memory:", dsn)
}

func TestBuildLibsqlDSNPlainPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spool", "events.db")
	dsn, err := buildLibsqlDSN(config.StoreConfig{Path: path})
	require.NoError(t, err)
	require.Equal(t, "file:"+filepath.Clean(path), dsn)
}

func TestBuildLibsqlDSNFilePrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	dsn, err := buildLibsqlDSN(config.StoreConfig{Path: "file:" + path})
	require.NoError(t, err)
	require.Equal(t, "file:"+path, dsn)
}

func TestBuildLibsqlDSNRemoteURL(t *testing.T) {
	dsn, err := buildLibsqlDSN(config.StoreConfig{
		URL:       "libsql://events.example.turso.io",
		AuthToken: "secret",
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "authToken=secret")
}

func TestBuildLibsqlDSNKeepsExistingToken(t *testing.T) {
	dsn, err := buildLibsqlDSN(config.StoreConfig{
		URL:       "libsql://events.example.turso.io?authToken=existing",
		AuthToken: "other",
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "authToken=existing")
	require.NotContains(t, dsn, "other")
}

func TestBuildLibsqlDSNEmpty(t *testing.T) {
	_, err := buildLibsqlDSN(config.StoreConfig{})
	require.Error(t, err)
}

func TestExtractFilePath(t *testing.T) {
	path, err := extractFilePath("file:/tmp/events.db")
	require.NoError(t, err)
	require.Equal(t, "/tmp/events.db", path)

	path, err = extractFilePath("file://tmp/events.db")
	require.NoError(t, err)
	require.NotEmpty(t, path)
}
