package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_FileValuesAndDefaults(t *testing.T) {
	path := writeConfig(t, "item_ttl: 2m\ncomment_batch_size: 7\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 2*time.Minute, cfg.ItemTTL)
	require.Equal(t, 7, cfg.CommentBatchSize)

	// Untouched fields keep their built-in defaults.
	require.Equal(t, 5, cfg.CommentMaxDepth)
	require.Equal(t, time.Second, cfg.LoadMoreDebounce)
	require.Equal(t, 30, cfg.FetchPageSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "item_ttl: 2m\n")
	t.Setenv("KINDLING_ITEM_TTL", "90s")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, cfg.ItemTTL)
}

func TestLoad_DerivesPathsFromDataDir(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "data_dir: "+dir+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, dir, cfg.DataDir)
	require.Equal(t, filepath.Join(dir, "kindling.db"), cfg.DBPath)
	require.Equal(t, filepath.Join(dir, "kindling.log"), cfg.LogPath)
}

func TestLoad_ExplicitPathsWin(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "data_dir: "+dir+"\ndb_path: "+filepath.Join(dir, "other.db")+"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "other.db"), cfg.DBPath)
	require.Equal(t, filepath.Join(dir, "kindling.log"), cfg.LogPath)
}

func TestLoad_RejectsNegativeBatchSize(t *testing.T) {
	path := writeConfig(t, "comment_batch_size: -3\n")

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "comment_batch_size")
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
