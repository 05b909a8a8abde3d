package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "kindling.log")

	logger, err := New(path, false)
	require.NoError(t, err)

	logger.Info("hello", zap.Int("id", 42))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello")
	require.Contains(t, string(data), "42")
}

func TestNew_DebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kindling.log")

	logger, err := New(path, true)
	require.NoError(t, err)

	logger.Debug("verbose detail")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "verbose detail")
}

func TestNew_InfoSuppressesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kindling.log")

	logger, err := New(path, false)
	require.NoError(t, err)

	logger.Debug("hidden")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "hidden")
}
