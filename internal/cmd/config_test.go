package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/scout/internal/config"
)

func TestResetSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.yml")
	require.NoError(t, os.WriteFile(path, []byte("agent-name: CustomBot\n"), 0o600))

	cfg := config.Config{}
	cfg.SettingsPath = path

	out := captureStderr(t, func() {
		require.NoError(t, resetSettings(&cfg))
	})

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	require.Equal(t, "agent-name: CustomBot\n", string(backup))

	fresh, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(fresh), "agent-name")
	require.NotContains(t, string(fresh), "CustomBot")

	require.Contains(t, out, "Scout settings restored to defaults")
	require.Contains(t, out, "research runs were not touched")
}

func TestResetSettingsMissingFile(t *testing.T) {
	cfg := config.Config{}
	cfg.SettingsPath = filepath.Join(t.TempDir(), "scout.yml")
	require.Error(t, resetSettings(&cfg))
}
