package cmd

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/scout/internal/config"
	"github.com/dotcommander/scout/internal/errs"
)

func captureStderr(tb testing.TB, fn func()) string {
	tb.Helper()

	orig := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(tb, err)
	os.Stderr = w

	fn()

	require.NoError(tb, w.Close())
	os.Stderr = orig

	out, err := io.ReadAll(r)
	require.NoError(tb, err)
	require.NoError(tb, r.Close())
	return string(out)
}

func TestHandleErrorDebugShowsDetails(t *testing.T) {
	wrapped := errs.Wrap(errors.New("dial tcp: connection refused"), "Could not reach the backend.")

	t.Run("debug off", func(t *testing.T) {
		out := captureStderr(t, func() { handleError(wrapped, false) })
		require.Contains(t, out, "Could not reach the backend.")
		require.NotContains(t, out, "connection refused")
	})

	t.Run("debug on", func(t *testing.T) {
		out := captureStderr(t, func() { handleError(wrapped, true) })
		require.Contains(t, out, "Could not reach the backend.")
		require.Contains(t, out, "connection refused")
	})

	t.Run("no reason falls back to details", func(t *testing.T) {
		bare := errs.Wrap(errors.New("details only"), "")
		out := captureStderr(t, func() { handleError(bare, false) })
		require.Contains(t, out, "details only")
	})
}

func TestDebugFlagReachesErrorRenderer(t *testing.T) {
	cfg := config.Config{}
	require.False(t, cfg.Debug)

	root, rt := newRootCmd(BuildInfo{}, cfg, nil)
	root.SetArgs([]string{"-d", "--tools"})

	_ = captureStdout(t, func() {
		require.NoError(t, root.Execute())
	})
	require.True(t, rt.cfg.Debug)
	require.False(t, cfg.Debug)
}
