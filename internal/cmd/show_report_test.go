package cmd

import (
	"io"
	"os"
	"testing"

	"github.com/dotcommander/scout/internal/config"
	"github.com/dotcommander/scout/internal/storage"
	"github.com/dotcommander/scout/internal/storage/cache"
	"github.com/stretchr/testify/require"
)

func captureStdout(tb testing.TB, fn func()) string {
	tb.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(tb, err)
	os.Stdout = w

	fn()

	require.NoError(tb, w.Close())
	os.Stdout = orig

	out, err := io.ReadAll(r)
	require.NoError(tb, err)
	require.NoError(tb, r.Close())
	return string(out)
}

func TestShowReport_Headless(t *testing.T) {
	store, tmpDir := newTestRunStore(t)

	cfg := config.Config{}
	cfg.CachePath = tmpDir

	report1 := cache.Report{
		Query:    "research apple",
		Markdown: "# Apple\n\nfirst report\n",
		Messages: []cache.Message{
			{Role: "user", Content: "research apple"},
			{Role: "assistant", Content: "# Apple\n\nfirst report\n"},
		},
	}
	report2 := cache.Report{
		Query:    "research tesla",
		Markdown: "# Tesla\n\nsecond report\n",
	}

	id1 := storage.NewRunID()
	require.NoError(t, store.Reports.Write(id1, report1))
	require.NoError(t, store.DB.Save(id1, report1.Query, "openai", "gpt-4o"))

	id2 := storage.NewRunID()
	require.NoError(t, store.Reports.Write(id2, report2))
	require.NoError(t, store.DB.Save(id2, report2.Query, "openai", "gpt-4o"))

	t.Run("show by id prefix", func(t *testing.T) {
		c := cfg
		c.Show = id1[:8]
		out := captureStdout(t, func() {
			require.NoError(t, showReport(&c))
		})
		require.Equal(t, report1.Markdown, out)
	})

	t.Run("show by query", func(t *testing.T) {
		c := cfg
		c.Show = "research apple"
		out := captureStdout(t, func() {
			require.NoError(t, showReport(&c))
		})
		require.Equal(t, report1.Markdown, out)
	})

	t.Run("show last", func(t *testing.T) {
		c := cfg
		c.ShowLast = true
		out := captureStdout(t, func() {
			require.NoError(t, showReport(&c))
		})
		require.Equal(t, report2.Markdown, out)
	})

	t.Run("show unknown run fails", func(t *testing.T) {
		c := cfg
		c.Show = "nope-no-such-run"
		require.Error(t, showReport(&c))
	})
}
