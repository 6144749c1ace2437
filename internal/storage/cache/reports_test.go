package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReports(t *testing.T) {
	const id = "df31ae23ab8b75b5643c2f846c570997edc71333"

	t.Run("roundtrip", func(t *testing.T) {
		reports, err := NewReports(t.TempDir())
		require.NoError(t, err)

		in := Report{
			Query:    "research acme corp",
			Markdown: "# Acme Corp\n\nAll fine.",
			Messages: []Message{
				{Role: "user", Content: "research acme corp"},
				{Role: "assistant", Content: "# Acme Corp\n\nAll fine."},
			},
		}
		require.NoError(t, reports.Write(id, in))

		out, err := reports.Read(id)
		require.NoError(t, err)
		require.Equal(t, in, out)
	})

	t.Run("missing report", func(t *testing.T) {
		reports, err := NewReports(t.TempDir())
		require.NoError(t, err)

		_, err = reports.Read(id)
		require.ErrorIs(t, err, ErrReportNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		reports, err := NewReports(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, reports.Write(id, Report{Query: "q", Markdown: "m"}))
		require.NoError(t, reports.Delete(id))
		require.NoError(t, reports.Delete(id))

		_, err = reports.Read(id)
		require.ErrorIs(t, err, ErrReportNotFound)
	})
}
