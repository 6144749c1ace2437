package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBackendsDecodeInOrder(t *testing.T) {
	const doc = `
backends:
  openai:
    api-key-env: OPENAI_API_KEY
    models:
      gpt-4o:
        aliases: ["4o"]
  ollama:
    base-url: http://localhost:11434/v1
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(doc), &cfg))
	require.Len(t, cfg.Backends, 2)
	require.Equal(t, "openai", cfg.Backends[0].Name)
	require.Equal(t, "ollama", cfg.Backends[1].Name)
	require.Equal(t, "http://localhost:11434/v1", cfg.Backends[1].BaseURL)
	require.Equal(t, []string{"4o"}, cfg.Backends[0].Models["gpt-4o"].Aliases)
}

func TestResolve(t *testing.T) {
	cfg := Default()

	t.Run("defaults", func(t *testing.T) {
		sel, err := cfg.Resolve("")
		require.NoError(t, err)
		require.Equal(t, "openai", sel.Backend.Name)
		require.Equal(t, "gpt-4o", sel.Model)
	})

	t.Run("alias", func(t *testing.T) {
		sel, err := cfg.Resolve("4o-mini")
		require.NoError(t, err)
		require.Equal(t, "openai", sel.Backend.Name)
		require.Equal(t, "gpt-4o-mini", sel.Model)
	})

	t.Run("alias on another backend", func(t *testing.T) {
		sel, err := cfg.Resolve("sonnet")
		require.NoError(t, err)
		require.Equal(t, "anthropic", sel.Backend.Name)
		require.Equal(t, "claude-sonnet-4-20250514", sel.Model)
	})

	t.Run("backend colon model", func(t *testing.T) {
		sel, err := cfg.Resolve("ollama:llama3.2")
		require.NoError(t, err)
		require.Equal(t, "ollama", sel.Backend.Name)
		require.Equal(t, "llama3.2", sel.Model)
	})

	t.Run("unknown model passes through", func(t *testing.T) {
		sel, err := cfg.Resolve("gpt-5-preview")
		require.NoError(t, err)
		require.Equal(t, "openai", sel.Backend.Name)
		require.Equal(t, "gpt-5-preview", sel.Model)
	})

	t.Run("unknown backend errors", func(t *testing.T) {
		_, err := cfg.Resolve("nope:gpt-4o")
		require.Error(t, err)
		require.Contains(t, err.Error(), "nope")
	})
}

func TestEmailConfig(t *testing.T) {
	require.False(t, EmailConfig{}.IsConfigured())
	require.False(t, EmailConfig{SMTPHost: "smtp.example.com"}.IsConfigured())
	require.True(t, EmailConfig{SMTPHost: "smtp.example.com", Sender: "bot@example.com"}.IsConfigured())
}

func TestEnsureAppliesEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SCOUT_MODEL", "gpt-4o-mini")
	t.Setenv("SCOUT_MAX_TURNS", "4")
	t.Setenv("AGENT_NAME", "MarketBot")

	cfg, err := Ensure()
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", cfg.Model)
	require.Equal(t, 4, cfg.MaxTurns)
	require.Equal(t, "MarketBot", cfg.AgentName)
	require.Equal(t, defaultRequestTimeout, cfg.RequestTimeout)
	require.FileExists(t, cfg.SettingsPath)
}

func TestEnsureLegacyModelEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AGENT_MODEL", "haiku")

	cfg, err := Ensure()
	require.NoError(t, err)
	require.Equal(t, "haiku", cfg.Model)
}

func TestEnsureLegacySMTPEnv(t *testing.T) {
	t.Run("legacy port", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("SMTP_SERVER", "smtp.example.com")
		t.Setenv("SMTP_PORT", "2525")

		cfg, err := Ensure()
		require.NoError(t, err)
		require.Equal(t, "smtp.example.com", cfg.Email.SMTPHost)
		require.Equal(t, 2525, cfg.Email.SMTPPort)
	})

	t.Run("prefixed wins", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("SCOUT_SMTP_PORT", "465")
		t.Setenv("SMTP_PORT", "2525")

		cfg, err := Ensure()
		require.NoError(t, err)
		require.Equal(t, 465, cfg.Email.SMTPPort)
	})

	t.Run("garbage port keeps settings value", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("SMTP_PORT", "not-a-port")

		cfg, err := Ensure()
		require.NoError(t, err)
		require.Equal(t, 587, cfg.Email.SMTPPort)
	})
}

func TestEnsureDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Ensure()
	require.NoError(t, err)
	require.Equal(t, defaultAgentName, cfg.AgentName)
	require.Equal(t, defaultMaxTurns, cfg.MaxTurns)
	require.Equal(t, 300*time.Second, cfg.RequestTimeout)
	require.NotEmpty(t, cfg.Backends)
	require.DirExists(t, cfg.CachePath)
}
