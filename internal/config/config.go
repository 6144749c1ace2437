package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"text/template"
	"time"

	_ "embed"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/scout/internal/errs"
)

//go:embed config_template.yml
var configTemplate string

const (
	defaultAgentName        = "ResearcherBot"
	defaultAgentDescription = "Professional market research agent"
	defaultMaxTurns         = 10
	defaultRequestTimeout   = 300 * time.Second
	defaultWordWrap         = 80
	defaultStatusText       = "Researching"
)

// Model is a model entry under a backend.
type Model struct {
	Name     string
	Aliases  []string `yaml:"aliases"`
	Fallback string   `yaml:"fallback"`
}

// Backend is an OpenAI-compatible API endpoint and its models.
type Backend struct {
	Name      string
	BaseURL   string           `yaml:"base-url"`
	APIKey    string           `yaml:"api-key"`
	APIKeyEnv string           `yaml:"api-key-env"`
	APIKeyCmd string           `yaml:"api-key-cmd"`
	Models    map[string]Model `yaml:"models"`
}

// Backends is a type alias to allow order-preserving YAML decoding.
type Backends []Backend

// UnmarshalYAML implements ordered backend YAML decoding.
func (b *Backends) UnmarshalYAML(node *yaml.Node) error {
	for i := 0; i < len(node.Content); i += 2 {
		var backend Backend
		if err := node.Content[i+1].Decode(&backend); err != nil {
			return errs.Wrap(err, "Could not parse the backends section of the settings file.")
		}
		backend.Name = node.Content[i].Value
		*b = append(*b, backend)
	}
	return nil
}

// EmailConfig describes where a finished report could be mailed. The
// password lives in the environment only and is never written to disk.
type EmailConfig struct {
	SMTPHost string `yaml:"smtp-host" env:"SMTP_HOST"`
	SMTPPort int    `yaml:"smtp-port" env:"SMTP_PORT"`
	Sender   string `yaml:"sender" env:"SENDER_EMAIL"`
	Password string `yaml:"-" env:"SENDER_PASSWORD"`
}

// IsConfigured reports whether enough is set to address outgoing mail.
func (e EmailConfig) IsConfigured() bool {
	return e.SMTPHost != "" && e.Sender != ""
}

// Settings holds persisted configuration loaded from the YAML settings file
// and environment variables.
type Settings struct {
	Backend          string        `yaml:"default-backend" env:"BACKEND"`
	Model            string        `yaml:"default-model" env:"MODEL"`
	AgentName        string        `yaml:"agent-name" env:"AGENT_NAME"`
	AgentDescription string        `yaml:"agent-description" env:"AGENT_DESCRIPTION"`
	Instructions     string        `yaml:"instructions" env:"INSTRUCTIONS"`
	MaxTurns         int           `yaml:"max-turns" env:"MAX_TURNS"`
	RequestTimeout   time.Duration `yaml:"request-timeout" env:"REQUEST_TIMEOUT"`
	Temperature      float64       `yaml:"temp" env:"TEMP"`
	MaxTokens        int64         `yaml:"max-tokens" env:"MAX_TOKENS"`
	Raw              bool          `yaml:"raw" env:"RAW"`
	Quiet            bool          `yaml:"quiet" env:"QUIET"`
	WordWrap         int           `yaml:"word-wrap" env:"WORD_WRAP"`
	Fanciness        uint          `yaml:"fanciness" env:"FANCINESS"`
	StatusText       string        `yaml:"status-text" env:"STATUS_TEXT"`
	CachePath        string        `yaml:"cache-path" env:"CACHE_PATH"`
	NoCache          bool          `yaml:"no-cache" env:"NO_CACHE"`
	Debug            bool          `yaml:"debug" env:"DEBUG"`
	TestMode         bool          `yaml:"-" env:"TEST_MODE"`
	Backends         Backends      `yaml:"backends"`
	Email            EmailConfig   `yaml:"email"`
}

// Runtime holds CLI/runtime-only options that should not be loaded from the
// settings file.
type Runtime struct {
	Research        string
	Interactive     bool
	Web             bool
	ShowTools       bool
	ShowInfo        bool
	List            bool
	Show            string
	ShowLast        bool
	Delete          []string
	DeleteOlderThan time.Duration
	EditSettings    bool
	Dirs            bool
	ShowHelp        bool
	Version         bool
	SettingsPath    string
}

// Config is the application configuration (settings + runtime-only options).
//
// Settings fields are promoted for ergonomic access, but runtime fields are
// explicitly excluded from YAML/env parsing.
type Config struct {
	Settings `yaml:",inline"`
	Runtime  `yaml:"-" env:"-"`
}

// Ensure loads settings from disk and environment and applies defaults.
//
// A .env file in the working directory is merged into the environment first
// (without clobbering variables already exported), then the settings file is
// created on first run, read, and overridden by SCOUT_* variables.
func Ensure() (Config, error) {
	var c Config
	home, err := os.UserHomeDir()
	if err != nil {
		return c, errs.Error{Err: err, Reason: "Could not determine home directory."}
	}

	// godotenv never overrides exported variables; a missing file is fine.
	_ = godotenv.Load()

	sp := filepath.Join(home, ".config", "scout", "scout.yml")
	c.SettingsPath = sp

	if dirErr := os.MkdirAll(filepath.Dir(sp), 0o700); dirErr != nil {
		return c, errs.Error{Err: dirErr, Reason: "Could not create settings directory."}
	}

	if dirErr := WriteConfigFile(sp); dirErr != nil {
		return c, dirErr
	}
	content, err := os.ReadFile(sp)
	if err != nil {
		return c, errs.Error{Err: err, Reason: "Could not read settings file."}
	}
	if err := yaml.Unmarshal(content, &c); err != nil {
		return c, errs.Error{Err: err, Reason: "Could not parse settings file."}
	}

	if err := env.ParseWithOptions(&c, env.Options{Prefix: "SCOUT_"}); err != nil {
		return c, errs.Error{Err: err, Reason: "Could not parse environment into settings."}
	}
	applyLegacyEnv(&c)

	if c.CachePath == "" {
		c.CachePath = filepath.Join(home, ".config", "scout", "history")
	}
	if err := os.MkdirAll(filepath.Join(c.CachePath, "reports"), 0o700); err != nil {
		return c, errs.Error{Err: err, Reason: "Could not create cache directory."}
	}

	if c.AgentName == "" {
		c.AgentName = defaultAgentName
	}
	if c.AgentDescription == "" {
		c.AgentDescription = defaultAgentDescription
	}
	if c.MaxTurns == 0 {
		c.MaxTurns = defaultMaxTurns
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.WordWrap == 0 {
		c.WordWrap = defaultWordWrap
	}
	if c.StatusText == "" {
		c.StatusText = defaultStatusText
	}
	if len(c.Backends) == 0 {
		c.Backends = Default().Backends
	}

	return c, nil
}

// applyLegacyEnv honors the unprefixed variable names older deployments
// exported: AGENT_MODEL, AGENT_NAME, AGENT_DESCRIPTION and the SMTP set.
// A SCOUT_ variable always wins over its legacy twin.
func applyLegacyEnv(c *Config) {
	set := func(dst *string, prefixed, legacy string) {
		if _, ok := os.LookupEnv(prefixed); ok {
			return
		}
		if v := os.Getenv(legacy); v != "" {
			*dst = v
		}
	}
	set(&c.Model, "SCOUT_MODEL", "AGENT_MODEL")
	set(&c.AgentName, "SCOUT_AGENT_NAME", "AGENT_NAME")
	set(&c.AgentDescription, "SCOUT_AGENT_DESCRIPTION", "AGENT_DESCRIPTION")
	set(&c.Email.SMTPHost, "SCOUT_SMTP_HOST", "SMTP_SERVER")
	set(&c.Email.Sender, "SCOUT_SENDER_EMAIL", "SENDER_EMAIL")
	set(&c.Email.Password, "SCOUT_SENDER_PASSWORD", "SENDER_PASSWORD")

	if _, ok := os.LookupEnv("SCOUT_SMTP_PORT"); !ok {
		if v := os.Getenv("SMTP_PORT"); v != "" {
			if port, err := strconv.Atoi(v); err == nil {
				c.Email.SMTPPort = port
			}
		}
	}
}

// WriteConfigFile creates the config file at path if it does not exist.
func WriteConfigFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return createConfigFile(path)
	} else if err != nil {
		return errs.Error{Err: err, Reason: "Could not stat settings path."}
	}
	return nil
}

func createConfigFile(path string) error {
	tmpl := template.Must(template.New("config").Parse(configTemplate))

	f, err := os.Create(path)
	if err != nil {
		return errs.Error{Err: err, Reason: "Could not create settings file."}
	}
	defer func() { _ = f.Close() }()

	m := struct{ Config Config }{Config: Default()}
	if err := tmpl.Execute(f, m); err != nil {
		return errs.Error{Err: err, Reason: "Could not render settings template."}
	}
	return nil
}

// Default returns the default configuration values.
func Default() Config {
	return Config{
		Settings: Settings{
			Backend:          "openai",
			Model:            "gpt-4o",
			AgentName:        defaultAgentName,
			AgentDescription: defaultAgentDescription,
			MaxTurns:         defaultMaxTurns,
			RequestTimeout:   defaultRequestTimeout,
			WordWrap:         defaultWordWrap,
			StatusText:       defaultStatusText,
			Backends: Backends{
				{
					Name:      "openai",
					APIKeyEnv: "OPENAI_API_KEY",
					Models: map[string]Model{
						"gpt-4o":      {Aliases: []string{"4o"}},
						"gpt-4o-mini": {Aliases: []string{"4o-mini", "mini"}},
					},
				},
				{
					Name:      "anthropic",
					BaseURL:   "https://api.anthropic.com/v1",
					APIKeyEnv: "ANTHROPIC_API_KEY",
					Models: map[string]Model{
						"claude-sonnet-4-20250514": {Aliases: []string{"sonnet"}},
						"claude-haiku-4-20250514":  {Aliases: []string{"haiku"}},
					},
				},
				{
					Name:      "google",
					BaseURL:   "https://generativelanguage.googleapis.com/v1beta/openai",
					APIKeyEnv: "GOOGLE_API_KEY",
					Models: map[string]Model{
						"gemini-2.0-flash": {Aliases: []string{"flash"}},
						"gemini-2.5-pro":   {Aliases: []string{"pro"}},
					},
				},
				{
					Name:      "openrouter",
					BaseURL:   "https://openrouter.ai/api/v1",
					APIKeyEnv: "OPENROUTER_API_KEY",
				},
				{
					Name:    "ollama",
					BaseURL: "http://localhost:11434/v1",
					Models: map[string]Model{
						"llama3.2": {Aliases: []string{"llama"}},
					},
				},
			},
		},
	}
}
