// Package researcher assembles the market research agent and runs it
// through the agent framework.
//
// The package never implements a planning loop of its own: it declares the
// agent (name, instructions, tools, model) and hands every run to the
// framework runner. It is UI-agnostic and serves both the TUI and headless
// commands.
package researcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/caarlos0/go-shellwords"
	"github.com/nlpodyssey/openai-agents-go/agents"
	"github.com/nlpodyssey/openai-agents-go/modelsettings"
	"github.com/openai/openai-go/v2/packages/param"

	"github.com/dotcommander/scout/internal/config"
	"github.com/dotcommander/scout/internal/errs"
	"github.com/dotcommander/scout/internal/storage"
	"github.com/dotcommander/scout/internal/storage/cache"
	"github.com/dotcommander/scout/internal/tools"
)

// Service runs research queries through the agent framework.
type Service struct {
	cfg      *config.Config
	db       *storage.DB
	reports  *cache.Reports
	registry *tools.Registry

	// model overrides the configured model with a concrete instance.
	// Tests use it to plug in a fake model.
	model agents.Model
}

// New creates a researcher service. db and reports may be nil for headless
// commands that never persist anything.
func New(cfg *config.Config, db *storage.DB, reports *cache.Reports) *Service {
	return &Service{
		cfg:      cfg,
		db:       db,
		reports:  reports,
		registry: tools.NewRegistry(),
	}
}

// Registry exposes the tool registry backing the agent.
func (s *Service) Registry() *tools.Registry {
	return s.registry
}

// Result is the outcome of one research run.
type Result struct {
	ID       string
	Markdown string
	Messages []cache.Message
	History  []agents.TResponseInputItem
}

// BuildAgent assembles the declarative agent definition.
func (s *Service) BuildAgent() (*agents.Agent, error) {
	sel, err := s.cfg.Resolve(s.cfg.Model)
	if err != nil {
		return nil, err
	}

	instructions := Instructions(s.cfg.AgentName, s.cfg.AgentDescription)
	if s.cfg.Instructions != "" {
		instructions, err = config.LoadInstructions(s.cfg.Instructions)
		if err != nil {
			return nil, errs.Wrap(err, "Could not load the custom instructions.")
		}
	}

	agent := agents.New(s.cfg.AgentName).
		WithInstructions(instructions).
		WithTools(s.registry.Tools()...).
		WithModelSettings(s.modelSettings())

	if s.model != nil {
		return agent.WithModelInstance(s.model), nil
	}
	return agent.WithModel(sel.Model), nil
}

func (s *Service) modelSettings() modelsettings.ModelSettings {
	var ms modelsettings.ModelSettings
	if s.cfg.Temperature > 0 {
		ms.Temperature = param.NewOpt(s.cfg.Temperature)
	}
	if s.cfg.MaxTokens > 0 {
		ms.MaxTokens = param.NewOpt(s.cfg.MaxTokens)
	}
	return ms
}

// Research runs a one-shot research query and returns the final report.
func (s *Service) Research(ctx context.Context, query string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, errs.UserErrorf("The research query is empty.")
	}

	agent, runner, err := s.prepare(ctx)
	if err != nil {
		return Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	result, err := runner.Run(ctx, agent, query)
	if err != nil {
		return Result{}, s.humanize(err)
	}

	markdown := FinalText(result)
	res := Result{
		Markdown: markdown,
		Messages: Transcript(query, result.NewItems),
		History:  result.ToInputList(),
	}
	res.ID, err = s.persist(query, res)
	return res, err
}

// Stream runs a research query and returns the framework's streaming
// channels. The caller owns draining both.
func (s *Service) Stream(ctx context.Context, query string) (<-chan agents.StreamEvent, <-chan error, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil, errs.UserErrorf("The research query is empty.")
	}
	agent, runner, err := s.prepare(ctx)
	if err != nil {
		return nil, nil, err
	}
	return runner.RunStreamedChan(ctx, agent, query)
}

// Continue runs one more turn of a conversation. The returned result's
// ToInputList carries the state for the next turn.
func (s *Service) Continue(ctx context.Context, history []agents.TResponseInputItem, prompt string) (*agents.RunResult, error) {
	agent, runner, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	input := append(append([]agents.TResponseInputItem{}, history...), agents.UserMessage(prompt))
	result, err := runner.RunInputs(ctx, agent, input)
	if err != nil {
		return nil, s.humanize(err)
	}
	return result, nil
}

// Persist stores a finished run under a fresh ID in the index and the
// report cache. It is exported for callers that stream and save afterwards.
func (s *Service) Persist(query, markdown string, messages []cache.Message) (string, error) {
	return s.PersistAs(storage.NewRunID(), query, markdown, messages)
}

// PersistAs is Persist with a caller-chosen ID, so interactive sessions can
// keep updating the same run across turns.
func (s *Service) PersistAs(id, query, markdown string, messages []cache.Message) (string, error) {
	return s.persistAs(id, query, Result{Markdown: markdown, Messages: messages})
}

func (s *Service) persist(query string, res Result) (string, error) {
	return s.persistAs(storage.NewRunID(), query, res)
}

func (s *Service) persistAs(id, query string, res Result) (string, error) {
	if s.db == nil || s.cfg.NoCache {
		return "", nil
	}
	sel, err := s.cfg.Resolve(s.cfg.Model)
	if err != nil {
		return "", err
	}
	if err := s.db.Save(id, query, sel.Backend.Name, sel.Model); err != nil {
		return "", errs.Wrap(err, "Could not save the run to the history index.")
	}
	if s.reports != nil {
		report := cache.Report{Query: query, Markdown: res.Markdown, Messages: res.Messages}
		if err := s.reports.Write(id, report); err != nil {
			return "", errs.Wrap(err, "Could not cache the report.")
		}
	}
	return id, nil
}

func (s *Service) prepare(ctx context.Context) (*agents.Agent, agents.Runner, error) {
	agent, err := s.BuildAgent()
	if err != nil {
		return nil, agents.Runner{}, err
	}

	// Zero means the framework default. Negatives would wrap the uint64.
	maxTurns := max(s.cfg.MaxTurns, 0)

	runner := agents.Runner{Config: agents.RunConfig{
		MaxTurns:        uint64(maxTurns),
		WorkflowName:    "scout-research",
		TracingDisabled: true,
	}}

	// A concrete model instance needs no provider or credentials.
	if s.model != nil {
		return agent, runner, nil
	}

	sel, err := s.cfg.Resolve(s.cfg.Model)
	if err != nil {
		return nil, agents.Runner{}, err
	}
	key, err := ensureKey(ctx, sel.Backend)
	if err != nil {
		return nil, agents.Runner{}, err
	}
	runner.Config.ModelProvider = newProvider(sel.Backend, key)
	return agent, runner, nil
}

// newProvider builds the model provider for the selected backend. Anything
// with a custom base URL talks the chat completions dialect, which every
// OpenAI-compatible endpoint supports.
func newProvider(backend config.Backend, key string) agents.ModelProvider {
	params := agents.NewMultiProviderParams{
		OpenaiAPIKey: param.NewOpt(key),
	}
	if backend.BaseURL != "" {
		params.OpenaiBaseURL = param.NewOpt(backend.BaseURL)
		params.OpenaiUseResponses = param.NewOpt(false)
	}
	return agents.NewMultiProvider(params)
}

type keySource struct {
	env  string
	docs string
}

var keySources = map[string]keySource{
	"openai":     {env: "OPENAI_API_KEY", docs: "https://platform.openai.com/account/api-keys"},
	"anthropic":  {env: "ANTHROPIC_API_KEY", docs: "https://console.anthropic.com/settings/keys"},
	"google":     {env: "GOOGLE_API_KEY", docs: "https://aistudio.google.com/app/apikey"},
	"openrouter": {env: "OPENROUTER_API_KEY", docs: "https://openrouter.ai/keys"},
}

// ensureKey resolves the API key for a backend without ever dialing the
// network: literal key, key env var, then api-key-cmd. Local backends
// (no known key source) pass through with whatever was found.
func ensureKey(ctx context.Context, backend config.Backend) (string, error) {
	key := backend.APIKey
	if key == "" && backend.APIKeyEnv != "" && backend.APIKeyCmd == "" {
		key = os.Getenv(backend.APIKeyEnv)
	}
	if key == "" && backend.APIKeyCmd != "" {
		args, err := shellwords.Parse(backend.APIKeyCmd)
		if err != nil {
			return "", errs.Error{Err: err, Reason: "Failed to parse api-key-cmd"}
		}
		// #nosec G204 -- api-key-cmd is explicitly configured by the local user.
		out, err := exec.CommandContext(ctx, args[0], args[1:]...).CombinedOutput()
		if err != nil {
			return "", errs.Error{Err: err, Reason: "Cannot exec api-key-cmd"}
		}
		key = strings.TrimSpace(string(out))
	}

	src, known := keySources[backend.Name]
	if key == "" && known {
		key = os.Getenv(src.env)
	}
	if key == "" && known {
		return "", errs.Error{
			Reason: fmt.Sprintf("%s required; set %s or update scout.yml through scout --settings.", src.env, src.env),
			Err:    errs.UserErrorf("You can grab one at %s", src.docs),
		}
	}
	return key, nil
}

// FinalText extracts the final textual output of a run.
func FinalText(result *agents.RunResult) string {
	if s, ok := result.FinalOutput.(string); ok {
		return s
	}
	if out := agents.ItemHelpers().TextMessageOutputs(result.NewItems); out != "" {
		return out
	}
	return fmt.Sprint(result.FinalOutput)
}

// Transcript flattens run items into storable messages.
func Transcript(query string, items []agents.RunItem) []cache.Message {
	msgs := []cache.Message{{Role: "user", Content: query}}
	for _, item := range items {
		switch item := item.(type) {
		case agents.MessageOutputItem:
			msgs = append(msgs, cache.Message{
				Role:    "assistant",
				Content: agents.ItemHelpers().TextMessageOutput(item),
			})
		case agents.ToolCallOutputItem:
			msgs = append(msgs, cache.Message{
				Role:    "tool",
				Content: fmt.Sprint(item.Output),
			})
		}
	}
	return msgs
}
