package researcher

import (
	"testing"

	"github.com/nlpodyssey/openai-agents-go/agents"
	"github.com/nlpodyssey/openai-agents-go/agentstesting"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/scout/internal/config"
	"github.com/dotcommander/scout/internal/errs"
	"github.com/dotcommander/scout/internal/storage"
	"github.com/dotcommander/scout/internal/storage/cache"
)

func testService(tb testing.TB, model agents.Model) *Service {
	cfg := config.Default()
	cfg.CachePath = tb.TempDir()

	db, err := storage.Open(":memory:")
	require.NoError(tb, err)
	tb.Cleanup(func() { require.NoError(tb, db.Close()) })

	reports, err := cache.NewReports(cfg.CachePath)
	require.NoError(tb, err)

	svc := New(&cfg, db, reports)
	svc.model = model
	return svc
}

func TestBuildAgent(t *testing.T) {
	svc := testService(t, agentstesting.NewFakeModel(false, nil))

	agent, err := svc.BuildAgent()
	require.NoError(t, err)
	require.Equal(t, "ResearcherBot", agent.Name)
	require.Len(t, agent.Tools, 6)

	prompt, err := agent.GetSystemPrompt(t.Context())
	require.NoError(t, err)
	require.Contains(t, prompt.Value, "ResearcherBot")
	require.Contains(t, prompt.Value, "market research")
}

func TestResearchMissingKeyFailsBeforeDialing(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	svc := testService(t, nil)

	_, err := svc.Research(t.Context(), "research acme corp")
	require.Error(t, err)
	require.Contains(t, err.Error(), "OPENAI_API_KEY")

	var serr errs.Error
	require.ErrorAs(t, err, &serr)
	require.Contains(t, serr.ReasonText(), "OPENAI_API_KEY")
}

func TestResearchEmptyQuery(t *testing.T) {
	svc := testService(t, agentstesting.NewFakeModel(false, nil))
	_, err := svc.Research(t.Context(), "   ")
	require.Error(t, err)
}

func TestResearchWithToolCalls(t *testing.T) {
	model := agentstesting.NewFakeModel(false, nil)
	model.AddMultipleTurnOutputs([]agentstesting.FakeModelTurnOutput{
		{Value: []agents.TResponseOutputItem{
			agentstesting.GetFunctionToolCall("search_company_info", `{"company_name": "Apple Inc"}`),
		}},
		{Value: []agents.TResponseOutputItem{
			agentstesting.GetTextMessage("# Market Analysis Report: Apple Inc\n\nAll good."),
		}},
	})

	svc := testService(t, model)
	res, err := svc.Research(t.Context(), "Research Apple Inc")
	require.NoError(t, err)
	require.Contains(t, res.Markdown, "Market Analysis Report")
	require.NotEmpty(t, res.ID)
	require.NotEmpty(t, res.History)

	// user message, tool output, final message
	require.GreaterOrEqual(t, len(res.Messages), 3)
	require.Equal(t, "user", res.Messages[0].Role)
	require.Equal(t, "Research Apple Inc", res.Messages[0].Content)

	var roles []string
	for _, m := range res.Messages {
		roles = append(roles, m.Role)
	}
	require.Contains(t, roles, "tool")
	require.Contains(t, roles, "assistant")
}

func TestResearchPersistsRun(t *testing.T) {
	model := agentstesting.NewFakeModel(false, &agentstesting.FakeModelTurnOutput{
		Value: []agents.TResponseOutputItem{agentstesting.GetTextMessage("report")},
	})

	svc := testService(t, model)
	res, err := svc.Research(t.Context(), "research acme corp")
	require.NoError(t, err)

	run, err := svc.db.Find(res.ID)
	require.NoError(t, err)
	require.Equal(t, "research acme corp", run.Query)
	require.Equal(t, "openai", run.Backend)

	report, err := svc.reports.Read(res.ID)
	require.NoError(t, err)
	require.Equal(t, "report", report.Markdown)
	require.Equal(t, res.Messages, report.Messages)
}

func TestResearchNoCacheSkipsPersistence(t *testing.T) {
	model := agentstesting.NewFakeModel(false, &agentstesting.FakeModelTurnOutput{
		Value: []agents.TResponseOutputItem{agentstesting.GetTextMessage("report")},
	})

	svc := testService(t, model)
	svc.cfg.NoCache = true

	res, err := svc.Research(t.Context(), "research acme corp")
	require.NoError(t, err)
	require.Empty(t, res.ID)
	require.Empty(t, svc.db.List())
}

func TestResearchMaxTurns(t *testing.T) {
	model := agentstesting.NewFakeModel(false, nil)
	model.AddMultipleTurnOutputs([]agentstesting.FakeModelTurnOutput{
		{Value: []agents.TResponseOutputItem{
			agentstesting.GetFunctionToolCall("search_company_info", `{"company_name": "Apple Inc"}`),
		}},
		{Value: []agents.TResponseOutputItem{
			agentstesting.GetFunctionToolCall("search_latest_news", `{"query": "Apple Inc"}`),
		}},
	})

	svc := testService(t, model)
	svc.cfg.MaxTurns = 1

	_, err := svc.Research(t.Context(), "Research Apple Inc")
	require.Error(t, err)

	var serr errs.Error
	require.ErrorAs(t, err, &serr)
	require.Contains(t, serr.ReasonText(), "turns")
}

func TestPrepareClampsNegativeMaxTurns(t *testing.T) {
	svc := testService(t, agentstesting.NewFakeModel(false, nil))
	svc.cfg.MaxTurns = -3

	_, runner, err := svc.prepare(t.Context())
	require.NoError(t, err)
	require.Zero(t, runner.Config.MaxTurns)
}

func TestContinue(t *testing.T) {
	model := agentstesting.NewFakeModel(false, &agentstesting.FakeModelTurnOutput{
		Value: []agents.TResponseOutputItem{agentstesting.GetTextMessage("first answer")},
	})

	svc := testService(t, model)
	res, err := svc.Research(t.Context(), "research acme corp")
	require.NoError(t, err)

	model.SetNextOutput(agentstesting.FakeModelTurnOutput{
		Value: []agents.TResponseOutputItem{agentstesting.GetTextMessage("second answer")},
	})

	result, err := svc.Continue(t.Context(), res.History, "tell me more")
	require.NoError(t, err)
	require.Equal(t, "second answer", result.FinalOutput)
	require.Greater(t, len(result.ToInputList()), len(res.History))
}

func TestStream(t *testing.T) {
	model := agentstesting.NewFakeModel(false, &agentstesting.FakeModelTurnOutput{
		Value: []agents.TResponseOutputItem{agentstesting.GetTextMessage("streamed report")},
	})

	svc := testService(t, model)
	events, errc, err := svc.Stream(t.Context(), "research acme corp")
	require.NoError(t, err)

	var count int
	for range events {
		count++
	}
	require.NoError(t, <-errc)
	require.Positive(t, count)
}

func TestInstructions(t *testing.T) {
	out := Instructions("ResearcherBot", "Professional market research agent")
	require.Contains(t, out, "You are ResearcherBot")
	require.Contains(t, out, "Professional market research agent")
	require.Contains(t, out, "generate_market_report")
}
