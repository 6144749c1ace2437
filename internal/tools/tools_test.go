package tools

import (
	"testing"

	"github.com/nlpodyssey/openai-agents-go/agents"
	"github.com/stretchr/testify/require"
)

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, []string{
		"search_company_info",
		"analyze_market_trends",
		"search_competitor_analysis",
		"search_latest_news",
		"generate_market_report",
		"send_email_report",
	}, r.Names())
}

func TestRegistryDescriptors(t *testing.T) {
	r := NewRegistry()
	for _, d := range r.Descriptors() {
		require.NotEmpty(t, d.Name)
		require.NotEmpty(t, d.Description)
		require.NotNil(t, d.Tool)
	}
	require.Len(t, r.Tools(), len(r.Names()))

	d, ok := r.Lookup("search_latest_news")
	require.True(t, ok)
	require.Equal(t, "search_latest_news", d.Name)

	_, ok = r.Lookup("format_findings")
	require.False(t, ok)
}

func TestToolNamesMatchFramework(t *testing.T) {
	r := NewRegistry()
	for _, d := range r.Descriptors() {
		ft, ok := d.Tool.(agents.FunctionTool)
		require.True(t, ok)
		require.Equal(t, d.Name, ft.ToolName())
	}
}

func TestSearchCompanyInfoDeterministic(t *testing.T) {
	args := CompanyInfoArgs{CompanyName: "Apple Inc"}
	first, err := SearchCompanyInfo(t.Context(), args)
	require.NoError(t, err)
	second, err := SearchCompanyInfo(t.Context(), args)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.Equal(t, "Apple Inc", first.Company)
	require.Equal(t, "success", first.Status)
	require.Equal(t, "Cupertino, California", first.Headquarters)
	require.Equal(t, "$3.2 Trillion", first.MarketCap)
	require.Equal(t, "https://www.appleinc.com", first.Website)
}

func TestAnalyzeMarketTrends(t *testing.T) {
	t.Run("default timeframe", func(t *testing.T) {
		out, err := AnalyzeMarketTrends(t.Context(), MarketTrendsArgs{Market: "smartphone market"})
		require.NoError(t, err)
		require.Equal(t, "1_year", out.Timeframe)
		require.Equal(t, "12% CAGR", out.GrowthRate)
		require.Len(t, out.KeyTrends, 4)
	})

	t.Run("explicit timeframe", func(t *testing.T) {
		out, err := AnalyzeMarketTrends(t.Context(), MarketTrendsArgs{Market: "AI sector", Timeframe: "5_year"})
		require.NoError(t, err)
		require.Equal(t, "5_year", out.Timeframe)
		require.Equal(t, "AI sector", out.Market)
	})

	t.Run("deterministic", func(t *testing.T) {
		args := MarketTrendsArgs{Market: "smartphone market"}
		first, err := AnalyzeMarketTrends(t.Context(), args)
		require.NoError(t, err)
		second, err := AnalyzeMarketTrends(t.Context(), args)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})
}

func TestSearchCompetitorAnalysis(t *testing.T) {
	t.Run("default metrics", func(t *testing.T) {
		out, err := SearchCompetitorAnalysis(t.Context(), CompetitorAnalysisArgs{CompetitorName: "Samsung"})
		require.NoError(t, err)
		require.Equal(t, []string{"revenue", "market_share", "growth_rate", "market_position"}, out.MetricsAnalyzed)
		require.Equal(t, "15.2%", out.MarketShare)
		require.Len(t, out.Threats, 3)
	})

	t.Run("explicit metrics", func(t *testing.T) {
		out, err := SearchCompetitorAnalysis(t.Context(), CompetitorAnalysisArgs{
			CompetitorName: "Samsung",
			Metrics:        []string{"revenue"},
		})
		require.NoError(t, err)
		require.Equal(t, []string{"revenue"}, out.MetricsAnalyzed)
	})
}

func TestSearchLatestNews(t *testing.T) {
	out, err := SearchLatestNews(t.Context(), LatestNewsArgs{Query: "Apple Inc"})
	require.NoError(t, err)
	require.Equal(t, 30, out.DaysBack)
	require.Equal(t, 3, out.ArticleCount)
	require.Len(t, out.Articles, 3)
	require.Equal(t, "Apple Inc announces new AI features", out.Articles[0].Title)
	require.Equal(t, "TechCrunch", out.Articles[0].Source)

	again, err := SearchLatestNews(t.Context(), LatestNewsArgs{Query: "Apple Inc"})
	require.NoError(t, err)
	require.Equal(t, out, again)
}

func TestGenerateMarketReport(t *testing.T) {
	out, err := GenerateMarketReport(t.Context(), MarketReportArgs{
		Company: "Apple Inc",
		Market:  "smartphone market",
	})
	require.NoError(t, err)
	require.Equal(t, "Market Analysis Report: Apple Inc", out.Title)
	require.Contains(t, out.ExecutiveSummary, "Apple Inc")
	require.Contains(t, out.MarketOverview, "12% CAGR")
	require.Len(t, out.Opportunities, 4)
	require.Len(t, out.Recommendations, 4)
	require.Len(t, out.DataSources, 5)
}

func TestSendEmailReport(t *testing.T) {
	t.Run("valid address", func(t *testing.T) {
		out, err := SendEmailReport(t.Context(), EmailReportArgs{
			RecipientEmail: "analyst@example.com",
			Subject:        "Market report",
			Body:           "attached",
		})
		require.NoError(t, err)
		require.Equal(t, "success", out.Status)
		require.Equal(t, "Email sent successfully", out.Message)
	})

	t.Run("invalid address", func(t *testing.T) {
		out, err := SendEmailReport(t.Context(), EmailReportArgs{RecipientEmail: "not-an-address"})
		require.NoError(t, err)
		require.Equal(t, "error", out.Status)
		require.Equal(t, "Invalid email address", out.Message)
	})
}

func TestFormatFindings(t *testing.T) {
	out := FormatFindings([]string{"market is growing", "competition is fierce"})
	require.Contains(t, out, "KEY FINDINGS:")
	require.Contains(t, out, "1. market is growing")
	require.Contains(t, out, "2. competition is fierce")
}
