package tools

import (
	"context"

	"github.com/nlpodyssey/openai-agents-go/agents"
)

// CompetitorAnalysisArgs are the arguments to the search_competitor_analysis tool.
type CompetitorAnalysisArgs struct {
	CompetitorName string   `json:"competitor_name" jsonschema_description:"Name of the competitor to analyze."`
	Metrics        []string `json:"metrics,omitempty" jsonschema_description:"Specific metrics to research, e.g. revenue, market_share, growth_rate."`
}

// CompetitorAnalysis is a SWOT-style competitor snapshot.
type CompetitorAnalysis struct {
	Competitor      string   `json:"competitor"`
	MetricsAnalyzed []string `json:"metrics_analyzed"`
	Status          string   `json:"status"`
	AnnualRevenue   string   `json:"annual_revenue"`
	MarketShare     string   `json:"market_share"`
	GrowthRate      string   `json:"growth_rate"`
	MarketPosition  string   `json:"market_position"`
	KeyStrengths    []string `json:"key_strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Opportunities   []string `json:"opportunities"`
	Threats         []string `json:"threats"`
}

// SearchCompetitorAnalysis returns a curated competitor analysis.
func SearchCompetitorAnalysis(_ context.Context, args CompetitorAnalysisArgs) (CompetitorAnalysis, error) {
	metrics := args.Metrics
	if len(metrics) == 0 {
		metrics = []string{"revenue", "market_share", "growth_rate", "market_position"}
	}
	return CompetitorAnalysis{
		Competitor:      args.CompetitorName,
		MetricsAnalyzed: metrics,
		Status:          "success",
		AnnualRevenue:   "$394.3 Billion",
		MarketShare:     "15.2%",
		GrowthRate:      "8.5% YoY",
		MarketPosition:  "Leader",
		KeyStrengths: []string{
			"Strong brand recognition",
			"Loyal customer base",
			"Vertical integration",
		},
		Weaknesses: []string{
			"Limited ecosystem flexibility",
			"High price point",
			"Service gaps",
		},
		Opportunities: []string{
			"Emerging markets",
			"New categories",
			"Services expansion",
		},
		Threats: []string{
			"Regulatory scrutiny",
			"Intense competition",
			"Tech disruption",
		},
	}, nil
}

func competitorAnalysisDescriptor() Descriptor {
	const name = "search_competitor_analysis"
	const desc = "Analyze competitor performance, strategy, strengths, weaknesses, " +
		"opportunities, and threats (SWOT analysis)."
	return Descriptor{
		Name:        name,
		Description: desc,
		Tool:        agents.NewFunctionTool(name, desc, SearchCompetitorAnalysis),
	}
}
