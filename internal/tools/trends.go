package tools

import (
	"context"

	"github.com/nlpodyssey/openai-agents-go/agents"
)

// MarketTrendsArgs are the arguments to the analyze_market_trends tool.
type MarketTrendsArgs struct {
	Market    string `json:"market" jsonschema_description:"Market or industry to analyze, e.g. 'smartphone market' or 'AI sector'."`
	Timeframe string `json:"timeframe,omitempty" jsonschema_description:"Time period to analyze: 1_year, 5_year, or 10_year. Defaults to 1_year."`
}

// MarketTrends is a market analysis snapshot.
type MarketTrends struct {
	Market        string   `json:"market"`
	Timeframe     string   `json:"timeframe"`
	Status        string   `json:"status"`
	MarketSize    string   `json:"market_size"`
	GrowthRate    string   `json:"growth_rate"`
	KeyTrends     []string `json:"key_trends"`
	GrowthDrivers []string `json:"growth_drivers"`
	Challenges    []string `json:"challenges"`
}

// AnalyzeMarketTrends returns a curated market analysis.
//
// A production build would pull Gartner or IDC data here.
func AnalyzeMarketTrends(_ context.Context, args MarketTrendsArgs) (MarketTrends, error) {
	timeframe := args.Timeframe
	if timeframe == "" {
		timeframe = "1_year"
	}
	return MarketTrends{
		Market:     args.Market,
		Timeframe:  timeframe,
		Status:     "success",
		MarketSize: "$500 Billion",
		GrowthRate: "12% CAGR",
		KeyTrends: []string{
			"AI integration in all products",
			"Shift to cloud-based services",
			"Increased focus on sustainability",
			"Premium market expansion",
		},
		GrowthDrivers: []string{
			"Emerging markets expansion",
			"5G adoption",
			"IoT proliferation",
		},
		Challenges: []string{
			"Supply chain disruptions",
			"Regulatory pressure",
			"Competition intensification",
		},
	}, nil
}

func marketTrendsDescriptor() Descriptor {
	const name = "analyze_market_trends"
	const desc = "Analyze trends in a specific market or industry including market size, " +
		"growth rate, key trends, growth drivers, and challenges."
	return Descriptor{
		Name:        name,
		Description: desc,
		Tool:        agents.NewFunctionTool(name, desc, AnalyzeMarketTrends),
	}
}
