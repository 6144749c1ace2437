package tools

import (
	"context"
	"fmt"

	"github.com/nlpodyssey/openai-agents-go/agents"
)

// LatestNewsArgs are the arguments to the search_latest_news tool.
type LatestNewsArgs struct {
	Query    string `json:"query" jsonschema_description:"Search query, usually a company name or topic."`
	DaysBack int    `json:"days_back,omitempty" jsonschema_description:"Number of days to look back. Defaults to 30."`
}

// NewsArticle is one search hit.
type NewsArticle struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

// NewsResults is the result of a news search.
type NewsResults struct {
	Query        string        `json:"query"`
	DaysBack     int           `json:"days_back"`
	Status       string        `json:"status"`
	Articles     []NewsArticle `json:"articles"`
	ArticleCount int           `json:"article_count"`
}

// SearchLatestNews returns curated news hits for the query.
//
// A production build would hit NewsAPI or an RSS aggregator here.
func SearchLatestNews(_ context.Context, args LatestNewsArgs) (NewsResults, error) {
	daysBack := args.DaysBack
	if daysBack == 0 {
		daysBack = 30
	}
	articles := []NewsArticle{
		{
			Title:   fmt.Sprintf("%s announces new AI features", args.Query),
			Source:  "TechCrunch",
			Date:    "2024-02-20",
			Summary: "Revolutionary AI integration announced",
			URL:     "https://example.com/article1",
		},
		{
			Title:   fmt.Sprintf("%s expands into new market", args.Query),
			Source:  "Reuters",
			Date:    "2024-02-19",
			Summary: "Strategic expansion initiative launched",
			URL:     "https://example.com/article2",
		},
		{
			Title:   fmt.Sprintf("%s Q4 earnings beat estimates", args.Query),
			Source:  "Bloomberg",
			Date:    "2024-02-18",
			Summary: "Strong financial performance reported",
			URL:     "https://example.com/article3",
		},
	}
	return NewsResults{
		Query:        args.Query,
		DaysBack:     daysBack,
		Status:       "success",
		Articles:     articles,
		ArticleCount: len(articles),
	}, nil
}

func latestNewsDescriptor() Descriptor {
	const name = "search_latest_news"
	const desc = "Search for the latest news, announcements, and developments " +
		"related to a company or topic."
	return Descriptor{
		Name:        name,
		Description: desc,
		Tool:        agents.NewFunctionTool(name, desc, SearchLatestNews),
	}
}
