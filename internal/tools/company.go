package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/nlpodyssey/openai-agents-go/agents"
)

// CompanyInfoArgs are the arguments to the search_company_info tool.
type CompanyInfoArgs struct {
	CompanyName string `json:"company_name" jsonschema_description:"Name of the company to research."`
}

// CompanyInfo is a company profile as a real data provider would return it.
type CompanyInfo struct {
	Company      string   `json:"company"`
	Status       string   `json:"status"`
	Founded      string   `json:"founded"`
	Headquarters string   `json:"headquarters"`
	Employees    string   `json:"employees"`
	Industry     string   `json:"industry"`
	Sectors      []string `json:"sectors"`
	MarketCap    string   `json:"market_cap"`
	KeyProducts  []string `json:"key_products"`
	Website      string   `json:"website"`
}

// SearchCompanyInfo returns a curated company profile.
//
// A production build would call Crunchbase, Clearbit, or SEC filings here.
func SearchCompanyInfo(_ context.Context, args CompanyInfoArgs) (CompanyInfo, error) {
	return CompanyInfo{
		Company:      args.CompanyName,
		Status:       "success",
		Founded:      "2001",
		Headquarters: "Cupertino, California",
		Employees:    "161,000+",
		Industry:     "Technology",
		Sectors:      []string{"Consumer Electronics", "Software", "Services"},
		MarketCap:    "$3.2 Trillion",
		KeyProducts:  []string{"iPhone", "Mac", "iPad", "Apple Watch"},
		Website:      fmt.Sprintf("https://www.%s.com", strings.ToLower(strings.ReplaceAll(args.CompanyName, " ", ""))),
	}, nil
}

func companyInfoDescriptor() Descriptor {
	const name = "search_company_info"
	const desc = "Search for comprehensive information about a company including " +
		"founding, headquarters, employees, industry, market cap, and key products."
	return Descriptor{
		Name:        name,
		Description: desc,
		Tool:        agents.NewFunctionTool(name, desc, SearchCompanyInfo),
	}
}
