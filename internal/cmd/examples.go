package cmd

import (
	"math/rand"
	"regexp"

	"github.com/dotcommander/scout/internal/present"
)

var examples = map[string]string{
	"Research a company and its market": `scout "Research Tesla Inc and analyze the EV market"`,
	"Pipe notes in as extra context":    `cat meeting-notes.md | scout "summarize the competitive risks for our launch" | glow`,
	"Pick up where you left off":        `scout --show-last | gum pager`,
}

func randomExample() string {
	keys := make([]string, 0, len(examples))
	for k := range examples {
		keys = append(keys, k)
	}
	desc := keys[rand.Intn(len(keys))] //nolint:gosec
	return desc
}

func cheapHighlighting(s present.Styles, code string) string {
	code = regexp.
		MustCompile(`"([^"\\]|\\.)*"`).
		ReplaceAllStringFunc(code, func(x string) string {
			return s.Quote.Render(x)
		})
	code = regexp.
		MustCompile(`\|`).
		ReplaceAllStringFunc(code, func(x string) string {
			return s.Pipe.Render(x)
		})
	return code
}
