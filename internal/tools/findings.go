package tools

import (
	"fmt"
	"strings"
)

// FormatFindings renders a list of findings as a numbered text block.
// It is a plain helper, not a registered tool.
func FormatFindings(findings []string) string {
	rule := strings.Repeat("=", 50)

	var b strings.Builder
	b.WriteString("KEY FINDINGS:\n")
	b.WriteString(rule)
	b.WriteString("\n\n")
	for i, finding := range findings {
		fmt.Fprintf(&b, "%d. %s\n", i+1, finding)
	}
	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("\n")
	return b.String()
}
