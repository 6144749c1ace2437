package present

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerWidth = 58

// Banner renders the welcome banner shown before a research session.
func Banner(name, description string) string {
	styles := StdoutStyles()
	rule := strings.Repeat("=", bannerWidth)
	title := MakeGradientText(lipgloss.NewStyle().Bold(true), name)

	var b strings.Builder
	b.WriteString(styles.Comment.Render(rule))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", title, styles.CliArgs.Render(description))
	b.WriteString(styles.Comment.Render(rule))
	b.WriteString("\n")
	return b.String()
}
