package present

import "github.com/charmbracelet/lipgloss"

// Styles bundles the lipgloss styles shared by the CLI and the TUI.
type Styles struct {
	AppName      lipgloss.Style
	CliArgs      lipgloss.Style
	Comment      lipgloss.Style
	InlineCode   lipgloss.Style
	Quote        lipgloss.Style
	Pipe         lipgloss.Style
	Flag         lipgloss.Style
	FlagComma    lipgloss.Style
	FlagDesc     lipgloss.Style
	Link         lipgloss.Style
	ErrorHeader  lipgloss.Style
	ErrorDetails lipgloss.Style
	ErrPadding   lipgloss.Style
	Timeago      lipgloss.Style
	SHA1         lipgloss.Style
	RunList      lipgloss.Style
	ToolName     lipgloss.Style
	ToolDesc     lipgloss.Style
	InfoKey      lipgloss.Style
	InfoValue    lipgloss.Style
}

// MakeStyles builds the shared styles for the given renderer.
func MakeStyles(r *lipgloss.Renderer) (s Styles) {
	const horizontalEdgePadding = 2
	s.AppName = r.NewStyle().Bold(true)
	s.CliArgs = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#212121", Dark: "#dddddd"})
	s.Comment = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "", Dark: "#757575"})
	s.InlineCode = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}).Background(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#3A3A3A"}).Padding(0, 1)
	s.Quote = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF71D0", Dark: "#FF78D2"})
	s.Pipe = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8470FF", Dark: "#745CFF"})
	s.Flag = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00B594", Dark: "#3EEFCF"}).Bold(true)
	s.FlagComma = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5DD6C0", Dark: "#427C72"}).SetString(",")
	s.FlagDesc = s.Comment
	s.Link = r.NewStyle().Foreground(lipgloss.Color("#00AF87")).Underline(true)
	s.ErrorHeader = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#F1F1F1", Dark: "#F1F1F1"}).Background(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}).Bold(true).Padding(0, 1).SetString("ERROR")
	s.ErrorDetails = s.Comment
	s.ErrPadding = r.NewStyle().Padding(0, horizontalEdgePadding)
	s.Timeago = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#605F6B"})
	s.SHA1 = s.Flag
	s.RunList = r.NewStyle().Padding(0, 1)
	s.ToolName = s.Flag
	s.ToolDesc = s.Comment
	s.InfoKey = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8470FF", Dark: "#745CFF"}).Bold(true)
	s.InfoValue = s.CliArgs
	return s
}
