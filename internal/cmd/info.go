package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/dotcommander/scout/internal/config"
	"github.com/dotcommander/scout/internal/present"
	"github.com/dotcommander/scout/internal/tools"
)

// printInfo prints the agent configuration. It never resolves credentials or
// talks to a backend, so it works on machines without an API key.
func printInfo(cfg *config.Config, build BuildInfo) {
	s := present.StdoutStyles()

	if !cfg.Quiet {
		fmt.Println(present.Banner(cfg.AgentName, cfg.AgentDescription))
	}

	backend := cfg.Backend
	model := cfg.Model
	if sel, err := cfg.Resolve(cfg.Model); err == nil {
		backend = sel.Backend.Name
		model = sel.Model
	}

	rows := []struct{ key, value string }{
		{"Version", build.Version},
		{"Agent", cfg.AgentName},
		{"Description", cfg.AgentDescription},
		{"Backend", backend},
		{"Model", model},
		{"Max turns", fmt.Sprintf("%d", cfg.MaxTurns)},
		{"Request timeout", cfg.RequestTimeout.String()},
		{"Tools", fmt.Sprintf("%d", len(tools.NewRegistry().Descriptors()))},
		{"Email delivery", configuredLabel(cfg.Email.IsConfigured())},
		{"Settings", cfg.SettingsPath},
		{"Cache", filepath.Clean(cfg.CachePath)},
	}

	for _, row := range rows {
		fmt.Printf("%s %s\n", s.InfoKey.Render(row.key+":"), s.InfoValue.Render(row.value))
	}
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

// printTools lists every registered tool with its description.
func printTools() {
	s := present.StdoutStyles()
	for _, d := range tools.NewRegistry().Descriptors() {
		if present.IsOutputTTY() {
			fmt.Printf("%s\n  %s\n", s.ToolName.Render(d.Name), s.ToolDesc.Render(d.Description))
			continue
		}
		fmt.Println(d.Name)
	}
}

// printWebNotice explains that the web UI is not part of this binary.
func printWebNotice() {
	fmt.Println("The web UI is not bundled with scout.")
	fmt.Printf(
		"Run the research from the terminal instead: %s\n",
		present.StdoutStyles().InlineCode.Render("scout [query]"),
	)
}
