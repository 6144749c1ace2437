package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotcommander/scout/internal/config"
	"github.com/dotcommander/scout/internal/present"
	"github.com/dotcommander/scout/internal/storage"
)

var helpText = map[string]string{
	"research":          "Research the given query and print the report",
	"interactive":       "Start an interactive research session",
	"web":               "Explain how to run the web interface",
	"tools":             "List the tools available to the agent",
	"info":              "Show the agent card",
	"model":             "Model to use (name, alias, or backend:model)",
	"list":              "Lists saved research runs",
	"show":              "Show a saved report by ID or query",
	"show-last":         "Show the latest saved report",
	"delete":            "Deletes a saved run by ID or query",
	"delete-older-than": "Deletes runs older than the specified duration; 10d, 3w, 1mo, 1y",
	"raw":               "Render output as raw text when piping",
	"quiet":             "Quiet mode (hide the loading animation and confirmations)",
	"no-cache":          "Disables saving the run",
	"settings":          "Open settings in your $EDITOR",
	"dirs":              "Print the directories in which scout stores its data",
	"word-wrap":         "Wrap formatted output at specific width (default is 80)",
	"max-turns":         "Maximum number of agent turns per run",
	"temp":              "Temperature (randomness) of results, from 0.0 to 2.0",
	"max-tokens":        "Maximum number of tokens in the response",
	"fanciness":         "Your desired level of fanciness",
	"status-text":       "Text to show while researching",
	"debug":             "Show the detailed cause of errors",
	"version":           "Show version and exit",
	"help":              "Show help and exit",
}

func initRootFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	flags.StringVarP(&cfg.Research, "research", "r", "", present.StdoutStyles().FlagDesc.Render(helpText["research"]))
	flags.BoolVarP(&cfg.Interactive, "interactive", "i", false, present.StdoutStyles().FlagDesc.Render(helpText["interactive"]))
	flags.BoolVarP(&cfg.Web, "web", "w", false, present.StdoutStyles().FlagDesc.Render(helpText["web"]))
	flags.BoolVarP(&cfg.ShowTools, "tools", "t", false, present.StdoutStyles().FlagDesc.Render(helpText["tools"]))
	flags.BoolVar(&cfg.ShowInfo, "info", false, present.StdoutStyles().FlagDesc.Render(helpText["info"]))
	flags.StringVarP(&cfg.Model, "model", "m", cfg.Model, present.StdoutStyles().FlagDesc.Render(helpText["model"]))
	flags.BoolVarP(&cfg.List, "list", "l", false, present.StdoutStyles().FlagDesc.Render(helpText["list"]))
	flags.StringVarP(&cfg.Show, "show", "s", "", present.StdoutStyles().FlagDesc.Render(helpText["show"]))
	flags.BoolVarP(&cfg.ShowLast, "show-last", "S", false, present.StdoutStyles().FlagDesc.Render(helpText["show-last"]))
	flags.StringArrayVar(&cfg.Delete, "delete", nil, present.StdoutStyles().FlagDesc.Render(helpText["delete"]))
	flags.Var(newDurationFlag(cfg.DeleteOlderThan, &cfg.DeleteOlderThan), "delete-older-than", present.StdoutStyles().FlagDesc.Render(helpText["delete-older-than"]))
	flags.BoolVar(&cfg.Raw, "raw", cfg.Raw, present.StdoutStyles().FlagDesc.Render(helpText["raw"]))
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, present.StdoutStyles().FlagDesc.Render(helpText["quiet"]))
	flags.BoolVar(&cfg.NoCache, "no-cache", cfg.NoCache, present.StdoutStyles().FlagDesc.Render(helpText["no-cache"]))
	flags.BoolVar(&cfg.EditSettings, "settings", false, present.StdoutStyles().FlagDesc.Render(helpText["settings"]))
	flags.BoolVar(&cfg.Dirs, "dirs", false, present.StdoutStyles().FlagDesc.Render(helpText["dirs"]))
	flags.IntVar(&cfg.WordWrap, "word-wrap", cfg.WordWrap, present.StdoutStyles().FlagDesc.Render(helpText["word-wrap"]))
	flags.IntVar(&cfg.MaxTurns, "max-turns", cfg.MaxTurns, present.StdoutStyles().FlagDesc.Render(helpText["max-turns"]))
	flags.Float64Var(&cfg.Temperature, "temp", cfg.Temperature, present.StdoutStyles().FlagDesc.Render(helpText["temp"]))
	flags.Int64Var(&cfg.MaxTokens, "max-tokens", cfg.MaxTokens, present.StdoutStyles().FlagDesc.Render(helpText["max-tokens"]))
	flags.UintVar(&cfg.Fanciness, "fanciness", cfg.Fanciness, present.StdoutStyles().FlagDesc.Render(helpText["fanciness"]))
	flags.StringVar(&cfg.StatusText, "status-text", cfg.StatusText, present.StdoutStyles().FlagDesc.Render(helpText["status-text"]))
	flags.BoolVarP(&cfg.Debug, "debug", "d", cfg.Debug, present.StdoutStyles().FlagDesc.Render(helpText["debug"]))
	flags.BoolVarP(&cfg.ShowHelp, "help", "h", false, present.StdoutStyles().FlagDesc.Render(helpText["help"]))
	flags.BoolVarP(&cfg.Version, "version", "v", false, present.StdoutStyles().FlagDesc.Render(helpText["version"]))
	flags.SortFlags = false

	flags.BoolVar(&memprofile, "memprofile", false, "Write memory profiles to CWD")
	_ = flags.MarkHidden("memprofile")

	// Shell completions for show/delete IDs. Open DB lazily.
	for _, name := range []string{"show", "delete"} {
		_ = cmd.RegisterFlagCompletionFunc(name, func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if cfg.CachePath == "" {
				return nil, cobra.ShellCompDirectiveDefault
			}
			db, err := storage.Open(filepath.Join(cfg.CachePath, "runs"))
			if err != nil {
				return nil, cobra.ShellCompDirectiveDefault
			}
			defer db.Close() //nolint:errcheck
			results := db.Completions(toComplete)
			return results, cobra.ShellCompDirectiveDefault
		})
	}

	cmd.MarkFlagsMutuallyExclusive(
		"research",
		"interactive",
		"web",
		"tools",
		"info",
		"settings",
		"show",
		"show-last",
		"delete",
		"delete-older-than",
		"list",
	)
}
