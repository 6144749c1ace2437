package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	glamour "github.com/charmbracelet/glamour/styles"
	"github.com/spf13/cobra"

	"github.com/dotcommander/scout/internal/config"
	"github.com/dotcommander/scout/internal/errs"
	"github.com/dotcommander/scout/internal/present"
	"github.com/dotcommander/scout/internal/researcher"
	"github.com/dotcommander/scout/internal/storage"
	"github.com/dotcommander/scout/internal/storage/cache"
	"github.com/dotcommander/scout/internal/tui"
)

type runtime struct {
	build  BuildInfo
	cfg    config.Config
	cfgErr error
}

// NewRootCmd constructs the Cobra root command.
func NewRootCmd(build BuildInfo, cfg config.Config, cfgErr error) *cobra.Command {
	root, _ := newRootCmd(build, cfg, cfgErr)
	return root
}

// newRootCmd also returns the runtime so callers can observe flag state
// after parsing, e.g. --debug when rendering errors.
func newRootCmd(build BuildInfo, cfg config.Config, cfgErr error) (*cobra.Command, *runtime) {
	// XXX: unset error styles in Glamour dark and light styles.
	glamour.DarkStyleConfig.CodeBlock.Chroma.Error.BackgroundColor = new(string)
	glamour.LightStyleConfig.CodeBlock.Chroma.Error.BackgroundColor = new(string)

	rt := &runtime{build: normalizeBuildInfo(build), cfg: cfg, cfgErr: cfgErr}

	rootCmd := &cobra.Command{
		Use:           "scout",
		Short:         "Market research agent on the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example:       randomExample(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfgErr != nil {
				return rt.cfgErr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)
			return rt.runRoot(cmd, args)
		},
	}

	rootCmd.SetUsageFunc(usageFunc)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newFlagParseError(err)
	})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.Version = rt.build.Version
	rootCmd.SetVersionTemplate(versionTemplate(rt.build))

	initRootFlags(rootCmd, &rt.cfg)

	// Commands.
	rootCmd.AddCommand(newHistoryCmd(rt))
	rootCmd.AddCommand(newConfigCmd(rt))
	rootCmd.AddCommand(newManCmd(rootCmd))
	rootCmd.AddCommand(newUpgradeCmd(rt))

	// Enable completion now that we have subcommands.
	rootCmd.InitDefaultCompletionCmd()

	return rootCmd, rt
}

func (rt *runtime) runRoot(cmd *cobra.Command, args []string) error {
	query := removeWhitespace(strings.Join(args, " "))
	if rt.cfg.Research != "" {
		query = rt.cfg.Research
	}

	if os.Getenv("VIMRUNTIME") != "" {
		rt.cfg.Quiet = true
	}

	// Headless modes (no TUI) still drain stdin to keep pipes predictable.
	// Conflicting mode flags resolve in this order.
	switch {
	case rt.cfg.ShowHelp:
		drainStdin()
		if err := cmd.Usage(); err != nil {
			return fmt.Errorf("usage: %w", err)
		}
		return nil
	case rt.cfg.ShowInfo:
		drainStdin()
		printInfo(&rt.cfg, rt.build)
		return nil
	case rt.cfg.ShowTools:
		drainStdin()
		printTools()
		return nil
	case rt.cfg.Web:
		drainStdin()
		printWebNotice()
		return nil
	case rt.cfg.Dirs:
		drainStdin()
		printDirs(&rt.cfg, args)
		return nil
	case rt.cfg.EditSettings:
		drainStdin()
		return editSettings(&rt.cfg)
	case rt.cfg.Show != "" || rt.cfg.ShowLast:
		drainStdin()
		return showReport(&rt.cfg)
	case rt.cfg.List:
		drainStdin()
		return listRuns(&rt.cfg, rt.cfg.Raw)
	case len(rt.cfg.Delete) > 0:
		drainStdin()
		return deleteRuns(&rt.cfg, rt.cfg.Delete)
	case rt.cfg.DeleteOlderThan != 0:
		drainStdin()
		return deleteRunsOlderThan(&rt.cfg, rt.cfg.DeleteOlderThan.String())
	case rt.cfg.Interactive:
		return rt.runInteractive(cmd.Context(), query)
	}

	// Without a query and with a terminal attached, run the built-in demo.
	if query == "" && present.IsInputTTY() {
		if !rt.cfg.Quiet {
			fmt.Fprintln(os.Stderr, present.Banner(rt.cfg.AgentName, rt.cfg.AgentDescription))
		}
		query = researcher.DemoQuery
	}

	return rt.runResearch(cmd.Context(), query)
}

func (rt *runtime) runResearch(ctx context.Context, query string) error {
	store, svc, err := rt.newResearcher()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close() //nolint:errcheck
	}

	opts := []tea.ProgramOption{}
	if !present.IsInputTTY() || rt.cfg.Raw {
		opts = append(opts, tea.WithInput(nil))
	}
	if present.IsOutputTTY() && !rt.cfg.Raw {
		opts = append(opts, tea.WithOutput(os.Stderr))
	} else {
		opts = append(opts, tea.WithoutRenderer())
	}

	view := tui.NewResearch(ctx, present.StderrRenderer(), &rt.cfg, svc, query)
	p := tea.NewProgram(view, opts...)
	m, err := p.Run()
	if err != nil {
		return errs.Wrap(err, "Couldn't start Bubble Tea program.")
	}

	view = m.(*tui.Research)
	if view.Error != nil {
		return *view.Error
	}

	// If we never received any input and nothing was provided, fail.
	if view.Input == "" && strings.TrimSpace(view.Query()) == "" {
		return errs.Error{
			Reason: "You haven't provided a research query.",
			Err: errs.UserErrorf(
				"You can give the query as arguments and/or pipe context from STDIN.\nExample: %s",
				present.StdoutStyles().InlineCode.Render("scout [query]"),
			),
		}
	}

	// raw mode already prints the output, no need to print it again
	if present.IsOutputTTY() && !rt.cfg.Raw {
		switch {
		case view.GlamourOutput() != "":
			fmt.Print(view.GlamourOutput())
		case view.Output != "":
			fmt.Print(view.Output)
		}
	}

	return rt.saveRun(svc, view.Query(), view.Report(), view.Messages())
}

func (rt *runtime) runInteractive(ctx context.Context, initialPrompt string) error {
	store, svc, err := rt.newResearcher()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close() //nolint:errcheck
	}

	if !rt.cfg.Quiet && present.IsOutputTTY() {
		fmt.Fprintln(os.Stderr, present.Banner(rt.cfg.AgentName, rt.cfg.AgentDescription))
	}

	// One run ID per session; every turn updates the same record.
	sessionID := storage.NewRunID()
	saveFn := func(msgs []cache.Message) error {
		query, report := summarizeTranscript(msgs)
		if query == "" {
			return nil
		}
		_, err := svc.PersistAs(sessionID, query, report, msgs)
		return err
	}

	chat := tui.NewChat(ctx, present.StderrRenderer(), &rt.cfg, svc, nil, saveFn, initialPrompt)
	p := tea.NewProgram(chat, tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return errs.Wrap(err, "Couldn't start Bubble Tea program.")
	}

	chat = m.(*tui.Chat)
	if chat.Error != nil {
		return *chat.Error
	}
	return nil
}

// newResearcher wires the run store and the researcher service. The store
// is nil when caching is disabled.
func (rt *runtime) newResearcher() (*runStore, *researcher.Service, error) {
	if rt.cfg.NoCache {
		return nil, researcher.New(&rt.cfg, nil, nil), nil
	}
	store, err := openRunStore(rt.cfg.CachePath)
	if err != nil {
		return nil, nil, errs.Wrap(err, "Could not open run store.")
	}
	return store, researcher.New(&rt.cfg, store.DB, store.Reports), nil
}

func (rt *runtime) saveRun(svc *researcher.Service, query, report string, msgs []cache.Message) error {
	if rt.cfg.NoCache || report == "" {
		if rt.cfg.NoCache && !rt.cfg.Quiet {
			fmt.Fprintf(
				os.Stderr,
				"\nRun was not saved because %s or %s is set.\n",
				present.StderrStyles().InlineCode.Render("--no-cache"),
				present.StderrStyles().InlineCode.Render("SCOUT_NO_CACHE"),
			)
		}
		return nil
	}

	id, err := svc.Persist(query, report, msgs)
	if err != nil {
		return errs.Wrap(err, fmt.Sprintf(
			"There was a problem saving the run. Use %s / %s to disable the cache.",
			present.StderrStyles().InlineCode.Render("--no-cache"),
			present.StderrStyles().InlineCode.Render("SCOUT_NO_CACHE"),
		))
	}

	if !rt.cfg.Quiet && id != "" {
		fmt.Fprintln(
			os.Stderr,
			"\nRun saved:",
			present.StderrStyles().InlineCode.Render(id[:storage.SHA1Short]),
			present.StderrStyles().Comment.Render(firstLine(query)),
		)
	}
	return nil
}

// summarizeTranscript extracts the first user prompt and the last assistant
// message from a session transcript.
func summarizeTranscript(msgs []cache.Message) (query, report string) {
	for _, msg := range msgs {
		switch msg.Role {
		case "user":
			if query == "" {
				query = msg.Content
			}
		case "assistant":
			if msg.Content != "" {
				report = msg.Content
			}
		}
	}
	return query, report
}

func removeWhitespace(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

func firstLine(s string) string {
	first, _, _ := strings.Cut(s, "\n")
	return first
}
