package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	timeago "github.com/caarlos0/timea.go"
	"github.com/charmbracelet/huh"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/dotcommander/scout/internal/errs"
	"github.com/dotcommander/scout/internal/present"
	"github.com/dotcommander/scout/internal/storage"
)

func newHistoryCmd(rt *runtime) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Manage saved research runs",
	}

	historyCmd.AddCommand(newHistoryListCmd(rt))
	historyCmd.AddCommand(newHistoryShowCmd(rt))
	historyCmd.AddCommand(newHistoryDeleteCmd(rt))
	historyCmd.AddCommand(newHistoryPruneCmd(rt))

	return historyCmd
}

func newHistoryListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved research runs",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if rt.cfgErr != nil {
				return rt.cfgErr
			}
			return listRuns(&rt.cfg, rt.cfg.Raw)
		},
	}
}

func newHistoryShowCmd(rt *runtime) *cobra.Command {
	var last bool
	showCmd := &cobra.Command{
		Use:   "show [id-or-query]",
		Short: "Show a saved report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if rt.cfgErr != nil {
				return rt.cfgErr
			}
			drainStdin()
			cfg := rt.cfg
			cfg.Show = ""
			cfg.ShowLast = last
			if len(args) == 1 {
				cfg.Show = args[0]
			}
			return showReport(&cfg)
		},
	}
	showCmd.Flags().BoolVarP(&last, "last", "S", false, "Show the latest saved report")
	return showCmd
}

func newHistoryDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id-or-query> [more...]",
		Short: "Delete saved research runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if rt.cfgErr != nil {
				return rt.cfgErr
			}
			return deleteRuns(&rt.cfg, args)
		},
	}
}

func newHistoryPruneCmd(rt *runtime) *cobra.Command {
	var olderThan time.Duration
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if rt.cfgErr != nil {
				return rt.cfgErr
			}
			if olderThan == 0 {
				return errs.Wrap(errs.UserErrorf("missing --older-than"), "Could not delete old runs.")
			}
			rt.cfg.DeleteOlderThan = olderThan
			return deleteRunsOlderThan(&rt.cfg, olderThan.String())
		},
	}
	pruneCmd.Flags().Var(newDurationFlag(olderThan, &olderThan), "older-than", "Duration to prune; e.g. 24h, 7d")
	return pruneCmd
}

func makeOptions(runs []storage.Run) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(runs))
	for _, r := range runs {
		timea := present.StdoutStyles().Timeago.Render(timeago.Of(r.UpdatedAt))
		left := present.StdoutStyles().SHA1.Render(r.ID[:storage.SHA1Short])
		right := present.StdoutStyles().RunList.Render(firstLine(r.Query), timea)
		if r.Model != "" {
			right += present.StdoutStyles().Comment.Render(r.Model)
		}
		if r.Backend != "" {
			right += present.StdoutStyles().Comment.Render(" (" + r.Backend + ")")
		}
		opts = append(opts, huh.NewOption(left+" "+right, r.ID))
	}
	return opts
}

func selectFromList(runs []storage.Run) {
	var selected string
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Research runs").
				Value(&selected).
				Options(makeOptions(runs)...),
		),
	).Run(); err != nil {
		if !errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return
	}

	_ = clipboard.WriteAll(selected)
	termenv.Copy(selected)
	present.PrintConfirmation("COPIED", selected)

	fmt.Println(present.StdoutStyles().Comment.Render("You can use this run ID with the following commands:"))
	suggestions := []string{
		"scout --show " + selected,
		"scout --delete " + selected,
	}
	for _, s := range suggestions {
		fmt.Printf("  %s\n", present.StdoutStyles().InlineCode.Render(s))
	}
}

func printList(runs []storage.Run) {
	for _, r := range runs {
		_, _ = fmt.Fprintf(
			os.Stdout,
			"%s\t%s\t%s\n",
			present.StdoutStyles().SHA1.Render(r.ID[:storage.SHA1Short]),
			firstLine(r.Query),
			present.StdoutStyles().Timeago.Render(timeago.Of(r.UpdatedAt)),
		)
	}
}
