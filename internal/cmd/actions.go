package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/dotcommander/scout/internal/config"
	"github.com/dotcommander/scout/internal/errs"
	"github.com/dotcommander/scout/internal/present"
	"github.com/dotcommander/scout/internal/storage"
)

func listRuns(cfg *config.Config, raw bool) error {
	store, err := openRunStore(cfg.CachePath)
	if err != nil {
		return errs.Wrap(err, "Could not open run store.")
	}
	defer store.Close() //nolint:errcheck

	runs := store.DB.List()
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "No research runs found.")
		return nil
	}

	if present.IsInputTTY() && present.IsOutputTTY() && !raw {
		selectFromList(runs)
		return nil
	}
	printList(runs)
	return nil
}

func showReport(cfg *config.Config) error {
	store, err := openRunStore(cfg.CachePath)
	if err != nil {
		return errs.Wrap(err, "There was an error loading the report.")
	}
	defer store.Close() //nolint:errcheck

	var run *storage.Run
	if cfg.ShowLast {
		run, err = store.DB.FindLast()
	} else {
		run, err = store.DB.Find(cfg.Show)
	}
	if err != nil {
		return errs.Wrap(err, "There was an error loading the report.")
	}

	report, err := store.Reports.Read(run.ID)
	if err != nil {
		return errs.Wrap(err, "There was an error loading the report.")
	}

	out := report.Markdown
	if present.IsOutputTTY() && !cfg.Raw {
		formatted, err := present.RenderMarkdownForTTY(out, cfg.WordWrap)
		if err == nil {
			out = formatted
		}
	}
	fmt.Print(out)
	return nil
}

func deleteRuns(cfg *config.Config, targets []string) error {
	store, err := openRunStore(cfg.CachePath)
	if err != nil {
		return errs.Wrap(err, "Couldn't delete run.")
	}
	defer store.Close() //nolint:errcheck

	for _, del := range targets {
		run, err := store.DB.Find(del)
		if err != nil {
			return errs.Wrap(err, "Couldn't find run to delete.")
		}
		if err := deleteRunByID(cfg, store, run.ID); err != nil {
			return err
		}
	}
	return nil
}

func deleteRunByID(cfg *config.Config, store *runStore, id string) error {
	if err := store.DB.Delete(id); err != nil {
		return fmt.Errorf("delete run index: %w", err)
	}
	if err := store.Reports.Delete(id); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(os.Stderr, "Run deleted:", id[:storage.SHA1MinLen])
	}
	return nil
}

func deleteRunsOlderThan(cfg *config.Config, olderThanDuration string) error {
	if cfg.DeleteOlderThan == 0 {
		return errs.Wrap(errs.UserErrorf("missing --delete-older-than"), "Could not delete old runs.")
	}

	store, err := openRunStore(cfg.CachePath)
	if err != nil {
		return errs.Wrap(err, "Could not open run store.")
	}
	defer store.Close() //nolint:errcheck

	runs := store.DB.ListOlderThan(cfg.DeleteOlderThan)
	if len(runs) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(os.Stderr, "No research runs found.")
		}
		return nil
	}

	if !cfg.Quiet {
		printList(runs)

		if !present.IsOutputTTY() || !present.IsInputTTY() {
			fmt.Fprintln(os.Stderr)
			//nolint:wrapcheck // user-facing guidance error
			return errs.UserErrorf(
				"To delete the runs above, run: %s",
				strings.Join(append(os.Args, "--quiet"), " "),
			)
		}
		var confirm bool
		if err := huh.Run(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete runs older than %s?", olderThanDuration)).
				Description(fmt.Sprintf("This will delete all the %d runs listed above.", len(runs))).
				Value(&confirm),
		); err != nil {
			return errs.Wrap(err, "Couldn't delete old runs.")
		}
		if !confirm {
			//nolint:wrapcheck // user-facing abort
			return errs.UserErrorf("Aborted by user")
		}
	}

	for _, r := range runs {
		if err := deleteRunByID(cfg, store, r.ID); err != nil {
			return err
		}
	}
	return nil
}
