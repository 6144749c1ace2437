package cmd

import (
	"os"

	"github.com/dotcommander/scout/internal/config"
)

// Execute wires commands and runs Cobra.
func Execute(build BuildInfo, cfg config.Config, cfgErr error) {
	defer maybeWriteMemProfile()

	root, rt := newRootCmd(build, cfg, cfgErr)
	if err := root.Execute(); err != nil {
		// Flag parsing writes into rt.cfg, so --debug is only visible there.
		handleError(err, rt.cfg.Debug)
		os.Exit(1)
	}
}
