package researcher

import (
	"context"
	"errors"
	"strings"

	"github.com/dotcommander/scout/internal/errs"
)

// humanize maps framework and transport failures to user-facing errors.
// Framework error kinds are plain error aliases, so the turn-limit case is
// matched on its message.
func (s *Service) humanize(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return errs.Wrapf(err, "The research run timed out after %s. Raise request-timeout in the settings.", s.cfg.RequestTimeout)
	case errors.Is(err, context.Canceled):
		return err
	case strings.Contains(err.Error(), "max turns"):
		return errs.Wrapf(err, "The agent stopped after %d turns without finishing. Raise max-turns in the settings or simplify the request.", s.cfg.MaxTurns)
	default:
		return errs.Error{Err: err, Reason: "The research run failed."}
	}
}
