package cmd

import (
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/duration"
)

// durationFlag parses humane durations such as 10d or 1mo on top of the
// regular time.Duration syntax.
type durationFlag time.Duration

func newDurationFlag(val time.Duration, p *time.Duration) *durationFlag {
	*p = val
	return (*durationFlag)(p)
}

func (d *durationFlag) Set(s string) error {
	v, err := duration.Parse(s)
	if err != nil {
		return err //nolint:wrapcheck
	}
	*d = durationFlag(v)
	return nil
}

func (d *durationFlag) String() string {
	return time.Duration(*d).String()
}

func (*durationFlag) Type() string {
	return "duration"
}

var invalidArgFlagRegexp = regexp.MustCompile(`for "([^"]+)" flag`)

// flagParseError wraps pflag's parse errors so they can be rendered with
// the offending flag highlighted.
type flagParseError struct {
	err          error
	reasonFormat string
	flag         string
}

func newFlagParseError(err error) flagParseError {
	msg := err.Error()
	perr := flagParseError{err: err}
	switch {
	case strings.HasPrefix(msg, "unknown flag:"):
		perr.reasonFormat = "Flag %s is missing."
		perr.flag = strings.TrimSpace(strings.TrimPrefix(msg, "unknown flag:"))
	case strings.HasPrefix(msg, "flag needs an argument:"):
		perr.reasonFormat = "Flag %s needs an argument."
		rest := strings.TrimSpace(strings.TrimPrefix(msg, "flag needs an argument:"))
		// Shorthands come through as "'d' in -d".
		if i := strings.LastIndex(rest, " in "); i >= 0 {
			rest = rest[i+len(" in "):]
		}
		perr.flag = rest
	case strings.HasPrefix(msg, "invalid argument "):
		perr.reasonFormat = "Flag %s have an invalid argument."
		if m := invalidArgFlagRegexp.FindStringSubmatch(msg); m != nil {
			perr.flag = m[1]
		}
	default:
		perr.reasonFormat = "Flag %s is invalid."
	}
	return perr
}

func (f flagParseError) Error() string {
	return f.err.Error()
}

func (f flagParseError) ReasonFormat() string {
	return f.reasonFormat
}

func (f flagParseError) Flag() string {
	return f.flag
}
