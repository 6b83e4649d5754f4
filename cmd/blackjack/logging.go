package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// newLogger builds the root logger. debug wins over the configured level.
func newLogger(w io.Writer, level string, debug bool) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}
	if debug {
		lvl = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	}), nil
}

func stderrLogger(level string, debug bool) (*log.Logger, error) {
	return newLogger(os.Stderr, level, debug)
}
