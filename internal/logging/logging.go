// Package logging builds the leveled console logger shared by every
// package.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options holds configuration for a logger.
type Options struct {
	Level           string
	Writer          io.Writer
	Prefix          string
	ReportTimestamp bool
}

// New returns a logger writing to opts.Writer (stderr when nil).
func New(opts Options) (*log.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel parses a level name. An empty name means info.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// OpenFile opens path for appending log lines.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
