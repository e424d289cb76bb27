// Package logger builds the slog.Logger shared by the server, the CLI and
// the background reload jobs.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Format selects the slog handler.
type Format string

// Supported formats.
const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Options configures a logger. The zero value logs text at info to stderr.
type Options struct {
	Level     string
	Format    string
	Writer    io.Writer
	AddSource bool
	// Service is attached to every record when set.
	Service string
}

// New builds a logger from opts. Unknown levels and formats are errors so a
// typo in the config file fails fast at startup.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	hopts := &slog.HandlerOptions{Level: level, AddSource: opts.AddSource}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, hopts)
	case FormatConsole:
		// slog and charm levels share numeric values.
		handler = charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(level),
			ReportTimestamp: true,
			ReportCaller:    opts.AddSource,
		})
	default:
		handler = slog.NewTextHandler(w, hopts)
	}

	l := slog.New(handler)
	if opts.Service != "" {
		l = l.With(slog.String("service", opts.Service))
	}
	return l, nil
}

// MustNew is New for callers with static options.
func MustNew(opts Options) *slog.Logger {
	l, err := New(opts)
	if err != nil {
		panic(err)
	}
	return l
}

// ParseLevel converts a level name to slog.Level. Empty means info; matching
// is case-insensitive and "warning" is accepted as an alias of "warn".
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// ParseFormat converts a format name to a Format. Empty means text.
// console is the human-readable terminal format.
func ParseFormat(format string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(format))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatConsole:
		return FormatConsole, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q", format)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
