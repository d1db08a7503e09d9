// Package logging holds the process-wide diagnostic logger used by chirp.
//
// The logger is silent until the embedding application calls Configure (or
// SetLogger). Clients read it once at construction time, so configure logging
// before creating them.
//
//	if err := logging.Configure(logging.Config{Level: "debug", Format: "console"}); err != nil {
//		log.Fatal(err)
//	}
//	client, err := twitter.NewClient(creds)
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Name is attached to every record as the "logger" field.
const Name = "chirp"

// Config describes how the process-wide logger writes records.
type Config struct {
	// Level is one of trace, debug, info, warn, error. Defaults to info.
	Level string
	// Format is console or json. Defaults to console.
	Format string
	// Output is stderr, stdout or a file path. Defaults to stderr.
	Output string
	// Color enables ANSI colours for console output on a terminal.
	Color bool
	// TimeFormat is used by the console writer. Defaults to time.RFC3339.
	TimeFormat string
}

var (
	mu      sync.RWMutex
	current = zerolog.Nop()
	file    *os.File
)

// Logger returns the process-wide logger. It is a no-op logger unless
// logging has been configured.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Configure builds a logger from cfg and installs it process-wide. On error
// the previously installed logger is kept.
func Configure(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return fmt.Errorf("invalid logging format: %s", cfg.Format)
	}

	out, f, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}

	var w io.Writer = out
	if format == "console" {
		timeFormat := cfg.TimeFormat
		if timeFormat == "" {
			timeFormat = time.RFC3339
		}
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: timeFormat,
			NoColor:    !cfg.Color || !isTerminal(out),
		}
	}

	// zerolog gates records on the global level too.
	if level < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(level)
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("logger", Name).
		Logger()

	mu.Lock()
	prev := file
	current = logger
	file = f
	mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	return nil
}

// SetLogger installs an externally built logger process-wide.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	prev := file
	current = l.With().Str("logger", Name).Logger()
	file = nil
	mu.Unlock()

	if prev != nil {
		prev.Close()
	}
}

// Disable restores the silent default logger.
func Disable() {
	mu.Lock()
	prev := file
	current = zerolog.Nop()
	file = nil
	mu.Unlock()

	if prev != nil {
		prev.Close()
	}
}

// ParseLevel maps a level name to a zerolog level. The empty string means info.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "":
		return zerolog.InfoLevel, nil
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("invalid logging level: %s", level)
	}
}

func openOutput(output string) (*os.File, *os.File, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, nil, nil
	case "stdout":
		return os.Stdout, nil, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, f, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
