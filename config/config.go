// Package config provides the ambient settings of the generator: log level,
// report output and the register classes the target accepts.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/sarchlab/isagen/emit"
)

// LevelTrace is more verbose than debug. It logs every generated class.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Environment variables read by FromEnv.
const (
	EnvLogLevel        = "ISAGEN_LOG_LEVEL"
	EnvReport          = "ISAGEN_REPORT"
	EnvRegisterClasses = "ISAGEN_REGISTER_CLASSES"
)

// Config holds the generator settings.
type Config struct {
	LogLevel        slog.Level
	Report          bool     // print the verification report to stderr
	RegisterClasses []string // closed set of register classes, empty for any
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel: slog.LevelInfo,
	}
}

// FromEnv reads the settings through lookup, usually os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		level, err := ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	if v, ok := lookup(EnvReport); ok && v != "" {
		report, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvReport, err)
		}
		cfg.Report = report
	}

	if v, ok := lookup(EnvRegisterClasses); ok {
		for _, class := range strings.Split(v, ",") {
			if class = strings.TrimSpace(class); class != "" {
				cfg.RegisterClasses = append(cfg.RegisterClasses, class)
			}
		}
	}

	return cfg, nil
}

// ParseLevel parses "trace" or any level name slog understands.
func ParseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(s, "trace") {
		return LevelTrace, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return level, nil
}

// Target returns the AVR target restricted to the configured classes.
func (c Config) Target() emit.Target {
	if len(c.RegisterClasses) == 0 {
		return emit.AVR
	}
	return emit.AVR.WithRegisterClasses(c.RegisterClasses...)
}

// NewLogger creates a logger writing to w. Terminals get the text format,
// anything else gets JSON lines.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevel,
	}

	if isTerminal(w) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Trace logs at LevelTrace.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok && level == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}
