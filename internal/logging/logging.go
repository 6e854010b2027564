package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config controls how Configure builds the process-wide slog logger.
type Config struct {
	Level            string
	Structured       bool
	StructuredFormat string
	IncludePID       bool
	AddSource        bool // include caller file:line, set by --debug
	ExtraFields      map[string]string
}

// Configure builds and installs a slog.Logger as the process default,
// returning it too so callers don't have to round-trip through
// slog.Default(). Output always goes to stderr, matching a daemon that
// expects its stdout to carry nothing but DNS traffic.
func Configure(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	handler := newHandler(cfg, opts)
	if attrs := staticAttrs(cfg); len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// newHandler picks JSON vs. text output. Unstructured mode and structured
// text mode both land on the text handler; only "structured json" diverges.
func newHandler(cfg Config, opts *slog.HandlerOptions) slog.Handler {
	out := io.Writer(os.Stderr)
	if cfg.Structured && strings.EqualFold(cfg.StructuredFormat, "json") {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

// staticAttrs builds the set of attributes attached to every log line:
// operator-supplied extra fields plus, optionally, the process PID.
func staticAttrs(cfg Config) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(cfg.ExtraFields)+1)
	for k, v := range cfg.ExtraFields {
		attrs = append(attrs, slog.String(k, v))
	}
	if cfg.IncludePID {
		attrs = append(attrs, slog.Int("pid", os.Getpid()))
	}
	return attrs
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
