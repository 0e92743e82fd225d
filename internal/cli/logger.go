package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger wraps slog.Logger with recstore-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
func NewLogger(handler slog.Handler) *Logger {
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// NewLoggerFromConfig builds a logger for the configured format ("text" or
// "json") and level.
func NewLoggerFromConfig(w io.Writer, cfg LogConfig) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return NewTextLogger(w, level), nil
	case "json":
		return NewJSONLogger(w, level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (supported: text, json)", cfg.Format)
	}
}

// ParseLevel parses debug, info, warn or error. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// WithCollection adds a collection field to the logger.
func (l *Logger) WithCollection(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("collection", name),
	}
}

// LogLoad logs a seed load.
func (l *Logger) LogLoad(ctx context.Context, blobs []string, records int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "seed load failed",
			"blobs", blobs,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "seed load completed",
			"blobs", len(blobs),
			"records", records,
		)
	}
}

// LogQuery logs a query.
func (l *Logger) LogQuery(ctx context.Context, q Query, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"sort", q.Sort,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"match", q.Match,
			"sort", q.Sort,
			"results", results,
		)
	}
}

// LogMutation logs a shell add or remove.
func (l *Logger) LogMutation(ctx context.Context, op, key string, err error) {
	if err != nil {
		l.WarnContext(ctx, op+" failed",
			"key", key,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, op+" completed",
			"key", key,
		)
	}
}
