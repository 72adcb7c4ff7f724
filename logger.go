package bitblock

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with bitblock-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// VerbosityLevel maps a command-line style verbosity count to a level:
// 0 is warnings only, 1 adds progress, 2 and above add per-rehash detail.
func VerbosityLevel(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// WithComponent tags records with the emitting component.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", name),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogBuild logs the outcome of an index build.
func (l *Logger) LogBuild(ctx context.Context, keys, indexed int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index build failed",
			"keys", keys,
			"duration", d,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index build completed",
			"keys", keys,
			"indexed", indexed,
			"duration", d,
		)
	}
}

// LogRehash logs a hash table rehash.
func (l *Logger) LogRehash(ctx context.Context, from, to, entries int, err error) {
	if err != nil {
		l.WarnContext(ctx, "rehash refused",
			"from", from,
			"to", to,
			"entries", entries,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "rehash completed",
			"from", from,
			"to", to,
			"entries", entries,
		)
	}
}
