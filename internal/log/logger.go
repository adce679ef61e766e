package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the interface for CascadeDB logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// logger wraps slog.Logger.
type logger struct {
	slog *slog.Logger
}

var defaultLogger Logger

func init() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	defaultLogger = &logger{slog: slog.New(slog.NewTextHandler(os.Stderr, opts))}
}

// SetDefault sets the default logger.
func SetDefault(l Logger) {
	defaultLogger = l
}

// Default returns the default logger.
func Default() Logger {
	return defaultLogger
}

// New creates a new logger with the given handler.
func New(handler slog.Handler) Logger {
	return &logger{slog: slog.New(handler)}
}

// NewTextLogger creates a text logger writing to w at the given level.
func NewTextLogger(w io.Writer, level slog.Level) Logger {
	opts := &slog.HandlerOptions{Level: level}
	return &logger{slog: slog.New(slog.NewTextHandler(w, opts))}
}

// NewJSONLogger creates a JSON logger writing to w at the given level.
func NewJSONLogger(w io.Writer, level slog.Level) Logger {
	opts := &slog.HandlerOptions{Level: level}
	return &logger{slog: slog.New(slog.NewJSONHandler(w, opts))}
}

// Discard returns a logger that drops everything. Useful in tests and as the
// fallback when a component is constructed without a logger.
func Discard() Logger {
	return &logger{slog: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ParseLevel converts a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

func (l *logger) With(args ...any) Logger {
	return &logger{slog: l.slog.With(args...)}
}
