package llm

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel defines the severity threshold for logging
type LogLevel int

const (
	// LogLevelNone disables all logging
	LogLevelNone LogLevel = iota
	// LogLevelError logs only errors
	LogLevelError
	// LogLevelWarn logs warnings and errors
	LogLevelWarn
	// LogLevelInfo logs informational messages, warnings, and errors
	LogLevelInfo
	// LogLevelDebug logs all messages including debug information
	LogLevelDebug
)

var logLevelNames = [...]string{"NONE", "ERROR", "WARN", "INFO", "DEBUG"}

// String returns the string representation of the log level
func (l LogLevel) String() string {
	if l < LogLevelNone || l > LogLevelDebug {
		return "UNKNOWN"
	}
	return logLevelNames[l]
}

// Logger is the interface for structured logging.
// Implementations can integrate with any logging library (slog, zap, logrus, etc.)
type Logger interface {
	// Debug logs a debug-level message with optional structured fields
	Debug(ctx context.Context, msg string, fields ...Field)

	// Info logs an info-level message with optional structured fields
	Info(ctx context.Context, msg string, fields ...Field)

	// Warn logs a warning-level message with optional structured fields
	Warn(ctx context.Context, msg string, fields ...Field)

	// Error logs an error-level message with optional structured fields
	Error(ctx context.Context, msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new Field (shorthand helper function)
//
// Example:
//
//	logger.Info(ctx, "request completed",
//	    llm.F("duration_ms", 1234),
//	    llm.F("status", 200))
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// NoopLogger discards all log messages. It is the default so that an
// unconfigured client pays no logging overhead.
type NoopLogger struct{}

// Debug implements Logger interface (no-op)
func (l *NoopLogger) Debug(ctx context.Context, msg string, fields ...Field) {}

// Info implements Logger interface (no-op)
func (l *NoopLogger) Info(ctx context.Context, msg string, fields ...Field) {}

// Warn implements Logger interface (no-op)
func (l *NoopLogger) Warn(ctx context.Context, msg string, fields ...Field) {}

// Error implements Logger interface (no-op)
func (l *NoopLogger) Error(ctx context.Context, msg string, fields ...Field) {}

// StdLogger writes human-readable key=value lines to Out (stdout when
// unset), dropping entries above its level.
//
// Example:
//
//	client.WithLogger(llm.NewStdLogger(llm.LogLevelDebug))
type StdLogger struct {
	Level LogLevel
	Out   io.Writer

	mu sync.Mutex
}

// NewStdLogger creates a new StdLogger with the specified log level
func NewStdLogger(level LogLevel) *StdLogger {
	return &StdLogger{Level: level, Out: os.Stdout}
}

// Debug logs a debug-level message
func (l *StdLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.write(LogLevelDebug, msg, fields)
}

// Info logs an info-level message
func (l *StdLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.write(LogLevelInfo, msg, fields)
}

// Warn logs a warning-level message
func (l *StdLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.write(LogLevelWarn, msg, fields)
}

// Error logs an error-level message
func (l *StdLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.write(LogLevelError, msg, fields)
}

// write is the single formatting path for every level.
func (l *StdLogger) write(level LogLevel, msg string, fields []Field) {
	if level > l.Level {
		return
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format("15:04:05.000"))
	sb.WriteByte(' ')
	sb.WriteString(level.String())
	sb.WriteByte(' ')
	sb.WriteString(msg)
	for _, f := range fields {
		fmt.Fprintf(&sb, " %s=%v", f.Key, f.Value)
	}

	out := l.Out
	if out == nil {
		out = os.Stdout
	}
	l.mu.Lock()
	fmt.Fprintln(out, sb.String())
	l.mu.Unlock()
}

// fieldLogger wraps a Logger and prepends a fixed set of fields to every
// entry. The client uses it to tag all of a conversation's log lines with
// the conversation id and provider once instead of at each call site.
type fieldLogger struct {
	base   Logger
	fields []Field
}

// withFields returns a Logger that carries the given fields on every entry.
func withFields(base Logger, fields ...Field) Logger {
	if len(fields) == 0 {
		return base
	}
	return &fieldLogger{base: base, fields: fields}
}

func (l *fieldLogger) merge(fields []Field) []Field {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	return append(merged, fields...)
}

func (l *fieldLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.base.Debug(ctx, msg, l.merge(fields)...)
}

func (l *fieldLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.base.Info(ctx, msg, l.merge(fields)...)
}

func (l *fieldLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.base.Warn(ctx, msg, l.merge(fields)...)
}

func (l *fieldLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.base.Error(ctx, msg, l.merge(fields)...)
}
