// Package logging provides structured logging for Aer builds and the dev
// server, built on the standard library's log/slog.
//
// The logger carries a component name and a set of persistent fields that
// are attached to every record, so a processor or the orchestrator can
// scope a child logger once (WithComponent("orchestrator")) and have every
// subsequent call carry that context without repeating it.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Level represents a logging verbosity threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a --log-level flag value to a Level, defaulting to
// LevelInfo for anything unrecognized.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is the structured logging interface used throughout Aer.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
	Error(ctx context.Context, err error, msg string, fields ...interface{})

	With(fields ...interface{}) Logger
	WithComponent(component string) Logger
}

// AerLogger is the default Logger implementation, backed by slog.
type AerLogger struct {
	logger    *slog.Logger
	level     Level
	component string
	fields    map[string]interface{}
}

// Config controls how a new Logger is constructed.
type Config struct {
	Level     Level
	Format    string // "json" or "text"
	Output    io.Writer
	AddSource bool
	Component string
}

// DefaultConfig returns the logger configuration New falls back to when it
// is given a nil Config.
func DefaultConfig() *Config {
	return &Config{
		Level:     LevelInfo,
		Format:    "text",
		Output:    os.Stdout,
		AddSource: false,
	}
}

// New creates a Logger from the given configuration.
func New(cfg *Config) *AerLogger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	opts := &slog.HandlerOptions{
		Level:     slog.Level((int(cfg.Level) - 1) * 4), // slog levels step by 4, Info at 0
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	return &AerLogger{
		logger: slog.New(handler),
		level:  cfg.Level,
		fields: make(map[string]interface{}),
	}
}

func (l *AerLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	if l.level > LevelDebug {
		return
	}
	l.log(ctx, slog.LevelDebug, nil, msg, fields...)
}

func (l *AerLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	if l.level > LevelInfo {
		return
	}
	l.log(ctx, slog.LevelInfo, nil, msg, fields...)
}

func (l *AerLogger) Warn(ctx context.Context, err error, msg string, fields ...interface{}) {
	if l.level > LevelWarn {
		return
	}
	l.log(ctx, slog.LevelWarn, err, msg, fields...)
}

func (l *AerLogger) Error(ctx context.Context, err error, msg string, fields ...interface{}) {
	l.log(ctx, slog.LevelError, err, msg, fields...)
}

// With returns a child logger carrying the given additional key/value
// fields on every subsequent record.
func (l *AerLogger) With(fields ...interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields)/2)
	for k, v := range l.fields {
		merged[k] = v
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			merged[key] = fields[i+1]
		}
	}
	return &AerLogger{logger: l.logger, level: l.level, component: l.component, fields: merged}
}

// WithComponent returns a child logger tagged with the given component name.
func (l *AerLogger) WithComponent(component string) Logger {
	return &AerLogger{logger: l.logger, level: l.level, component: component, fields: l.fields}
}

func (l *AerLogger) log(ctx context.Context, level slog.Level, err error, msg string, fields ...interface{}) {
	attrs := make([]slog.Attr, 0, len(l.fields)+len(fields)/2+2)

	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	for k, v := range l.fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok && key != "" {
			attrs = append(attrs, slog.Any(key, fields[i+1]))
		}
	}

	record := slog.NewRecord(time.Now(), level, msg, 0)
	record.AddAttrs(attrs...)
	if handler := l.logger.Handler(); handler != nil {
		if handleErr := handler.Handle(ctx, record); handleErr != nil {
			fmt.Fprintf(os.Stderr, "logging: failed to write record: %v (message: %s)\n", handleErr, msg)
		}
	}
}

// PerfLogger tracks the wall-clock duration of one operation (a build, a
// batch, a single processor invocation) and logs it on End.
type PerfLogger struct {
	Logger
	start time.Time
}

// StartOperation begins timing an operation under the given name.
func (l *AerLogger) StartOperation(operation string) *PerfLogger {
	return &PerfLogger{Logger: l.With("operation", operation), start: time.Now()}
}

// End logs the elapsed duration since StartOperation as an Info record.
func (p *PerfLogger) End(ctx context.Context) time.Duration {
	d := time.Since(p.start)
	p.Info(ctx, "operation completed", "duration_ms", d.Milliseconds())
	return d
}

// NewTestLogger returns a Logger that discards output, for use in tests.
func NewTestLogger() Logger {
	return New(&Config{Level: LevelDebug, Format: "text", Output: io.Discard})
}
