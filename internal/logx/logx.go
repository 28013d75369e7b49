// Package logx provides a structured logging implementation based on slog.
//
// Overview:
//   - Responsibility: Unified logging with logfmt/JSON output and sensitive field masking
//   - Key Types: Logger interface, Options for configuration
//   - Concurrency Model: All loggers are safe for concurrent use
//   - Error Semantics: No errors returned; logging failures are silently handled
//   - Performance Notes: Disabled levels are filtered before attributes are built
//
// Usage:
//
//	logger := logx.New(logx.WithFormat(logx.FormatJSON), logx.WithLevel(slog.LevelDebug))
//	logger.Info("file written", "path", "go.mod")
package logx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Logger defines the structured logging interface used across hatch.
// Implementations must be safe for concurrent use.
type Logger interface {
	// With returns a new Logger with the given key-value pairs attached.
	With(kv ...any) Logger

	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, kv ...any)

	// Info logs an informational message with optional key-value pairs.
	Info(msg string, kv ...any)

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, kv ...any)

	// Error logs an error message with the error and optional key-value pairs.
	Error(err error, msg string, kv ...any)
}

// Format specifies the output format for logs.
type Format string

const (
	// FormatLogfmt outputs logs in logfmt format (key=value pairs).
	FormatLogfmt Format = "logfmt"
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = "json"
)

// DefaultSensitiveFields are masked unless overridden with WithSensitiveFields.
var DefaultSensitiveFields = []string{"app_secret", "db_dsn", "password", "token"}

const masked = "***"

// Options configures the logger behavior.
type Options struct {
	Format           Format     // Output format: logfmt or json
	Level            slog.Level // Minimum log level
	Writer           io.Writer  // Output writer (default: os.Stderr)
	SensitiveFields  []string   // Field names to mask
	DisableTimestamp bool       // Disable timestamp in output
}

// Option configures logger behavior.
type Option func(*Options)

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(o *Options) {
		o.Level = level
	}
}

// WithWriter sets the output writer.
func WithWriter(w io.Writer) Option {
	return func(o *Options) {
		o.Writer = w
	}
}

// WithSensitiveFields sets field names to mask in logs.
func WithSensitiveFields(fields ...string) Option {
	return func(o *Options) {
		o.SensitiveFields = fields
	}
}

// WithTimestamp enables or disables the time field.
func WithTimestamp(enabled bool) Option {
	return func(o *Options) {
		o.DisableTimestamp = !enabled
	}
}

type logger struct {
	l *slog.Logger
}

// New creates a new Logger with the given options.
func New(opts ...Option) Logger {
	options := Options{
		Format:           FormatLogfmt,
		Level:            slog.LevelInfo,
		Writer:           os.Stderr,
		SensitiveFields:  DefaultSensitiveFields,
		DisableTimestamp: true,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Writer == nil {
		options.Writer = os.Stderr
	}

	hopts := &slog.HandlerOptions{
		Level:       options.Level,
		ReplaceAttr: replaceAttr(options),
	}

	var h slog.Handler
	if options.Format == FormatJSON {
		h = slog.NewJSONHandler(options.Writer, hopts)
	} else {
		h = slog.NewTextHandler(options.Writer, hopts)
	}
	return &logger{l: slog.New(h)}
}

// ParseFormat maps a user-supplied name to a Format, defaulting to logfmt.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatJSON)) {
		return FormatJSON
	}
	return FormatLogfmt
}

func replaceAttr(opts Options) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey && opts.DisableTimestamp {
			return slog.Attr{}
		}
		if slices.Contains(opts.SensitiveFields, strings.ToLower(a.Key)) {
			return slog.String(a.Key, masked)
		}
		return a
	}
}

// With returns a new Logger with the given key-value pairs attached.
func (l *logger) With(kv ...any) Logger {
	return &logger{l: l.l.With(kv...)}
}

// Debug logs a debug message.
func (l *logger) Debug(msg string, kv ...any) {
	l.l.Log(context.Background(), slog.LevelDebug, msg, kv...)
}

// Info logs an informational message.
func (l *logger) Info(msg string, kv ...any) {
	l.l.Log(context.Background(), slog.LevelInfo, msg, kv...)
}

// Warn logs a warning message.
func (l *logger) Warn(msg string, kv ...any) {
	l.l.Log(context.Background(), slog.LevelWarn, msg, kv...)
}

// Error logs an error message.
func (l *logger) Error(err error, msg string, kv ...any) {
	if err != nil {
		kv = append([]any{"error", err}, kv...)
	}
	l.l.Log(context.Background(), slog.LevelError, msg, kv...)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &logger{l: slog.New(slog.DiscardHandler)}
}
