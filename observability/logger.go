// Package observability provides structured logging, Prometheus metrics and
// OpenTelemetry tracing for slnmerge.
package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"
)

// Logger is the slnmerge logger interface.
// Message templates follow mtlog syntax: "Merged {ProjectCount} projects".
type Logger interface {
	Debug(messageTemplate string, args ...any)
	DebugContext(ctx context.Context, messageTemplate string, args ...any)

	Info(messageTemplate string, args ...any)
	InfoContext(ctx context.Context, messageTemplate string, args ...any)

	Warn(messageTemplate string, args ...any)
	WarnContext(ctx context.Context, messageTemplate string, args ...any)

	Error(messageTemplate string, args ...any)
	ErrorContext(ctx context.Context, messageTemplate string, args ...any)

	// ForContext creates a child logger carrying an extra property
	ForContext(key string, value any) Logger
}

// LogLevel represents log verbosity level
type LogLevel int

const (
	// DebugLevel is for debug messages.
	DebugLevel LogLevel = iota
	// InfoLevel is for informational messages.
	InfoLevel
	// WarnLevel is for warning messages.
	WarnLevel
	// ErrorLevel is for error messages.
	ErrorLevel
)

// ParseLogLevel maps a CLI verbosity name to a log level.
func ParseLogLevel(verbosity string) (LogLevel, error) {
	switch strings.ToLower(verbosity) {
	case "q", "quiet":
		return ErrorLevel, nil
	case "", "n", "normal":
		return WarnLevel, nil
	case "d", "detailed":
		return InfoLevel, nil
	case "diag", "diagnostic":
		return DebugLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown verbosity %q (expected quiet, normal, detailed or diagnostic)", verbosity)
	}
}

type mtlogAdapter struct {
	logger core.Logger
}

// NewLogger creates a logger writing rendered events to output
func NewLogger(output io.Writer, level LogLevel) Logger {
	opts := []mtlog.Option{
		mtlog.WithSink(sinks.NewConsoleSinkWithWriter(output)),
		mtlog.WithTimestamp(),
	}

	switch level {
	case DebugLevel:
		opts = append(opts, mtlog.Debug())
	case InfoLevel:
		opts = append(opts, mtlog.Information())
	case WarnLevel:
		opts = append(opts, mtlog.Warning())
	case ErrorLevel:
		opts = append(opts, mtlog.Error())
	}

	return &mtlogAdapter{logger: mtlog.New(opts...)}
}

// NewDefaultLogger creates a stderr logger at warning level
func NewDefaultLogger() Logger {
	return NewLogger(os.Stderr, WarnLevel)
}

func (a *mtlogAdapter) Debug(messageTemplate string, args ...any) {
	a.logger.Debug(messageTemplate, args...)
}

func (a *mtlogAdapter) DebugContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.DebugContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Info(messageTemplate string, args ...any) {
	a.logger.Info(messageTemplate, args...)
}

func (a *mtlogAdapter) InfoContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.InfoContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Warn(messageTemplate string, args ...any) {
	a.logger.Warn(messageTemplate, args...)
}

func (a *mtlogAdapter) WarnContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.WarnContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) Error(messageTemplate string, args ...any) {
	a.logger.Error(messageTemplate, args...)
}

func (a *mtlogAdapter) ErrorContext(ctx context.Context, messageTemplate string, args ...any) {
	a.logger.ErrorContext(ctx, messageTemplate, args...)
}

func (a *mtlogAdapter) ForContext(key string, value any) Logger {
	return &mtlogAdapter{logger: a.logger.ForContext(key, value)}
}

type nullLogger struct{}

// NewNullLogger creates a logger that discards all output
func NewNullLogger() Logger {
	return nullLogger{}
}

func (nullLogger) Debug(string, ...any)                         {}
func (nullLogger) DebugContext(context.Context, string, ...any) {}
func (nullLogger) Info(string, ...any)                          {}
func (nullLogger) InfoContext(context.Context, string, ...any)  {}
func (nullLogger) Warn(string, ...any)                          {}
func (nullLogger) WarnContext(context.Context, string, ...any)  {}
func (nullLogger) Error(string, ...any)                         {}
func (nullLogger) ErrorContext(context.Context, string, ...any) {}
func (n nullLogger) ForContext(string, any) Logger              { return n }
