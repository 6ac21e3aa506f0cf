package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// Logger defines the logging interface
type Logger interface {
	LogDebug(ctx context.Context, msg string, attrs ...any)
	LogInfo(ctx context.Context, msg string, attrs ...any)
	LogError(ctx context.Context, msg string, err error, attrs ...any)
	LogWarning(ctx context.Context, msg string, attrs ...any)
	WithRequestID(requestID string) Logger
	With(attrs ...any) Logger
}

// Options selects the level, encoding and destination of log output
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// StructuredLogger implements the Logger interface
type StructuredLogger struct {
	*slog.Logger
	sync func() error
}

// NewLogger creates a structured logger writing JSON at info level to stdout
func NewLogger() Logger {
	l, err := New(Options{})
	if err != nil {
		// defaults always parse
		panic(err)
	}
	return l
}

// New creates a structured logger whose slog records are encoded by zap
func New(opts Options) (*StructuredLogger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	var encoder zapcore.Encoder
	switch opts.Format {
	case FormatConsole:
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	default:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(writer), zap.NewAtomicLevelAt(level))
	zl := zap.New(core)

	return &StructuredLogger{
		Logger: slog.New(zapslog.NewHandler(zl.Core())),
		sync:   zl.Sync,
	}, nil
}

// NewNopLogger returns a logger that drops everything
func NewNopLogger() Logger {
	return &StructuredLogger{
		Logger: slog.New(zapslog.NewHandler(zapcore.NewNopCore())),
		sync:   func() error { return nil },
	}
}

// Sync flushes buffered log entries
func (l *StructuredLogger) Sync() error {
	if l.sync == nil {
		return nil
	}
	return l.sync()
}

// WithRequestID adds a request ID to the logger context
func (l *StructuredLogger) WithRequestID(requestID string) Logger {
	return l.With("request_id", requestID)
}

// With returns a logger that adds attrs to every record
func (l *StructuredLogger) With(attrs ...any) Logger {
	return &StructuredLogger{
		Logger: l.Logger.With(attrs...),
		sync:   l.sync,
	}
}

// LogError logs an error with context
func (l *StructuredLogger) LogError(ctx context.Context, msg string, err error, attrs ...any) {
	errText := "<nil>"
	if err != nil {
		errText = err.Error()
	}
	allAttrs := append([]any{"error", errText}, attrs...)
	l.Logger.ErrorContext(ctx, msg, allAttrs...)
}

// LogInfo logs an info message with context
func (l *StructuredLogger) LogInfo(ctx context.Context, msg string, attrs ...any) {
	l.Logger.InfoContext(ctx, msg, attrs...)
}

// LogWarning logs a warning message with context
func (l *StructuredLogger) LogWarning(ctx context.Context, msg string, attrs ...any) {
	l.Logger.WarnContext(ctx, msg, attrs...)
}

// LogDebug logs a debug message with context
func (l *StructuredLogger) LogDebug(ctx context.Context, msg string, attrs ...any) {
	l.Logger.DebugContext(ctx, msg, attrs...)
}
