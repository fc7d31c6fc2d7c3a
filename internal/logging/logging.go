// Package logging provides the structured logger shared by charlimit packages.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity level of a log message.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel parses a string into a Level. Unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) zap() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is the logging interface accepted by charlimit components.
// Arguments after msg are alternating key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Config configures New.
type Config struct {
	// Level is the minimum level written.
	Level Level
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Component, when set, is attached to every entry.
	Component string
	// JSON selects JSON encoding instead of the console encoder.
	JSON bool
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	}
}

// ZapLogger adapts a zap.SugaredLogger to Logger.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// New creates a zap-backed logger.
func New(cfg Config) *ZapLogger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if cfg.JSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(cfg.Output), cfg.Level.zap())
	s := zap.New(core).Sugar()
	if cfg.Component != "" {
		s = s.With("component", cfg.Component)
	}
	return &ZapLogger{s: s}
}

// FromZap wraps an existing zap logger.
func FromZap(l *zap.Logger) *ZapLogger {
	return &ZapLogger{s: l.Sugar()}
}

// With returns a logger with the given key/value pairs attached.
func (l *ZapLogger) With(keysAndValues ...any) *ZapLogger {
	return &ZapLogger{s: l.s.With(keysAndValues...)}
}

// WithComponent returns a logger with the component field set.
func (l *ZapLogger) WithComponent(component string) *ZapLogger {
	return l.With("component", component)
}

// Debug logs a debug message.
func (l *ZapLogger) Debug(msg string, keysAndValues ...any) { l.s.Debugw(msg, keysAndValues...) }

// Info logs an info message.
func (l *ZapLogger) Info(msg string, keysAndValues ...any) { l.s.Infow(msg, keysAndValues...) }

// Warn logs a warning message.
func (l *ZapLogger) Warn(msg string, keysAndValues ...any) { l.s.Warnw(msg, keysAndValues...) }

// Error logs an error message.
func (l *ZapLogger) Error(msg string, keysAndValues ...any) { l.s.Errorw(msg, keysAndValues...) }

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error { return l.s.Sync() }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger { return nopLogger{} }

// OrNop returns l, or Nop if l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
