// Package logger provides the process-wide structured logger for DecoToolsHelper.
//
// All packages log through the package-level helpers (Infof, Warnf, ...) which
// delegate to a zap SugaredLogger. Packages that want context-scoped key/value
// logging use Logr, a logr.Logger backed by the same zap core.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	sugared = base.Sugar()
)

// Option customises Initialize.
type Option func(*zap.Config)

// WithJSON switches the encoder to JSON, used when the helper runs unattended.
func WithJSON() Option {
	return func(cfg *zap.Config) {
		cfg.Encoding = "json"
		cfg.EncoderConfig = zap.NewProductionEncoderConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
}

// Initialize builds the global logger for the given level ("debug", "info",
// "warn" or "error"). Unknown levels fall back to info.
func Initialize(level string, opts ...Option) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	for _, opt := range opts {
		opt(&cfg)
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Set(l)
	return nil
}

// Set replaces the global logger. Tests use it to install an observer core.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	sugared = l.Sugar()
}

// ParseLevel maps a textual level to a zapcore.Level.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns the current sugared logger.
func Get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugared
}

// Logr returns a logr.Logger sharing the global zap core.
func Logr() logr.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return zapr.NewLogger(base)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Get().Sync()
}

// Debugf logs at debug level.
func Debugf(format string, args ...any) { Get().Debugf(format, args...) }

// Infof logs at info level.
func Infof(format string, args ...any) { Get().Infof(format, args...) }

// Info logs a message at info level.
func Info(msg string) { Get().Info(msg) }

// Warnf logs at warn level.
func Warnf(format string, args ...any) { Get().Warnf(format, args...) }

// Warn logs a message at warn level.
func Warn(msg string) { Get().Warn(msg) }

// Errorf logs at error level.
func Errorf(format string, args ...any) { Get().Errorf(format, args...) }

// Fatalf logs at error level and exits the process.
func Fatalf(format string, args ...any) {
	Get().Errorf(format, args...)
	Sync()
	os.Exit(1)
}
