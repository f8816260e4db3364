// Package logger provides structured logging utilities
package logger

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level      string `yaml:"level" mapstructure:"level"`             // debug, info, warn, error
	Format     string `yaml:"format" mapstructure:"format"`           // text or json
	Output     string `yaml:"output" mapstructure:"output"`           // stdout, stderr, or file path
	TimeFormat string `yaml:"time_format" mapstructure:"time_format"` // RFC3339, RFC3339Nano, etc
}

var (
	mu   sync.RWMutex
	base = newDefault()
)

// The CLI owns stdout, so the default logger only reports warnings to stderr.
func newDefault() *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), zap.WarnLevel)
	return zap.New(core)
}

// Init initializes the logger with configuration
func Init(cfg Config) error {
	zcfg := zap.NewProductionConfig()
	zcfg.Sampling = nil
	zcfg.DisableStacktrace = true

	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || strings.TrimSpace(cfg.Level) == "" {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		zcfg.Encoding = "json"
	default:
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	zcfg.EncoderConfig.TimeKey = "timestamp"
	switch strings.TrimSpace(cfg.TimeFormat) {
	case "", "RFC3339":
		zcfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	case "RFC3339Nano":
		zcfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	default:
		zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)
	}

	out := strings.TrimSpace(cfg.Output)
	switch strings.ToLower(out) {
	case "", "stderr":
		zcfg.OutputPaths = []string{"stderr"}
	case "stdout":
		zcfg.OutputPaths = []string{"stdout"}
	default:
		zcfg.OutputPaths = []string{out}
	}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	l, err := zcfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return fmt.Errorf("logger: build: %w", err)
	}
	Replace(l)
	return nil
}

// Replace swaps the underlying zap logger. Tests use it with zaptest/observer.
func Replace(l *zap.Logger) {
	mu.Lock()
	base = l
	mu.Unlock()
}

// L returns the underlying zap logger for callers that want typed fields.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}

func logMessage(level zapcore.Level, msg string, fields map[string]interface{}) {
	l := L()
	ce := l.Check(level, msg)
	if ce == nil {
		return
	}
	ce.Write(toZap(fields)...)
}

// fields are sorted so output is stable
func toZap(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		if err, ok := fields[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

// Debug logs debug message (only shown when level=debug)
func Debug(msg string) {
	logMessage(zapcore.DebugLevel, msg, nil)
}

// Debugf logs formatted debug message
func Debugf(format string, args ...interface{}) {
	logMessage(zapcore.DebugLevel, fmt.Sprintf(format, args...), nil)
}

// Info logs info message
func Info(msg string) {
	logMessage(zapcore.InfoLevel, msg, nil)
}

// Infof logs formatted info message
func Infof(format string, args ...interface{}) {
	logMessage(zapcore.InfoLevel, fmt.Sprintf(format, args...), nil)
}

// Warn logs warning message
func Warn(msg string) {
	logMessage(zapcore.WarnLevel, msg, nil)
}

// Warnf logs formatted warning message
func Warnf(format string, args ...interface{}) {
	logMessage(zapcore.WarnLevel, fmt.Sprintf(format, args...), nil)
}

// Error logs error message
func Error(msg string) {
	logMessage(zapcore.ErrorLevel, msg, nil)
}

// Errorf logs formatted error message
func Errorf(format string, args ...interface{}) {
	logMessage(zapcore.ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// WithFields returns a log message with structured fields
func WithFields(fields map[string]interface{}) *FieldLogger {
	return &FieldLogger{fields: fields}
}

// FieldLogger allows structured logging with fields
type FieldLogger struct {
	fields map[string]interface{}
}

func (l *FieldLogger) Debug(msg string) {
	logMessage(zapcore.DebugLevel, msg, l.fields)
}

func (l *FieldLogger) Info(msg string) {
	logMessage(zapcore.InfoLevel, msg, l.fields)
}

func (l *FieldLogger) Warn(msg string) {
	logMessage(zapcore.WarnLevel, msg, l.fields)
}

func (l *FieldLogger) Error(msg string) {
	logMessage(zapcore.ErrorLevel, msg, l.fields)
}

// HTTP logs one backend round trip
func HTTP(method, path string, status, latencyMs int) {
	fl := WithFields(map[string]interface{}{
		"protocol": "http",
		"method":   method,
		"path":     path,
		"status":   status,
		"latency":  latencyMs,
	})
	msg := fmt.Sprintf("HTTP %s %s %d - %dms", method, path, status, latencyMs)
	if status >= 500 || status == 0 {
		fl.Warn(msg)
		return
	}
	fl.Debug(msg)
}

// Mutation logs a cache mutation lifecycle step
func Mutation(key, phase string, gen uint64) {
	WithFields(map[string]interface{}{
		"key":   key,
		"phase": phase,
		"gen":   gen,
	}).Debug(fmt.Sprintf("cache %s %s", key, phase))
}

// Context-aware logging (for request tracing)
type contextKey string

const requestIDKey contextKey = "request_id"

// ContextWithRequestID attaches a request ID for WithRequestID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// WithRequestID extracts request ID from context and logs with it
func WithRequestID(ctx context.Context) *FieldLogger {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return WithFields(map[string]interface{}{
			"request_id": requestID,
		})
	}
	return WithFields(nil)
}
