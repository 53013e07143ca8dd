package logger

import (
	"context"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loggerContextKey is the context key under which a request-scoped logger is stored.
type loggerContextKey struct{}

var (
	// globalLevel is the level shared by the default logger, changed through SetLevel.
	//nolint:gochecknoglobals // The level is process-wide by design of the CLI.
	globalLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	// globalLogger holds the current process logger.
	//nolint:gochecknoglobals // Replaced atomically through SetLogger.
	globalLogger atomic.Pointer[zap.SugaredLogger]
)

//nolint:gochecknoinits // The global logger must be usable before any command runs.
func init() {
	SetLogger(New(globalLevel))
}

// New creates a console logger writing to stderr.
// If level is nil, the shared global level is used.
func New(level zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	if level == nil {
		level = globalLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core, options...).Sugar()
}

// ParseLogLevel converts a textual level such as "debug" or " INFO " to a zap level.
// The second result is false when the text is not a known level; InfoLevel is returned then.
func ParseLogLevel(level string) (zapcore.Level, bool) {
	parsed, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		return zapcore.InfoLevel, false
	}

	return parsed, true
}

// Level returns the current global log level.
func Level() zapcore.Level {
	return globalLevel.Level()
}

// SetLevel changes the global log level.
func SetLevel(level zapcore.Level) {
	globalLevel.SetLevel(level)
}

// IsDebugLevel reports whether debug messages are currently emitted.
func IsDebugLevel() bool {
	return globalLevel.Enabled(zapcore.DebugLevel)
}

// Logger returns the global logger.
func Logger() *zap.SugaredLogger {
	return globalLogger.Load()
}

// SetLogger replaces the global logger.
func SetLogger(l *zap.SugaredLogger) {
	globalLogger.Store(l)
}

// ToContext returns a copy of ctx carrying l.
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, l)
}

// FromContext returns the logger stored in ctx, or the global logger.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerContextKey{}).(*zap.SugaredLogger); ok && l != nil {
			return l
		}
	}

	return Logger()
}

// WithName returns a copy of ctx whose logger is named name.
func WithName(ctx context.Context, name string) context.Context {
	return ToContext(ctx, FromContext(ctx).Named(name))
}

// WithKV returns a copy of ctx whose logger always adds the given key-value pairs.
func WithKV(ctx context.Context, kvs ...any) context.Context {
	return ToContext(ctx, FromContext(ctx).With(kvs...))
}

// Debug logs a message at debug level.
func Debug(ctx context.Context, args ...any) {
	FromContext(ctx).Debug(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Debugf(format, args...)
}

// DebugKV logs a message with key-value pairs at debug level.
func DebugKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Debugw(message, kvs...)
}

// Info logs a message at info level.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Info(args...)
}

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Infof(format, args...)
}

// InfoKV logs a message with key-value pairs at info level.
func InfoKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Infow(message, kvs...)
}

// Warn logs a message at warn level.
func Warn(ctx context.Context, args ...any) {
	FromContext(ctx).Warn(args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Warnf(format, args...)
}

// WarnKV logs a message with key-value pairs at warn level.
func WarnKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Warnw(message, kvs...)
}

// Error logs a message at error level.
func Error(ctx context.Context, args ...any) {
	FromContext(ctx).Error(args...)
}

// Errorf logs a formatted message at error level.
func Errorf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Errorf(format, args...)
}

// ErrorKV logs a message with key-value pairs at error level.
func ErrorKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Errorw(message, kvs...)
}

// Fatal logs a message at fatal level and exits the process.
func Fatal(ctx context.Context, args ...any) {
	FromContext(ctx).Fatal(args...)
}

// Fatalf logs a formatted message at fatal level and exits the process.
func Fatalf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Fatalf(format, args...)
}

// FatalKV logs a message with key-value pairs at fatal level and exits the process.
func FatalKV(ctx context.Context, message string, kvs ...any) {
	FromContext(ctx).Fatalw(message, kvs...)
}

// Panic logs a message at panic level and panics.
func Panic(ctx context.Context, args ...any) {
	FromContext(ctx).Panic(args...)
}

// Panicf logs a formatted message at panic level and panics.
func Panicf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Panicf(format, args...)
}
