package common

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
	LogFatal
)

var zapLevels = map[LogLevel]zapcore.Level{
	LogDebug: zapcore.DebugLevel,
	LogInfo:  zapcore.InfoLevel,
	LogWarn:  zapcore.WarnLevel,
	LogError: zapcore.ErrorLevel,
	LogFatal: zapcore.FatalLevel,
}

// globalLevel is shared by every SafeLogger so a single flag controls verbosity
var globalLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var baseLogger = newBaseLogger()

func newBaseLogger() *zap.Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "T"
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.CallerKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		globalLevel,
	)
	return zap.New(core)
}

// SafeLogger provides STDIO-safe logging that only writes to stderr
type SafeLogger struct {
	prefix string
	sugar  *zap.SugaredLogger
}

// NewSafeLogger creates a new safe logger with the given prefix
func NewSafeLogger(prefix string) *SafeLogger {
	return &SafeLogger{
		prefix: prefix,
		sugar:  baseLogger.Named(prefix).Sugar(),
	}
}

// NewSafeLoggerWith builds a logger over a caller supplied zap logger, mainly for tests
func NewSafeLoggerWith(prefix string, logger *zap.Logger) *SafeLogger {
	return &SafeLogger{
		prefix: prefix,
		sugar:  logger.Named(prefix).Sugar(),
	}
}

// SetLevel sets the minimum log level for all loggers
func (l *SafeLogger) SetLevel(level LogLevel) {
	SetGlobalLevel(level)
}

// Debug logs a debug message
func (l *SafeLogger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs an info message
func (l *SafeLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs a warning message
func (l *SafeLogger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs an error message
func (l *SafeLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Fatal logs a fatal message and exits
func (l *SafeLogger) Fatal(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

// With returns a logger carrying structured fields on every entry
func (l *SafeLogger) With(keysAndValues ...interface{}) *SafeLogger {
	return &SafeLogger{prefix: l.prefix, sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes buffered entries
func (l *SafeLogger) Sync() error {
	return l.sugar.Sync()
}

// SetGlobalLevel changes the level of every logger
func SetGlobalLevel(level LogLevel) {
	if zl, ok := zapLevels[level]; ok {
		globalLevel.SetLevel(zl)
	}
}

// ParseLogLevel accepts debug, info, warn, error and fatal
func ParseLogLevel(s string) (LogLevel, error) {
	var zl zapcore.Level
	if err := zl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return LogInfo, fmt.Errorf("unknown log level %q", s)
	}
	for level, candidate := range zapLevels {
		if candidate == zl {
			return level, nil
		}
	}
	return LogInfo, fmt.Errorf("unsupported log level %q", s)
}

// Global logger instances for convenience
var (
	LSPLogger       = NewSafeLogger("LSP")
	CLILogger       = NewSafeLogger("CLI")
	SearchLogger    = NewSafeLogger("Search")
	WorkspaceLogger = NewSafeLogger("Workspace")
)
