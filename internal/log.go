package internal

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

var levelNames = map[LogLevel]string{
	LogLevelError: "ERROR",
	LogLevelWarn:  "WARN",
	LogLevelInfo:  "INFO",
	LogLevelDebug: "DEBUG",
	LogLevelTrace: "TRACE",
}

// String returns the LOG_LEVEL spelling of the level
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLogLevel accepts the LOG_LEVEL spellings, case-insensitively
func ParseLogLevel(s string) (LogLevel, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for level, name := range levelNames {
		if name == want {
			return level, nil
		}
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger provides leveled logging
type Logger struct {
	level LogLevel
	out   *log.Logger
}

// NewLogger creates a new logger with the specified level
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level, out: log.Default()}
}

// NewLoggerWithOutput writes to w instead of the standard logger
func NewLoggerWithOutput(level LogLevel, w io.Writer) *Logger {
	return &Logger{level: level, out: log.New(w, "", 0)}
}

// NewDefaultLogger creates a logger based on LOG_LEVEL environment variable
func NewDefaultLogger() *Logger {
	level := LogLevelInfo
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if parsed, err := ParseLogLevel(levelStr); err == nil {
			level = parsed
		}
	}
	return NewLogger(level)
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	if l == nil || l.level < level {
		return
	}
	l.out.Printf("["+level.String()+"] "+format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) { l.logf(LogLevelError, format, args...) }

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) { l.logf(LogLevelWarn, format, args...) }

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) { l.logf(LogLevelInfo, format, args...) }

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) { l.logf(LogLevelDebug, format, args...) }

// Trace logs trace messages
func (l *Logger) Trace(format string, args ...interface{}) { l.logf(LogLevelTrace, format, args...) }

// Global logger instance
var DefaultLogger = NewDefaultLogger()
