package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case INFO:
		return zerolog.InfoLevel
	case WARN:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// LogFormat represents the output format for logs
type LogFormat int

const (
	JSONFormat LogFormat = iota
	TextFormat
)

// Fields carries structured context attached to a single log entry
type Fields map[string]interface{}

// Logger is a component-scoped structured logger backed by zerolog.
// It is passed explicitly to every component; there is no process-wide instance.
type Logger struct {
	zl        zerolog.Logger
	component string
}

// Config holds logger configuration
type Config struct {
	Level     LogLevel
	Format    LogFormat
	Output    io.Writer
	Component string
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	out := config.Output
	if config.Format == TextFormat {
		out = zerolog.ConsoleWriter{Out: config.Output, NoColor: true}
	}

	zl := zerolog.New(out).Level(config.Level.zerolog()).With().Timestamp().Logger()
	l := &Logger{zl: zl}
	if config.Component != "" {
		return l.WithComponent(config.Component)
	}
	return l
}

// NewDefault creates a logger with default configuration
func NewDefault() *Logger {
	return New(Config{
		Level:  INFO,
		Format: JSONFormat,
		Output: os.Stdout,
	})
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// WithComponent creates a new logger with the specified component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		zl:        l.zl.With().Str("component", component).Logger(),
		component: component,
	}
}

// Component returns the component name attached to this logger
func (l *Logger) Component() string {
	return l.component
}

// ParseLevel parses a log level string such as "debug" or "WARNING"
func ParseLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO", "":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", level)
	}
}

// ParseFormat parses a log format string ("json" or "text")
func ParseFormat(format string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "":
		return JSONFormat, nil
	case "text", "console":
		return TextFormat, nil
	default:
		return JSONFormat, fmt.Errorf("unknown log format %q", format)
	}
}

func (l *Logger) emit(ev *zerolog.Event, message string, fields []Fields) {
	if ev == nil {
		return
	}
	if len(fields) > 0 && len(fields[0]) > 0 {
		ev = ev.Fields(map[string]interface{}(fields[0]))
	}
	ev.Msg(message)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...Fields) {
	l.emit(l.zl.Debug(), message, fields)
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...Fields) {
	l.emit(l.zl.Info(), message, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...Fields) {
	l.emit(l.zl.Warn(), message, fields)
}

// Error logs an error message; err may be nil
func (l *Logger) Error(message string, err error, fields ...Fields) {
	ev := l.zl.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	l.emit(ev, message, fields)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...), nil)
}
