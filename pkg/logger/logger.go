/*
Copyright © 2026 3 Leaps <info@3leaps.net>
*/
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents the severity level of log messages
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a flag value to a Level. Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Config holds the logger configuration
type Config struct {
	Level     Level
	UseColor  bool
	JSON      bool
	Component string
}

// Logger represents the logger instance
type Logger struct {
	mu     sync.Mutex
	config Config
	logger *log.Logger
}

var defaultLogger *Logger

// New creates a logger writing to w.
func New(config Config, w io.Writer) *Logger {
	return &Logger{
		config: config,
		logger: log.New(w, "", 0),
	}
}

// Initialize sets up the default logger on stderr
func Initialize(config Config) error {
	if config.Component == "" {
		config.Component = "assetpipe"
	}
	defaultLogger = New(config, os.Stderr)
	return nil
}

// Log writes a log message
func (l *Logger) Log(level Level, message string, fields ...Field) {
	if level < l.config.Level {
		return
	}

	entry := LogEntry{
		Time:      time.Now(),
		Level:     level.String(),
		Message:   message,
		Component: l.config.Component,
	}

	if level <= DebugLevel {
		_, file, line, ok := runtime.Caller(2)
		if ok {
			entry.File = file
			entry.Line = line
		}
	}

	if len(fields) > 0 {
		entry.Fields = make(map[string]interface{}, len(fields))
		for _, field := range fields {
			entry.Fields[field.Key] = field.Value
		}
	}

	var output string
	if l.config.JSON {
		jsonBytes, _ := json.Marshal(entry)
		output = string(jsonBytes)
	} else {
		output = l.formatPretty(entry)
	}

	l.mu.Lock()
	l.logger.Print(output)
	l.mu.Unlock()
}

var levelColors = map[string]string{
	"TRACE": "\033[37m",
	"DEBUG": "\033[36m",
	"INFO":  "\033[32m",
	"WARN":  "\033[33m",
	"ERROR": "\033[31m",
}

// formatPretty formats the log entry in a human-readable way
func (l *Logger) formatPretty(entry LogEntry) string {
	var builder strings.Builder

	builder.WriteString(entry.Time.Format("2006-01-02 15:04:05"))

	level := entry.Level
	if l.config.UseColor {
		if color, ok := levelColors[level]; ok {
			level = color + level + "\033[0m"
		}
	}
	builder.WriteString(fmt.Sprintf(" [%s]", level))

	if entry.Component != "" {
		builder.WriteString(fmt.Sprintf(" %s:", entry.Component))
	}

	builder.WriteString(" " + entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		builder.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
		builder.WriteString("}")
	}

	if entry.File != "" {
		builder.WriteString(fmt.Sprintf(" (%s:%d)", entry.File, entry.Line))
	}

	return builder.String()
}

// Field represents a structured field in a log entry
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Strings creates a field holding a list of strings
func Strings(key string, values []string) Field {
	return Field{Key: key, Value: strings.Join(values, ",")}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// LogEntry represents a log entry
type LogEntry struct {
	Time      time.Time              `json:"time"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	File      string                 `json:"file,omitempty"`
	Line      int                    `json:"line,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Convenience functions for default logger
func Trace(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(TraceLevel, message, fields...)
	}
}

func Debug(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(DebugLevel, message, fields...)
	}
}

func Info(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(InfoLevel, message, fields...)
	} else {
		// Fallback to stderr if logger not initialized
		_, _ = fmt.Fprintf(os.Stderr, "[INFO] assetpipe: %s\n", message)
	}
}

func Warn(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(WarnLevel, message, fields...)
	}
}

func Error(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(ErrorLevel, message, fields...)
	}
}

// SetOutput sets the output writer for the default logger
func SetOutput(w io.Writer) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.logger.SetOutput(w)
		defaultLogger.mu.Unlock()
	}
}
