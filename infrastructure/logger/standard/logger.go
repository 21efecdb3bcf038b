// ABOUTME: Standard logger implementation using Go's standard log package
// ABOUTME: Plain text fallback used by tools and tests that do not want JSON output

package standard

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sort"
	"strings"
)

// Level orders log severities
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a level name to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// StandardLogger implements the Logger interface using standard library
type StandardLogger struct {
	min   Level
	debug *log.Logger
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
}

// NewStandardLogger creates a logger writing info and above to stdout, errors to stderr
func NewStandardLogger() *StandardLogger {
	l := NewStandardLoggerWithWriter(os.Stdout, LevelInfo)
	l.error.SetOutput(os.Stderr)
	return l
}

// NewStandardLoggerWithWriter creates a logger writing every level at or above min to w
func NewStandardLoggerWithWriter(w io.Writer, min Level) *StandardLogger {
	return &StandardLogger{
		min:   min,
		debug: log.New(w, "[DEBUG] ", log.LstdFlags),
		info:  log.New(w, "[INFO] ", log.LstdFlags),
		warn:  log.New(w, "[WARN] ", log.LstdFlags),
		error: log.New(w, "[ERROR] ", log.LstdFlags),
	}
}

// Debug logs a debug message
func (l *StandardLogger) Debug(msg string, fields map[string]interface{}) {
	l.logWithFields(LevelDebug, l.debug, msg, fields)
}

// Info logs an info message
func (l *StandardLogger) Info(msg string, fields map[string]interface{}) {
	l.logWithFields(LevelInfo, l.info, msg, fields)
}

// Warn logs a warning message
func (l *StandardLogger) Warn(msg string, fields map[string]interface{}) {
	l.logWithFields(LevelWarn, l.warn, msg, fields)
}

// Error logs an error message
func (l *StandardLogger) Error(msg string, fields map[string]interface{}) {
	l.logWithFields(LevelError, l.error, msg, fields)
}

// logWithFields logs msg followed by its fields as key=value pairs in key order
func (l *StandardLogger) logWithFields(level Level, logger *log.Logger, msg string, fields map[string]interface{}) {
	if level < l.min {
		return
	}
	if len(fields) == 0 {
		logger.Println(msg)
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		v, err := json.Marshal(fields[k])
		if err != nil {
			v = []byte(`"<unprintable>"`)
		}
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.Write(v)
	}
	logger.Println(b.String())
}
