// ABOUTME: Logrus backed implementation of the Logger interface
// ABOUTME: Emits JSON lines to stdout or to a size-rotated file through lumberjack

package logrus

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger
type Options struct {
	// Level is one of debug, info, warn, error; unknown values mean info
	Level string

	// File, when set, receives the output instead of stdout
	File string

	// MaxSizeMB, MaxBackups and MaxAgeDays tune file rotation
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger adapts a logrus.Logger to the Logger interface
type Logger struct {
	entry  *logrus.Logger
	closer io.Closer
}

// New creates a JSON logger configured by opts
func New(opts Options) *Logger {
	var out io.Writer = os.Stdout
	var closer io.Closer

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 100),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
			Compress:   true,
		}
		out = rotator
		closer = rotator
	}

	l := NewWithWriter(out, opts.Level)
	l.closer = closer
	return l
}

// NewWithWriter creates a JSON logger writing to w
func NewWithWriter(w io.Writer, level string) *Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return &Logger{entry: log}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(fields).Error(msg)
}

// Writer returns a writer that logs each line at error level, for http.Server.ErrorLog
func (l *Logger) Writer() *io.PipeWriter {
	return l.entry.WriterLevel(logrus.ErrorLevel)
}

// Close flushes and closes the log file, if any
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
