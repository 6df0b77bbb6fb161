package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Moonlight-Companies/mbapserver/common"
)

// Logger implements the common.LoggerInterface and common.LoggerInterfaceHexdump
type Logger struct {
	mu     sync.Mutex
	level  common.LogLevel
	writer io.Writer
	fields map[string]interface{}
}

// Option is a function that configures a Logger
type Option func(*Logger)

// WithLevel sets the log level
func WithLevel(level common.LogLevel) Option {
	return func(l *Logger) {
		l.level = level
	}
}

// WithWriter sets the writer for the logger
func WithWriter(writer io.Writer) Option {
	return func(l *Logger) {
		l.writer = writer
	}
}

// WithFields adds fields to the logger
func WithFields(fields map[string]interface{}) Option {
	return func(l *Logger) {
		if l.fields == nil {
			l.fields = make(map[string]interface{})
		}
		for k, v := range fields {
			l.fields[k] = v
		}
	}
}

// NewLogger creates a new logger with the given options
func NewLogger(options ...Option) *Logger {
	// Default logger writes to stdout with info level
	logger := &Logger{
		level:  common.LevelInfo,
		writer: os.Stdout,
		fields: make(map[string]interface{}),
	}

	for _, option := range options {
		option(logger)
	}

	return logger
}

// Hexdump outputs a hexdump of the given data at TRACE level
// Format: offset   00 01 02 03 04 05 06 07 | 08 09 0a 0b 0c 0d 0e 0f
func (l *Logger) Hexdump(ctx context.Context, data []byte) {
	if l.level > common.LevelTrace {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format(time.RFC3339)
	header := fmt.Sprintf("[%s] TRACE: HEXDUMP\n", timestamp)

	// First line is the header for the columns
	hexdump := "offset   00 01 02 03 04 05 06 07 | 08 09 0a 0b 0c 0d 0e 0f\n"

	// Process the data 16 bytes at a time
	for i := 0; i < len(data); i += 16 {
		hexdump += fmt.Sprintf("%08x", i)

		for j := 0; j < 16; j++ {
			if j == 8 {
				hexdump += " |"
			}

			hexdump += " "

			if i+j < len(data) {
				hexdump += fmt.Sprintf("%02x", data[i+j])
			} else {
				// Print spaces to maintain alignment
				hexdump += "  "
			}
		}

		hexdump += "\n"
	}

	output := header + hexdump
	if len(l.fields) > 0 {
		output += l.formatFields() + "\n"
	}

	_, err := fmt.Fprint(l.writer, output)
	if err != nil {
		// Since we can't log the error (that would cause a recursive loop),
		// we'll write directly to stderr as a last resort
		if l.writer != os.Stderr {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to write hexdump: %v\n", err)
		}
	}
}

// Trace logs a trace message
func (l *Logger) Trace(ctx context.Context, format string, args ...interface{}) {
	if l.level <= common.LevelTrace {
		l.log(ctx, "TRACE", format, args...)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(ctx context.Context, format string, args ...interface{}) {
	if l.level <= common.LevelDebug {
		l.log(ctx, "DEBUG", format, args...)
	}
}

// Info logs an info message
func (l *Logger) Info(ctx context.Context, format string, args ...interface{}) {
	if l.level <= common.LevelInfo {
		l.log(ctx, "INFO", format, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(ctx context.Context, format string, args ...interface{}) {
	if l.level <= common.LevelWarn {
		l.log(ctx, "WARN", format, args...)
	}
}

// Error logs an error message
func (l *Logger) Error(ctx context.Context, format string, args ...interface{}) {
	if l.level <= common.LevelError {
		l.log(ctx, "ERROR", format, args...)
	}
}

// WithFields returns a new logger with the given fields
func (l *Logger) WithFields(fields map[string]interface{}) common.LoggerInterface {
	return NewLogger(
		WithLevel(l.level),
		WithWriter(l.writer),
		WithFields(l.fields), // Copy existing fields
		WithFields(fields),   // Add new fields
	)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() common.LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level common.LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// formatFields renders fields in a machine-parseable way: key="value" key2="value2"
func (l *Logger) formatFields() string {
	fieldStrings := make([]string, 0, len(l.fields))
	for k, v := range l.fields {
		fieldStrings = append(fieldStrings, fmt.Sprintf("%s=%q", k, fmt.Sprintf("%v", v)))
	}
	return strings.Join(fieldStrings, " ")
}

// log is an internal method that handles the actual logging
func (l *Logger) log(ctx context.Context, level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format(time.RFC3339)
	message := fmt.Sprintf(format, args...)
	entry := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)

	if len(l.fields) > 0 {
		entry += " " + l.formatFields()
	}

	if entry[len(entry)-1] != '\n' {
		entry += "\n"
	}

	_, err := fmt.Fprint(l.writer, entry)
	if err != nil {
		// Since we can't log the error (that would cause a recursive loop),
		// we'll write directly to stderr as a last resort
		if l.writer != os.Stderr {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to write log entry: %v\n", err)
		}
	}
}
