// Package logger provides structured JSON logging with automatic email
// redaction. Subscriber email addresses are PII and must never land in
// log output verbatim.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// Logger emits JSON log lines. Safe for concurrent use.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	level     Level
	redactPII bool
}

// New creates a logger writing to out. PII redaction is on by default.
func New(out io.Writer, level Level) *Logger {
	return &Logger{out: out, level: level, redactPII: true}
}

var defaultLogger = New(os.Stderr, INFO)

// SetLevel sets the minimum level for the default logger.
func SetLevel(l Level) { defaultLogger.level = l }

// SetRedactPII toggles email redaction for the default logger.
// Disable only in local development.
func SetRedactPII(r bool) { defaultLogger.redactPII = r }

// Debug emits a DEBUG entry on the default logger.
func Debug(msg string, fields ...any) { defaultLogger.Log(DEBUG, msg, fields...) }

// Info emits an INFO entry on the default logger.
func Info(msg string, fields ...any) { defaultLogger.Log(INFO, msg, fields...) }

// Warn emits a WARN entry on the default logger.
func Warn(msg string, fields ...any) { defaultLogger.Log(WARN, msg, fields...) }

// Error emits an ERROR entry on the default logger.
func Error(msg string, fields ...any) { defaultLogger.Log(ERROR, msg, fields...) }

// Log writes a single entry. fields are alternating key/value pairs;
// a trailing key without a value is dropped.
func (l *Logger) Log(level Level, msg string, fields ...any) {
	if level < l.level {
		return
	}

	entry := map[string]any{
		"time":  time.Now().UTC().Format(time.RFC3339),
		"level": levelNames[level],
		"msg":   msg,
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		val := fmt.Sprintf("%v", fields[i+1])
		if l.redactPII {
			val = redactValue(key, val)
		}
		entry[key] = val
	}

	data, _ := json.Marshal(entry)
	l.mu.Lock()
	fmt.Fprintln(l.out, string(data))
	l.mu.Unlock()
}
