package logger

import (
	"context"
	"sync"
)

// LogEntry is a single entry captured by the test logger.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// TestLogger captures log entries in memory for assertions in tests.
type TestLogger struct {
	mu      sync.RWMutex
	entries []LogEntry
	fields  map[string]interface{}
}

// NewTestLogger creates an empty test logger.
func NewTestLogger() *TestLogger {
	return &TestLogger{fields: make(map[string]interface{})}
}

// Debug captures a debug-level entry.
func (l *TestLogger) Debug(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("debug", msg, fields)
}

// Info captures an info-level entry.
func (l *TestLogger) Info(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("info", msg, fields)
}

// Warn captures a warn-level entry.
func (l *TestLogger) Warn(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("warn", msg, fields)
}

// Error captures an error-level entry.
func (l *TestLogger) Error(ctx context.Context, msg string, fields map[string]interface{}) {
	l.record("error", msg, fields)
}

// WithField returns a logger sharing the same capture buffer with one field added.
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a logger sharing the same capture buffer with fields added.
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{entries: l.entries, fields: merged}
}

func (l *TestLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Fields: merged})
}

// Entries returns a copy of all captured entries.
func (l *TestLogger) Entries() []LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// HasMessage reports whether any captured entry matches the given level and message.
func (l *TestLogger) HasMessage(level, msg string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, e := range l.entries {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}

// Reset clears all captured entries.
func (l *TestLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
