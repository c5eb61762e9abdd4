package testutil

import "sync"

// LogEntry is one captured log call
type LogEntry struct {
	Level   string
	Message string
	Args    []any
}

// CaptureLogger is a thread-safe bucketx.Logger that records every call
type CaptureLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewCaptureLogger creates an empty capturing logger
func NewCaptureLogger() *CaptureLogger { return &CaptureLogger{} }

func (l *CaptureLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Args: args})
}

func (l *CaptureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *CaptureLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *CaptureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *CaptureLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

// Entries returns a copy of the captured entries
func (l *CaptureLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Contains reports whether any entry's message equals msg
func (l *CaptureLogger) Contains(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.Message == msg {
			return true
		}
	}
	return false
}
