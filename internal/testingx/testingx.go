// Package testingx provides test helpers shared by hatch packages.
//
// Overview:
//   - Responsibility: Recording logger and error code assertions
//   - Key Types: MockLogger, LogEntry
//   - Concurrency Model: MockLogger is safe for concurrent use
//   - Error Semantics: Test failures via testing.TB
//   - Performance Notes: Entries are kept in memory
//
// Usage:
//
//	logger := testingx.NewMockLogger(t)
//	asm := scaffold.New(cat, scaffold.WithLogger(logger))
//	logger.AssertLogged("INFO", "project generated")
package testingx

import (
	"sync"
	"testing"

	"go.eggybyte.com/hatch/internal/errors"
	"go.eggybyte.com/hatch/internal/logx"
)

// LogEntry represents a single log entry. Fields include those attached
// with With.
type LogEntry struct {
	Level   string
	Message string
	Fields  []any
	Error   error
}

// Field returns the value logged under key, if any.
func (e LogEntry) Field(key string) (any, bool) {
	for i := 0; i+1 < len(e.Fields); i += 2 {
		if k, ok := e.Fields[i].(string); ok && k == key {
			return e.Fields[i+1], true
		}
	}
	return nil, false
}

type sink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// MockLogger records log calls for assertions.
type MockLogger struct {
	t      testing.TB
	sink   *sink
	fields []any
}

var _ logx.Logger = (*MockLogger)(nil)

// NewMockLogger creates a new mock logger.
func NewMockLogger(t testing.TB) *MockLogger {
	return &MockLogger{t: t, sink: &sink{}}
}

// With returns a logger sharing the same entries with kv attached.
func (m *MockLogger) With(kv ...any) logx.Logger {
	fields := make([]any, 0, len(m.fields)+len(kv))
	fields = append(fields, m.fields...)
	fields = append(fields, kv...)
	return &MockLogger{t: m.t, sink: m.sink, fields: fields}
}

// Debug logs a debug message.
func (m *MockLogger) Debug(msg string, kv ...any) { m.log("DEBUG", msg, nil, kv) }

// Info logs an info message.
func (m *MockLogger) Info(msg string, kv ...any) { m.log("INFO", msg, nil, kv) }

// Warn logs a warning message.
func (m *MockLogger) Warn(msg string, kv ...any) { m.log("WARN", msg, nil, kv) }

// Error logs an error message.
func (m *MockLogger) Error(err error, msg string, kv ...any) { m.log("ERROR", msg, err, kv) }

func (m *MockLogger) log(level, msg string, err error, kv []any) {
	fields := make([]any, 0, len(m.fields)+len(kv))
	fields = append(fields, m.fields...)
	fields = append(fields, kv...)

	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.entries = append(m.sink.entries, LogEntry{Level: level, Message: msg, Fields: fields, Error: err})
}

// Entries returns all log entries.
func (m *MockLogger) Entries() []LogEntry {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	entries := make([]LogEntry, len(m.sink.entries))
	copy(entries, m.sink.entries)
	return entries
}

// Find returns the first entry with level and msg.
func (m *MockLogger) Find(level, msg string) (LogEntry, bool) {
	for _, e := range m.Entries() {
		if e.Level == level && e.Message == msg {
			return e, true
		}
	}
	return LogEntry{}, false
}

// AssertLogged fails the test if no entry matches level and msg.
func (m *MockLogger) AssertLogged(level, msg string) {
	m.t.Helper()
	if _, ok := m.Find(level, msg); !ok {
		m.t.Errorf("expected log message not found: level=%s msg=%q", level, msg)
	}
}

// AssertNotLogged fails the test if an entry matches level and msg.
func (m *MockLogger) AssertNotLogged(level, msg string) {
	m.t.Helper()
	if _, ok := m.Find(level, msg); ok {
		m.t.Errorf("unexpected log message: level=%s msg=%q", level, msg)
	}
}

// AssertCode fails the test unless err carries code.
func AssertCode(t testing.TB, err error, code errors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if got := errors.CodeOf(err); got != code {
		t.Errorf("expected error code %s, got %s (%v)", code, got, err)
	}
}
