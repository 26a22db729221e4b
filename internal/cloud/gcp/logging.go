package gcp

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Severity levels for structured logs
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// LogEntry is one line of Cloud Logging structured JSON
type LogEntry struct {
	Severity  Severity               `json:"severity"`
	Message   string                 `json:"message"`
	Timestamp string                 `json:"timestamp"`
	RunID     string                 `json:"run_id,omitempty"`
	Labels    map[string]string      `json:"logging.googleapis.com/labels,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// CloudLogger writes structured JSON that the Cloud Logging agent (or any
// log shipper that understands the format) forwards with proper severity.
type CloudLogger struct {
	writer io.Writer
	runID  string
	labels map[string]string
	mu     sync.Mutex
	closed bool
}

// CloudLoggerOption allows configuring the CloudLogger
type CloudLoggerOption func(*CloudLogger)

// WithWriter sets a custom writer for log output
func WithWriter(w io.Writer) CloudLoggerOption {
	return func(cl *CloudLogger) {
		cl.writer = w
	}
}

// WithRunID tags every entry with the invocation ID
func WithRunID(id string) CloudLoggerOption {
	return func(cl *CloudLogger) {
		cl.runID = id
		cl.labels["run_id"] = id
	}
}

// WithLabels adds custom labels to all log entries
func WithLabels(labels map[string]string) CloudLoggerOption {
	return func(cl *CloudLogger) {
		for k, v := range labels {
			cl.labels[k] = v
		}
	}
}

// NewCloudLogger creates a CloudLogger writing to stderr by default.
func NewCloudLogger(opts ...CloudLoggerOption) *CloudLogger {
	cl := &CloudLogger{
		writer: os.Stderr,
		labels: map[string]string{"component": "issuecast"},
	}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// Log writes a structured log entry
func (cl *CloudLogger) Log(severity Severity, message string, fields map[string]interface{}) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.closed {
		return
	}

	entry := LogEntry{
		Severity:  severity,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		RunID:     cl.runID,
		Labels:    cl.labels,
		Fields:    fields,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(cl.writer, `{"severity":"ERROR","message":"failed to marshal log entry: %v"}`+"\n", err)
		return
	}
	fmt.Fprintf(cl.writer, "%s\n", data)
}

// Info writes an INFO level log entry
func (cl *CloudLogger) Info(message string, fields map[string]interface{}) {
	cl.Log(SeverityInfo, message, fields)
}

// Warning writes a WARNING level log entry
func (cl *CloudLogger) Warning(message string, fields map[string]interface{}) {
	cl.Log(SeverityWarning, message, fields)
}

// Error writes an ERROR level log entry
func (cl *CloudLogger) Error(message string, fields map[string]interface{}) {
	cl.Log(SeverityError, message, fields)
}

// Close flushes the writer if it supports it and drops later entries.
func (cl *CloudLogger) Close() error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.closed {
		return nil
	}
	cl.closed = true

	if syncer, ok := cl.writer.(interface{ Sync() error }); ok {
		return syncer.Sync()
	}
	return nil
}
