package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Entry describes one completed request for the diagnostic log.
type Entry struct {
	ID        string
	Timestamp time.Time
	Kind      string
	Model     string
	Outcome   Outcome
	Duration  time.Duration
	Err       error
}

// Logger receives a record of every request that reached the endpoint.
// Implementations must be safe for concurrent use.
type Logger interface {
	LogAnalysis(e Entry)
}

// NopLogger discards all log output.
type NopLogger struct{}

// LogAnalysis is a no-op.
func (NopLogger) LogAnalysis(Entry) {}

// logEntry is the JSON structure written by FileLogger.
type logEntry struct {
	Timestamp  string `json:"ts"`
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Model      string `json:"model"`
	Outcome    string `json:"outcome"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// FileLogger writes one JSON object per line to an io.Writer.
type FileLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewFileLogger creates a FileLogger that writes to the given writer.
func NewFileLogger(w io.Writer) *FileLogger {
	return &FileLogger{w: w}
}

// LogAnalysis writes a JSON line for a completed request.
func (l *FileLogger) LogAnalysis(e Entry) {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	entry := logEntry{
		Timestamp:  ts.UTC().Format(time.RFC3339Nano),
		ID:         e.ID,
		Kind:       e.Kind,
		Model:      e.Model,
		Outcome:    e.Outcome.String(),
		DurationMS: e.Duration.Milliseconds(),
	}
	if e.Err != nil {
		entry.Error = e.Err.Error()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s\n", data)
}
