package observability

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event types written for task-list operations.
const (
	EventTasksListed     = "tasks.listed"
	EventTaskAdded       = "tasks.added"
	EventTasksSorted     = "tasks.sorted"
	EventTasksFiltered   = "tasks.filtered"
	EventTasksMapped     = "tasks.mapped"
	EventTasksCompleted  = "tasks.completed"
	EventTasksSummarized = "tasks.summarized"
	EventPipelineRun     = "tasks.pipeline_run"

	EventTaskFileMissing = "tasks.file_missing"
	EventCommandFailed   = "command.failed"
	EventToolFailed      = "tool.failed"
)

// Event levels.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Event represents a single observable event in the system.
type Event struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"` // INFO, WARN, ERROR
	Type    string         `json:"type"`  // e.g. "tasks.sorted"
	Message string         `json:"msg"`
	Data    map[string]any `json:"data,omitempty"`
}

// OperationEvent builds the INFO event recorded after a list operation.
// inCount and outCount are the task counts before and after; extra keys are
// merged into Data.
func OperationEvent(eventType string, inCount, outCount int, extra map[string]any) Event {
	data := map[string]any{
		"input_count":  inCount,
		"output_count": outCount,
	}
	for k, v := range extra {
		data[k] = v
	}
	return Event{
		Time:    time.Now().UTC(),
		Level:   LevelInfo,
		Type:    eventType,
		Message: fmt.Sprintf("%s: %d -> %d tasks", eventType, inCount, outCount),
		Data:    data,
	}
}

// ErrorEvent builds the ERROR event recorded when a command or tool call
// fails. The error text is stored under Data["error"].
func ErrorEvent(eventType string, err error, extra map[string]any) Event {
	data := map[string]any{"error": err.Error()}
	for k, v := range extra {
		data[k] = v
	}
	return Event{
		Time:    time.Now().UTC(),
		Level:   LevelError,
		Type:    eventType,
		Message: fmt.Sprintf("%s: %v", eventType, err),
		Data:    data,
	}
}

// WarnEvent builds a WARN event for conditions that do not fail the
// operation, such as reading a task file that does not exist yet.
func WarnEvent(eventType, msg string, extra map[string]any) Event {
	return Event{
		Time:    time.Now().UTC(),
		Level:   LevelWarn,
		Type:    eventType,
		Message: msg,
		Data:    extra,
	}
}

// EventFilter specifies criteria for reading events.
type EventFilter struct {
	Since *time.Time
	Until *time.Time
	Type  string
	Level string
}

// EventLog defines the interface for writing and reading events.
type EventLog interface {
	Write(event Event) error
	Read(filter EventFilter) ([]Event, error)
	Close() error
}

// jsonlEventLog implements EventLog using append-only JSONL files.
type jsonlEventLog struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// NewJSONLEventLog creates a new EventLog backed by a JSONL file at the given
// path. Parent directories are created as needed.
func NewJSONLEventLog(path string) (EventLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating event log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return &jsonlEventLog{
		path: path,
		file: f,
	}, nil
}

// Write appends event as one JSON line. A zero Time is stamped with the
// current UTC time and an empty Level becomes INFO.
func (l *jsonlEventLog) Write(event Event) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	if event.Level == "" {
		event.Level = LevelInfo
	}
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.Type, err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	// The flock keeps lines whole when a CLI run and the MCP server share a log.
	unlock, err := lockFile(l.file)
	if err != nil {
		return err
	}
	defer func() { _ = unlock() }()

	if _, err := l.file.Write(line); err != nil {
		return fmt.Errorf("appending %s event to %s: %w", event.Type, l.path, err)
	}
	return nil
}

// maxEventLine bounds a single JSONL line. Pipeline events carry their step
// list, which can outgrow bufio's 64KiB default.
const maxEventLine = 1 << 20

// Read returns the events matching filter in file order. A log that has not
// been created yet reads as empty; lines that fail to decode are skipped.
func (l *jsonlEventLog) Read(filter EventFilter) ([]Event, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening event log %s: %w", l.path, err)
	}
	defer func() { _ = f.Close() }()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	for scanner.Scan() {
		event, ok := decodeEvent(scanner.Bytes())
		if ok && matchesEventFilter(event, filter) {
			events = append(events, event)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning event log %s: %w", l.path, err)
	}
	return events, nil
}

func decodeEvent(line []byte) (Event, bool) {
	var event Event
	if len(line) == 0 || json.Unmarshal(line, &event) != nil || event.Type == "" {
		return Event{}, false
	}
	return event, true
}

// Close closes the log file. Writes after Close fail.
func (l *jsonlEventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("closing event log %s: %w", l.path, err)
	}
	return nil
}

// matchesEventFilter reports whether event falls in the filter's time window
// and matches its type and level. Since and Until are inclusive.
func matchesEventFilter(event Event, filter EventFilter) bool {
	switch {
	case filter.Since != nil && event.Time.Before(*filter.Since):
		return false
	case filter.Until != nil && event.Time.After(*filter.Until):
		return false
	case filter.Type != "" && event.Type != filter.Type:
		return false
	case filter.Level != "" && event.Level != filter.Level:
		return false
	}
	return true
}
