package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	Operations       int            `json:"operations" yaml:"operations"`
	OperationsByType map[string]int `json:"operations_by_type" yaml:"operations_by_type"`
	TasksIn          int            `json:"tasks_in" yaml:"tasks_in"`
	TasksOut         int            `json:"tasks_out" yaml:"tasks_out"`
	Errors           int            `json:"errors" yaml:"errors"`
	ErrorsByType     map[string]int `json:"errors_by_type,omitempty" yaml:"errors_by_type,omitempty"`
	Warnings         int            `json:"warnings" yaml:"warnings"`
	EventCount       int            `json:"event_count" yaml:"event_count"`
	OldestEvent      *time.Time     `json:"oldest_event,omitempty" yaml:"oldest_event,omitempty"`
	NewestEvent      *time.Time     `json:"newest_event,omitempty" yaml:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

var operationTypes = map[string]bool{
	EventTasksListed:     true,
	EventTaskAdded:       true,
	EventTasksSorted:     true,
	EventTasksFiltered:   true,
	EventTasksMapped:     true,
	EventTasksCompleted:  true,
	EventTasksSummarized: true,
	EventPipelineRun:     true,
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		OperationsByType: make(map[string]int),
	}

	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		// A failed call never produced an output list, so it is not an operation.
		switch event.Level {
		case LevelError:
			m.Errors++
			if m.ErrorsByType == nil {
				m.ErrorsByType = make(map[string]int)
			}
			m.ErrorsByType[event.Type]++
			continue
		case LevelWarn:
			m.Warnings++
		}

		if !operationTypes[event.Type] {
			continue
		}
		m.Operations++
		m.OperationsByType[event.Type]++
		m.TasksIn += intField(event.Data, "input_count")
		m.TasksOut += intField(event.Data, "output_count")
	}

	return m, nil
}

// intField reads a numeric field from event data. Values decoded from JSON
// arrive as float64; values from in-process events keep their Go type.
func intField(data map[string]any, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
