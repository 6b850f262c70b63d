package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/taskfn/internal/observability"
)

// --- parseSinceDuration unit tests ---

func TestParseSinceDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		errMsg  string
	}{
		{"empty defaults to 7d", "", false, ""},
		{"whitespace defaults to 7d", "  ", false, ""},
		{"valid 7d", "7d", false, ""},
		{"valid 30d", "30d", false, ""},
		{"valid 24h", "24h", false, ""},
		{"invalid suffix", "7w", true, "unsupported duration suffix"},
		{"invalid number", "xd", true, "invalid duration"},
		{"fractional days", "1.5d", true, "invalid duration"},
		{"doubled suffix", "7dd", true, "invalid duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSinceDuration(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errMsg)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// --- metricsCmd tests ---

type metricsMock struct {
	calcFn func(since time.Time) (*observability.Metrics, error)
}

func (m *metricsMock) Calculate(since time.Time) (*observability.Metrics, error) {
	return m.calcFn(since)
}

func useMetrics(t *testing.T, mc observability.MetricsCalculator) {
	t.Helper()
	orig := MetricsCalc
	MetricsCalc = mc
	t.Cleanup(func() { MetricsCalc = orig })
}

func sampleMetrics() *observability.Metrics {
	oldest := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	newest := oldest.Add(time.Hour)
	return &observability.Metrics{
		Operations: 3,
		OperationsByType: map[string]int{
			observability.EventTasksSorted:   2,
			observability.EventTasksFiltered: 1,
		},
		TasksIn:     9,
		TasksOut:    7,
		EventCount:  3,
		OldestEvent: &oldest,
		NewestEvent: &newest,
	}
}

func TestMetricsCmd_NilCalculator(t *testing.T) {
	useMetrics(t, nil)

	_, err := runCommand(t, metricsCmd)
	if err == nil {
		t.Fatal("expected error when MetricsCalc is nil")
	}
	if !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMetricsCmd_InvalidSince(t *testing.T) {
	useMetrics(t, &metricsMock{
		calcFn: func(since time.Time) (*observability.Metrics, error) {
			return &observability.Metrics{}, nil
		},
	})
	setFlag(t, metricsCmd, "since", "abc")

	_, err := runCommand(t, metricsCmd)
	if err == nil || !strings.Contains(err.Error(), "parsing --since") {
		t.Errorf("expected --since error, got %v", err)
	}
}

func TestMetricsCmd_CalculateError(t *testing.T) {
	useMetrics(t, &metricsMock{
		calcFn: func(since time.Time) (*observability.Metrics, error) {
			return nil, fmt.Errorf("disk on fire")
		},
	})
	useConfig(t, nil, "")

	_, err := runCommand(t, metricsCmd)
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("expected wrapped calculator error, got %v", err)
	}
}

func TestMetricsCmd_TableFormat(t *testing.T) {
	var gotSince time.Time
	useMetrics(t, &metricsMock{
		calcFn: func(since time.Time) (*observability.Metrics, error) {
			gotSince = since
			return sampleMetrics(), nil
		},
	})
	useConfig(t, nil, "")
	setFlag(t, metricsCmd, "since", "24h")

	out, err := runCommand(t, metricsCmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d := time.Since(gotSince); d < 23*time.Hour || d > 25*time.Hour {
		t.Errorf("since = %v ago, want about 24h", d)
	}
	for _, want := range []string{"Operations:", "Tasks in:", "tasks.filtered:", "2025-01-15T10:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "tasks.filtered") > strings.Index(out, "tasks.sorted") {
		t.Errorf("operation types not sorted:\n%s", out)
	}
}

func TestMetricsCmd_JSONFormat(t *testing.T) {
	useMetrics(t, &metricsMock{
		calcFn: func(since time.Time) (*observability.Metrics, error) {
			return sampleMetrics(), nil
		},
	})
	useConfig(t, nil, "json")

	out, err := runCommand(t, metricsCmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var m observability.Metrics
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("parsing JSON output: %v\n%s", err, out)
	}
	if m.Operations != 3 || m.TasksIn != 9 || m.TasksOut != 7 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestMetricsCmd_YAMLFormat(t *testing.T) {
	useMetrics(t, &metricsMock{
		calcFn: func(since time.Time) (*observability.Metrics, error) {
			return sampleMetrics(), nil
		},
	})
	useConfig(t, nil, "yaml")

	out, err := runCommand(t, metricsCmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"operations: 3", "tasks_in: 9", "operations_by_type:"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}
}
