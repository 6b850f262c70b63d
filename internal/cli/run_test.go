package cli

import (
	"reflect"
	"strings"
	"testing"

	"github.com/valter-silva-au/taskfn/internal/core"
)

func usePipelineConfig(t *testing.T) {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Color = false
	cfg.Pipelines = map[string][]string{
		"triage": {"min-effort=2", "sort", "prefix=! "},
		"close":  {"complete=team", "done"},
	}
	useConfig(t, cfg, "json")
}

func TestRunCmd_StepsFromArgs(t *testing.T) {
	useTaskFile(t, sampleTaskFile)
	useConfig(t, nil, "json")

	out, err := runCommand(t, runCmd, "tag=team", "sort", "prefix=> ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"> Code review", "> Write docs"}
	if got := titles(decodeTasks(t, out)); !reflect.DeepEqual(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
}

func TestRunCmd_NamedPipeline(t *testing.T) {
	useTaskFile(t, sampleTaskFile)
	usePipelineConfig(t)
	setFlag(t, runCmd, "pipeline", "Triage")

	out, err := runCommand(t, runCmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"! Code review", "! Fix bug"}
	if got := titles(decodeTasks(t, out)); !reflect.DeepEqual(got, want) {
		t.Errorf("titles = %v, want %v", got, want)
	}
}

func TestRunCmd_Errors(t *testing.T) {
	useTaskFile(t, sampleTaskFile)
	usePipelineConfig(t)

	tests := []struct {
		name     string
		pipeline string
		args     []string
		errMsg   string
	}{
		{"no steps", "", nil, "no steps given"},
		{"unknown step", "", []string{"shuffle"}, "unknown step"},
		{"missing argument", "", []string{"min-effort"}, "requires =N"},
		{"unknown pipeline", "nope", nil, "not found in config"},
		{"args and pipeline", "triage", []string{"sort"}, "not both"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.pipeline != "" {
				setFlag(t, runCmd, "pipeline", tt.pipeline)
			}
			_, err := runCommand(t, runCmd, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error %q should contain %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestRunCmd_ListPipelines(t *testing.T) {
	usePipelineConfig(t)
	setFlag(t, runCmd, "list", "true")

	out, err := runCommand(t, runCmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closeIdx, triageIdx := strings.Index(out, "close"), strings.Index(out, "triage")
	if closeIdx < 0 || triageIdx < 0 || closeIdx > triageIdx {
		t.Errorf("pipelines not listed in name order:\n%s", out)
	}
	if !strings.Contains(out, "min-effort=2 | sort | prefix=! ") {
		t.Errorf("steps not shown:\n%s", out)
	}
}

func TestRunCmd_ListNoPipelines(t *testing.T) {
	useConfig(t, nil, "")
	setFlag(t, runCmd, "list", "true")

	out, err := runCommand(t, runCmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No pipelines configured.") {
		t.Errorf("output = %q", out)
	}
}
