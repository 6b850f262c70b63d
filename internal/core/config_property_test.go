package core

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/valter-silva-au/taskfn/pkg/models"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"
)

// =============================================================================
// Generators
// =============================================================================

var validSteps = []string{"sort", "pending", "done", "min-effort=3", "tag=team", "prefix=>>", "complete=bug"}

// genConfig generates a valid Config with every field set.
func genConfig(t *rapid.T) *models.Config {
	cfg := &models.Config{
		TasksFile:        rapid.StringMatching(`[a-z]{1,10}\.yaml`).Draw(t, "tasksFile"),
		OutputFormat:     rapid.SampledFrom([]models.OutputFormat{models.FormatTable, models.FormatJSON, models.FormatYAML}).Draw(t, "format"),
		Color:            rapid.Bool().Draw(t, "color"),
		DefaultEffort:    rapid.IntRange(-5, 20).Draw(t, "effort"),
		DefaultPrefix:    rapid.StringMatching(`[A-Za-z!>\[\]]{1,6} ?`).Draw(t, "prefix"),
		DefaultMinEffort: rapid.IntRange(-5, 20).Draw(t, "minEffort"),
		EventsEnabled:    rapid.Bool().Draw(t, "eventsEnabled"),
		EventsFile:       rapid.StringMatching(`[a-z]{1,8}\.jsonl`).Draw(t, "eventsFile"),
		Pipelines:        make(map[string][]string),
	}
	n := rapid.IntRange(1, 3).Draw(t, "numPipelines")
	for i := 0; i < n; i++ {
		name := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "pipelineName")
		cfg.Pipelines[name] = rapid.SliceOfN(rapid.SampledFrom(validSteps), 1, 4).Draw(t, "steps")
	}
	return cfg
}

// configYAML renders cfg in the nested .taskfn.yaml layout.
func configYAML(cfg *models.Config) ([]byte, error) {
	return yaml.Marshal(map[string]any{
		"tasks":  map[string]any{"file": cfg.TasksFile},
		"output": map[string]any{"format": string(cfg.OutputFormat), "color": cfg.Color},
		"defaults": map[string]any{
			"effort":     cfg.DefaultEffort,
			"prefix":     cfg.DefaultPrefix,
			"min_effort": cfg.DefaultMinEffort,
		},
		"events":    map[string]any{"enabled": cfg.EventsEnabled, "file": cfg.EventsFile},
		"pipelines": cfg.Pipelines,
	})
}

// =============================================================================
// Properties
// =============================================================================

// Any valid configuration written to .taskfn.yaml loads back unchanged and
// passes validation.
func TestProperty_ConfigFileRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		want := genConfig(rt)
		data, err := configYAML(want)
		if err != nil {
			rt.Fatalf("marshalling config: %v", err)
		}

		dir, err := os.MkdirTemp(t.TempDir(), "cfg")
		if err != nil {
			rt.Fatalf("creating temp dir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, ".taskfn.yaml"), data, 0o644); err != nil {
			rt.Fatalf("writing config: %v", err)
		}

		cm := NewConfigurationManager(dir)
		got, err := cm.LoadConfig()
		if err != nil {
			rt.Fatalf("LoadConfig() error = %v\n%s", err, data)
		}
		if !reflect.DeepEqual(got, want) {
			rt.Fatalf("loaded %+v, want %+v\n%s", got, want, data)
		}
		if err := cm.ValidateConfig(got); err != nil {
			rt.Fatalf("ValidateConfig() error = %v", err)
		}
	})
}

// Every unknown output format is rejected, whatever else the config holds.
func TestProperty_UnknownFormatRejected(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := genConfig(rt)
		cfg.OutputFormat = models.OutputFormat(rapid.StringMatching(`[a-z]{1,8}`).
			Filter(func(s string) bool { return s != "table" && s != "json" && s != "yaml" }).
			Draw(rt, "badFormat"))

		if err := NewConfigurationManager("").ValidateConfig(cfg); err == nil {
			rt.Fatalf("expected error for output.format %q", cfg.OutputFormat)
		}
	})
}
