package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/taskfn/pkg/models"
)

// ConfigFileName is the base name viper searches for (".taskfn.yaml").
const ConfigFileName = ".taskfn"

// ConfigurationManager loads and validates taskfn configuration.
type ConfigurationManager interface {
	LoadConfig() (*models.Config, error)
	ValidateConfig(cfg *models.Config) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the directory where .taskfn.yaml resides.
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// .taskfn.yaml from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *models.Config {
	return &models.Config{
		TasksFile:        "tasks.yaml",
		OutputFormat:     models.FormatTable,
		Color:            true,
		DefaultEffort:    models.DefaultEffort,
		DefaultPrefix:    "[HOT] ",
		DefaultMinEffort: 2,
		EventsEnabled:    true,
		EventsFile:       ".taskfn_events.jsonl",
	}
}

// LoadConfig reads .taskfn.yaml from the base path. A missing file yields
// the defaults.
func (cm *viperConfigManager) LoadConfig() (*models.Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("tasks.file", cfg.TasksFile)
	v.SetDefault("output.format", string(cfg.OutputFormat))
	v.SetDefault("output.color", cfg.Color)
	v.SetDefault("defaults.effort", cfg.DefaultEffort)
	v.SetDefault("defaults.prefix", cfg.DefaultPrefix)
	v.SetDefault("defaults.min_effort", cfg.DefaultMinEffort)
	v.SetDefault("events.enabled", cfg.EventsEnabled)
	v.SetDefault("events.file", cfg.EventsFile)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s.yaml: %w", ConfigFileName, err)
	}

	cfg.TasksFile = v.GetString("tasks.file")
	cfg.OutputFormat = models.OutputFormat(strings.ToLower(v.GetString("output.format")))
	cfg.Color = v.GetBool("output.color")
	cfg.DefaultEffort = v.GetInt("defaults.effort")
	cfg.DefaultMinEffort = v.GetInt("defaults.min_effort")
	cfg.EventsEnabled = v.GetBool("events.enabled")
	cfg.EventsFile = v.GetString("events.file")
	cfg.DefaultPrefix = v.GetString("defaults.prefix")

	// Viper lower-cases keys, so pipeline names are matched case-insensitively.
	if v.IsSet("pipelines") {
		raw := v.GetStringMapStringSlice("pipelines")
		cfg.Pipelines = make(map[string][]string, len(raw))
		for name, steps := range raw {
			cfg.Pipelines[name] = steps
		}
	}

	return cfg, nil
}

var validFormats = map[models.OutputFormat]bool{
	models.FormatTable: true,
	models.FormatJSON:  true,
	models.FormatYAML:  true,
}

// ValidateConfig checks cfg and reports every problem in a single error.
func (cm *viperConfigManager) ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if strings.TrimSpace(cfg.TasksFile) == "" {
		errs = append(errs, "tasks.file must not be empty")
	}

	if !validFormats[cfg.OutputFormat] {
		errs = append(errs, fmt.Sprintf(
			"output.format %q is invalid, must be one of: table, json, yaml",
			cfg.OutputFormat,
		))
	}

	if cfg.EventsEnabled && strings.TrimSpace(cfg.EventsFile) == "" {
		errs = append(errs, "events.file must not be empty when events are enabled")
	}

	for _, name := range SortedPipelineNames(cfg.Pipelines) {
		if _, err := ParsePipeline(cfg.Pipelines[name]); err != nil {
			errs = append(errs, fmt.Sprintf("pipelines.%s: %v", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// SortedPipelineNames returns the configured pipeline names in ascending order.
func SortedPipelineNames(pipelines map[string][]string) []string {
	names := make([]string, 0, len(pipelines))
	for name := range pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
