package models

// OutputFormat selects how the CLI renders task lists and summaries.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// Config holds settings read from .taskfn.yaml via Viper.
type Config struct {
	TasksFile        string              `yaml:"tasks_file" mapstructure:"tasks_file"`
	OutputFormat     OutputFormat        `yaml:"output_format" mapstructure:"output_format"`
	Color            bool                `yaml:"color" mapstructure:"color"`
	DefaultEffort    int                 `yaml:"default_effort" mapstructure:"default_effort"`
	DefaultPrefix    string              `yaml:"default_prefix" mapstructure:"default_prefix"`
	DefaultMinEffort int                 `yaml:"default_min_effort" mapstructure:"default_min_effort"`
	EventsEnabled    bool                `yaml:"events_enabled" mapstructure:"events_enabled"`
	EventsFile       string              `yaml:"events_file" mapstructure:"events_file"`
	Pipelines        map[string][]string `yaml:"pipelines,omitempty" mapstructure:"pipelines"`
}
