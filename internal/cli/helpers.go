package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskfn/internal/core"
	"github.com/valter-silva-au/taskfn/internal/observability"
	"github.com/valter-silva-au/taskfn/internal/storage"
	"github.com/valter-silva-au/taskfn/pkg/models"
)

// activeConfig returns the loaded configuration, or the defaults when the
// CLI runs without app wiring.
func activeConfig() *models.Config {
	if Config != nil {
		return Config
	}
	return core.DefaultConfig()
}

// taskFilePath resolves the task file from --file or tasks.file. Relative
// paths from the config are taken against BasePath; --file is used as given.
func taskFilePath() string {
	if fileFlag != "" {
		return fileFlag
	}
	path := activeConfig().TasksFile
	if filepath.IsAbs(path) || BasePath == "" {
		return path
	}
	return filepath.Join(BasePath, path)
}

// loadTasks reads the task list the current command operates on.
func loadTasks() (models.TaskList, error) {
	path := taskFilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) && EventLog != nil {
		_ = EventLog.Write(observability.WarnEvent(observability.EventTaskFileMissing,
			"task file not found, using an empty list", map[string]any{"path": path}))
	}
	list, err := storage.LoadTaskFile(path)
	if err != nil {
		return models.TaskList{}, fmt.Errorf("reading tasks from %s: %w", path, err)
	}
	return list, nil
}

// outputFormat resolves the render format from --format or output.format.
func outputFormat() (models.OutputFormat, error) {
	format := models.OutputFormat(formatFlag)
	if format == "" {
		format = activeConfig().OutputFormat
	}
	switch format {
	case "":
		return models.FormatTable, nil
	case models.FormatTable, models.FormatJSON, models.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json, or yaml)", format)
	}
}

// logOperation records an operation in the event log. Failures are ignored.
func logOperation(eventType string, in, out models.TaskList, extra map[string]any) {
	if EventLog == nil {
		return
	}
	_ = EventLog.Write(observability.OperationEvent(eventType, in.Len(), out.Len(), extra))
}

// logFailure records a command.failed event for err. Failures are ignored.
func logFailure(cmd *cobra.Command, err error) {
	if EventLog == nil {
		return
	}
	extra := map[string]any{"command": cmd.CommandPath()}
	_ = EventLog.Write(observability.ErrorEvent(observability.EventCommandFailed, err, extra))
}

// printTasks renders list to the command's output in the active format.
func printTasks(cmd *cobra.Command, list models.TaskList) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	return newRenderer(cmd.OutOrStdout(), format, activeConfig().Color).Tasks(list)
}

// printSummary renders per-tag totals to the command's output.
func printSummary(cmd *cobra.Command, totals map[string]int) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	return newRenderer(cmd.OutOrStdout(), format, activeConfig().Color).Summary(totals)
}
