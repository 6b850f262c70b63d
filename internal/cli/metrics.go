package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	taskfnmcp "github.com/valter-silva-au/taskfn/internal/mcp"
	"github.com/valter-silva-au/taskfn/pkg/models"
	"gopkg.in/yaml.v3"
)

var metricsSince string

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display operation metrics",
	Long: `Display aggregated metrics derived from the event log.

Metrics include the number of operations by type, the tasks they read and
produced, error events, and the time range covered.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (observability may be disabled)")
		}

		sinceTime, err := parseSinceDuration(metricsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		format, err := outputFormat()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch format {
		case models.FormatJSON:
			return newRenderer(out, format, false).writeJSON(metrics)
		case models.FormatYAML:
			data, err := yaml.Marshal(metrics)
			if err != nil {
				return fmt.Errorf("formatting metrics as YAML: %w", err)
			}
			_, err = out.Write(data)
			return err
		}

		// Table format.
		fmt.Fprintf(out, "Metrics (since %s)\n\n", sinceTime.Format("2006-01-02"))
		fmt.Fprintf(out, "  %-24s %d\n", "Events recorded:", metrics.EventCount)
		fmt.Fprintf(out, "  %-24s %d\n", "Operations:", metrics.Operations)
		fmt.Fprintf(out, "  %-24s %d\n", "Tasks in:", metrics.TasksIn)
		fmt.Fprintf(out, "  %-24s %d\n", "Tasks out:", metrics.TasksOut)
		fmt.Fprintf(out, "  %-24s %d\n", "Errors:", metrics.Errors)
		fmt.Fprintf(out, "  %-24s %d\n", "Warnings:", metrics.Warnings)

		if len(metrics.OperationsByType) > 0 {
			fmt.Fprintln(out, "\n  Operations by type:")
			types := make([]string, 0, len(metrics.OperationsByType))
			for opType := range metrics.OperationsByType {
				types = append(types, opType)
			}
			sort.Strings(types)
			for _, opType := range types {
				fmt.Fprintf(out, "    %-22s %d\n", opType+":", metrics.OperationsByType[opType])
			}
		}

		if len(metrics.ErrorsByType) > 0 {
			fmt.Fprintln(out, "\n  Errors by type:")
			types := make([]string, 0, len(metrics.ErrorsByType))
			for errType := range metrics.ErrorsByType {
				types = append(types, errType)
			}
			sort.Strings(types)
			for _, errType := range types {
				fmt.Fprintf(out, "    %-22s %d\n", errType+":", metrics.ErrorsByType[errType])
			}
		}

		if metrics.OldestEvent != nil {
			fmt.Fprintf(out, "\n  %-24s %s\n", "Oldest event:", metrics.OldestEvent.Format(time.RFC3339))
		}
		if metrics.NewestEvent != nil {
			fmt.Fprintf(out, "  %-24s %s\n", "Newest event:", metrics.NewestEvent.Format(time.RFC3339))
		}

		return nil
	},
}

// parseSinceDuration parses a human-friendly duration string like "7d", "30d",
// or "24h" and returns the corresponding time in the past. An empty string
// means the last seven days.
func parseSinceDuration(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().UTC().AddDate(0, 0, -7), nil
	}
	return taskfnmcp.ParseSince(s)
}

func init() {
	metricsCmd.Flags().StringVar(&metricsSince, "since", "7d", "Time window for metrics (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(metricsCmd)
}
