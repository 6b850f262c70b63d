package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskfn/internal/core"
	"github.com/valter-silva-au/taskfn/internal/observability"
)

var (
	runPipelineName string
	runList         bool
)

var runCmd = &cobra.Command{
	Use:   "run [step...]",
	Short: "Apply a sequence of steps to the task list",
	Long: `Apply steps to the task list in order and print the result.

Steps come from the arguments or from a named pipeline in the config
(--pipeline). Supported steps:

  sort             sort by title, ignoring case
  min-effort=N     keep tasks with effort >= N
  tag=T            keep tasks carrying tag T
  pending          keep tasks that are not done
  done             keep tasks that are done
  prefix=P         prepend P to every title
  complete=T       mark tasks carrying tag T as done

Use --list to display the configured pipelines.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := activeConfig()

		if runList {
			names := core.SortedPipelineNames(cfg.Pipelines)
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pipelines configured.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configured pipelines:")
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %s\n", name, strings.Join(cfg.Pipelines[name], " | "))
			}
			return nil
		}

		steps := args
		if runPipelineName != "" {
			if len(args) > 0 {
				return fmt.Errorf("use either step arguments or --pipeline, not both")
			}
			// Viper lower-cases map keys.
			named, ok := cfg.Pipelines[strings.ToLower(runPipelineName)]
			if !ok {
				return fmt.Errorf("pipeline %q not found in config", runPipelineName)
			}
			steps = named
		}
		if len(steps) == 0 {
			return fmt.Errorf("no steps given; pass steps as arguments or use --pipeline")
		}

		p, err := core.ParsePipeline(steps)
		if err != nil {
			return fmt.Errorf("parsing pipeline: %w", err)
		}

		list, err := loadTasks()
		if err != nil {
			return err
		}

		out := p.Apply(list)
		logOperation(observability.EventPipelineRun, list, out, map[string]any{
			"steps":    p.Steps(),
			"pipeline": runPipelineName,
		})
		return printTasks(cmd, out)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runPipelineName, "pipeline", "p", "", "Run a named pipeline from the config")
	runCmd.Flags().BoolVarP(&runList, "list", "l", false, "List configured pipelines")
	rootCmd.AddCommand(runCmd)
}
