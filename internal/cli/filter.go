package cli

import (
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskfn/internal/core"
	"github.com/valter-silva-au/taskfn/internal/observability"
)

var (
	filterMinEffort int
	filterTag       string
	filterPending   bool
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Print tasks matching every given condition",
	Long: `Print the tasks whose effort is at least --min-effort, in file order.

--min-effort defaults to defaults.min_effort from the config. --tag and
--pending narrow the result further.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadTasks()
		if err != nil {
			return err
		}

		minEffort := activeConfig().DefaultMinEffort
		if cmd.Flags().Changed("min-effort") {
			minEffort = filterMinEffort
		}

		preds := []core.Predicate{core.MakeMinEffortPredicate(minEffort)}
		if filterTag != "" {
			preds = append(preds, core.HasTag(filterTag))
		}
		if filterPending {
			preds = append(preds, core.Not(core.IsDone))
		}

		out := core.FilterTasks(list, core.All(preds...))
		logOperation(observability.EventTasksFiltered, list, out, map[string]any{
			"min_effort": minEffort,
			"tag":        filterTag,
			"pending":    filterPending,
		})
		return printTasks(cmd, out)
	},
}

func init() {
	filterCmd.Flags().IntVar(&filterMinEffort, "min-effort", 0, "Minimum effort (default from defaults.min_effort)")
	filterCmd.Flags().StringVar(&filterTag, "tag", "", "Only keep tasks carrying this tag")
	filterCmd.Flags().BoolVar(&filterPending, "pending", false, "Only keep tasks that are not done")
	rootCmd.AddCommand(filterCmd)
}
