package cli

import (
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskfn/internal/core"
	"github.com/valter-silva-au/taskfn/internal/observability"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print total effort per tag",
	Long: `Print the total effort per tag.

A task contributes its full effort to every tag it carries. Tags that
appear on no task are not listed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadTasks()
		if err != nil {
			return err
		}
		totals := core.SummarizeEffortByTag(list)
		logOperation(observability.EventTasksSummarized, list, list, map[string]any{"tags": len(totals)})
		return printSummary(cmd, totals)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
