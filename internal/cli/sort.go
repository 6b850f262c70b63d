package cli

import (
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskfn/internal/core"
	"github.com/valter-silva-au/taskfn/internal/observability"
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Print tasks sorted by title",
	Long: `Print tasks sorted by title, ignoring case.

Tasks whose titles compare equal keep their file order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadTasks()
		if err != nil {
			return err
		}
		sorted := core.SortTasksByTitle(list)
		logOperation(observability.EventTasksSorted, list, sorted, nil)
		return printTasks(cmd, sorted)
	},
}

func init() {
	rootCmd.AddCommand(sortCmd)
}
