package cli

import (
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskfn/internal/observability"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print tasks in file order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadTasks()
		if err != nil {
			return err
		}
		logOperation(observability.EventTasksListed, list, list, nil)
		return printTasks(cmd, list)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
