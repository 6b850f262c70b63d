package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskfn/internal/core"
	"github.com/valter-silva-au/taskfn/internal/observability"
)

var completeTag string

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Print tasks with every task carrying a tag marked done",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if completeTag == "" {
			return fmt.Errorf("--tag is required")
		}

		list, err := loadTasks()
		if err != nil {
			return err
		}

		out := core.CompleteAllWithTag(list, completeTag)
		logOperation(observability.EventTasksCompleted, list, out, map[string]any{"tag": completeTag})
		return printTasks(cmd, out)
	},
}

func init() {
	completeCmd.Flags().StringVar(&completeTag, "tag", "", "Tag whose tasks are marked done")
	rootCmd.AddCommand(completeCmd)
}
