package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskfn/internal/core"
	"github.com/valter-silva-au/taskfn/internal/observability"
	"github.com/valter-silva-au/taskfn/pkg/models"
)

var (
	addID     int
	addTitle  string
	addTags   []string
	addEffort int
	addDone   bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Print the task list with a new task appended",
	Long: `Append a task to the end of the list and print the result.

The task file is not modified. Ids are not checked for uniqueness. When
--effort is omitted, defaults.effort from the config is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addTitle == "" {
			return fmt.Errorf("--title is required")
		}

		list, err := loadTasks()
		if err != nil {
			return err
		}

		effort := activeConfig().DefaultEffort
		if cmd.Flags().Changed("effort") {
			effort = addEffort
		}

		task := models.NewTask(addID, addTitle,
			models.WithTags(addTags...),
			models.WithEffort(effort),
			models.WithDone(addDone),
		)
		out := core.AddTask(list, task)
		logOperation(observability.EventTaskAdded, list, out, map[string]any{"id": addID})
		return printTasks(cmd, out)
	},
}

func init() {
	addCmd.Flags().IntVar(&addID, "id", 0, "Task id")
	addCmd.Flags().StringVar(&addTitle, "title", "", "Task title")
	addCmd.Flags().StringArrayVar(&addTags, "tag", nil, "Tag to attach (repeatable)")
	addCmd.Flags().IntVar(&addEffort, "effort", models.DefaultEffort, "Task effort (default from defaults.effort)")
	addCmd.Flags().BoolVar(&addDone, "done", false, "Mark the new task as done")
	rootCmd.AddCommand(addCmd)
}
