package cli

import (
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/taskfn/internal/core"
	"github.com/valter-silva-au/taskfn/internal/observability"
)

var prefixText string

var prefixCmd = &cobra.Command{
	Use:   "prefix",
	Short: "Print tasks with a prefix prepended to every title",
	Long: `Prepend --prefix to every title and print the result.

The prefix is used verbatim, with no separator added. It defaults to
defaults.prefix from the config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadTasks()
		if err != nil {
			return err
		}

		prefix := activeConfig().DefaultPrefix
		if cmd.Flags().Changed("prefix") {
			prefix = prefixText
		}

		out := core.MapTasks(list, core.MakeTitlePrefixer(prefix))
		logOperation(observability.EventTasksMapped, list, out, map[string]any{"prefix": prefix})
		return printTasks(cmd, out)
	},
}

func init() {
	prefixCmd.Flags().StringVar(&prefixText, "prefix", "", "Prefix to prepend (default from defaults.prefix)")
	rootCmd.AddCommand(prefixCmd)
}
