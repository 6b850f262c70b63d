package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// Global flags shared by every task command.
var (
	fileFlag   string
	formatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "taskfn",
	Short: "taskfn - immutable task list transformations",
	Long: `taskfn reads a YAML task list and applies pure transformations
to it: appending, sorting by title, filtering, retitling, completing by tag,
and summarizing effort per tag.

The task file is never rewritten. Commands print their result, and
several steps can be combined in one call with "taskfn run".`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "taskfn %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&fileFlag, "file", "f", "", "Task file to read (overrides tasks.file)")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "o", "", "Output format: table, json, or yaml (overrides output.format)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. A failing command is recorded in the
// event log before its error is returned.
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		logFailure(cmd, err)
	}
	return err
}
