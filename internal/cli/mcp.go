package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	taskfnmcp "github.com/valter-silva-au/taskfn/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the taskfn MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the taskfn MCP server on stdio",
	Long: `Start the taskfn MCP server on stdio transport.

The server exposes the task list transformations as MCP tools that AI coding
assistants can call: add_task, sort_tasks, filter_min_effort, prefix_titles,
complete_with_tag, summarize_effort, run_pipeline, get_metrics.

Every tool takes the task list in its input; the server keeps no state.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := taskfnmcp.NewServer(EventLog, MetricsCalc, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
