package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/canon/cmd"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/logging"
	"github.com/thoreinstein/canon/internal/mcp"
	"github.com/thoreinstein/canon/internal/quality"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve canon tools over MCP on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout.

The server exposes two tools to MCP clients:

  convert        convert an artifact between dialects
  score_package  rate an artifact for discovery ranking

Logs go to stderr so they never mix with protocol traffic.

Example client entry:
  {"command": "canon", "args": ["mcp"]}`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx := c.Context()
		logger := logging.FromContext(ctx)

		cfg, err := currentConfig()
		if err != nil {
			return err
		}

		h := mcp.NewHandlers(
			newConverter(logger),
			quality.NewScorer(newEvaluator(ctx, cfg, logger)),
			logger,
		)
		logger.Debug("mcp server starting", "version", cmd.Version)
		if err := mcp.Run(h, cmd.Version); err != nil {
			return errors.NewSystemError(err, "")
		}
		return nil
	},
}
