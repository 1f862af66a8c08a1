package cmd

import (
	"github.com/huangsam/utilstudy/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the utilstudy MCP server",
	Long:  `Launch an MCP server that lets AI agents classify paths, compute odds ratios and read study outputs via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// No status lines are printed here: stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
