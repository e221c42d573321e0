package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/helpdeskhq/waverly/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing knowledge search and assistant tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := buildStack(cfgFile)
		if err != nil {
			return err
		}
		defer st.close()

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "waverly MCP server started on stdio (chunks=%d)\n", st.store.ChunkCount())

		srv := mcpserver.NewServer(st.cfg, st.store, st.responder(nil))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
