package main

import (
	"github.com/spf13/cobra"

	"github.com/synthlab-io/synthlab/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `Starts an MCP (Model Context Protocol) server exposing synthlab's
simulation, sensitivity, and exploration operations as tools for AI
agents. The server speaks JSON-RPC over stdin/stdout and blocks until
the client disconnects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadAppConfig(cmd)
			if err != nil {
				return err
			}
			root, _ := cmd.Flags().GetString("root")

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "synthlab",
				Version: version,
				Root:    root,
				App:     cfg,
				Logger:  logger,
			})
			if err != nil {
				return err
			}
			return server.Run(cmd.Context())
		},
	}
}
