package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mirascope/mirascope-cli/internal/mcp"
)

func newMCPCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server exposing prompt versioning over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			server, err := mcp.NewServer(s.prompts, s.logger)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			return server.Run(context.Background())
		},
	}

	return cmd
}
