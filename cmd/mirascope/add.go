package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mirascope/mirascope-cli/internal/usecase"
)

func newAddCmd(root *rootOptions) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "add <prompt>",
		Short: "Save the working prompt as a new revision",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			var opts usecase.AddOptions
			if strings.TrimSpace(message) != "" {
				m := message
				opts.Message = &m
			}

			result, err := s.prompts.Add(context.Background(), args[0], opts)
			if err != nil {
				return err
			}
			if result == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes detected.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Adding %s\n", result.Revision.DisplayPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Note stored with the revision")

	return cmd
}
