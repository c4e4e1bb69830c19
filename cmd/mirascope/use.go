package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mirascope/mirascope-cli/internal/revision"
)

func newUseCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <prompt> <revision>",
		Short: "Check out a stored revision into the working prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := revision.Parse(args[1])
			if err != nil {
				return err
			}

			s, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			_, err = s.prompts.Use(context.Background(), args[0], n)
			return err
		},
	}

	return cmd
}
