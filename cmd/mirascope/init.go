package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mirascope/mirascope-cli/internal/prompt"
	"github.com/mirascope/mirascope-cli/internal/usecase"
)

func newInitCmd(root *rootOptions) *cobra.Command {
	var (
		mirascopeLocation string
		promptsLocation   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize mirascope in the project directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := root.projectDir()
			if err != nil {
				return err
			}

			logger, closer := newLogger(cmd)
			defer func() {
				_ = closer.Close()
			}()

			result, err := usecase.Init(dir, usecase.InitOptions{
				MirascopeLocation: mirascopeLocation,
				PromptsLocation:   promptsLocation,
			}, logger)
			if err != nil {
				if errors.Is(err, prompt.ErrAlreadyInitialized) {
					// Reported, but not a failure of the process.
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return nil
				}
				return err
			}

			for _, path := range result.Created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mirascopeLocation, "mirascope-location", "", "Metadata directory (default .mirascope)")
	cmd.Flags().StringVar(&promptsLocation, "prompts-location", "", "Working prompts directory (default prompts)")

	return cmd
}
