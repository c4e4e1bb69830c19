package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mirascope/mirascope-cli/internal/prompt"
	"github.com/mirascope/mirascope-cli/internal/revision"
	"github.com/mirascope/mirascope-cli/internal/usecase"
)

func newStatusCmd(root *rootOptions) *cobra.Command {
	var (
		showDiff bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "status [prompt]",
		Short: "Show which prompts changed since their last revision",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			s, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = s.Close()
			}()

			ctx := context.Background()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				status, err := s.prompts.Status(ctx, args[0])
				if err != nil {
					return err
				}
				if !showDiff {
					status.Diff = ""
				}
				if format != formatText {
					return writeStructured(out, format, status)
				}
				writeStatus(out, status)
				return nil
			}

			statuses, err := s.prompts.StatusAll(ctx)
			if err != nil {
				return err
			}
			if !showDiff {
				for i := range statuses {
					statuses[i].Diff = ""
				}
			}
			failed := usecase.Failed(statuses)
			if format != formatText {
				if err := writeStructured(out, format, statuses); err != nil {
					return err
				}
				return failedError(failed)
			}
			if !usecase.AnyChanged(statuses) && len(failed) == 0 {
				fmt.Fprintln(out, "No changes detected.")
				return nil
			}
			writeStatusTable(out, statuses)
			for _, status := range statuses {
				if status.Diff != "" {
					fmt.Fprint(out, status.Diff)
				}
			}
			return failedError(failed)
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show a unified diff for changed prompts")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, json or yaml")

	return cmd
}

func writeStatus(out io.Writer, status *prompt.Status) {
	if !status.Changed {
		fmt.Fprintln(out, "No changes detected.")
		return
	}
	fmt.Fprintf(out, "Prompt %s has changed.\n", status.Prompt)
	if status.Diff != "" {
		fmt.Fprint(out, status.Diff)
	}
}

func writeStatusTable(out io.Writer, statuses []prompt.Status) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Prompt", "Current", "Latest", "Status"})

	for _, status := range statuses {
		state := "unchanged"
		switch {
		case status.Error != "":
			state = "error"
		case status.Changed:
			state = "changed (next " + revision.Format(status.Next, "-") + ")"
		}
		t.AppendRow(table.Row{
			status.Prompt,
			revision.Format(status.Current, "-"),
			revision.Format(status.Latest, "-"),
			state,
		})
	}

	t.Render()
}

// failedError summarizes prompts a multi-prompt report could not check.
func failedError(failed []prompt.Status) error {
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed))
	for _, status := range failed {
		errs = append(errs, fmt.Errorf("%s: %s", status.Prompt, status.Error))
	}
	return fmt.Errorf("status failed for %d prompt(s): %w", len(failed), errors.Join(errs...))
}
