package main

import (
	"context"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/mirascope/mirascope-cli/internal/prompt"
)

func newLogCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "log <prompt>",
		Short: "List the revisions of a prompt",
		Args:  cobra.ExactArgs(1),
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

			entries, err := s.prompts.Log(context.Background(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format != formatText {
				return writeStructured(out, format, entries)
			}
			writeLogTable(out, entries, getTerminalWidth(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, json or yaml")

	return cmd
}

const (
	revisionWidth = 8  // "Revision"
	markerWidth   = 15 // "current, latest"
	createdWidth  = 19 // "2006-01-02 15:04:05"
	maxBranch     = 30
	minMessage    = 15
)

// messageWidth is what is left of the terminal once the fixed columns, the
// branch column and table borders (roughly 3 chars per column) are placed.
func messageWidth(termWidth, branchWidth int) int {
	width := termWidth - revisionWidth - markerWidth - createdWidth - branchWidth - 5*3
	if width < minMessage {
		return minMessage
	}
	return width
}

func writeLogTable(out io.Writer, entries []prompt.LogEntry, termWidth int) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Revision", "Pointer", "Created", "Branch", "Message"})

	branchWidth := len("Branch")
	for _, entry := range entries {
		if entry.Branch != nil {
			branchWidth = max(branchWidth, min(runewidth.StringWidth(*entry.Branch), maxBranch))
		}
	}

	width := messageWidth(termWidth, branchWidth)
	for _, entry := range entries {
		var markers []string
		if entry.IsCurrent {
			markers = append(markers, "current")
		}
		if entry.IsLatest {
			markers = append(markers, "latest")
		}

		created := "-"
		if entry.CreatedAt != nil {
			created = entry.CreatedAt.Local().Format("2006-01-02 15:04:05")
		}

		branch := ""
		if entry.Branch != nil {
			branch = runewidth.Truncate(*entry.Branch, maxBranch, "...")
		}

		message := ""
		if entry.Message != nil {
			// Single line per row; the table does not wrap multi-byte text correctly.
			message = strings.Join(strings.Fields(*entry.Message), " ")
		}

		t.AppendRow(table.Row{
			entry.Number.String(),
			strings.Join(markers, ", "),
			created,
			branch,
			runewidth.Truncate(message, width, "..."),
		})
	}

	t.Render()
}
