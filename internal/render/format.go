package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrFormatFailed indicates a configured format command exited unsuccessfully.
var ErrFormatFailed = errors.New("format command failed")

// ParseFormatCommand splits "ruff check --fix; ruff format" into separate argument lists.
func ParseFormatCommand(command string) [][]string {
	var commands [][]string
	for _, part := range strings.Split(command, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		commands = append(commands, fields)
	}
	return commands
}

// Format runs every configured command with path appended, in order, from dir.
func Format(ctx context.Context, command, dir, path string) error {
	for _, args := range ParseFormatCommand(command) {
		//nolint:gosec // G204: commands come from the project settings file
		cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
		cmd.Dir = dir
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			detail := strings.TrimSpace(stderr.String())
			if detail != "" {
				return fmt.Errorf("%w: %s: %w: %s", ErrFormatFailed, strings.Join(args, " "), err, detail)
			}
			return fmt.Errorf("%w: %s: %w", ErrFormatFailed, strings.Join(args, " "), err)
		}
	}
	return nil
}
