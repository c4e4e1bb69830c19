package usecase

import (
	"context"

	mlog "github.com/mirascope/mirascope-cli/internal/log"
	"github.com/mirascope/mirascope-cli/internal/prompt"
)

// Status reports whether a prompt changed since its baseline revision.
func (u *Prompts) Status(ctx context.Context, name string) (*prompt.Status, error) {
	name, err := prompt.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	c, err := u.compare(ctx, name)
	if err != nil {
		return nil, err
	}

	status := &prompt.Status{
		Prompt:  name,
		Current: c.pointer.Current,
		Latest:  c.pointer.Latest,
		Changed: c.changed,
	}
	if c.changed {
		next, err := u.nextNumber(ctx, name, c.pointer)
		if err != nil {
			return nil, err
		}
		status.Next = &next
		status.Diff = u.diff(c)
	}
	return status, nil
}

// StatusAll reports every prompt in the prompts directory in lexicographic
// order. A prompt that cannot be checked is reported with its Error set and
// does not stop the report.
func (u *Prompts) StatusAll(ctx context.Context) ([]prompt.Status, error) {
	logger := mlog.WithOperation(u.logger, prompt.CommandStatus.String())

	names, err := u.layout.ListPrompts()
	if err != nil {
		return nil, err
	}

	result := make([]prompt.Status, 0, len(names))
	for _, name := range names {
		status, err := u.Status(ctx, name)
		if err != nil {
			logger.Warn("failed to compute status", "prompt", name, "error", err)
			result = append(result, prompt.Status{Prompt: name, Error: err.Error()})
			continue
		}
		result = append(result, *status)
	}
	logger.Debug("status computed", "prompts", len(result))
	return result, nil
}

// AnyChanged reports whether at least one status is marked changed.
func AnyChanged(statuses []prompt.Status) bool {
	for _, s := range statuses {
		if s.Changed {
			return true
		}
	}
	return false
}

// Failed returns the statuses that could not be computed.
func Failed(statuses []prompt.Status) []prompt.Status {
	var failed []prompt.Status
	for _, s := range statuses {
		if s.Error != "" {
			failed = append(failed, s)
		}
	}
	return failed
}
