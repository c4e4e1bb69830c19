package usecase

import (
	"context"
	"fmt"

	"github.com/mirascope/mirascope-cli/internal/database"
	"github.com/mirascope/mirascope-cli/internal/filesystem"
	mlog "github.com/mirascope/mirascope-cli/internal/log"
	"github.com/mirascope/mirascope-cli/internal/prompt"
	"github.com/mirascope/mirascope-cli/internal/revision"
)

// Log lists the revisions of a prompt in ascending order. Revision files on
// disk are authoritative; index metadata is attached where it exists.
func (u *Prompts) Log(ctx context.Context, name string) ([]prompt.LogEntry, error) {
	logger := mlog.WithOperation(u.logger, prompt.CommandLog.String())

	name, err := prompt.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	numbers, err := u.layout.ListRevisions(name)
	if err != nil {
		return nil, err
	}
	if len(numbers) == 0 && !filesystem.FileExists(u.layout.PromptPath(name)) {
		return nil, fmt.Errorf("%w: %s", prompt.ErrPromptNotFound, u.layout.PromptDisplayPath(name))
	}

	pointer, err := revision.ReadPointer(u.layout.PointerPath(name))
	if err != nil {
		return nil, err
	}

	records := map[int64]database.RevisionRecord{}
	if u.index != nil {
		if records, err = u.index.List(ctx, name); err != nil {
			return nil, err
		}
	}

	entries := make([]prompt.LogEntry, 0, len(numbers))
	for _, n := range numbers {
		path := u.layout.RevisionPath(name, n)
		content, err := filesystem.ReadFile(path)
		if err != nil {
			return nil, err
		}

		entry := prompt.LogEntry{
			Number:    n,
			Path:      u.layout.RevisionDisplayPath(name, n),
			Hash:      filesystem.Hash(content),
			IsCurrent: pointer.Current != nil && *pointer.Current == n,
			IsLatest:  pointer.Latest != nil && *pointer.Latest == n,
		}
		if record, ok := records[int64(n)]; ok {
			entry.Indexed = true
			entry.Message = record.Message
			entry.Branch = record.Branch
			created := record.CreatedAt
			entry.CreatedAt = &created
			if record.Hash != entry.Hash {
				logger.Warn("revision file changed after it was added", "prompt", name, "revision", n.String())
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
