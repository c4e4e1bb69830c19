package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/mirascope/mirascope-cli/internal/filesystem"
	mlog "github.com/mirascope/mirascope-cli/internal/log"
	"github.com/mirascope/mirascope-cli/internal/prompt"
	"github.com/mirascope/mirascope-cli/internal/revision"
)

// Use copies a stored revision over the working prompt and makes it the
// current revision. The latest revision is left unchanged.
func (u *Prompts) Use(_ context.Context, name string, n revision.Number) (*prompt.Revision, error) {
	logger := mlog.WithOperation(u.logger, prompt.CommandUse.String())

	name, err := prompt.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	if n < revision.First {
		return nil, fmt.Errorf("%w: %d", revision.ErrInvalidNumber, int(n))
	}

	rev := u.descriptor(name, n, nil)
	content, err := filesystem.ReadFile(rev.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", prompt.ErrRevisionNotFound, rev.DisplayPath)
		}
		return nil, err
	}

	pointerPath := u.layout.PointerPath(name)
	pointer, err := revision.ReadPointer(pointerPath)
	if err != nil {
		return nil, err
	}
	rev.Previous = pointer.Current

	if err := filesystem.WriteFile(u.layout.PromptPath(name), content); err != nil {
		return nil, err
	}

	next := pointer.Select(n)
	if next.Latest == nil || *next.Latest < n {
		// The file exists, so its number was assigned even if the pointer never saw it.
		logger.Warn("pointer behind revision files, raising latest", "prompt", name, "revision", n.String())
		next.Latest = revision.Ptr(n)
	}
	if err := revision.WritePointer(pointerPath, next); err != nil {
		return nil, err
	}

	logger.Info("revision restored", "prompt", name, "revision", n.String())
	return &rev, nil
}
