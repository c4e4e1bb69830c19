// Package usecase implements the prompt versioning operations.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/mirascope/mirascope-cli/internal/config"
	"github.com/mirascope/mirascope-cli/internal/filesystem"
	mlog "github.com/mirascope/mirascope-cli/internal/log"
	"github.com/mirascope/mirascope-cli/internal/prompt"
	"github.com/mirascope/mirascope-cli/internal/render"
	"github.com/mirascope/mirascope-cli/internal/revision"
	"github.com/mirascope/mirascope-cli/internal/services"
)

// Prompts runs versioning operations against one project.
type Prompts struct {
	settings config.Settings
	layout   filesystem.Layout
	index    *services.RevisionService
	logger   *slog.Logger
}

// NewPrompts creates the use case. index may be nil, in which case no
// revision metadata is recorded or consulted.
func NewPrompts(settings config.Settings, index *services.RevisionService, logger *slog.Logger) *Prompts {
	if logger == nil {
		logger = mlog.Discard()
	}
	return &Prompts{
		settings: settings,
		layout:   filesystem.NewLayout(settings),
		index:    index,
		logger:   mlog.WithComponent(logger, "usecase"),
	}
}

// Layout exposes the on-disk layout used by the use case.
func (u *Prompts) Layout() filesystem.Layout {
	return u.layout
}

// comparison is the outcome of checking a working prompt against its baseline revision.
type comparison struct {
	name        string
	pointer     revision.Pointer
	baseline    *revision.Number
	workingBody string
	baseBody    string
	changed     bool
}

// baselineOf returns the revision the working file is compared against: the
// current revision, or the latest one when no current revision is recorded.
func baselineOf(p revision.Pointer) *revision.Number {
	if p.Current != nil {
		return p.Current
	}
	return p.Latest
}

func (u *Prompts) compare(ctx context.Context, name string) (*comparison, error) {
	working, err := filesystem.ReadFile(u.layout.PromptPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", prompt.ErrPromptNotFound, u.layout.PromptDisplayPath(name))
		}
		return nil, err
	}

	pointer, err := revision.ReadPointer(u.layout.PointerPath(name))
	if err != nil {
		return nil, err
	}

	c := &comparison{
		name:        name,
		pointer:     pointer,
		baseline:    baselineOf(pointer),
		workingBody: render.StripHeader(working),
	}
	if c.baseline == nil {
		c.changed = true
		return c, nil
	}

	stored, err := filesystem.ReadFile(u.layout.RevisionPath(name, *c.baseline))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", prompt.ErrRevisionNotFound, u.layout.RevisionDisplayPath(name, *c.baseline))
		}
		return nil, err
	}
	c.baseBody = render.StripHeader(stored)

	if c.baseBody == c.workingBody {
		return c, nil
	}

	// A formatter may have rewritten the stored revision; the index keeps the
	// fingerprint of the body it was created from.
	if u.index != nil {
		record, err := u.index.Get(ctx, name, int64(*c.baseline))
		switch {
		case err == nil:
			if record.SourceHash == filesystem.Hash(c.workingBody) {
				return c, nil
			}
		case errors.Is(err, services.ErrNotFound):
		default:
			return nil, err
		}
	}

	c.changed = true
	return c, nil
}

// nextNumber returns the number of the next revision. Revision files left
// behind by an interrupted add are skipped. Numbers the index assigned are
// skipped only while the prompt still has revisions; a prompt whose versions
// were removed starts again at First.
func (u *Prompts) nextNumber(ctx context.Context, name string, pointer revision.Pointer) (revision.Number, error) {
	next := revision.NextAfter(pointer.Latest)

	onDisk, err := u.layout.ListRevisions(name)
	if err != nil {
		return 0, err
	}
	if len(onDisk) > 0 {
		if highest := onDisk[len(onDisk)-1]; highest >= next {
			u.logger.Warn("skipping orphan revision files", "prompt", name, "latest", revision.Format(pointer.Latest, "none"), "highest_on_disk", highest.String())
			next = highest.Next()
		}
	}

	if u.index != nil && (pointer.Latest != nil || len(onDisk) > 0) {
		indexed, err := u.index.LatestIndexed(ctx, name)
		if err != nil {
			return 0, err
		}
		if revision.Number(indexed) >= next {
			u.logger.Warn("skipping revisions known only to the index", "prompt", name, "highest_indexed", revision.Number(indexed).String())
			next = revision.Number(indexed).Next()
		}
	}
	return next, nil
}

func (u *Prompts) descriptor(name string, n revision.Number, previous *revision.Number) prompt.Revision {
	return prompt.Revision{
		Prompt:      name,
		Number:      n,
		Previous:    previous,
		Path:        u.layout.RevisionPath(name, n),
		DisplayPath: u.layout.RevisionDisplayPath(name, n),
	}
}

// ComputeStatus returns the revision that add would create, or nil when the
// working prompt matches its baseline revision.
func (u *Prompts) ComputeStatus(ctx context.Context, name string) (*prompt.Revision, error) {
	name, err := prompt.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	c, err := u.compare(ctx, name)
	if err != nil {
		return nil, err
	}
	if !c.changed {
		return nil, nil
	}

	next, err := u.nextNumber(ctx, name, c.pointer)
	if err != nil {
		return nil, err
	}
	rev := u.descriptor(name, next, c.baseline)
	return &rev, nil
}

func (u *Prompts) diff(c *comparison) string {
	if c.baseline == nil || !c.changed {
		return ""
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(c.baseBody),
		B:        difflib.SplitLines(c.workingBody),
		FromFile: u.layout.RevisionDisplayPath(c.name, *c.baseline),
		ToFile:   u.layout.PromptDisplayPath(c.name),
		Context:  3,
	})
	if err != nil {
		u.logger.Warn("failed to compute diff", "prompt", c.name, "error", err)
		return ""
	}
	return text
}
