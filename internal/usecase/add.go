package usecase

import (
	"context"

	"github.com/mirascope/mirascope-cli/internal/filesystem"
	"github.com/mirascope/mirascope-cli/internal/git"
	mlog "github.com/mirascope/mirascope-cli/internal/log"
	"github.com/mirascope/mirascope-cli/internal/prompt"
	"github.com/mirascope/mirascope-cli/internal/render"
	"github.com/mirascope/mirascope-cli/internal/revision"
	"github.com/mirascope/mirascope-cli/internal/services"
)

// AddOptions carries optional metadata for a new revision.
type AddOptions struct {
	Message *string
}

// AddResult describes a revision written by Add.
type AddResult struct {
	Revision prompt.Revision
	Hash     string
}

// Add snapshots the working prompt into a new revision. It returns nil when
// the prompt has not changed since its baseline revision.
func (u *Prompts) Add(ctx context.Context, name string, opts AddOptions) (*AddResult, error) {
	logger := mlog.WithOperation(u.logger, prompt.CommandAdd.String())

	name, err := prompt.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	c, err := u.compare(ctx, name)
	if err != nil {
		return nil, err
	}
	if !c.changed {
		logger.Debug("no changes detected", "prompt", name)
		return nil, nil
	}

	next, err := u.nextNumber(ctx, name, c.pointer)
	if err != nil {
		return nil, err
	}
	rev := u.descriptor(name, next, c.baseline)

	renderer, err := render.Load(u.settings.TemplatePath())
	if err != nil {
		return nil, err
	}
	data := render.Data{
		Prompt:         name,
		PrevRevisionID: revision.Format(c.baseline, ""),
		RevisionID:     next.String(),
		Body:           c.workingBody,
	}
	if u.settings.AutoTag {
		data.Tags = []string{"version:" + next.String()}
	}
	content, err := renderer.Render(data)
	if err != nil {
		return nil, err
	}

	hash, err := filesystem.SaveRevision(rev.Path, content)
	if err != nil {
		return nil, err
	}
	logger.Debug("revision written", "prompt", name, "revision", next.String(), "path", rev.DisplayPath)

	if u.settings.FormatCommand != "" {
		if err := render.Format(ctx, u.settings.FormatCommand, u.settings.Root, rev.Path); err != nil {
			logger.Warn("format command failed, revision left unreferenced", "prompt", name, "path", rev.DisplayPath, "error", err)
			return nil, err
		}
		formatted, err := filesystem.ReadFile(rev.Path)
		if err != nil {
			return nil, err
		}
		hash = filesystem.Hash(formatted)
	}

	if err := revision.WritePointer(u.layout.PointerPath(name), c.pointer.Advance(next)); err != nil {
		return nil, err
	}

	if u.index != nil {
		var branch *string
		if info, err := git.GetGitInfo(u.settings.Root); err == nil && info.CurrentBranch != "" && info.CurrentBranch != "HEAD" {
			branch = &info.CurrentBranch
		}
		if _, err := u.index.Record(ctx, services.RecordInput{
			Prompt:     name,
			Revision:   int64(next),
			FilePath:   rev.Path,
			Hash:       hash,
			SourceHash: filesystem.Hash(c.workingBody),
			Message:    opts.Message,
			Branch:     branch,
		}); err != nil {
			return nil, err
		}
	}

	logger.Info("revision added", "prompt", name, "revision", next.String())
	return &AddResult{Revision: rev, Hash: hash}, nil
}
