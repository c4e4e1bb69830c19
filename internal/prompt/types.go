// Package prompt provides data types for prompt revisions and operations.
package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/mirascope/mirascope-cli/internal/revision"
)

var (
	// ErrPromptNotFound indicates the working prompt file does not exist.
	ErrPromptNotFound = fmt.Errorf("prompt not found: %w", fs.ErrNotExist)
	// ErrRevisionNotFound indicates a requested revision file does not exist.
	ErrRevisionNotFound = fmt.Errorf("revision not found: %w", fs.ErrNotExist)
	// ErrRevisionExists indicates a revision file would be overwritten.
	ErrRevisionExists = fmt.Errorf("revision already exists: %w", fs.ErrExist)
	// ErrAlreadyInitialized indicates init ran against an initialized project.
	ErrAlreadyInitialized = fmt.Errorf("mirascope is already initialized: %w", fs.ErrExist)
	// ErrInvalidPromptName indicates a prompt name that cannot be mapped to a file.
	ErrInvalidPromptName = errors.New("invalid prompt name")
)

// FileExt is the extension of prompt and revision files.
const FileExt = ".py"

// NormalizeName trims an optional file extension and rejects names that
// would escape the prompts directory.
func NormalizeName(name string) (string, error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(name), FileExt)
	switch {
	case trimmed == "", trimmed == ".", trimmed == "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidPromptName, name)
	case strings.ContainsAny(trimmed, `/\`):
		return "", fmt.Errorf("%w: %q contains a path separator", ErrInvalidPromptName, name)
	}
	return trimmed, nil
}

// Revision describes a revision of a prompt, written or about to be written.
type Revision struct {
	Prompt      string
	Number      revision.Number
	Previous    *revision.Number
	Path        string
	DisplayPath string
}

// Status is the change report for one prompt.
type Status struct {
	Prompt  string           `json:"prompt" yaml:"prompt"`
	Current *revision.Number `json:"current,omitempty" yaml:"current,omitempty"`
	Latest  *revision.Number `json:"latest,omitempty" yaml:"latest,omitempty"`
	Changed bool             `json:"changed" yaml:"changed"`
	Next    *revision.Number `json:"next,omitempty" yaml:"next,omitempty"`
	Diff    string           `json:"diff,omitempty" yaml:"diff,omitempty"`
	// Error is set by a multi-prompt report when this prompt could not be checked.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// LogEntry describes a stored revision as listed by the log operation.
type LogEntry struct {
	Number    revision.Number `json:"revision" yaml:"revision"`
	Path      string          `json:"path" yaml:"path"`
	Hash      string          `json:"hash" yaml:"hash"`
	Message   *string         `json:"message,omitempty" yaml:"message,omitempty"`
	Branch    *string         `json:"branch,omitempty" yaml:"branch,omitempty"`
	CreatedAt *time.Time      `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	IsCurrent bool            `json:"current" yaml:"current"`
	IsLatest  bool            `json:"latest" yaml:"latest"`
	Indexed   bool            `json:"indexed" yaml:"indexed"`
}
