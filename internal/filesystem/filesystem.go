// Package filesystem provides the on-disk layout for prompts and their revisions.
package filesystem

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mirascope/mirascope-cli/internal/config"
	"github.com/mirascope/mirascope-cli/internal/prompt"
	"github.com/mirascope/mirascope-cli/internal/revision"
)

// Layout maps prompts and revisions to paths under the configured locations.
type Layout struct {
	settings config.Settings
}

// NewLayout creates a Layout for the given settings.
func NewLayout(settings config.Settings) Layout {
	return Layout{settings: settings}
}

// PromptPath returns the working file of a prompt.
func (l Layout) PromptPath(name string) string {
	return filepath.Join(l.settings.PromptsDir(), name+prompt.FileExt)
}

// PromptDisplayPath returns the prompt path as configured, relative to the project root.
func (l Layout) PromptDisplayPath(name string) string {
	return l.settings.PromptsLocation + "/" + name + prompt.FileExt
}

// RevisionDir returns the directory holding every revision of a prompt.
func (l Layout) RevisionDir(name string) string {
	return filepath.Join(l.settings.VersionsDir(), name)
}

// RevisionPath returns the file of one revision.
func (l Layout) RevisionPath(name string, n revision.Number) string {
	return filepath.Join(l.RevisionDir(name), revisionFileName(name, n))
}

// RevisionDisplayPath returns the revision path as configured, relative to the project root.
func (l Layout) RevisionDisplayPath(name string, n revision.Number) string {
	return l.settings.VersionsLocation + "/" + name + "/" + revisionFileName(name, n)
}

// PointerPath returns the version pointer file of a prompt.
func (l Layout) PointerPath(name string) string {
	return filepath.Join(l.RevisionDir(name), l.settings.VersionFileName)
}

func revisionFileName(name string, n revision.Number) string {
	return n.String() + "_" + name + prompt.FileExt
}

// SaveRevision writes content to path and returns its hash. The file must not exist yet.
func SaveRevision(path, content string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", err
	}

	//nolint:gosec // G304: path is derived from settings
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", prompt.ErrRevisionExists, path)
		}
		return "", err
	}

	if _, err := file.WriteString(content); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return Hash(content), nil
}

// WriteFile replaces the file at path, creating parent directories as needed.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// ReadFile reads a file from disk and returns its contents as a string.
func ReadFile(path string) (string, error) {
	//nolint:gosec // G304: path is derived from settings
	bytes, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// FileExists reports whether the given path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Hash returns the hex encoded SHA-256 of content.
func Hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ListRevisions returns the revision numbers stored for a prompt in ascending order.
// Files that do not follow the NNNN_<name>.py pattern are ignored.
func (l Layout) ListRevisions(name string) ([]revision.Number, error) {
	entries, err := os.ReadDir(l.RevisionDir(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	suffix := "_" + name + prompt.FileExt
	var numbers []revision.Number
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		prefix, ok := strings.CutSuffix(entry.Name(), suffix)
		if !ok {
			continue
		}
		n, err := revision.Parse(prefix)
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers, nil
}

// ListPrompts returns the names of every prompt in the prompts directory, sorted lexicographically.
func (l Layout) ListPrompts() ([]string, error) {
	entries, err := os.ReadDir(l.settings.PromptsDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), prompt.FileExt)
		if !ok || name == "" || name == "__init__" {
			continue
		}
		if normalized, err := prompt.NormalizeName(name); err != nil || normalized != name {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}
