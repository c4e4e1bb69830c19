// Package config loads the project settings from mirascope.ini.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/ini.v1"

	"github.com/mirascope/mirascope-cli/internal/git"
)

const (
	// FileName is the settings file placed at the project root.
	FileName = "mirascope.ini"
	// Section holds every recognised option.
	Section = "mirascope"

	// TemplateFileName is the prompt template inside the mirascope directory.
	TemplateFileName = "prompt_template.tmpl"
	// IndexFileName is the revision index database inside the mirascope directory.
	IndexFileName = "index.db"
)

var (
	// ErrNotInitialized is returned when no settings file can be found.
	ErrNotInitialized = fmt.Errorf("mirascope is not initialized (no %s found); run `mirascope init`: %w", FileName, fs.ErrNotExist)
	// ErrInvalidSettings is returned for malformed settings.
	ErrInvalidSettings = errors.New("invalid settings")
)

// Settings is the resolved project configuration. Locations are relative to Root.
type Settings struct {
	Root              string
	MirascopeLocation string
	VersionFileName   string
	PromptsLocation   string
	VersionsLocation  string
	FormatCommand     string
	AutoTag           bool
}

// Default returns the settings written by init.
func Default() Settings {
	return Settings{
		MirascopeLocation: ".mirascope",
		VersionFileName:   "version.txt",
		PromptsLocation:   "prompts",
		VersionsLocation:  ".mirascope/versions",
		AutoTag:           true,
	}
}

// Path resolves a settings-relative location against the project root.
func (s Settings) Path(location string) string {
	if filepath.IsAbs(location) {
		return location
	}
	return filepath.Join(s.Root, filepath.FromSlash(location))
}

// MirascopeDir returns the absolute metadata directory.
func (s Settings) MirascopeDir() string { return s.Path(s.MirascopeLocation) }

// PromptsDir returns the absolute working prompts directory.
func (s Settings) PromptsDir() string { return s.Path(s.PromptsLocation) }

// VersionsDir returns the absolute versions directory.
func (s Settings) VersionsDir() string { return s.Path(s.VersionsLocation) }

// TemplatePath returns the prompt template location.
func (s Settings) TemplatePath() string {
	return filepath.Join(s.MirascopeDir(), TemplateFileName)
}

// IndexPath returns the revision index database location.
func (s Settings) IndexPath() string {
	return filepath.Join(s.MirascopeDir(), IndexFileName)
}

// SettingsPath returns the settings file for a project root.
func SettingsPath(root string) string {
	return filepath.Join(root, FileName)
}

// UserSettingsPath returns the optional per-user defaults file.
func UserSettingsPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, "mirascope", FileName)
}

// Load reads root/mirascope.ini layered over the per-user defaults file.
func Load(root string) (Settings, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to resolve project root: %w", err)
	}

	projectFile := SettingsPath(absRoot)
	if _, err := os.Stat(projectFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, ErrNotInitialized
		}
		return Settings{}, err
	}

	// format_command separates commands with ';', so inline comments are off.
	file, err := ini.LoadSources(ini.LoadOptions{Loose: true, IgnoreInlineComment: true}, UserSettingsPath(), projectFile)
	if err != nil {
		return Settings{}, fmt.Errorf("%w: %s: %w", ErrInvalidSettings, projectFile, err)
	}

	settings, err := fromSection(file.Section(Section))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", projectFile, err)
	}
	settings.Root = absRoot
	return settings, nil
}

func fromSection(sec *ini.Section) (Settings, error) {
	s := Default()
	stringKeys := map[string]*string{
		"mirascope_location": &s.MirascopeLocation,
		"version_file_name":  &s.VersionFileName,
		"prompts_location":   &s.PromptsLocation,
		"versions_location":  &s.VersionsLocation,
		"format_command":     &s.FormatCommand,
	}
	for name, dst := range stringKeys {
		if !sec.HasKey(name) {
			continue
		}
		*dst = strings.TrimSpace(sec.Key(name).String())
	}

	if sec.HasKey("auto_tag") {
		raw := strings.TrimSpace(sec.Key("auto_tag").String())
		if raw != "" {
			v, err := sec.Key("auto_tag").Bool()
			if err != nil {
				return Settings{}, fmt.Errorf("%w: auto_tag must be a boolean, got %q", ErrInvalidSettings, raw)
			}
			s.AutoTag = v
		}
	}

	for name, value := range map[string]string{
		"mirascope_location": s.MirascopeLocation,
		"version_file_name":  s.VersionFileName,
		"prompts_location":   s.PromptsLocation,
		"versions_location":  s.VersionsLocation,
	} {
		if value == "" {
			return Settings{}, fmt.Errorf("%w: %s must not be empty", ErrInvalidSettings, name)
		}
	}
	if strings.ContainsAny(s.VersionFileName, `/\`) {
		return Settings{}, fmt.Errorf("%w: version_file_name must be a bare file name", ErrInvalidSettings)
	}
	return s, nil
}

// Encode renders settings in the format written by init. The versions
// location is expressed through interpolation when it lives under the
// mirascope directory.
func Encode(s Settings) string {
	versions := s.VersionsLocation
	if rest, ok := strings.CutPrefix(versions, s.MirascopeLocation+"/"); ok {
		versions = "%(mirascope_location)s/" + rest
	}

	var b strings.Builder
	b.WriteString("[" + Section + "]\n")
	b.WriteString("; Directory holding mirascope metadata, relative to this file.\n")
	fmt.Fprintf(&b, "mirascope_location = %s\n", s.MirascopeLocation)
	b.WriteString("; Name of the per-prompt pointer file.\n")
	fmt.Fprintf(&b, "version_file_name = %s\n", s.VersionFileName)
	b.WriteString("; Directory holding the working prompt files.\n")
	fmt.Fprintf(&b, "prompts_location = %s\n", s.PromptsLocation)
	b.WriteString("; Directory holding numbered revisions, one sub-directory per prompt.\n")
	fmt.Fprintf(&b, "versions_location = %s\n", versions)
	b.WriteString("; Commands run on every new revision file, separated by ';'.\n")
	b.WriteString("; Example: ruff check --select I --fix; ruff format\n")
	fmt.Fprintf(&b, "format_command = %s\n", s.FormatCommand)
	b.WriteString("; Add a version tag to the generated header of every revision.\n")
	fmt.Fprintf(&b, "auto_tag = %t\n", s.AutoTag)
	return b.String()
}

// FindRoot walks up from start looking for mirascope.ini. The search stops
// at the enclosing git top-level, or at the filesystem root outside a repository.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	boundary := ""
	if top, ok := git.TopLevel(dir); ok {
		boundary = top
	}

	for {
		if _, err := os.Stat(SettingsPath(dir)); err == nil {
			return dir, nil
		}
		if boundary != "" && sameDir(dir, boundary) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrNotInitialized
}

func sameDir(a, b string) bool {
	if a == b {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}
