package usecase

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mirascope/mirascope-cli/internal/config"
	"github.com/mirascope/mirascope-cli/internal/database"
	"github.com/mirascope/mirascope-cli/internal/filesystem"
	mlog "github.com/mirascope/mirascope-cli/internal/log"
	"github.com/mirascope/mirascope-cli/internal/prompt"
	"github.com/mirascope/mirascope-cli/internal/render"
)

// InitOptions overrides the default locations written by Init. Empty fields keep the defaults.
type InitOptions struct {
	MirascopeLocation string
	PromptsLocation   string
}

// InitResult lists what Init created, relative to the project root.
type InitResult struct {
	Settings config.Settings
	Created  []string
}

// Init lays out a new project under root. It refuses to touch a project that
// already has a settings file.
func Init(root string, opts InitOptions, logger *slog.Logger) (*InitResult, error) {
	if logger == nil {
		logger = mlog.Discard()
	}
	logger = mlog.WithOperation(mlog.WithComponent(logger, "usecase"), prompt.CommandInit.String())

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	settingsPath := config.SettingsPath(absRoot)
	if _, err := os.Stat(settingsPath); err == nil {
		return nil, fmt.Errorf("%w: %s", prompt.ErrAlreadyInitialized, settingsPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	settings := config.Default()
	settings.Root = absRoot
	if loc := cleanLocation(opts.MirascopeLocation); loc != "" {
		settings.MirascopeLocation = loc
		settings.VersionsLocation = path.Join(loc, "versions")
	}
	if loc := cleanLocation(opts.PromptsLocation); loc != "" {
		settings.PromptsLocation = loc
	}

	result := &InitResult{Settings: settings}
	for _, dir := range []struct{ location, abs string }{
		{settings.MirascopeLocation, settings.MirascopeDir()},
		{settings.VersionsLocation, settings.VersionsDir()},
		{settings.PromptsLocation, settings.PromptsDir()},
	} {
		if err := os.MkdirAll(dir.abs, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir.location, err)
		}
		result.Created = append(result.Created, dir.location+"/")
	}

	files := []struct{ display, abs, content string }{
		{path.Join(settings.MirascopeLocation, config.TemplateFileName), settings.TemplatePath(), render.DefaultTemplate},
		{path.Join(settings.PromptsLocation, "__init__"+prompt.FileExt), filepath.Join(settings.PromptsDir(), "__init__"+prompt.FileExt), ""},
	}
	for _, f := range files {
		if filesystem.FileExists(f.abs) {
			logger.Debug("keeping existing file", "path", f.display)
			continue
		}
		if err := filesystem.WriteFile(f.abs, f.content); err != nil {
			return nil, err
		}
		result.Created = append(result.Created, f.display)
	}

	dbCtx, err := database.CreateDatabase(settings.IndexPath())
	if err != nil {
		return nil, err
	}
	if err := database.CloseDatabase(dbCtx); err != nil {
		return nil, err
	}
	result.Created = append(result.Created, path.Join(settings.MirascopeLocation, config.IndexFileName))

	// Written last so a failed init can simply be re-run.
	if err := filesystem.WriteFile(settingsPath, config.Encode(settings)); err != nil {
		return nil, err
	}
	result.Created = append(result.Created, config.FileName)

	logger.Info("project initialized", "root", absRoot)
	return result, nil
}

func cleanLocation(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return ""
	}
	return path.Clean(filepath.ToSlash(location))
}
