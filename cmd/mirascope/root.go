package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mirascope/mirascope-cli/internal/config"
	"github.com/mirascope/mirascope-cli/internal/database"
	mlog "github.com/mirascope/mirascope-cli/internal/log"
	"github.com/mirascope/mirascope-cli/internal/prompt"
	"github.com/mirascope/mirascope-cli/internal/services"
	"github.com/mirascope/mirascope-cli/internal/usecase"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	dir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "mirascope",
		Short:        "mirascope - version your prompts",
		Long:         "mirascope keeps numbered revisions of prompt files and tracks which one is checked out.",
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "Project directory (default: search upward for "+config.FileName+")")

	builders := map[prompt.Command]func(*rootOptions) *cobra.Command{
		prompt.CommandInit:   newInitCmd,
		prompt.CommandStatus: newStatusCmd,
		prompt.CommandAdd:    newAddCmd,
		prompt.CommandUse:    newUseCmd,
		prompt.CommandLog:    newLogCmd,
		prompt.CommandMCP:    newMCPCmd,
	}
	for _, name := range prompt.Commands() {
		cmd.AddCommand(builders[name](opts))
	}

	return cmd
}

// newLogger builds the process logger. Console output goes to stderr so
// stdout only carries command results.
func newLogger(cmd *cobra.Command) (*slog.Logger, io.Closer) {
	return mlog.New(mlog.FromEnv(), cmd.ErrOrStderr())
}

// projectDir returns the --dir flag, or the working directory when unset.
func (o *rootOptions) projectDir() (string, error) {
	if o.dir != "" {
		return o.dir, nil
	}
	return os.Getwd()
}

// session is everything a command needs to operate on an initialized project.
type session struct {
	settings config.Settings
	prompts  *usecase.Prompts
	logger   *slog.Logger

	dbCtx     *database.Context
	logCloser io.Closer
}

// open loads the project settings and the revision index.
func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	logger, logCloser := newLogger(cmd)

	root := o.dir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			_ = logCloser.Close()
			return nil, err
		}
		if root, err = config.FindRoot(wd); err != nil {
			_ = logCloser.Close()
			return nil, err
		}
	}

	settings, err := config.Load(root)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}
	logger.Debug("settings loaded", "root", settings.Root)

	dbCtx, err := database.CreateDatabase(settings.IndexPath())
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	return &session{
		settings:  settings,
		prompts:   usecase.NewPrompts(settings, services.NewRevisionService(dbCtx), logger),
		logger:    logger,
		dbCtx:     dbCtx,
		logCloser: logCloser,
	}, nil
}

func (s *session) Close() error {
	return errors.Join(database.CloseDatabase(s.dbCtx), s.logCloser.Close())
}
