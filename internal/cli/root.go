// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/framesh/internal/commands"
	"github.com/jeranaias/framesh/internal/config"
	"github.com/jeranaias/framesh/internal/docframe"
	"github.com/jeranaias/framesh/internal/logging"
	"github.com/jeranaias/framesh/internal/repl"
	"github.com/jeranaias/framesh/internal/session"
)

// rootFlags holds the persistent and root-only flags.
type rootFlags struct {
	configPath string
	prefix     string
	logLevel   string
	noColor    bool
	exec       []string
}

// Execute runs the command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the framesh command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "framesh [document]",
		Short: "An interactive shell for exploring structured documents",
		Long: `framesh opens a JSON, YAML or TOML document and lets you move through it
like a filesystem. Lines are either commands (cd, ls, whereami, help, ...)
or expressions evaluated in the current frame.

Paths given to cd are /-separated expressions:
  cd servers/[0]     move into the first server
  cd ..              go up one frame
  cd /               back to the root
  cd ::              to the configured toplevel frame
  cd -               back to where you were before the last cd`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, flags, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.framesh/config.toml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	f := cmd.Flags()
	f.StringVar(&flags.prefix, "prefix", "", "global command prefix")
	f.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	f.StringArrayVarP(&flags.exec, "exec", "e", nil, "run a line and exit (repeatable)")

	cmd.AddCommand(newConfigCmd(flags), newVersionCmd())
	return cmd
}

// path resolves the --config flag or the default location.
func (f *rootFlags) path() (string, error) {
	if f.configPath != "" {
		return f.configPath, nil
	}
	return config.ConfigPath()
}

// loadConfig reads the config file and applies command line overrides.
func (f *rootFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case f.configPath == "":
		cfg, err = config.Load()
	case fileExists(f.configPath):
		cfg, err = config.LoadFromPath(f.configPath)
	default:
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("prefix") {
		cfg.Commands.Prefix = f.prefix
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.noColor {
		cfg.REPL.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	config.SetGlobal(cfg)
	return cfg, nil
}

func runShell(cmd *cobra.Command, flags *rootFlags, args []string) error {
	cfg, err := flags.loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Path: cfg.Log.Path})
	if err != nil {
		return err
	}
	defer logger.Sync()

	root := docframe.Empty("framesh")
	if len(args) == 1 {
		root, err = docframe.Load(args[0])
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	s, err := session.New(root, docframe.New(logger), session.Options{
		Config: cfg,
		Output: out,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	opts := repl.Options{
		In:         cmd.InOrStdin(),
		Out:        out,
		Err:        cmd.ErrOrStderr(),
		Color:      cfg.REPL.Color && ColorsEnabled(out),
		Completion: cfg.REPL.Completion,
	}

	var term *commands.Terminate
	if len(flags.exec) > 0 {
		term, err = repl.Exec(s, flags.exec, opts)
	} else {
		if w := watchConfig(flags, logger, s); w != nil {
			defer w.Close()
		}
		term, err = repl.Run(s, opts)
	}
	if err != nil {
		return err
	}
	if term != nil && term.Value != nil {
		fmt.Fprintln(out, "=> "+s.Inspect(term.Value))
	}
	return nil
}

// watchConfig reloads the config file into the session when it changes.
// It returns nil when there is no file to watch.
func watchConfig(flags *rootFlags, logger *zap.Logger, s *session.Session) *config.Watcher {
	path, err := flags.path()
	if err != nil {
		return nil
	}
	if !fileExists(path) {
		return nil
	}
	w, err := config.Watch(path, logger, s.ApplyConfig)
	if err != nil {
		logger.Warn("CONFIG_WATCH_ERROR", zap.String("path", path), zap.Error(err))
		return nil
	}
	return w
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
