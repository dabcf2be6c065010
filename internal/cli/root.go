// Package cli implements the sembump command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bsels/sembump/internal/changenote"
	"github.com/bsels/sembump/internal/config"
	clierrors "github.com/bsels/sembump/internal/errors"
	"github.com/bsels/sembump/internal/git"
	"github.com/bsels/sembump/internal/logger"
	"github.com/bsels/sembump/internal/progress"
	"github.com/bsels/sembump/internal/project"
	"github.com/bsels/sembump/internal/prompt"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Command groups
const (
	GroupRelease = "release"
	GroupSetup   = "setup"
)

// app holds global flags and the collaborators commands share. Tests replace
// the prompter, editor and clock.
type app struct {
	configPath string
	projectDir string
	logLevel   string
	noColor    bool

	prompter prompt.Prompter
	editor   func(ctx context.Context, initial string) (string, error)
	now      func() time.Time
}

// NewRootCmd creates the root sembump command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sembump",
		Short: "Semantic version bumps for Maven multi-module projects",
		Long: `sembump bumps the versions of a Maven reactor from change notes.

Change notes are markdown files under the versioning directory (.versioning by
default). Each starts with a frontmatter block naming the artifacts it affects
and the severity of the change:

  ---
  com.example:core: minor
  com.example:api: patch
  ---

  Added the bulk import endpoint.

'sembump update' aggregates the notes, bumps every affected module, updates
references between modules and prepends a section to each module's
CHANGELOG.md.`,
		Example: `  # Record a change interactively
  sembump create

  # Preview the next release
  sembump update --dry-run

  # Release and commit
  sembump update --git commit`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), c.UseLine(), "Run '"+c.CommandPath()+" --help' for usage")
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: <project>/.sembump.yml)")
	flags.StringVarP(&a.projectDir, "project", "C", ".", "Project root directory or pom.xml")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (env: SEMBUMP_LOG_LEVEL)")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	root.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup Commands:"},
	)

	root.AddCommand(
		newUpdateCmd(a),
		newCreateCmd(a),
		newVerifyCmd(a),
		newChangelogCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup applies global flags before any command runs.
func (a *app) setup(cmd *cobra.Command) error {
	if a.noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
	if err := logger.Configure(a.logLevel, cmd.ErrOrStderr()); err != nil {
		return clierrors.NewArgumentError(err.Error(), "Use one of: debug, info, warn, error")
	}
	git.SetDebugLogger(logger.Debugf)
	return nil
}

// projectRoot returns the directory holding the root descriptor.
func (a *app) projectRoot() (string, error) {
	path, err := project.DescriptorPath(a.projectDir)
	if err != nil {
		abs, _ := filepath.Abs(a.projectDir)
		return "", clierrors.ProjectNotFound(abs, err)
	}
	return filepath.Dir(path), nil
}

// loadConfig loads the layered configuration for the project. A log level
// from the configuration applies unless --log-level or the env var was given.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Configuration, string, error) {
	root, err := a.projectRoot()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectDir:    root,
		ConfigPath:    a.configPath,
		WarningWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, "", err
	}
	if a.logLevel == "" && os.Getenv(logger.EnvLevel) == "" && cfg.LogLevel != "" {
		if err := logger.Configure(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
			return nil, "", err
		}
	}
	logger.Debug("configuration loaded", "project", root, "mode", cfg.Mode, "bump", cfg.Bump)
	return cfg, root, nil
}

// workspace is a loaded project with its pending change notes.
type workspace struct {
	cfg       *config.Configuration
	root      string
	reactor   *project.Reactor
	notes     []*changenote.Note
	namespace string
}

func (w *workspace) versioningDir() string {
	if filepath.IsAbs(w.cfg.VersioningDir) {
		return w.cfg.VersioningDir
	}
	return filepath.Join(w.root, w.cfg.VersioningDir)
}

// loadWorkspace loads the reactor and the change notes, with a spinner on
// interactive terminals.
func (a *app) loadWorkspace(cmd *cobra.Command, cfg *config.Configuration, root string) (*workspace, error) {
	sp := progress.NewSpinner(cmd.ErrOrStderr(), capabilities(cmd.ErrOrStderr()))
	sp.Start("Loading project")

	w, err := loadWorkspace(cmd.Context(), cfg, root)
	if err != nil {
		sp.Fail("Loading project failed")
		return nil, err
	}
	sp.Success(fmt.Sprintf("Loaded %d modules and %d change notes", len(w.reactor.Units()), len(w.notes)))
	return w, nil
}

func loadWorkspace(ctx context.Context, cfg *config.Configuration, root string) (*workspace, error) {
	r, err := project.Load(root)
	if err != nil {
		return nil, err
	}
	w := &workspace{cfg: cfg, root: root, reactor: r}
	if cfg.NamespaceImplicit {
		w.namespace = r.Current().Namespace
	}

	if ctx == nil {
		ctx = context.Background()
	}
	w.notes, err = changenote.LoadDir(ctx, w.versioningDir(), w.namespace)
	if err != nil {
		return nil, err
	}
	logger.Debug("workspace loaded", "units", len(r.Units()), "notes", len(w.notes))
	return w, nil
}

func capabilities(w io.Writer) progress.TerminalCapabilities {
	if f, ok := w.(*os.File); ok {
		return progress.DetectTerminalCapabilities(f)
	}
	return progress.TerminalCapabilities{}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		clierrors.FprintError(cmd.ErrOrStderr(), clierrors.Classify(err))
	}
	return ExitCode(err)
}
