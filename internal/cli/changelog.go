package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/changelog"
	clierrors "github.com/bsels/sembump/internal/errors"
	"github.com/bsels/sembump/internal/project"
	"github.com/spf13/cobra"
)

type changelogFlags struct {
	artifact string
	last     int
	plain    bool
}

func newChangelogCmd(a *app) *cobra.Command {
	var f changelogFlags

	cmd := &cobra.Command{
		Use:   "changelog [version]",
		Short: "Show changelog sections of a module",
		Long: `Show changelog sections of a module.

By default, shows the 5 most recent sections of the root module's changelog.
Use a version argument to see one section, or --last to control the count.`,
		Example: `  sembump changelog                 # 5 most recent sections
  sembump changelog 1.4.0           # One version (v prefix optional)
  sembump changelog -a core --last 1
  sembump changelog --plain         # Raw markdown`,
		Args:    cobra.MaximumNArgs(1),
		GroupID: GroupRelease,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChangelog(cmd, args, f)
		},
	}

	cmd.Flags().StringVarP(&f.artifact, "artifact", "a", "", "Module whose changelog to show (default: root)")
	cmd.Flags().IntVar(&f.last, "last", 5, "Number of sections to show")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "Plain markdown output (no styling)")
	return cmd
}

func (a *app) runChangelog(cmd *cobra.Command, args []string, f changelogFlags) error {
	cfg, root, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	r, err := project.Load(root)
	if err != nil {
		return err
	}

	unit := r.Root()
	if f.artifact != "" {
		namespace := r.Current().Namespace
		key, err := artifact.ParseKeyDefault(f.artifact, namespace)
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Argument, "invalid --artifact")
		}
		u, ok := r.Unit(key)
		if !ok {
			return clierrors.UnknownArtifacts([]artifact.Key{key})
		}
		unit = u
	}

	path := filepath.Join(unit.Dir, cfg.ChangelogFile)
	doc, err := changelog.Load(path)
	if err != nil {
		return err
	}
	opts := changelog.FormatOptions{Plain: f.plain}
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		section, err := changelog.FindSection(doc, args[0])
		if err != nil {
			var notFound *changelog.VersionNotFoundError
			if errors.As(err, &notFound) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Version %q not found in %s.\n\n", args[0], path)
				fmt.Fprintf(cmd.ErrOrStderr(), "Available versions:\n")
				for _, v := range notFound.AvailableVersions {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", v)
				}
				return NewExitError(ExitInvalidArguments)
			}
			return err
		}
		return changelog.FormatTerminal([]changelog.Section{*section}, out, opts)
	}

	sections := changelog.Sections(doc)
	if len(sections) == 0 {
		fmt.Fprintf(out, "No changelog sections in %s.\n", path)
		return nil
	}
	shown := sections[:min(max(f.last, 1), len(sections))]
	if err := changelog.FormatTerminal(shown, out, opts); err != nil {
		return fmt.Errorf("formatting changelog: %w", err)
	}
	if len(sections) > len(shown) {
		fmt.Fprintf(out, "\n(%d of %d sections shown. Use --last %d to see all)\n", len(shown), len(sections), len(sections))
	}
	return nil
}
