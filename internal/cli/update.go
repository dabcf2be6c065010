package cli

import (
	"fmt"
	"path/filepath"

	"github.com/bsels/sembump/internal/bump"
	"github.com/bsels/sembump/internal/config"
	clierrors "github.com/bsels/sembump/internal/errors"
	"github.com/bsels/sembump/internal/git"
	"github.com/bsels/sembump/internal/logger"
	"github.com/bsels/sembump/internal/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type updateFlags struct {
	mode   string
	bump   string
	dryRun bool
	backup bool
	git    string
}

func newUpdateCmd(a *app) *cobra.Command {
	var f updateFlags

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Bump versions and write changelogs from change notes",
		Long: `Bump the versions of all modules named by pending change notes.

Modules are processed in dependency order. When a module is bumped, modules
that reference it get the new version and a patch bump of their own with a
dependency entry in their changelog. Consumed change notes are deleted.

Settings come from the configuration; flags override them for one run.`,
		Example: `  sembump update --dry-run
  sembump update --bump minor
  sembump update --mode revision_property --git commit`,
		Args:    cobra.NoArgs,
		GroupID: GroupRelease,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUpdate(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.mode, "mode", "", "Version field: project_version | revision_property | project_version_only_leaves")
	cmd.Flags().StringVar(&f.bump, "bump", "", "Severity source: file_based | major | minor | patch")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Print the plan and diffs without writing files")
	cmd.Flags().BoolVar(&f.backup, "backup", false, "Keep pom.xml.versionsBackup copies")
	cmd.Flags().StringVar(&f.git, "git", "", "Git integration: none | stage | commit")
	return cmd
}

// applyFlags overrides configuration with the flags the user set.
func applyFlags(cmd *cobra.Command, cfg *config.Configuration, f updateFlags) error {
	set := func(flag, key string, apply func()) {
		if cmd.Flags().Changed(flag) {
			apply()
			cfg.SetFlag(key)
		}
	}
	set("mode", "mode", func() { cfg.Mode = f.mode })
	set("bump", "bump", func() { cfg.Bump = f.bump })
	set("dry-run", "dry_run", func() { cfg.DryRun = f.dryRun })
	set("backup", "backup", func() { cfg.Backup = f.backup })
	set("git", "git", func() { cfg.Git = f.git })

	if err := config.ValidateConfigValues(cfg, "flags"); err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Argument, "invalid flag value", "Run 'sembump update --help' for the accepted values")
	}
	return nil
}

// plannerOptions converts configuration into planner options.
func (a *app) plannerOptions(cfg *config.Configuration) (bump.Options, error) {
	mode, err := cfg.ScopeMode()
	if err != nil {
		return bump.Options{}, err
	}
	force, err := cfg.ForcedSeverity()
	if err != nil {
		return bump.Options{}, err
	}
	return bump.Options{
		Mode:              mode,
		Force:             force,
		ChangelogFile:     cfg.ChangelogFile,
		HeaderFormat:      cfg.HeaderFormat,
		DependencyMessage: cfg.DependencyMessage,
		Now:               a.now,
	}, nil
}

func (a *app) runUpdate(cmd *cobra.Command, f updateFlags) error {
	cfg, root, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg, f); err != nil {
		return err
	}

	w, err := a.loadWorkspace(cmd, cfg, root)
	if err != nil {
		return err
	}
	opts, err := a.plannerOptions(cfg)
	if err != nil {
		return err
	}

	plan, err := bump.NewPlanner(opts).Plan(w.reactor, w.notes)
	if err != nil {
		return err
	}
	for _, key := range plan.Unknown {
		logger.Warn("change note names an artifact outside the project", "artifact", key)
	}
	for _, key := range plan.OutOfScope {
		logger.Warn("change note names an artifact this mode does not bump", "artifact", key, "mode", cfg.Mode)
	}

	out := cmd.OutOrStdout()
	if plan.Empty() {
		fmt.Fprintln(out, "Nothing to update: no change notes and no forced bump.")
		return nil
	}

	if cfg.DryRun {
		return printDryRun(cmd, plan, root)
	}

	gitMode, err := cfg.GitMode()
	if err != nil {
		return err
	}
	exec := &bump.Executor{Backup: cfg.Backup, Git: gitMode, CommitMessage: cfg.CommitMessage}
	if gitMode != git.ModeNone {
		repo, err := git.Open(root)
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Prerequisite, "git integration requested",
				"Run sembump inside a git repository", "Or use --git none")
		}
		exec.VCS = repo
	}

	report, err := exec.Write(plan)
	if err != nil {
		return err
	}

	for _, u := range plan.Units {
		output.PrintSuccess(out, "%s %s -> %s", u.Key, u.Old, u.New)
	}
	fmt.Fprintf(out, "%d files written, %d change notes consumed", len(report.Written), len(report.Removed))
	if len(report.Backups) > 0 {
		fmt.Fprintf(out, ", %d backups", len(report.Backups))
	}
	fmt.Fprintln(out)
	if report.Commit != "" {
		output.PrintPath(out, "commit", report.Commit)
	}
	return nil
}

func printDryRun(cmd *cobra.Command, plan *bump.Plan, root string) error {
	out := cmd.OutOrStdout()
	useColors := !color.NoColor

	output.PrintHeader(out, "Planned version updates (dry run)")
	if err := output.WritePlanTable(out, plan, useColors); err != nil {
		return err
	}
	fmt.Fprintln(out)
	output.WriteFileList(out, plan)

	for _, f := range plan.Files {
		rel, err := filepath.Rel(root, f.Path)
		if err != nil {
			rel = f.Path
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, output.UnifiedDiff(filepath.ToSlash(rel), string(f.Before), string(f.After), useColors))
	}
	return nil
}
