package cli

import (
	"fmt"

	"github.com/bsels/sembump/internal/bump"
	clierrors "github.com/bsels/sembump/internal/errors"
	"github.com/bsels/sembump/internal/output"
	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	var f updateFlags

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check change notes, descriptors and changelogs without writing",
		Long: `Check that an update would succeed.

verify loads the project and every change note, then plans the update in
memory. It fails when a note is malformed or names an artifact that is not
in the project or outside the mode's scope. It also fails when a descriptor
or changelog cannot be updated, or a planned version does not increase.
Nothing is written.`,
		Example: `  # In CI, before merging
  sembump verify
  sembump verify --mode revision_property`,
		Args:    cobra.NoArgs,
		GroupID: GroupRelease,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runVerify(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.mode, "mode", "", "Version field: project_version | revision_property | project_version_only_leaves")
	return cmd
}

func (a *app) runVerify(cmd *cobra.Command, f updateFlags) error {
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
	if len(plan.Unknown) > 0 {
		return clierrors.UnknownArtifacts(plan.Unknown)
	}
	if len(plan.OutOfScope) > 0 {
		return clierrors.OutOfScopeArtifacts(plan.OutOfScope, cfg.Mode)
	}

	for _, u := range plan.Units {
		if u.New.Compare(u.Old) <= 0 {
			return clierrors.NewValidationError(
				fmt.Sprintf("%s: version %s would not increase from %s", u.Key, u.New, u.Old),
				"Check the version suffix in the descriptor",
			)
		}
	}

	out := cmd.OutOrStdout()
	output.PrintSuccess(out, "%d change notes are valid", len(w.notes))
	if len(plan.Units) == 0 {
		fmt.Fprintln(out, "No module would be bumped.")
		return nil
	}
	fmt.Fprintf(out, "%d modules would be bumped:\n", len(plan.Units))
	for _, u := range plan.Units {
		fmt.Fprintf(out, "  %s %s -> %s (%s)\n", u.Key, u.Old, u.New, u.Severity)
	}
	return nil
}
