package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bsels/sembump/internal/artifact"
	"github.com/bsels/sembump/internal/changenote"
	clierrors "github.com/bsels/sembump/internal/errors"
	"github.com/bsels/sembump/internal/markdown"
	"github.com/bsels/sembump/internal/output"
	"github.com/bsels/sembump/internal/project"
	"github.com/bsels/sembump/internal/prompt"
	"github.com/bsels/sembump/internal/semver"
	"github.com/spf13/cobra"
)

type createFlags struct {
	artifacts []string
	message   string
	edit      bool
}

var promptSeverities = []semver.Severity{semver.Major, semver.Minor, semver.Patch}

func newCreateCmd(a *app) *cobra.Command {
	var f createFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a change note",
		Long: `Record a change note in the versioning directory.

Without --artifact the command asks for the affected modules and their
severities. The description comes from --message, from the editor named by
$VISUAL or $EDITOR, or from a prompt.`,
		Example: `  sembump create
  sembump create --artifact com.example:core=minor --message "Added bulk import"
  sembump create -a core=patch -a api=patch --edit`,
		Args:    cobra.NoArgs,
		GroupID: GroupRelease,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCreate(cmd, f)
		},
	}

	cmd.Flags().StringArrayVarP(&f.artifacts, "artifact", "a", nil, "Artifact bump as groupId:artifactId=severity (repeatable)")
	cmd.Flags().StringVarP(&f.message, "message", "m", "", "Change description (markdown)")
	cmd.Flags().BoolVar(&f.edit, "edit", false, "Write the description in $VISUAL/$EDITOR")
	return cmd
}

func (a *app) runCreate(cmd *cobra.Command, f createFlags) error {
	cfg, root, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	r, err := project.Load(root)
	if err != nil {
		return err
	}
	w := &workspace{cfg: cfg, root: root, reactor: r}
	if cfg.NamespaceImplicit {
		w.namespace = r.Current().Namespace
	}

	p := a.prompter
	if p == nil {
		p = prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	var bumps map[artifact.Key]semver.Severity
	if len(f.artifacts) > 0 {
		bumps, err = parseArtifactBumps(f.artifacts, w.namespace)
	} else {
		bumps, err = askArtifactBumps(p, r)
	}
	if err != nil {
		return err
	}

	var unknown []artifact.Key
	for key := range bumps {
		if !r.Contains(key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		slices.SortFunc(unknown, artifact.Compare)
		return clierrors.UnknownArtifacts(unknown)
	}

	message, err := a.describe(cmd.Context(), p, f)
	if err != nil {
		return err
	}

	note, err := changenote.New(markdown.ParseString(message), bumps, "")
	if err != nil {
		return err
	}
	path, err := changenote.WriteNew(w.versioningDir(), note)
	if err != nil {
		return err
	}
	output.PrintSuccess(cmd.OutOrStdout(), "Created change note %s", path)
	return nil
}

// parseArtifactBumps parses "key=severity" values.
func parseArtifactBumps(values []string, namespace string) (map[artifact.Key]semver.Severity, error) {
	bumps := make(map[artifact.Key]semver.Severity, len(values))
	for _, v := range values {
		keyText, sevText, ok := strings.Cut(v, "=")
		if !ok {
			return nil, clierrors.InvalidArtifactSpec(v)
		}
		key, err := artifact.ParseKeyDefault(keyText, namespace)
		if err != nil {
			return nil, clierrors.WrapWithMessage(err, clierrors.Argument, "invalid artifact",
				"Use groupId:artifactId, or enable namespace_implicit for bare artifact ids")
		}
		sev, err := semver.ParseSeverity(sevText)
		if err != nil {
			return nil, clierrors.WrapWithMessage(err, clierrors.Argument, "invalid severity")
		}
		bumps[key] = semver.Max(bumps[key], sev)
	}
	return bumps, nil
}

// askArtifactBumps prompts for artifacts and severities until the user is done.
func askArtifactBumps(p prompt.Prompter, r *project.Reactor) (map[artifact.Key]semver.Severity, error) {
	keys := r.Sorted()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	sevNames := make([]string, len(promptSeverities))
	for i, s := range promptSeverities {
		sevNames[i] = s.String()
	}

	bumps := make(map[artifact.Key]semver.Severity)
	for {
		i, err := p.Select("Which artifact changed?", names, 0)
		if err != nil {
			return nil, err
		}
		j, err := p.Select(fmt.Sprintf("Severity for %s?", names[i]), sevNames, len(sevNames)-1)
		if err != nil {
			return nil, err
		}
		bumps[keys[i]] = semver.Max(bumps[keys[i]], promptSeverities[j])

		more, err := p.Confirm("Add another artifact?", false)
		if err != nil {
			return nil, err
		}
		if !more {
			return bumps, nil
		}
	}
}

// describe returns the note body from the flag, the editor or a prompt.
func (a *app) describe(ctx context.Context, p prompt.Prompter, f createFlags) (string, error) {
	message := strings.TrimSpace(f.message)
	if message == "" && (f.edit || a.editor != nil || prompt.EditorCommand() != "") {
		edit := a.editor
		if edit == nil {
			edit = func(ctx context.Context, initial string) (string, error) {
				return prompt.NewEditor().Edit(ctx, initial, "sembump-note-*.md")
			}
		}
		text, err := edit(ctx, "")
		if err != nil {
			return "", clierrors.WrapWithMessage(err, clierrors.Prerequisite, "editing description",
				"Set $EDITOR, or pass --message")
		}
		message = strings.TrimSpace(text)
	}
	if message == "" && f.message == "" {
		text, err := p.Input("Describe the change", "")
		if err != nil {
			return "", err
		}
		message = strings.TrimSpace(text)
	}
	if message == "" {
		return "", clierrors.NewArgumentError("change description is empty", "Pass --message or write a description in the editor")
	}
	return message + "\n", nil
}
