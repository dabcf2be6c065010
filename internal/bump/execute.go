package bump

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bsels/sembump/internal/fsutil"
	"github.com/bsels/sembump/internal/git"
	"github.com/bsels/sembump/internal/logger"
)

// DefaultCommitMessage is used when no commit message is configured.
const DefaultCommitMessage = "Release new versions\n\n{summary}"

// VCS is the version control surface the executor needs.
type VCS interface {
	Stage(paths []string) error
	Commit(message string) (string, error)
}

// Executor writes plans to disk.
type Executor struct {
	// Backup copies each descriptor to <path>.versionsBackup before overwriting it.
	Backup        bool
	Git           git.Mode
	CommitMessage string
	// VCS is required unless Git is ModeNone.
	VCS VCS
}

// Report summarizes what Write did.
type Report struct {
	Written []string
	Backups []string
	Removed []string
	Commit  string
}

// Write applies plan: backups, file writes, note removal and finally the
// configured git action.
func (e *Executor) Write(plan *Plan) (*Report, error) {
	report := &Report{}
	if plan.Empty() {
		return report, nil
	}
	if e.Git != git.ModeNone && e.Git != "" && e.VCS == nil {
		return nil, errors.New("git integration requested but no repository is available")
	}

	if e.Backup {
		for _, f := range plan.Files {
			if f.Kind != KindDescriptor {
				continue
			}
			backup, err := fsutil.Backup(f.Path)
			if err != nil {
				return report, err
			}
			if backup != "" {
				logger.Debug("backed up descriptor", "path", backup)
				report.Backups = append(report.Backups, backup)
			}
		}
	}

	for _, f := range plan.Files {
		if err := fsutil.WriteAtomic(f.Path, f.After); err != nil {
			return report, fmt.Errorf("writing %s %s: %w", f.Kind, f.Path, err)
		}
		logger.Debug("wrote file", "kind", f.Kind, "path", f.Path)
		report.Written = append(report.Written, f.Path)
	}

	for _, path := range plan.Consumed {
		if err := fsutil.RemoveIfExists(path); err != nil {
			return report, fmt.Errorf("removing change note: %w", err)
		}
		report.Removed = append(report.Removed, path)
	}

	switch e.Git {
	case git.ModeStage, git.ModeCommit:
		paths := append(append([]string{}, report.Written...), report.Removed...)
		if err := e.VCS.Stage(paths); err != nil {
			return report, err
		}
		if e.Git == git.ModeCommit {
			hash, err := e.VCS.Commit(CommitMessage(plan, e.CommitMessage))
			if err != nil {
				return report, err
			}
			report.Commit = hash
		}
	}
	return report, nil
}

// CommitMessage expands {summary} in template with one line per updated unit.
func CommitMessage(plan *Plan, template string) string {
	if template == "" {
		template = DefaultCommitMessage
	}
	var lines []string
	for _, u := range plan.Units {
		lines = append(lines, fmt.Sprintf("%s %s -> %s", u.Key, u.Old, u.New))
	}
	msg := strings.ReplaceAll(template, "{summary}", strings.Join(lines, "\n"))
	return strings.TrimRight(msg, "\n")
}
