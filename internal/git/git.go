// Package git stages and commits version updates. It uses the go-git
// library so no git CLI installation is required.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Mode selects what happens to changed files after an update.
type Mode string

const (
	ModeNone   Mode = "none"
	ModeStage  Mode = "stage"
	ModeCommit Mode = "commit"
)

// Modes returns every valid mode.
func Modes() []Mode {
	return []Mode{ModeNone, ModeStage, ModeCommit}
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeNone, ModeStage, ModeCommit:
		return m, nil
	case "":
		return ModeNone, nil
	}
	return "", fmt.Errorf("unknown git mode %q (valid: none, stage, commit)", s)
}

// fallbackAuthor signs commits when no user is configured.
var fallbackAuthor = object.Signature{Name: "sembump", Email: "sembump@localhost"}

// Repository is a git working tree.
type Repository struct {
	repo *git.Repository
	root string
}

// Open finds the repository containing path, walking up the directory tree.
func Open(path string) (*Repository, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	return &Repository{repo: repo, root: wt.Filesystem.Root()}, nil
}

// openRepo opens a git repository at the specified path or current working directory.
// DetectDotGit makes go-git traverse up the directory tree to find the root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// Root returns the absolute path of the working tree.
func (r *Repository) Root() string {
	return r.root
}

// CurrentBranch returns the checked out branch, or "" for a detached HEAD.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", nil
	}
	return head.Name().Short(), nil
}

// Stage adds the given paths to the index. Paths that no longer exist on
// disk are staged as deletions; untracked paths that are gone are ignored.
func (r *Repository) Stage(paths []string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	for _, p := range paths {
		rel, err := r.relative(p)
		if err != nil {
			return err
		}

		if _, statErr := os.Stat(p); errors.Is(statErr, os.ErrNotExist) {
			logDebug("[git] staging deletion of %s", rel)
			if _, err := wt.Remove(rel); err != nil && !errors.Is(err, index.ErrEntryNotFound) {
				return fmt.Errorf("staging deletion of %s: %w", rel, err)
			}
			continue
		}

		logDebug("[git] staging %s", rel)
		if _, err := wt.Add(rel); err != nil {
			return fmt.Errorf("staging %s: %w", rel, err)
		}
	}
	return nil
}

// Commit records the index as a new commit and returns its hash. The
// author comes from the repository configuration, falling back to a
// generic sembump identity.
func (r *Repository) Commit(message string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{})
	if errors.Is(err, git.ErrMissingAuthor) {
		logDebug("[git] no author configured, using %s", fallbackAuthor.Email)
		author := fallbackAuthor
		author.When = time.Now()
		hash, err = wt.Commit(message, &git.CommitOptions{Author: &author})
	}
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}

	logDebug("[git] committed %s", hash)
	return hash.String(), nil
}

func (r *Repository) relative(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the repository at %s", path, r.root)
	}
	return filepath.ToSlash(rel), nil
}
