package git

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dsswift/git-commit-helper/internal/assert"
)

// EnvSkipReview is set for commits made by this tool so the installed
// commit-msg hook leaves the message alone.
const EnvSkipReview = "GIT_COMMIT_HELPER_SKIP_REVIEW"

// Committer handles git commit operations.
type Committer struct {
	workDir string
}

// NewCommitter creates a new git committer for the given directory.
func NewCommitter(workDir string) *Committer {
	return &Committer{workDir: workDir}
}

// Commit creates a new commit with the given message and returns its short hash.
func (c *Committer) Commit(message string) (string, error) {
	// PRECONDITIONS
	assert.NotEmptyString(strings.TrimSpace(message), "commit message cannot be empty")

	hasStaged, err := NewStager(c.workDir).HasStagedChanges()
	if err != nil {
		return "", fmt.Errorf("failed to check staged changes: %w", err)
	}
	if !hasStaged {
		return "", fmt.Errorf("no staged changes to commit")
	}

	return c.run(message)
}

// Amend replaces the message (and staged content) of the HEAD commit.
func (c *Committer) Amend(message string) (string, error) {
	assert.NotEmptyString(strings.TrimSpace(message), "commit message cannot be empty")

	return c.run(message, "--amend")
}

func (c *Committer) run(message string, extra ...string) (string, error) {
	args := append([]string{"commit", "--cleanup=strip", "-F", "-"}, extra...)
	cmd := exec.Command("git", args...)
	cmd.Dir = c.workDir
	cmd.Stdin = strings.NewReader(message)
	cmd.Env = append(os.Environ(), EnvSkipReview+"=1")

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("failed to commit: %s: %w", strings.TrimSpace(string(out)), err)
	}

	// POSTCONDITIONS
	hash, err := c.lastCommitHash()
	if err != nil {
		return "", fmt.Errorf("commit succeeded but failed to get hash: %w", err)
	}

	assert.NotEmptyString(hash, "commit hash should not be empty after commit")

	return hash, nil
}

// lastCommitHash returns the short hash of the most recent commit.
func (c *Committer) lastCommitHash() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	cmd.Dir = c.workDir

	out, err := cmd.Output()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}
