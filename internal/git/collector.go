// Package git provides git operations for the commit helper.
package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dsswift/git-commit-helper/internal/assert"
)

// emptyTree is the hash of git's empty tree object.
const emptyTree = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// Collector gathers git state information.
type Collector struct {
	workDir string
}

// NewCollector creates a new git collector for the given directory.
func NewCollector(workDir string) *Collector {
	return &Collector{workDir: workDir}
}

// FindGitRoot finds the root directory of the git repository.
func FindGitRoot(startDir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = startDir

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

// GitDir returns the absolute path of the repository's .git directory.
func GitDir(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}

	gitDir := strings.TrimSpace(string(out))
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(dir, gitDir)
	}
	return gitDir, nil
}

// StagedDiff returns the diff of the staging area against HEAD.
func (c *Collector) StagedDiff() (string, error) {
	return c.diff("--cached")
}

// AmendDiff returns the diff an amended HEAD commit would contain:
// HEAD's own changes plus whatever is staged now.
func (c *Collector) AmendDiff() (string, error) {
	base := "HEAD~1"
	if c.IsInitialCommit() {
		base = emptyTree
	}
	return c.diff("--cached", base)
}

func (c *Collector) diff(args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"diff"}, args...)...)
	cmd.Dir = c.workDir

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get diff: %w", err)
	}

	return string(out), nil
}

// LastCommitMessage returns the message of the most recent commit.
func (c *Collector) LastCommitMessage() (string, error) {
	cmd := exec.Command("git", "log", "-1", "--pretty=%B")
	cmd.Dir = c.workDir

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get last commit message: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

// RecentCommits returns recent commit titles.
func (c *Collector) RecentCommits(count int) ([]string, error) {
	assert.Positive(count, "commit count must be positive")

	args := []string{"log", "--oneline", fmt.Sprintf("-%d", count)}
	cmd := exec.Command("git", args...)
	cmd.Dir = c.workDir

	out, err := cmd.Output()
	if err != nil {
		// New repo with no commits
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 128 {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get recent commits: %w", err)
	}

	var commits []string
	scanner := bufio.NewScanner(bytes.NewReader(out))

	for scanner.Scan() {
		line := scanner.Text()
		// Extract just the message part (skip the hash)
		parts := strings.SplitN(line, " ", 2)
		if len(parts) == 2 {
			commits = append(commits, parts[1])
		}
	}

	return commits, scanner.Err()
}

// HasCommits reports whether HEAD points at a commit.
func (c *Collector) HasCommits() bool {
	cmd := exec.Command("git", "rev-parse", "--verify", "-q", "HEAD")
	cmd.Dir = c.workDir
	return cmd.Run() == nil
}

// IsInitialCommit returns true if HEAD is the first commit.
func (c *Collector) IsInitialCommit() bool {
	cmd := exec.Command("git", "rev-parse", "--verify", "-q", "HEAD~1")
	cmd.Dir = c.workDir
	return cmd.Run() != nil
}

var remoteSlugPattern = regexp.MustCompile(`[:/]([^/:]+)/([^/]+?)(?:\.git)?/?$`)

// RemoteSlug returns "owner/repo" of the origin remote, or "" without one.
func (c *Collector) RemoteSlug() string {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	cmd.Dir = c.workDir

	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return parseRemoteSlug(strings.TrimSpace(string(out)))
}

func parseRemoteSlug(remote string) string {
	m := remoteSlugPattern.FindStringSubmatch(remote)
	if m == nil {
		return ""
	}
	return m[1] + "/" + m[2]
}
