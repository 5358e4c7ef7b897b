package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Stager handles git staging operations.
type Stager struct {
	workDir string
}

// NewStager creates a new git stager for the given directory.
func NewStager(workDir string) *Stager {
	return &Stager{workDir: workDir}
}

// AddTracked stages modifications and deletions of tracked files (git add -u).
func (s *Stager) AddTracked() error {
	cmd := exec.Command("git", "add", "-u")
	cmd.Dir = s.workDir

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to stage tracked files: %s: %w", string(out), err)
	}

	return nil
}

// StagedFiles returns the list of currently staged files.
func (s *Stager) StagedFiles() ([]string, error) {
	cmd := exec.Command("git", "diff", "--cached", "--name-only")
	cmd.Dir = s.workDir

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get staged files: %w", err)
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}

	return files, nil
}

// HasStagedChanges returns true if there are any staged changes.
func (s *Stager) HasStagedChanges() (bool, error) {
	files, err := s.StagedFiles()
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}
