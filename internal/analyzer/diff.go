// Package analyzer summarises staged changes for the commit prompt.
package analyzer

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/dsswift/git-commit-helper/internal/assert"
)

// FileChange describes the change made to a single file.
type FileChange struct {
	Path    string
	Added   int
	Removed int
	New     bool
	Deleted bool
	Binary  bool
}

// Status returns a short label for the kind of change.
func (f FileChange) Status() string {
	switch {
	case f.New:
		return "新增"
	case f.Deleted:
		return "删除"
	default:
		return "修改"
	}
}

// Summary holds per-file statistics for a diff.
type Summary struct {
	Files []FileChange
}

// Summarize parses a unified diff produced by git.
func Summarize(diffText string) (*Summary, error) {
	if strings.TrimSpace(diffText) == "" {
		return &Summary{}, nil
	}

	fileDiffs, err := diff.NewMultiFileDiffReader(strings.NewReader(diffText)).ReadAllFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	summary := &Summary{Files: make([]FileChange, 0, len(fileDiffs))}
	for _, fd := range fileDiffs {
		summary.Files = append(summary.Files, fileChange(fd))
	}
	return summary, nil
}

func fileChange(fd *diff.FileDiff) FileChange {
	fc := FileChange{
		New:     fd.OrigName == "/dev/null",
		Deleted: fd.NewName == "/dev/null",
	}
	for _, ext := range fd.Extended {
		switch {
		case strings.HasPrefix(ext, "new file mode"):
			fc.New = true
		case strings.HasPrefix(ext, "deleted file mode"):
			fc.Deleted = true
		case strings.HasPrefix(ext, "Binary files"), ext == "GIT binary patch":
			fc.Binary = true
		}
	}

	name := fd.NewName
	if fc.Deleted || name == "" {
		name = fd.OrigName
	}
	if name == "" || name == "/dev/null" {
		name = nameFromHeader(fd.Extended)
	}
	fc.Path = stripPrefix(name)

	for _, hunk := range fd.Hunks {
		for _, line := range strings.Split(string(hunk.Body), "\n") {
			switch {
			case strings.HasPrefix(line, "+"):
				fc.Added++
			case strings.HasPrefix(line, "-"):
				fc.Removed++
			}
		}
	}
	return fc
}

// nameFromHeader reads the path from a "diff --git a/x b/x" line.
func nameFromHeader(extended []string) string {
	for _, ext := range extended {
		if rest, ok := strings.CutPrefix(ext, "diff --git "); ok {
			if i := strings.LastIndex(rest, " b/"); i >= 0 {
				return rest[i+1:]
			}
		}
	}
	return ""
}

func stripPrefix(name string) string {
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}
	return name
}

// TotalAdded returns the number of added lines across all files.
func (s *Summary) TotalAdded() int {
	total := 0
	for _, f := range s.Files {
		total += f.Added
	}
	return total
}

// TotalRemoved returns the number of removed lines across all files.
func (s *Summary) TotalRemoved() int {
	total := 0
	for _, f := range s.Files {
		total += f.Removed
	}
	return total
}

// Paths returns the changed file paths in diff order.
func (s *Summary) Paths() []string {
	paths := make([]string, 0, len(s.Files))
	for _, f := range s.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// TestsChanged reports whether any test file is part of the change.
func (s *Summary) TestsChanged() bool {
	for _, f := range s.Files {
		if IsTestFile(f.Path) {
			return true
		}
	}
	return false
}

// OnlyTests reports whether every changed file is a test file.
func (s *Summary) OnlyTests() bool {
	if len(s.Files) == 0 {
		return false
	}
	for _, f := range s.Files {
		if !IsTestFile(f.Path) {
			return false
		}
	}
	return true
}

// String renders the compact block placed in the prompt.
func (s *Summary) String() string {
	var b strings.Builder
	for i, f := range s.Files {
		if i > 0 {
			b.WriteByte('\n')
		}
		if f.Binary {
			fmt.Fprintf(&b, "- %s (%s, 二进制)", f.Path, f.Status())
			continue
		}
		fmt.Fprintf(&b, "- %s (%s, +%d -%d)", f.Path, f.Status(), f.Added, f.Removed)
	}
	return b.String()
}

// IsTestFile reports whether path looks like a test source file.
func IsTestFile(p string) bool {
	base := strings.ToLower(path.Base(p))
	switch {
	case strings.HasSuffix(base, "_test.go"),
		strings.HasSuffix(base, "_test.py"),
		strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py"),
		strings.Contains(base, ".test."),
		strings.Contains(base, ".spec."),
		strings.HasSuffix(base, "tests.rs"):
		return true
	}
	for _, dir := range strings.Split(path.Dir(p), "/") {
		if dir == "test" || dir == "tests" || dir == "__tests__" {
			return true
		}
	}
	return false
}

// Truncate shortens a diff to at most maxChars, preferring a line boundary.
func Truncate(diffText string, maxChars int) string {
	assert.Positive(maxChars, "maxChars must be positive")

	if len(diffText) <= maxChars {
		return diffText
	}

	cut := maxChars
	for cut > 0 && !utf8.RuneStart(diffText[cut]) {
		cut--
	}
	truncated := diffText[:cut]
	if lastNewline := strings.LastIndex(truncated, "\n"); lastNewline > maxChars/2 {
		truncated = truncated[:lastNewline]
	}

	return truncated + "\n\n... (truncated)"
}
