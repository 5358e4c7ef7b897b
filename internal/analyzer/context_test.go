package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dsswift/git-commit-helper/internal/testutil"
)

func TestContextBuilder_Build_Staged(t *testing.T) {
	repoDir := testutil.InitRepo(t)
	testutil.CommitFile(t, repoDir, "main.go", "package main\n", "initial")

	testutil.WriteFile(t, repoDir, "main.go", "package main\n\nfunc main() {}\n")
	testutil.Git(t, repoDir, "add", "main.go")

	req, err := NewContextBuilder(repoDir).Build(false)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(req.Summary.Files) != 1 || req.Summary.Files[0].Path != "main.go" {
		t.Errorf("expected main.go in summary, got %v", req.Summary.Paths())
	}
	if req.Truncated() {
		t.Error("small diff should not be truncated")
	}
	if !strings.Contains(req.Diff, "+func main() {}") {
		t.Errorf("expected diff content, got %q", req.Diff)
	}
}

func TestContextBuilder_Build_RecentTitles(t *testing.T) {
	repoDir := testutil.InitRepo(t)
	testutil.CommitFile(t, repoDir, "a.txt", "one\n", "feat: first")
	testutil.CommitFile(t, repoDir, "b.txt", "two\n", "fix: second")

	testutil.WriteFile(t, repoDir, "c.txt", "three\n")
	testutil.Git(t, repoDir, "add", "c.txt")

	req, err := NewContextBuilder(repoDir).Build(false)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(req.RecentTitles) != 2 || req.RecentTitles[0] != "fix: second" {
		t.Errorf("RecentTitles = %v, want newest first", req.RecentTitles)
	}

	req, err = NewContextBuilder(repoDir).Build(true)
	if err != nil {
		t.Fatalf("Build(amend) failed: %v", err)
	}
	if len(req.RecentTitles) != 1 || req.RecentTitles[0] != "feat: first" {
		t.Errorf("amend RecentTitles = %v, want the amended commit skipped", req.RecentTitles)
	}
}

func TestContextBuilder_Build_NoChanges(t *testing.T) {
	repoDir := testutil.InitRepo(t)
	testutil.CommitFile(t, repoDir, "main.go", "package main\n", "initial")

	_, err := NewContextBuilder(repoDir).Build(false)
	if err == nil {
		t.Fatal("expected error for empty staging area")
	}
	if _, ok := err.(*NoChangesError); !ok {
		t.Errorf("expected NoChangesError, got %T", err)
	}
}

func TestContextBuilder_Build_Amend(t *testing.T) {
	repoDir := testutil.InitRepo(t)
	testutil.CommitFile(t, repoDir, "a.txt", "one\n", "initial")
	testutil.CommitFile(t, repoDir, "b.txt", "two\n", "second")

	req, err := NewContextBuilder(repoDir).Build(true)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	paths := req.Summary.Paths()
	if len(paths) != 1 || paths[0] != "b.txt" {
		t.Errorf("expected only b.txt in amend context, got %v", paths)
	}
}

func TestContextBuilder_Build_AmendWithoutCommits(t *testing.T) {
	repoDir := testutil.InitRepo(t)

	if _, err := NewContextBuilder(repoDir).Build(true); err == nil {
		t.Error("expected error when there is no commit to amend")
	}
}

func TestFromDiff_Truncates(t *testing.T) {
	lines := MaxDiffChars / 10
	body := strings.Repeat("+added line of content\n", lines)
	diffText := fmt.Sprintf("diff --git a/big.txt b/big.txt\n--- a/big.txt\n+++ b/big.txt\n@@ -0,0 +1,%d @@\n", lines) + body

	req, err := FromDiff(diffText)
	if err != nil {
		t.Fatalf("FromDiff failed: %v", err)
	}
	if !req.Truncated() {
		t.Error("expected large diff to be truncated")
	}
	if !strings.Contains(Describe(req), "1 files") {
		t.Errorf("unexpected description: %s", Describe(req))
	}
}
