package analyzer

import (
	"fmt"

	"github.com/dsswift/git-commit-helper/internal/git"
)

const (
	// MaxDiffChars is the maximum number of diff characters sent to the AI.
	MaxDiffChars = 12000

	// RecentTitleCount is how many recent commit titles are shown as style reference.
	RecentTitleCount = 5
)

// Request is the change context handed to the prompt builder.
type Request struct {
	Summary *Summary
	Diff    string
	// FullDiffChars is the diff size before truncation.
	FullDiffChars int
	// RecentTitles are titles of the latest commits, newest first.
	RecentTitles []string
}

// Truncated reports whether the diff was shortened.
func (r *Request) Truncated() bool {
	return len(r.Diff) < r.FullDiffChars
}

// ContextBuilder collects the diff to describe.
type ContextBuilder struct {
	collector *git.Collector
}

// NewContextBuilder creates a new context builder.
func NewContextBuilder(workDir string) *ContextBuilder {
	return &ContextBuilder{collector: git.NewCollector(workDir)}
}

// Build reads the staged diff, or the amend diff when amend is set.
func (b *ContextBuilder) Build(amend bool) (*Request, error) {
	var (
		diffText string
		err      error
	)
	if amend {
		if !b.collector.HasCommits() {
			return nil, fmt.Errorf("no commit to amend")
		}
		diffText, err = b.collector.AmendDiff()
	} else {
		diffText, err = b.collector.StagedDiff()
	}
	if err != nil {
		return nil, err
	}

	req, err := FromDiff(diffText)
	if err != nil {
		return nil, err
	}
	req.RecentTitles = b.recentTitles(amend)
	return req, nil
}

// recentTitles returns the latest commit titles, skipping the commit being
// amended. History is only a hint, so errors yield no titles.
func (b *ContextBuilder) recentTitles(amend bool) []string {
	if !b.collector.HasCommits() {
		return nil
	}
	n := RecentTitleCount
	if amend {
		n++
	}
	titles, err := b.collector.RecentCommits(n)
	if err != nil {
		return nil
	}
	if amend && len(titles) > 0 {
		titles = titles[1:]
	}
	return titles
}

// FromDiff builds a request from an already collected diff.
func FromDiff(diffText string) (*Request, error) {
	summary, err := Summarize(diffText)
	if err != nil {
		return nil, err
	}
	if len(summary.Files) == 0 {
		return nil, &NoChangesError{}
	}

	return &Request{
		Summary:       summary,
		Diff:          Truncate(diffText, MaxDiffChars),
		FullDiffChars: len(diffText),
	}, nil
}

// NoChangesError indicates there are no changes to describe.
type NoChangesError struct{}

func (e *NoChangesError) Error() string {
	return "no staged changes found, stage files with git add first"
}

// Describe returns a one-line description of the request.
func Describe(req *Request) string {
	return fmt.Sprintf("%d files, +%d -%d, %d chars diff",
		len(req.Summary.Files), req.Summary.TotalAdded(), req.Summary.TotalRemoved(), len(req.Diff))
}
