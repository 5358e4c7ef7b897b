// Package review runs AI code reviews on staged and remote changes.
package review

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"github.com/dsswift/git-commit-helper/internal/analyzer"
	"github.com/dsswift/git-commit-helper/internal/llm"
	"github.com/dsswift/git-commit-helper/internal/prompt"
	"github.com/dsswift/git-commit-helper/internal/remote"
)

// ErrEmptyDiff is returned when a remote change has no code changes.
var ErrEmptyDiff = errors.New("no code changes found")

// Chatter sends a system and user prompt to an AI service.
type Chatter interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// Fetcher retrieves remote changes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*remote.Change, error)
}

// DiffSource supplies the staged diff.
type DiffSource interface {
	StagedDiff() (string, error)
}

// Reviewer reviews changes with an AI service.
type Reviewer struct {
	ai       Chatter
	fetcher  Fetcher
	progress llm.Progress
	logger   *slog.Logger
}

// NewReviewer creates a Reviewer. fetcher is only needed for Remote.
func NewReviewer(ai Chatter, fetcher Fetcher, progress llm.Progress, logger *slog.Logger) *Reviewer {
	if progress == nil {
		progress = llm.NoProgress{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reviewer{ai: ai, fetcher: fetcher, progress: progress, logger: logger}
}

// Remote reviews a GitHub pull request or commit, or a Gerrit change.
// An English-only commit message is shown with a Chinese translation.
func (r *Reviewer) Remote(ctx context.Context, url string) (string, error) {
	target, err := remote.ParseURL(url)
	if err != nil {
		return "", err
	}

	stop := r.progress.Start("正在请求 " + target.Host() + " 获取改动内容")
	change, err := r.fetcher.Fetch(ctx, url)
	stop()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(change.Diff) == "" {
		return "", ErrEmptyDiff
	}

	var out strings.Builder
	if msg := strings.TrimSpace(change.Message); msg != "" {
		out.WriteString("提交信息：\n")
		out.WriteString(msg)
		out.WriteString("\n\n")

		if isASCII(msg) {
			zh, err := r.ai.Chat(ctx, prompt.CommitInfoTranslationSystem, prompt.CommitInfoTranslation(msg))
			if err != nil {
				return "", err
			}
			out.WriteString("中文翻译：\n")
			out.WriteString(llm.CleanReply(zh))
			out.WriteString("\n\n")
		}
	}

	report, err := r.review(ctx, change.Diff)
	if err != nil {
		return "", err
	}
	out.WriteString(report)
	return out.String(), nil
}

// Staged reviews the staged diff. It returns "" without calling the AI
// when review is disabled or nothing is staged.
func (r *Reviewer) Staged(ctx context.Context, src DiffSource, enabled bool) (string, error) {
	if !enabled {
		r.logger.Info("code review disabled, enable with: git-commit-helper ai-review --enable")
		return "", nil
	}

	diff, err := src.StagedDiff()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(diff) == "" {
		r.logger.Info("no staged changes to review")
		return "", nil
	}

	return r.review(ctx, diff)
}

func (r *Reviewer) review(ctx context.Context, diff string) (string, error) {
	report, err := r.ai.Chat(ctx, prompt.Review(), analyzer.Truncate(diff, analyzer.MaxDiffChars))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(report), nil
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
