package workflow

import (
	"context"
	"fmt"
	"os"

	"github.com/dsswift/git-commit-helper/internal/assert"
	"github.com/dsswift/git-commit-helper/internal/commitmsg"
	"github.com/dsswift/git-commit-helper/internal/git"
	"github.com/dsswift/git-commit-helper/internal/review"
)

const translatePrompt = "检测到提交信息包含中文，是否需要翻译？"

// HookProcessor rewrites the message file git hands to the commit-msg hook.
type HookProcessor struct {
	deps   Deps
	diffs  review.DiffSource
	review bool
}

// NewHookProcessor creates a processor. diffs supplies the staged diff for
// review; reviewEnabled reflects the ai_review setting.
func NewHookProcessor(deps Deps, diffs review.DiffSource, reviewEnabled bool) *HookProcessor {
	assert.NotNil(deps.AI, "AI cannot be nil")
	assert.NotNil(deps.Asker, "asker cannot be nil")
	return &HookProcessor{deps: deps.withDefaults(), diffs: diffs, review: reviewEnabled}
}

// ProcessCommitMsg reviews the staged changes and, when the title is
// Chinese and the user agrees, rewrites the file with a bilingual message.
func (p *HookProcessor) ProcessCommitMsg(ctx context.Context, path string) error {
	assert.NotEmptyString(path, "commit message path cannot be empty")
	log := p.deps.Logger

	if os.Getenv(git.EnvSkipReview) != "" {
		log.Debug("skip flag set, leaving commit message untouched")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read commit message: %w", err)
	}
	msg := commitmsg.Parse(string(data))
	if msg.Title == "" {
		return nil
	}
	if commitmsg.IsAutoGenerated(msg.Title) {
		log.Debug("auto-generated commit message, skipping", "title", msg.Title)
		return nil
	}

	p.runReview(ctx)

	if !commitmsg.ContainsChinese(msg.Title) {
		log.Debug("no Chinese in title, skipping translation")
		return nil
	}

	ok, err := p.deps.Asker.Confirm(translatePrompt, true)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	log.Info("translating commit message")
	out, err := translateMessage(ctx, p.deps.AI, msg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(out.String()+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write commit message: %w", err)
	}
	return nil
}

// runReview prints a review of the staged changes. A failed review never
// blocks the commit.
func (p *HookProcessor) runReview(ctx context.Context) {
	if p.deps.Reviewer == nil || p.diffs == nil {
		return
	}
	report, err := p.deps.Reviewer.Staged(ctx, p.diffs, p.review)
	if err != nil {
		p.deps.Logger.Warn("code review failed", "error", err)
		p.deps.Printer.Warning(fmt.Sprintf("代码审查失败: %v", err))
		return
	}
	if report == "" {
		return
	}
	p.deps.Recorder.LogReview("staged", len(report))
	p.deps.Printer.Review(report)
}
