package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dsswift/git-commit-helper/internal/analyzer"
	"github.com/dsswift/git-commit-helper/internal/assert"
	"github.com/dsswift/git-commit-helper/internal/commitmsg"
	"github.com/dsswift/git-commit-helper/internal/git"
	"github.com/dsswift/git-commit-helper/internal/llm"
	"github.com/dsswift/git-commit-helper/internal/prompt"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

const (
	previewTitle  = "生成的提交信息预览:"
	confirmPrompt = "是否使用此提交信息？"
)

// Preview choices, in menu order.
const (
	choiceCommit = iota
	choiceEdit
	choiceCancel
)

var choices = []string{"提交", "编辑", "取消"}

// ErrEmptyMessage is returned when the AI or the user produced an empty message.
var ErrEmptyMessage = errors.New("commit message is empty")

// Options controls one commit generation run.
type Options struct {
	// CommitType, when set, is the required title type.
	CommitType string
	// UserMessage is the user's own description of the change.
	UserMessage string
	// AllowedTypes restricts the title type when CommitType is empty.
	AllowedTypes []string
	// Issues are issue references turned into trailer marks.
	Issues   []string
	Language types.Language

	AutoAdd         bool
	Amend           bool
	Review          bool
	TestSuggestions bool
	LogField        bool
	DryRun          bool
}

func (o Options) requiredTypes() []string {
	if o.CommitType != "" {
		return []string{o.CommitType}
	}
	return o.AllowedTypes
}

// Result describes the outcome of a run.
type Result struct {
	Message   string
	Hash      string
	Committed bool
	Cancelled bool
}

// Generator writes a commit message for the staged changes and commits it.
type Generator struct {
	deps      Deps
	collector *git.Collector
	stager    *git.Stager
	committer *git.Committer
	builder   *analyzer.ContextBuilder
}

// NewGenerator creates a generator for the repository at workDir.
func NewGenerator(workDir string, deps Deps) *Generator {
	assert.NotEmptyString(workDir, "work directory cannot be empty")
	assert.NotNil(deps.AI, "AI cannot be nil")
	return &Generator{
		deps:      deps.withDefaults(),
		collector: git.NewCollector(workDir),
		stager:    git.NewStager(workDir),
		committer: git.NewCommitter(workDir),
		builder:   analyzer.NewContextBuilder(workDir),
	}
}

// Run generates the message, previews it and, unless DryRun is set, lets
// the user commit, edit or cancel.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	out := g.deps.Printer
	log := g.deps.Logger

	marks, err := commitmsg.IssueMarks(opts.Issues, g.collector.RemoteSlug())
	if err != nil {
		return nil, err
	}

	if opts.AutoAdd {
		out.Progress("自动添加已修改的文件...")
		if err := g.stager.AddTracked(); err != nil {
			return nil, err
		}
	}

	req, err := g.builder.Build(opts.Amend)
	if err != nil {
		return nil, err
	}
	log.Debug("collected changes", "summary", analyzer.Describe(req), "files", req.Summary.Paths(), "truncated", req.Truncated())

	if opts.Review && g.deps.Reviewer != nil {
		g.review(ctx, req.Diff)
	}

	message, err := g.Generate(ctx, req, opts, marks)
	if err != nil {
		return nil, err
	}

	out.Block(previewTitle, message)
	if opts.DryRun {
		return &Result{Message: message}, nil
	}

	return g.confirm(message, opts.Amend)
}

// Generate asks the AI for a message and post-processes it.
func (g *Generator) Generate(ctx context.Context, req *analyzer.Request, opts Options, marks []string) (string, error) {
	lang := opts.Language
	if lang == "" {
		lang = types.LanguageBilingual
	}

	system, user := prompt.Commit(prompt.CommitOptions{
		Language:        lang,
		CommitType:      opts.CommitType,
		AllowedTypes:    opts.AllowedTypes,
		UserMessage:     opts.UserMessage,
		TestSuggestions: opts.TestSuggestions && !req.Summary.OnlyTests(),
		TestsChanged:    req.Summary.TestsChanged(),
		RecentTitles:    req.RecentTitles,
		LogField:        opts.LogField,
	}, req.Summary.String(), req.Diff)

	g.deps.Printer.Step("🤖", "正在生成提交信息建议...")
	reply, err := g.deps.AI.Chat(ctx, system, user)
	if err != nil {
		return "", err
	}

	text := llm.CleanReply(reply)
	if text == "" {
		return "", ErrEmptyMessage
	}
	if required := opts.requiredTypes(); len(required) > 0 {
		text = commitmsg.EnsureType(text, required)
	}

	msg := commitmsg.Parse(text).WithMarks(marks...)
	if opts.Amend {
		if last, err := g.collector.LastCommitMessage(); err == nil {
			msg.PreserveChangeID(commitmsg.Parse(last))
		}
	}

	if lang == types.LanguageBilingual && commitmsg.ContainsChinese(msg.Title) {
		bilingual, err := translateMessage(ctx, g.deps.AI, msg)
		if err != nil {
			return "", err
		}
		return bilingual.String(), nil
	}

	msg.Title = commitmsg.Wrap(msg.Title, commitmsg.MaxLineLength)
	msg.Body = commitmsg.WrapLines(msg.Body, commitmsg.MaxLineLength)
	return msg.String(), nil
}

func (g *Generator) review(ctx context.Context, diff string) {
	report, err := g.deps.Reviewer.Staged(ctx, staticDiff(diff), true)
	if err != nil {
		g.deps.Logger.Warn("code review failed", "error", err)
		g.deps.Printer.Warning(fmt.Sprintf("代码审查失败: %v", err))
		return
	}
	if report == "" {
		return
	}
	g.deps.Recorder.LogReview("staged", len(report))
	g.deps.Printer.Review(report)
}

func (g *Generator) confirm(message string, amend bool) (*Result, error) {
	assert.NotNil(g.deps.Asker, "asker cannot be nil")
	out := g.deps.Printer

	for {
		choice, err := g.deps.Asker.Select(confirmPrompt, choices)
		if err != nil {
			return nil, err
		}

		switch choice {
		case choiceCommit:
			return g.commit(message, amend)

		case choiceEdit:
			if g.deps.Editor == nil {
				out.Warning("编辑器不可用")
				continue
			}
			edited, saved, err := g.deps.Editor.Edit(message)
			if err != nil {
				return nil, err
			}
			if !saved {
				continue
			}
			if strings.TrimSpace(edited) == "" {
				out.Warning("提交信息不能为空，保留原内容")
				continue
			}
			message = strings.TrimSpace(edited)
			out.Block(previewTitle, message)

		default:
			out.Final("🚫", "已取消提交")
			return &Result{Message: message, Cancelled: true}, nil
		}
	}
}

func (g *Generator) commit(message string, amend bool) (*Result, error) {
	var (
		hash string
		err  error
	)
	if amend {
		hash, err = g.committer.Amend(message)
	} else {
		hash, err = g.committer.Commit(message)
	}
	if err != nil {
		return nil, err
	}

	g.deps.Recorder.LogCommit(hash, commitmsg.Parse(message).Title, amend)
	g.deps.Printer.Final("✅", fmt.Sprintf("提交成功！%s", hash))
	return &Result{Message: message, Hash: hash, Committed: true}, nil
}
