// Package workflow drives the two end-to-end flows of the helper: rewriting
// the message handed to the commit-msg hook and generating a commit message
// from the staged diff.
package workflow

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/dsswift/git-commit-helper/internal/commitmsg"
	"github.com/dsswift/git-commit-helper/internal/review"
	"github.com/dsswift/git-commit-helper/internal/terminal"
)

// AI is the subset of llm.Orchestrator the workflows use.
type AI interface {
	Chat(ctx context.Context, system, user string) (string, error)
	Translate(ctx context.Context, text string) (string, error)
}

// Asker asks the user questions.
type Asker interface {
	Confirm(title string, def bool) (bool, error)
	Select(title string, options []string) (int, error)
}

// StagedReviewer reviews the staged changes.
type StagedReviewer interface {
	Staged(ctx context.Context, src review.DiffSource, enabled bool) (string, error)
}

// MessageEditor lets the user edit a message. saved is false when the
// user cancelled the edit.
type MessageEditor interface {
	Edit(text string) (edited string, saved bool, err error)
}

// Recorder receives workflow events for the execution log.
type Recorder interface {
	LogReview(target string, reportChars int)
	LogCommit(hash, title string, amend bool)
}

type nopRecorder struct{}

func (nopRecorder) LogReview(string, int)          {}
func (nopRecorder) LogCommit(string, string, bool) {}

// Deps are the collaborators shared by the workflows.
type Deps struct {
	AI       AI
	Asker    Asker
	Reviewer StagedReviewer
	Editor   MessageEditor
	Printer  *terminal.Printer
	Logger   *slog.Logger
	Recorder Recorder
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Printer == nil {
		d.Printer = terminal.NewPrinter(os.Stdout)
	}
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	return d
}

// translateMessage translates the title and body of msg separately and
// returns the bilingual message.
func translateMessage(ctx context.Context, ai AI, msg *commitmsg.Message) (*commitmsg.Message, error) {
	enTitle, err := ai.Translate(ctx, msg.Title)
	if err != nil {
		return nil, err
	}

	var enBody string
	if strings.TrimSpace(msg.Body) != "" {
		enBody, err = ai.Translate(ctx, msg.Body)
		if err != nil {
			return nil, err
		}
	}

	return commitmsg.Bilingual(firstLine(enTitle), enBody, msg), nil
}

// firstLine keeps a translated title on one line.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// staticDiff serves an already collected diff to the reviewer.
type staticDiff string

func (d staticDiff) StagedDiff() (string, error) { return string(d), nil }
