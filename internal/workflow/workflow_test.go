package workflow

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dsswift/git-commit-helper/internal/review"
	"github.com/dsswift/git-commit-helper/internal/terminal"
)

type fakeAI struct {
	reply        string
	translations map[string]string
	chatErr      error

	chats      int
	lastSystem string
	lastUser   string
	translated []string
}

func (f *fakeAI) Chat(_ context.Context, system, user string) (string, error) {
	f.chats++
	f.lastSystem = system
	f.lastUser = user
	return f.reply, f.chatErr
}

func (f *fakeAI) Translate(_ context.Context, text string) (string, error) {
	f.translated = append(f.translated, text)
	if out, ok := f.translations[text]; ok {
		return out, nil
	}
	return "", errors.New("no translation for " + text)
}

type fakeAsker struct {
	confirms []bool
	selects  []int

	confirmTitles []string
}

func (a *fakeAsker) Confirm(title string, def bool) (bool, error) {
	a.confirmTitles = append(a.confirmTitles, title)
	if len(a.confirms) == 0 {
		return def, nil
	}
	v := a.confirms[0]
	a.confirms = a.confirms[1:]
	return v, nil
}

func (a *fakeAsker) Select(string, []string) (int, error) {
	if len(a.selects) == 0 {
		return 0, nil
	}
	v := a.selects[0]
	a.selects = a.selects[1:]
	return v, nil
}

type fakeReviewer struct {
	report string
	err    error
	calls  int
	diff   string
}

func (r *fakeReviewer) Staged(_ context.Context, src review.DiffSource, enabled bool) (string, error) {
	r.calls++
	if !enabled {
		return "", nil
	}
	r.diff, _ = src.StagedDiff()
	return r.report, r.err
}

type fakeEditor struct {
	text  string
	saved bool
}

func (e *fakeEditor) Edit(string) (string, bool, error) {
	return e.text, e.saved, nil
}

type fakeRecorder struct {
	reviews []string
	commits []string
}

func (r *fakeRecorder) LogReview(target string, _ int) { r.reviews = append(r.reviews, target) }
func (r *fakeRecorder) LogCommit(hash, _ string, _ bool) {
	r.commits = append(r.commits, hash)
}

func newDeps(ai AI, asker Asker) (Deps, *bytes.Buffer) {
	var buf bytes.Buffer
	return Deps{AI: ai, Asker: asker, Printer: terminal.NewPrinter(&buf)}, &buf
}

func writeMsg(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readMsg(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
