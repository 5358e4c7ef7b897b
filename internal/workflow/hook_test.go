package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsswift/git-commit-helper/internal/git"
	"github.com/dsswift/git-commit-helper/internal/review"
)

func TestProcessCommitMsg_TranslatesChinese(t *testing.T) {
	t.Setenv(git.EnvSkipReview, "")
	ai := &fakeAI{translations: map[string]string{
		"feat: 添加登录功能": "feat: add login",
		"支持 OAuth 登录":  "Support OAuth login",
	}}
	asker := &fakeAsker{}
	deps, _ := newDeps(ai, asker)
	path := writeMsg(t, "feat: 添加登录功能\n\n支持 OAuth 登录\n\nChange-Id: I1234\n# Please enter the commit message\n")

	p := NewHookProcessor(deps, nil, false)
	require.NoError(t, p.ProcessCommitMsg(context.Background(), path))

	want := "feat: add login\n\nSupport OAuth login\n\nfeat: 添加登录功能\n\n支持 OAuth 登录\n\nChange-Id: I1234\n"
	assert.Equal(t, want, readMsg(t, path))
	assert.Equal(t, []string{translatePrompt}, asker.confirmTitles)
}

func TestProcessCommitMsg_TitleOnly(t *testing.T) {
	t.Setenv(git.EnvSkipReview, "")
	ai := &fakeAI{translations: map[string]string{"修复崩溃": "fix crash\nextra line"}}
	deps, _ := newDeps(ai, &fakeAsker{})
	path := writeMsg(t, "修复崩溃\n")

	require.NoError(t, NewHookProcessor(deps, nil, false).ProcessCommitMsg(context.Background(), path))

	assert.Equal(t, "fix crash\n\n修复崩溃\n", readMsg(t, path))
	assert.Equal(t, []string{"修复崩溃"}, ai.translated)
}

func TestProcessCommitMsg_Declined(t *testing.T) {
	t.Setenv(git.EnvSkipReview, "")
	ai := &fakeAI{}
	deps, _ := newDeps(ai, &fakeAsker{confirms: []bool{false}})
	original := "feat: 添加登录功能\n"
	path := writeMsg(t, original)

	require.NoError(t, NewHookProcessor(deps, nil, false).ProcessCommitMsg(context.Background(), path))

	assert.Equal(t, original, readMsg(t, path))
	assert.Empty(t, ai.translated)
}

func TestProcessCommitMsg_Skips(t *testing.T) {
	tests := []struct {
		name    string
		content string
		skipEnv string
	}{
		{"skip env", "feat: 添加登录功能\n", "1"},
		{"merge", "Merge branch '功能'\n", ""},
		{"revert", "Revert \"功能\"\n", ""},
		{"english", "feat: add login\n", ""},
		{"empty", "# only comments\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(git.EnvSkipReview, tt.skipEnv)
			ai := &fakeAI{}
			asker := &fakeAsker{}
			deps, _ := newDeps(ai, asker)
			path := writeMsg(t, tt.content)

			require.NoError(t, NewHookProcessor(deps, nil, true).ProcessCommitMsg(context.Background(), path))

			assert.Equal(t, tt.content, readMsg(t, path))
			assert.Empty(t, ai.translated)
			assert.Empty(t, asker.confirmTitles)
		})
	}
}

func TestProcessCommitMsg_ReviewsStagedChanges(t *testing.T) {
	t.Setenv(git.EnvSkipReview, "")
	reviewer := &fakeReviewer{report: "代码审查报告：\n没有发现问题"}
	recorder := &fakeRecorder{}
	deps, out := newDeps(&fakeAI{}, &fakeAsker{})
	deps.Reviewer = reviewer
	deps.Recorder = recorder
	path := writeMsg(t, "feat: add login\n")

	p := NewHookProcessor(deps, staticDiff("diff --git a/x b/x\n"), true)
	require.NoError(t, p.ProcessCommitMsg(context.Background(), path))

	assert.Equal(t, 1, reviewer.calls)
	assert.Contains(t, out.String(), "没有发现问题")
	assert.Equal(t, []string{"staged"}, recorder.reviews)
}

func TestProcessCommitMsg_ReviewFailureDoesNotBlock(t *testing.T) {
	t.Setenv(git.EnvSkipReview, "")
	ai := &fakeAI{translations: map[string]string{"修复崩溃": "fix crash"}}
	deps, out := newDeps(ai, &fakeAsker{})
	deps.Reviewer = &fakeReviewer{err: errors.New("service down")}
	path := writeMsg(t, "修复崩溃\n")

	p := NewHookProcessor(deps, staticDiff("diff"), true)
	require.NoError(t, p.ProcessCommitMsg(context.Background(), path))

	assert.Contains(t, out.String(), "service down")
	assert.Equal(t, "fix crash\n\n修复崩溃\n", readMsg(t, path))
}

func TestProcessCommitMsg_TranslationError(t *testing.T) {
	t.Setenv(git.EnvSkipReview, "")
	deps, _ := newDeps(&fakeAI{}, &fakeAsker{})
	original := "修复崩溃\n"
	path := writeMsg(t, original)

	err := NewHookProcessor(deps, nil, false).ProcessCommitMsg(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, original, readMsg(t, path))
}

var _ review.DiffSource = staticDiff("")
