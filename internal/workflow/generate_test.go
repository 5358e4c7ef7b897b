package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsswift/git-commit-helper/internal/analyzer"
	"github.com/dsswift/git-commit-helper/internal/testutil"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

// stagedRepo returns a repo with one commit and a staged change to app.go.
func stagedRepo(t *testing.T) string {
	t.Helper()
	dir := testutil.InitRepo(t)
	testutil.CommitFile(t, dir, "app.go", "package app\n", "initial")
	testutil.WriteFile(t, dir, "app.go", "package app\n\nfunc Login() {}\n")
	testutil.Git(t, dir, "add", "app.go")
	return dir
}

func headMessage(t *testing.T, dir string) string {
	t.Helper()
	return testutil.Git(t, dir, "log", "-1", "--pretty=%B")
}

func TestGenerator_DryRun(t *testing.T) {
	dir := stagedRepo(t)
	ai := &fakeAI{reply: "```\nadd login support\n\n- add Login handler\n```"}
	deps, out := newDeps(ai, &fakeAsker{})

	res, err := NewGenerator(dir, deps).Run(context.Background(), Options{
		CommitType: "feat",
		Issues:     []string{"#12"},
		Language:   types.LanguageEnglish,
		DryRun:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, "feat: add login support\n\n- add Login handler\n\nFixes: #12", res.Message)
	assert.False(t, res.Committed)
	assert.Contains(t, out.String(), previewTitle)
	assert.Contains(t, ai.lastUser, "app.go")
	assert.Equal(t, "initial", headMessage(t, dir))
}

func TestGenerator_Bilingual(t *testing.T) {
	dir := stagedRepo(t)
	ai := &fakeAI{
		reply: "feat: 添加登录\n\n- 新增登录接口",
		translations: map[string]string{
			"feat: 添加登录": "feat: add login",
			"- 新增登录接口":   "- add login endpoint",
		},
	}
	deps, _ := newDeps(ai, &fakeAsker{})

	res, err := NewGenerator(dir, deps).Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, "feat: add login\n\n- add login endpoint\n\nfeat: 添加登录\n\n- 新增登录接口", res.Message)
}

func TestGenerator_ChineseOnly(t *testing.T) {
	dir := stagedRepo(t)
	ai := &fakeAI{reply: "feat: 添加登录"}
	deps, _ := newDeps(ai, &fakeAsker{})

	res, err := NewGenerator(dir, deps).Run(context.Background(), Options{
		Language: types.LanguageChinese,
		DryRun:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "feat: 添加登录", res.Message)
	assert.Empty(t, ai.translated)
}

func TestGenerator_EnforcesAllowedTypes(t *testing.T) {
	dir := stagedRepo(t)
	ai := &fakeAI{reply: "feature: add login"}
	deps, _ := newDeps(ai, &fakeAsker{})

	res, err := NewGenerator(dir, deps).Run(context.Background(), Options{
		AllowedTypes: []string{"fix", "feat"},
		Language:     types.LanguageEnglish,
		DryRun:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "fix: add login", res.Message)
}

func TestGenerator_Commit(t *testing.T) {
	dir := stagedRepo(t)
	recorder := &fakeRecorder{}
	deps, out := newDeps(&fakeAI{reply: "feat: add login"}, &fakeAsker{selects: []int{choiceCommit}})
	deps.Recorder = recorder

	res, err := NewGenerator(dir, deps).Run(context.Background(), Options{Language: types.LanguageEnglish})
	require.NoError(t, err)

	assert.True(t, res.Committed)
	assert.NotEmpty(t, res.Hash)
	assert.Equal(t, "feat: add login", headMessage(t, dir))
	assert.Equal(t, []string{res.Hash}, recorder.commits)
	assert.Contains(t, out.String(), "提交成功")
}

func TestGenerator_EditThenCommit(t *testing.T) {
	dir := stagedRepo(t)
	deps, _ := newDeps(&fakeAI{reply: "feat: add login"}, &fakeAsker{selects: []int{choiceEdit, choiceCommit}})
	deps.Editor = &fakeEditor{text: "fix: edited by hand\n", saved: true}

	res, err := NewGenerator(dir, deps).Run(context.Background(), Options{Language: types.LanguageEnglish})
	require.NoError(t, err)

	assert.Equal(t, "fix: edited by hand", res.Message)
	assert.Equal(t, "fix: edited by hand", headMessage(t, dir))
}

func TestGenerator_EditCancelledKeepsMessage(t *testing.T) {
	dir := stagedRepo(t)
	deps, _ := newDeps(&fakeAI{reply: "feat: add login"}, &fakeAsker{selects: []int{choiceEdit, choiceCommit}})
	deps.Editor = &fakeEditor{text: "ignored", saved: false}

	res, err := NewGenerator(dir, deps).Run(context.Background(), Options{Language: types.LanguageEnglish})
	require.NoError(t, err)
	assert.Equal(t, "feat: add login", headMessage(t, dir))
	assert.True(t, res.Committed)
}

func TestGenerator_Cancel(t *testing.T) {
	dir := stagedRepo(t)
	deps, _ := newDeps(&fakeAI{reply: "feat: add login"}, &fakeAsker{selects: []int{choiceCancel}})

	res, err := NewGenerator(dir, deps).Run(context.Background(), Options{Language: types.LanguageEnglish})
	require.NoError(t, err)

	assert.True(t, res.Cancelled)
	assert.False(t, res.Committed)
	assert.Equal(t, "initial", headMessage(t, dir))
}

func TestGenerator_AmendKeepsChangeID(t *testing.T) {
	dir := testutil.InitRepo(t)
	testutil.CommitFile(t, dir, "a.txt", "one\n", "base")
	testutil.CommitFile(t, dir, "b.txt", "two\n", "wip\n\nChange-Id: I0123abcd")
	deps, _ := newDeps(&fakeAI{reply: "docs: add b notes"}, &fakeAsker{selects: []int{choiceCommit}})

	res, err := NewGenerator(dir, deps).Run(context.Background(), Options{
		Amend:    true,
		Language: types.LanguageEnglish,
	})
	require.NoError(t, err)

	assert.Equal(t, "docs: add b notes\n\nChange-Id: I0123abcd", res.Message)
	assert.Equal(t, res.Message, headMessage(t, dir))
	assert.Equal(t, "2", testutil.Git(t, dir, "rev-list", "--count", "HEAD"))
}

func TestGenerator_AutoAdd(t *testing.T) {
	dir := testutil.InitRepo(t)
	testutil.CommitFile(t, dir, "app.go", "package app\n", "initial")
	testutil.WriteFile(t, dir, "app.go", "package app\n\nvar x = 1\n")
	ai := &fakeAI{reply: "chore: tweak"}
	deps, _ := newDeps(ai, &fakeAsker{})

	_, err := NewGenerator(dir, deps).Run(context.Background(), Options{
		AutoAdd:  true,
		Language: types.LanguageEnglish,
		DryRun:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ai.chats)
}

func TestGenerator_NothingStaged(t *testing.T) {
	dir := testutil.InitRepo(t)
	testutil.CommitFile(t, dir, "app.go", "package app\n", "initial")
	ai := &fakeAI{reply: "feat: x"}
	deps, _ := newDeps(ai, &fakeAsker{})

	_, err := NewGenerator(dir, deps).Run(context.Background(), Options{DryRun: true})

	var noChanges *analyzer.NoChangesError
	require.ErrorAs(t, err, &noChanges)
	assert.Zero(t, ai.chats)
}

func TestGenerator_InvalidIssue(t *testing.T) {
	dir := stagedRepo(t)
	ai := &fakeAI{reply: "feat: x"}
	deps, _ := newDeps(ai, &fakeAsker{})

	_, err := NewGenerator(dir, deps).Run(context.Background(), Options{
		Issues: []string{"not-an-issue"},
		DryRun: true,
	})
	require.Error(t, err)
	assert.Zero(t, ai.chats)
}

func TestGenerator_EmptyReply(t *testing.T) {
	dir := stagedRepo(t)
	deps, _ := newDeps(&fakeAI{reply: "```\n```"}, &fakeAsker{})

	_, err := NewGenerator(dir, deps).Run(context.Background(), Options{DryRun: true})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestGenerator_Review(t *testing.T) {
	dir := stagedRepo(t)
	reviewer := &fakeReviewer{report: "代码审查报告：\n建议补充测试"}
	deps, out := newDeps(&fakeAI{reply: "feat: add login"}, &fakeAsker{})
	deps.Reviewer = reviewer

	_, err := NewGenerator(dir, deps).Run(context.Background(), Options{
		Review:   true,
		Language: types.LanguageEnglish,
		DryRun:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, reviewer.calls)
	assert.Contains(t, reviewer.diff, "Login")
	assert.Contains(t, out.String(), "建议补充测试")
}

func TestGenerator_TestOnlyChangeSkipsInfluence(t *testing.T) {
	dir := testutil.InitRepo(t)
	testutil.CommitFile(t, dir, "app.go", "package app\n", "initial")
	testutil.WriteFile(t, dir, "app_test.go", "package app\n")
	testutil.Git(t, dir, "add", "app_test.go")
	ai := &fakeAI{reply: "test: cover app"}
	deps, _ := newDeps(ai, &fakeAsker{})

	_, err := NewGenerator(dir, deps).Run(context.Background(), Options{
		Language:        types.LanguageEnglish,
		TestSuggestions: true,
		DryRun:          true,
	})
	require.NoError(t, err)

	assert.NotContains(t, ai.lastSystem, "Influence:")
	assert.Contains(t, ai.lastUser, "- initial\n")
}

func TestGenerator_MixedChangeKeepsInfluence(t *testing.T) {
	dir := stagedRepo(t)
	testutil.WriteFile(t, dir, "app_test.go", "package app\n")
	testutil.Git(t, dir, "add", "app_test.go")
	ai := &fakeAI{reply: "feat: add login"}
	deps, _ := newDeps(ai, &fakeAsker{})

	_, err := NewGenerator(dir, deps).Run(context.Background(), Options{
		Language:        types.LanguageEnglish,
		TestSuggestions: true,
		DryRun:          true,
	})
	require.NoError(t, err)

	assert.Contains(t, ai.lastSystem, "Influence:")
	assert.Contains(t, ai.lastSystem, "本次改动已包含测试文件")
}
