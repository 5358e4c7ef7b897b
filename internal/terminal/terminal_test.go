package terminal

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_Block(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Block("生成的提交信息预览:", "feat: add thing\n\nbody\n")

	out := buf.String()
	assert.Contains(t, out, "生成的提交信息预览:")
	assert.Contains(t, out, "feat: add thing\n\nbody\n")
	assert.Equal(t, 2, strings.Count(out, strings.Repeat("─", separatorWidth)))
}

func TestPrinter_Lines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Step("🔍", "Analyzing")
	p.Success("done")
	p.Warning("careful")
	p.Error("failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "🔍 Analyzing")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "failed: boom")
}

func TestPrinter_Review(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Review("代码审查报告：\n一切正常。")

	assert.Contains(t, buf.String(), "代码审查报告：")
	assert.Contains(t, buf.String(), "一切正常。")
}

func TestSpinner_NonTTY(t *testing.T) {
	var buf bytes.Buffer
	stop := NewSpinnerTo(&buf).Start("正在请求 api.openai.com 进行AI对话")
	stop()

	assert.Equal(t, "正在请求 api.openai.com 进行AI对话...\n", buf.String())
}

func TestSpinner_RegularFileIsNotTTY(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "progress.log"))
	require.NoError(t, err)
	defer f.Close()

	s := NewSpinnerTo(f)
	assert.False(t, s.tty)
	s.Start("正在生成提交信息")()

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "正在生成提交信息...\n", string(data))
}

func TestSpinnerModel_Update(t *testing.T) {
	m := newSpinnerModel("working", DefaultStyles())
	assert.Contains(t, m.View(), "working")

	updated, cmd := m.Update(stopMsg{})
	require.NotNil(t, cmd)
	assert.Empty(t, updated.View())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
}
