package interactive

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	editorWidth  = 76
	editorHeight = 14
)

// EditorModel is a textarea for editing a commit message.
type EditorModel struct {
	textarea textarea.Model
	initial  string
	styles   Styles
	keys     KeyMap

	saved     bool
	cancelled bool
}

// NewEditorModel creates an editor pre-filled with initial.
func NewEditorModel(initial string, styles Styles, keys KeyMap) *EditorModel {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(editorWidth)
	ta.SetHeight(editorHeight)
	ta.SetValue(initial)
	ta.Focus()

	return &EditorModel{
		textarea: ta,
		initial:  initial,
		styles:   styles,
		keys:     keys,
	}
}

// Init implements tea.Model.
func (m *EditorModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if w := msg.Width - 4; w > 20 && w < editorWidth {
			m.textarea.SetWidth(w)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Save):
			m.saved = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reset):
			m.textarea.SetValue(m.initial)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *EditorModel) View() string {
	if m.saved || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("编辑提交信息") + "\n")
	b.WriteString(m.styles.Frame.Render(m.textarea.View()) + "\n")
	for i, binding := range m.keys.EditorHelp() {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(m.styles.HelpKey.Render(binding.Help().Key))
		b.WriteString(m.styles.HelpDesc.Render(" " + binding.Help().Desc))
	}
	return b.String()
}

// Value returns the edited text.
func (m *EditorModel) Value() string {
	return m.textarea.Value()
}

// Saved reports whether the user saved the message.
func (m *EditorModel) Saved() bool {
	return m.saved
}

// Editor runs the message editor as a full-screen program.
type Editor struct{}

// NewEditor creates an editor.
func NewEditor() *Editor {
	return &Editor{}
}

// Edit lets the user change text. ok is false when the edit was cancelled.
func (e *Editor) Edit(text string) (string, bool, error) {
	model := NewEditorModel(text, DefaultStyles(), DefaultKeyMap())

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", false, fmt.Errorf("editor failed: %w", err)
	}

	m := final.(*EditorModel)
	if !m.Saved() {
		return "", false, nil
	}
	return strings.TrimSpace(m.Value()), true, nil
}
