package interactive

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the message editor.
type KeyMap struct {
	Save   key.Binding
	Cancel key.Binding
	Reset  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset"),
		),
	}
}

// EditorHelp returns the bindings shown in the editor help bar.
func (k KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Save, k.Reset, k.Cancel}
}
