package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the editor keybindings.
type KeyMap struct {
	Save          key.Binding
	Quit          key.Binding
	Undo          key.Binding
	Redo          key.Binding
	Indent        key.Binding
	Outdent       key.Binding
	ToggleTask    key.Binding
	TogglePreview key.Binding
	FocusToggle   key.Binding
	Help          key.Binding
}

// DefaultKeyMap returns the default editor keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "redo"),
		),
		Indent: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "indent list item"),
		),
		Outdent: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "outdent list item"),
		),
		ToggleTask: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle task checkbox"),
		),
		TogglePreview: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "toggle preview"),
		),
		FocusToggle: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "switch pane"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "help"),
		),
	}
}

// ShortHelp returns the bindings shown in the one-line help footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Undo, k.TogglePreview, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.Quit, k.Help},
		{k.Undo, k.Redo},
		{k.Indent, k.Outdent, k.ToggleTask},
		{k.TogglePreview, k.FocusToggle},
	}
}
