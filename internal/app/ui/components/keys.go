package components

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the log view
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	Bottom       key.Binding
	Levels       [5]key.Binding
	CrashMode    key.Binding
	DialogueMode key.Binding
	NextSource   key.Binding
	ToggleSource key.Binding
	Search       key.Binding
	ToggleRegex  key.Binding
	ToggleCase   key.Binding
	Pause        key.Binding
	Clear        key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding
	ApplySearch  key.Binding
	CancelSearch key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	levels := [5]key.Binding{}
	names := []string{"debug", "info", "warning", "error", "critical"}

	for i, name := range names {
		k := string(rune('1' + i))
		levels[i] = key.NewBinding(key.WithKeys(k), key.WithHelp(k, name))
	}

	return KeyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:       key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown", "f"), key.WithHelp("pgdn", "page down")),
		Bottom:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "follow")),
		Levels:       levels,
		CrashMode:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "crash")),
		DialogueMode: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dialogue")),
		NextSource:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next source")),
		ToggleSource: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle source")),
		Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ToggleRegex:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "regex")),
		ToggleCase:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "case")),
		Pause:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Clear:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
		Quit:         key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "force quit")),
		ApplySearch:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		CancelSearch: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp returns the bindings listed in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "levels")),
		k.CrashMode, k.DialogueMode, k.NextSource, k.ToggleSource,
		k.Search, k.ToggleRegex, k.ToggleCase, k.Pause, k.Clear, k.Quit,
	}
}
