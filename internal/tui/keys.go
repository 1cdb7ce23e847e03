package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the board's bindings. Bindings are disabled when the race
// state does not allow them, which also hides them from the help line.
type keyMap struct {
	Add       key.Binding
	Edit      key.Binding
	Start     key.Binding
	Pause     key.Binding
	Resume    key.Binding
	Stop      key.Binding
	Reset     key.Binding
	Restart   key.Binding
	DeleteAll key.Binding
	Up        key.Binding
	Down      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Start:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Pause:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Resume:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		Stop:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Reset:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Restart:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "restart")),
		DeleteAll: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// apply enables exactly the bindings c allows.
func (k *keyMap) apply(c controls) {
	k.Add.SetEnabled(c.Add)
	k.Edit.SetEnabled(c.Edit)
	k.Start.SetEnabled(c.Start)
	k.Pause.SetEnabled(c.Pause)
	k.Resume.SetEnabled(c.Resume)
	k.Stop.SetEnabled(c.Stop)
	k.Reset.SetEnabled(c.Reset)
	k.Restart.SetEnabled(c.Restart)
	k.DeleteAll.SetEnabled(c.DeleteAll)
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Start, k.Pause, k.Resume, k.Stop, k.Restart, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Edit, k.Up, k.Down},
		{k.Start, k.Pause, k.Resume, k.Stop},
		{k.Restart, k.Reset, k.DeleteAll},
		{k.Help, k.Quit},
	}
}
