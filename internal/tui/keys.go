package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/lox/lastcard/internal/deck"
)

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	Play      key.Binding
	Color     key.Binding
	Draw      key.Binding
	Declare   key.Binding
	Challenge key.Binding
	NextHand  key.Binding
	Save      key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
	Cancel    key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "select")),
		Right:     key.NewBinding(key.WithKeys("right", "l")),
		Play:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "play")),
		Color:     key.NewBinding(key.WithKeys("r", "g", "b", "y"), key.WithHelp("r/g/b/y", "wild color")),
		Draw:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "draw")),
		Declare:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "last card!")),
		Challenge: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "challenge")),
		NextHand:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next hand")),
		Save:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		ScrollUp:  key.NewBinding(key.WithKeys("pgup", "up"), key.WithHelp("↑/↓", "scroll log")),
		ScrollDn:  key.NewBinding(key.WithKeys("pgdown", "down")),
		Cancel:    key.NewBinding(key.WithKeys("esc")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Play, k.Color, k.Draw, k.Declare, k.Challenge, k.NextHand, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Play, k.Color, k.Draw},
		{k.Declare, k.Challenge},
		{k.NextHand, k.Save, k.ScrollUp, k.Quit},
	}
}

var colorKeys = map[string]deck.Color{
	"r": deck.Red,
	"g": deck.Green,
	"b": deck.Blue,
	"y": deck.Yellow,
}
