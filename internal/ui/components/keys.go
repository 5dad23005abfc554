package components

import (
	"charm.land/bubbles/v2/key"

	"github.com/mathrush/mathrush/internal/ui/layout"
)

// KeyMap holds the bindings shared by every screen.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	Back    key.Binding
	Restart key.Binding
	Option  key.Binding
	Yes     key.Binding
	No      key.Binding
}

// Keys is the default key map.
var Keys = KeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "Up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "Down")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "Left")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "Right")),
	Select:  key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", "Select")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
	Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("R", "Play again")),
	Option:  key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "Answer")),
	Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("Y", "Quit game")),
	No:      key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("N", "Keep playing")),
}

// Hints converts bindings into footer hints, skipping disabled ones.
func Hints(bindings ...key.Binding) []layout.KeyHint {
	hints := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hints = append(hints, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}
