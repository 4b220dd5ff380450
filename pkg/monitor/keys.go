package monitor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Quit key.Binding
	Tree key.Binding
	Help key.Binding

	// Handled by the document, listed for help only.
	Navigate key.Binding
	Select   key.Binding
	Dismiss  key.Binding
	Tab      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		Tree:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "tree")),
		Help:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Navigate: key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("↑/↓/←/→", "navigate")),
		Select:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "select")),
		Dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Tab:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "focus")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Navigate, k.Dismiss, k.Tree, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Navigate, k.Select, k.Dismiss},
		{k.Tree, k.Help, k.Quit},
	}
}

var helpKeyStyle = lipgloss.NewStyle().Bold(true)

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, helpKeyStyle.Render(help.Key)+" "+help.Desc)
	}
	return strings.Join(parts, "  ")
}

var domKeys = map[tea.KeyType]string{
	tea.KeyUp:        "ArrowUp",
	tea.KeyDown:      "ArrowDown",
	tea.KeyLeft:      "ArrowLeft",
	tea.KeyRight:     "ArrowRight",
	tea.KeyHome:      "Home",
	tea.KeyEnd:       "End",
	tea.KeyPgUp:      "PageUp",
	tea.KeyPgDown:    "PageDown",
	tea.KeyEnter:     "Enter",
	tea.KeyEsc:       "Escape",
	tea.KeyTab:       "Tab",
	tea.KeySpace:     " ",
	tea.KeyBackspace: "Backspace",
	tea.KeyDelete:    "Delete",
}

// domKey translates a terminal key press into the key names list
// navigation and dismiss listen for.
func domKey(msg tea.KeyMsg) (KeyInput, bool) {
	switch msg.Type {
	case tea.KeyShiftTab:
		return KeyInput{Key: "Tab", Shift: true}, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return KeyInput{}, false
		}
		return KeyInput{Key: string(msg.Runes), Alt: msg.Alt}, true
	}
	name, ok := domKeys[msg.Type]
	if !ok {
		return KeyInput{}, false
	}
	return KeyInput{Key: name, Alt: msg.Alt}, true
}
