package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/taskboard/internal/ui"
)

// ------- styling helpers (Lip Gloss), resolved from the active theme -------

func sectionTitle(th ui.Theme, name string, n int) string {
	return th.Accent.Render(name) + th.Muted.Render(fmt.Sprintf(" (%d)", n))
}

func inputBar(th ui.Theme) lipgloss.Style {
	return lipgloss.NewStyle().Border(th.Border).BorderForeground(th.BorderColor).Padding(0, 1)
}

// keyMap lists the board bindings; it also feeds the help line.
type keyMap struct {
	Add, Toggle, Delete, Sort, Refresh, Switch, Quit key.Binding
	Submit, Cancel                                  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Switch:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Sort, k.Switch, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Toggle, k.Delete},
		{k.Sort, k.Refresh, k.Switch, k.Quit},
	}
}

// inputHelp is shown while the draft input is open.
type inputHelp struct{ k keyMap }

func (h inputHelp) ShortHelp() []key.Binding  { return []key.Binding{h.k.Submit, h.k.Cancel} }
func (h inputHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }
