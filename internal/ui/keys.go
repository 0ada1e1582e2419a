package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"tudu/internal/config"
)

type keyMap struct {
	Quit     key.Binding
	ForceQ   key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Toggle   key.Binding
	Priority key.Binding
	Search   key.Binding
	Theme    key.Binding
	Help     key.Binding
	Up       key.Binding
	Down     key.Binding
	Submit   key.Binding
	Cancel   key.Binding
	Confirm  key.Binding
	Deny     key.Binding
	Erase    key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:     binding(k.Quit, "quit"),
		ForceQ:   key.NewBinding(key.WithKeys("ctrl+c")),
		Add:      binding(k.Add, "add"),
		Edit:     binding(k.Edit, "edit"),
		Delete:   binding(k.Delete, "delete"),
		Toggle:   binding(k.Toggle, "toggle done"),
		Priority: binding(k.Priority, "cycle priority"),
		Search:   binding(k.Search, "search"),
		Theme:    binding(k.Theme, "theme"),
		Help:     binding(k.Help, "help"),
		Up:       binding(k.Up, "up"),
		Down:     binding(k.Down, "down"),
		Submit:   binding(k.Submit, "save"),
		Cancel:   binding(k.Cancel, "cancel"),
		Confirm:  binding(k.Confirm, "confirm"),
		Deny:     binding(k.Deny, "keep"),
		Erase:    key.NewBinding(key.WithKeys("backspace")),
	}
}

// binding turns a comma-separated key list from the config into a binding.
// "space" is accepted as a readable spelling of the space bar.
func binding(names, desc string) key.Binding {
	var keys []string
	for _, raw := range strings.Split(names, ",") {
		k := strings.TrimSpace(raw)
		switch {
		case k == "" && raw != "":
			keys = append(keys, " ")
		case k == "":
		case strings.EqualFold(k, "space"):
			keys = append(keys, " ")
		default:
			keys = append(keys, k)
		}
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpLabel(keys), desc),
	)
}

func helpLabel(keys []string) string {
	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		switch k {
		case " ":
			labels = append(labels, "space")
		case "up":
			labels = append(labels, "↑")
		case "down":
			labels = append(labels, "↓")
		default:
			labels = append(labels, k)
		}
	}
	return strings.Join(labels, "/")
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Priority, k.Delete, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Edit, k.Submit, k.Cancel},
		{k.Toggle, k.Priority, k.Delete, k.Confirm, k.Deny},
		{k.Search, k.Theme, k.Help, k.Quit},
	}
}
