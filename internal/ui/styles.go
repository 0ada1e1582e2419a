package ui

import (
	"github.com/charmbracelet/lipgloss"

	"tudu/internal/config"
	"tudu/internal/todo"
)

type styles struct {
	Title    lipgloss.Style
	Box      lipgloss.Style
	Selected lipgloss.Style
	Task     lipgloss.Style
	Done     lipgloss.Style
	Input    lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Popup    lipgloss.Style
	Muted    lipgloss.Style
	High     lipgloss.Style
	Medium   lipgloss.Style
	Low      lipgloss.Style
}

func newStyles(theme string) styles {
	if theme == config.ThemePlain {
		return plainStyles()
	}
	return neonStyles()
}

func neonStyles() styles {
	accent := lipgloss.Color("51")
	return styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Background(lipgloss.Color("0")),
		Task:     lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Done:     lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("201")),
		Input:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Popup:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(accent).Padding(1, 2),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		High:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Medium:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Low:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
}

func plainStyles() styles {
	return styles{
		Title:    lipgloss.NewStyle().Bold(true),
		Box:      lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Task:     lipgloss.NewStyle(),
		Done:     lipgloss.NewStyle().Faint(true),
		Input:    lipgloss.NewStyle(),
		Status:   lipgloss.NewStyle(),
		Error:    lipgloss.NewStyle().Bold(true),
		Popup:    lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2),
		Muted:    lipgloss.NewStyle().Faint(true),
		High:     lipgloss.NewStyle().Bold(true),
		Medium:   lipgloss.NewStyle(),
		Low:      lipgloss.NewStyle().Faint(true),
	}
}

func (s styles) priority(p todo.Priority) string {
	switch p {
	case todo.PriorityHigh:
		return s.High.Render("HIGH")
	case todo.PriorityLow:
		return s.Low.Render("LOW ")
	default:
		return s.Medium.Render("MED ")
	}
}
