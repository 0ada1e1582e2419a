package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"tudu/internal/todo"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.engine.Mode() == todo.ModeHelp {
		return m.overlay(m.renderHelpPopup())
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Todo List"))
	b.WriteString("  ")
	b.WriteString(m.styles.Muted.Render(m.summary()))
	b.WriteString("\n")
	b.WriteString(m.styles.Box.Render(m.renderTaskList()))
	b.WriteString("\n")
	b.WriteString(m.renderInputBox())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	if m.engine.Mode() == todo.ModeConfirmDelete {
		b.WriteString("\n\n")
		b.WriteString(m.renderConfirm())
	}
	return b.String()
}

func (m Model) summary() string {
	total, done := m.engine.Stats()
	s := fmt.Sprintf("%d tasks • %d done", total, done)
	if q := m.engine.SearchQuery(); q != "" {
		s += fmt.Sprintf(" • filter %q: %d shown", q, len(m.engine.Filtered()))
	}
	return s
}

func (m Model) renderTaskList() string {
	if m.engine.Len() == 0 {
		return m.styles.Muted.Render(fmt.Sprintf("No tasks yet. Press '%s' to add one.", firstKey(m.keys.Add)))
	}
	visible := m.engine.Filtered()
	if len(visible) == 0 {
		return m.styles.Muted.Render("No tasks match the search.")
	}

	selected, hasSelection := m.engine.SelectedTask()
	lines := make([]string, 0, len(visible))
	for _, t := range visible {
		isSelected := hasSelection && t.ID == selected.ID
		lines = append(lines, m.renderTask(t, isSelected))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTask(t todo.Task, isSelected bool) string {
	marker := "  "
	if isSelected {
		marker = "➤ "
	}
	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[✔]"
	}

	title := fmt.Sprintf("%s %s", checkbox, t.Title)
	switch {
	case isSelected:
		title = m.styles.Selected.Render(title)
	case t.Completed:
		title = m.styles.Done.Render(title)
	default:
		title = m.styles.Task.Render(title)
	}
	return marker + m.styles.priority(t.Priority) + " " + title
}

func (m Model) renderInputBox() string {
	var header, body string
	switch m.engine.Mode() {
	case todo.ModeAddInput:
		header = "Add Todo (enter save • esc cancel)"
		body = m.inputView(m.engine.Input())
	case todo.ModeEditInput:
		header = "Edit Todo (enter save • esc cancel)"
		body = m.inputView(m.engine.Input())
	case todo.ModeSearch:
		header = "Search (enter/esc close)"
		body = m.inputView(m.engine.SearchQuery())
	default:
		header = fmt.Sprintf("Press '%s' to add a todo • '%s' help", firstKey(m.keys.Add), firstKey(m.keys.Help))
		if q := m.engine.SearchQuery(); q != "" {
			body = m.styles.Muted.Render("filter: " + q)
		}
	}
	return m.styles.Box.Render(m.styles.Title.Render(header) + "\n" + m.styles.Input.Render(body))
}

// inputView renders value through the text input widget; the engine owns the
// buffer, the widget only draws it.
func (m Model) inputView(value string) string {
	in := m.inputWidget(value)
	return in.View()
}

func (m Model) inputWidget(value string) textinput.Model {
	in := m.input
	in.SetValue(value)
	in.CursorEnd()
	in.Focus()
	return in
}

func (m Model) renderStatus() string {
	if m.failed {
		return m.styles.Error.Render(m.status)
	}
	return m.styles.Status.Render(m.status)
}

func (m Model) renderConfirm() string {
	prompt := "Nothing selected."
	if t, ok := m.engine.SelectedTask(); ok {
		prompt = fmt.Sprintf("Delete \"%s\"?", t.Title)
	}
	return m.styles.Popup.Render(fmt.Sprintf("%s\n\n%s yes • %s no",
		prompt, firstKey(m.keys.Confirm), firstKey(m.keys.Deny)))
}

func (m Model) renderHelpPopup() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Keybindings"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Input.Render(fmt.Sprintf("Press %s or %s to close", firstKey(m.keys.Cancel), firstKey(m.keys.Help))))
	return m.styles.Popup.Render(b.String())
}

func (m Model) overlay(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
