package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"tudu/internal/config"
	"tudu/internal/storage"
	"tudu/internal/todo"
)

type Model struct {
	engine   *todo.Engine
	store    storage.Store
	logger   *log.Logger
	keys     keyMap
	help     help.Model
	input    textinput.Model
	theme    string
	styles   styles
	status   string
	failed   bool
	saved    uint64
	width    int
	height   int
	quitting bool
}

func New(engine *todo.Engine, store storage.Store, cfg config.Config, logger *log.Logger, firstLaunch bool) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.Width = 40
	ti.Prompt = "> "
	ti.Cursor.SetMode(cursor.CursorStatic)

	status := "Press 'a' to add, space to toggle, 'd' to delete, '?' for help."
	if firstLaunch {
		status = "Welcome! Settings live in your config.toml. " + status
	}

	return Model{
		engine: engine,
		store:  store,
		logger: logger,
		keys:   newKeyMap(cfg.Keys),
		help:   help.New(),
		input:  ti,
		theme:  cfg.Theme,
		styles: newStyles(cfg.Theme),
		status: status,
		saved:  engine.Revision(),
	}
}

func Run(engine *todo.Engine, store storage.Store, cfg config.Config, logger *log.Logger, firstLaunch bool) error {
	m := New(engine, store, cfg, logger, firstLaunch)
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQ) {
			m.quitting = true
			return m, tea.Quit
		}
		before := m.engine.Mode()
		next, cmd := m.handleKey(msg)
		next.persist()
		if after := next.engine.Mode(); after != before {
			next.logger.Debug("mode changed", "from", before, "to", after)
		}
		return next, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.engine.Mode() {
	case todo.ModeConfirmDelete:
		return m.updateDeleteConfirm(msg), nil
	case todo.ModeHelp:
		return m.updateHelpMode(msg), nil
	case todo.ModeSearch:
		return m.updateSearchMode(msg), nil
	case todo.ModeAddInput, todo.ModeEditInput:
		return m.updateInputMode(msg), nil
	default:
		return m.updateListMode(msg)
	}
}

func (m Model) updateListMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	e := m.engine
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		e.Next()
	case key.Matches(msg, m.keys.Up):
		e.Previous()
	case key.Matches(msg, m.keys.Add):
		e.StartAdd()
		m.setStatus("Add mode: type a title and press Enter")
	case key.Matches(msg, m.keys.Edit):
		if _, ok := e.SelectedTask(); !ok {
			return m, nil
		}
		e.StartEdit()
		m.setStatus("Edit mode: change the title and press Enter")
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := e.SelectedTask(); ok {
			e.ToggleComplete()
			m.setStatus(fmt.Sprintf("Marked \"%s\" %s", t.Title, humanDone(!t.Completed)))
		}
	case key.Matches(msg, m.keys.Priority):
		if _, ok := e.SelectedTask(); ok {
			e.CyclePriority()
			m.setStatus("Priority changed")
		}
	case key.Matches(msg, m.keys.Delete):
		e.RequestDelete()
		if t, ok := e.SelectedTask(); ok {
			m.setStatus(fmt.Sprintf("Delete \"%s\"? y/n", t.Title))
		} else {
			m.setStatus("Nothing selected. y/n")
		}
	case key.Matches(msg, m.keys.Search):
		e.StartSearch()
		m.setStatus("Search: type to filter, Enter or Esc to close")
	case key.Matches(msg, m.keys.Theme):
		m.toggleTheme()
	case key.Matches(msg, m.keys.Help):
		e.ToggleHelp()
	}
	return m, nil
}

func (m Model) updateInputMode(msg tea.KeyMsg) Model {
	e := m.engine
	adding := e.Mode() == todo.ModeAddInput
	switch {
	case key.Matches(msg, m.keys.Submit):
		count := e.Len()
		e.SubmitInput()
		switch {
		case adding && e.Len() > count:
			m.setStatus("Added task")
		case adding:
			m.setStatus("Nothing to add")
		default:
			m.setStatus("Saved title")
		}
	case key.Matches(msg, m.keys.Cancel):
		e.Cancel()
		m.setStatus("Cancelled")
	case key.Matches(msg, m.keys.Erase):
		e.Backspace()
	default:
		typeRunes(e, msg)
	}
	return m
}

func (m Model) updateSearchMode(msg tea.KeyMsg) Model {
	e := m.engine
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Submit):
		e.CloseSearch()
		if q := e.SearchQuery(); q != "" {
			m.setStatus(fmt.Sprintf("Filtering by %q (%d of %d). Press '%s' to search again.",
				q, len(e.Filtered()), e.Len(), firstKey(m.keys.Search)))
		} else {
			m.setStatus("Search closed")
		}
	case key.Matches(msg, m.keys.Erase):
		e.Backspace()
	default:
		typeRunes(e, msg)
	}
	return m
}

func (m Model) updateHelpMode(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Quit):
		m.engine.CloseHelp()
	}
	return m
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) Model {
	e := m.engine
	switch {
	case key.Matches(msg, m.keys.Confirm):
		t, ok := e.SelectedTask()
		e.ConfirmDeleteYes()
		if ok {
			m.setStatus(fmt.Sprintf("Deleted \"%s\"", t.Title))
		} else {
			m.setStatus("Nothing to delete")
		}
	case key.Matches(msg, m.keys.Deny), key.Matches(msg, m.keys.Cancel):
		e.ConfirmDeleteNo()
		m.setStatus("Delete cancelled")
	}
	return m
}

// persist hands the list to the store whenever the engine reports a change.
// On failure the in-memory state is kept and the save is retried after the
// next key press.
func (m *Model) persist() {
	rev := m.engine.Revision()
	if rev == m.saved {
		return
	}
	if err := m.store.Save(m.engine.Tasks()); err != nil {
		m.logger.Error("save failed", "err", err)
		m.status = fmt.Sprintf("save failed: %v", err)
		m.failed = true
		return
	}
	m.logger.Debug("saved tasks", "count", m.engine.Len(), "revision", rev)
	m.saved = rev
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.failed = false
}

func (m *Model) toggleTheme() {
	if m.theme == config.ThemePlain {
		m.theme = config.ThemeNeon
	} else {
		m.theme = config.ThemePlain
	}
	m.styles = newStyles(m.theme)
	m.setStatus("Theme: " + m.theme)
}

// typeRunes appends printable input. Space arrives as its own key type.
func typeRunes(e *todo.Engine, msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			e.AppendRune(r)
		}
	case tea.KeySpace:
		e.AppendRune(' ')
	}
}

func firstKey(b key.Binding) string {
	if keys := b.Keys(); len(keys) > 0 {
		return keys[0]
	}
	return ""
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
