// Package todo holds the todo-list state engine: the ordered task list, the
// selection cursor, the interaction mode and the search query.
//
// Every operation is a silent no-op when it does not apply (empty title,
// nothing selected, wrong mode). The engine never returns errors; callers
// observe changes through the query methods and Revision.
package todo

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeAddInput
	ModeEditInput
	ModeSearch
	ModeConfirmDelete
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeAddInput:
		return "add"
	case ModeEditInput:
		return "edit"
	case ModeSearch:
		return "search"
	case ModeConfirmDelete:
		return "confirm-delete"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// TextEntry reports whether printable keys are typed into a buffer.
func (m Mode) TextEntry() bool {
	return m == ModeAddInput || m == ModeEditInput || m == ModeSearch
}

const noSelection = -1

type Engine struct {
	tasks    []Task
	selected int
	mode     Mode
	input    string
	query    string
	revision uint64
}

// New builds an engine over tasks in the order given. The first task is
// selected when the list is non-empty.
func New(tasks []Task) *Engine {
	e := &Engine{
		tasks:    slices.Clone(tasks),
		selected: noSelection,
	}
	if len(e.tasks) > 0 {
		e.selected = 0
	}
	return e
}

func (e *Engine) Tasks() []Task {
	return slices.Clone(e.tasks)
}

func (e *Engine) Len() int {
	return len(e.tasks)
}

func (e *Engine) Selected() (int, bool) {
	if e.selected == noSelection {
		return 0, false
	}
	return e.selected, true
}

func (e *Engine) SelectedTask() (Task, bool) {
	i, ok := e.Selected()
	if !ok {
		return Task{}, false
	}
	return e.tasks[i], true
}

func (e *Engine) Mode() Mode {
	return e.mode
}

func (e *Engine) Input() string {
	return e.input
}

func (e *Engine) SearchQuery() string {
	return e.query
}

// Revision increases every time the task list changes. The shell compares
// it before and after an operation to decide whether to persist.
func (e *Engine) Revision() uint64 {
	return e.revision
}

// Stats returns the number of tasks and how many of them are completed.
func (e *Engine) Stats() (total, completed int) {
	for _, t := range e.tasks {
		if t.Completed {
			completed++
		}
	}
	return len(e.tasks), completed
}

// Filtered returns the tasks whose title contains the search query,
// ignoring case. An empty query matches everything.
func (e *Engine) Filtered() []Task {
	if e.query == "" {
		return e.Tasks()
	}
	q := strings.ToLower(e.query)
	var out []Task
	for _, t := range e.tasks {
		if strings.Contains(strings.ToLower(t.Title), q) {
			out = append(out, t)
		}
	}
	return out
}

func (e *Engine) StartAdd() {
	if e.mode != ModeNormal {
		return
	}
	e.input = ""
	e.mode = ModeAddInput
}

// Add appends a task with the trimmed title and re-sorts. A blank title
// creates nothing. Either way the input is cleared and the engine returns
// to normal mode.
func (e *Engine) Add(title string) {
	if e.mode != ModeNormal && e.mode != ModeAddInput {
		return
	}
	if title = strings.TrimSpace(title); title != "" {
		e.tasks = append(e.tasks, newTask(title))
		e.sortByPriority()
	}
	e.input = ""
	e.mode = ModeNormal
}

func (e *Engine) StartEdit() {
	if e.mode != ModeNormal {
		return
	}
	t, ok := e.SelectedTask()
	if !ok {
		return
	}
	e.input = t.Title
	e.mode = ModeEditInput
}

// SubmitEdit renames the selected task. A blank title keeps the old one.
func (e *Engine) SubmitEdit(title string) {
	if e.mode != ModeEditInput {
		return
	}
	if i, ok := e.Selected(); ok {
		if title = strings.TrimSpace(title); title != "" {
			e.tasks[i].Title = title
		}
		e.sortByPriority()
	}
	e.input = ""
	e.mode = ModeNormal
}

func (e *Engine) ToggleComplete() {
	if e.mode != ModeNormal {
		return
	}
	i, ok := e.Selected()
	if !ok {
		return
	}
	e.tasks[i].Completed = !e.tasks[i].Completed
	e.touch()
}

// RequestDelete asks for confirmation even with nothing selected; the
// confirmation is then a no-op.
func (e *Engine) RequestDelete() {
	if e.mode != ModeNormal {
		return
	}
	e.mode = ModeConfirmDelete
}

func (e *Engine) ConfirmDeleteYes() {
	if e.mode != ModeConfirmDelete {
		return
	}
	e.mode = ModeNormal
	i, ok := e.Selected()
	if !ok {
		return
	}
	e.tasks = slices.Delete(e.tasks, i, i+1)
	if len(e.tasks) == 0 {
		e.selected = noSelection
	} else {
		e.selected = min(i, len(e.tasks)-1)
	}
	e.touch()
}

func (e *Engine) ConfirmDeleteNo() {
	if e.mode != ModeConfirmDelete {
		return
	}
	e.mode = ModeNormal
}

func (e *Engine) CyclePriority() {
	if e.mode != ModeNormal {
		return
	}
	i, ok := e.Selected()
	if !ok {
		return
	}
	e.tasks[i].Priority = e.tasks[i].Priority.Next()
	e.sortByPriority()
}

func (e *Engine) StartSearch() {
	if e.mode != ModeNormal {
		return
	}
	e.query = ""
	e.mode = ModeSearch
}

func (e *Engine) UpdateSearchQuery(text string) {
	if e.mode != ModeSearch {
		return
	}
	e.query = text
}

// CloseSearch leaves search mode but keeps the query, so the filter stays
// applied until the next StartSearch.
func (e *Engine) CloseSearch() {
	if e.mode != ModeSearch {
		return
	}
	e.mode = ModeNormal
}

func (e *Engine) ToggleHelp() {
	switch e.mode {
	case ModeNormal:
		e.mode = ModeHelp
	case ModeHelp:
		e.mode = ModeNormal
	}
}

func (e *Engine) CloseHelp() {
	if e.mode == ModeHelp {
		e.mode = ModeNormal
	}
}

// Next moves the selection down, wrapping to the top.
func (e *Engine) Next() {
	if e.mode != ModeNormal || len(e.tasks) == 0 {
		return
	}
	if e.selected != noSelection && e.selected+1 < len(e.tasks) {
		e.selected++
		return
	}
	e.selected = 0
}

// Previous moves the selection up, wrapping to the bottom.
func (e *Engine) Previous() {
	if e.mode != ModeNormal || len(e.tasks) == 0 {
		return
	}
	if e.selected > 0 {
		e.selected--
		return
	}
	e.selected = len(e.tasks) - 1
}

// AppendRune types r into the add/edit buffer or the search query.
func (e *Engine) AppendRune(r rune) {
	switch e.mode {
	case ModeAddInput, ModeEditInput:
		e.input += string(r)
	case ModeSearch:
		e.query += string(r)
	}
}

func (e *Engine) Backspace() {
	switch e.mode {
	case ModeAddInput, ModeEditInput:
		e.input = dropLastRune(e.input)
	case ModeSearch:
		e.query = dropLastRune(e.query)
	}
}

// SubmitInput commits whatever the current text-entry mode is collecting.
func (e *Engine) SubmitInput() {
	switch e.mode {
	case ModeAddInput:
		e.Add(e.input)
	case ModeEditInput:
		e.SubmitEdit(e.input)
	case ModeSearch:
		e.CloseSearch()
	}
}

// Cancel backs out of the current mode without committing anything.
func (e *Engine) Cancel() {
	switch e.mode {
	case ModeAddInput, ModeEditInput:
		e.input = ""
		e.mode = ModeNormal
	case ModeSearch:
		e.CloseSearch()
	case ModeConfirmDelete:
		e.ConfirmDeleteNo()
	case ModeHelp:
		e.CloseHelp()
	}
}

func (e *Engine) sortByPriority() {
	slices.SortStableFunc(e.tasks, func(a, b Task) int {
		return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
	})
	if len(e.tasks) > 0 {
		e.selected = 0
	}
	e.touch()
}

func (e *Engine) touch() {
	e.revision++
}

func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
