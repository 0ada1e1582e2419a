package todo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidTask     = errors.New("invalid task")
)

// Priority is stored by name so files stay readable and stable across
// reorderings of the constants.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rank is the sort key: High sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Next cycles High -> Medium -> Low -> High.
func (p Priority) Next() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	default:
		return PriorityHigh
	}
}

func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, string(p))
	}
	return []byte(p), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	parsed, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

type Task struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Priority  Priority  `json:"priority"`
}

// Validate reports whether t could have been produced by the engine: a
// non-nil id, a non-blank title and a known priority.
func (t Task) Validate() error {
	switch {
	case t.ID == uuid.Nil:
		return fmt.Errorf("%w: missing id", ErrInvalidTask)
	case strings.TrimSpace(t.Title) == "":
		return fmt.Errorf("%w: %s has a blank title", ErrInvalidTask, t.ID)
	case !t.Priority.Valid():
		return fmt.Errorf("%w: %s: %w %q", ErrInvalidTask, t.ID, ErrInvalidPriority, string(t.Priority))
	}
	return nil
}

func newTask(title string) Task {
	return Task{
		ID:       uuid.New(),
		Title:    title,
		Priority: PriorityMedium,
	}
}
