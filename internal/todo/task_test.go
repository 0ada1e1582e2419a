package todo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want error
	}{
		{name: "ok", task: task("water plants", PriorityLow)},
		{name: "nil id", task: Task{Title: "x", Priority: PriorityHigh}, want: ErrInvalidTask},
		{name: "blank title", task: task(" \t", PriorityHigh), want: ErrInvalidTask},
		{name: "empty priority", task: Task{ID: uuid.New(), Title: "x"}, want: ErrInvalidPriority},
		{name: "unknown priority", task: task("x", "Urgent"), want: ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidTask)
		})
	}
}

func TestEngineTasksAlwaysValidate(t *testing.T) {
	e := New(nil)
	e.StartAdd()
	for _, r := range "buy milk" {
		e.AppendRune(r)
	}
	e.SubmitInput()
	e.CyclePriority()
	e.ToggleComplete()

	for _, tk := range e.Tasks() {
		assert.NoError(t, tk.Validate())
	}
}
