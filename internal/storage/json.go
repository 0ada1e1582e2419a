package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tudu/internal/todo"
)

// JSONStore keeps the whole list in one pretty-printed JSON array.
type JSONStore struct {
	path string
}

func OpenJSON(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) Load() ([]todo.Task, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []todo.Task{}, nil
	}
	if err != nil {
		return []todo.Task{}, corrupt(err)
	}

	var tasks []todo.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return []todo.Task{}, corrupt(err)
	}
	if tasks == nil {
		tasks = []todo.Task{}
	}
	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			return []todo.Task{}, corrupt(fmt.Errorf("record %d: %w", i, err))
		}
	}
	return tasks, nil
}

// Save writes to a temp file in the same directory and renames it over the
// old file, so a failed write leaves the previous state intact.
func (s *JSONStore) Save(tasks []todo.Task) error {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *JSONStore) Close() error {
	return nil
}
