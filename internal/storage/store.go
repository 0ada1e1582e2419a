package storage

import (
	"errors"
	"fmt"

	"tudu/internal/todo"
)

const (
	KindJSON   = "json"
	KindSQLite = "sqlite"
)

// ErrCorrupt marks persisted state that exists but cannot be decoded.
// Callers are expected to log it and continue with an empty list.
var ErrCorrupt = errors.New("stored tasks are corrupt")

type Store interface {
	Load() ([]todo.Task, error)
	Save(tasks []todo.Task) error
	Close() error
}

func Open(kind, path string) (Store, error) {
	if path == "" {
		return nil, errors.New("data path is empty")
	}
	switch kind {
	case KindJSON, "":
		return OpenJSON(path), nil
	case KindSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage kind %q", kind)
	}
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %v", ErrCorrupt, err)
}
