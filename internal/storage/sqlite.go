package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tudu/internal/todo"
)

// SQLiteStore persists the list as rows ordered by position.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS todos (
	position INTEGER PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureColumns()
}

func (s *SQLiteStore) ensureColumns() error {
	required := map[string]string{
		"completed": "ALTER TABLE todos ADD COLUMN completed INTEGER NOT NULL DEFAULT 0;",
		"priority":  "ALTER TABLE todos ADD COLUMN priority TEXT NOT NULL DEFAULT 'Medium';",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(todos);`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Load() ([]todo.Task, error) {
	rows, err := s.db.Query(`SELECT id, title, completed, priority FROM todos ORDER BY position;`)
	if err != nil {
		return []todo.Task{}, corrupt(err)
	}
	defer rows.Close()

	tasks := []todo.Task{}
	for rows.Next() {
		var idStr, title, priority string
		var completed int
		if err := rows.Scan(&idStr, &title, &completed, &priority); err != nil {
			return []todo.Task{}, corrupt(err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return []todo.Task{}, corrupt(fmt.Errorf("task id %q: %w", idStr, err))
		}
		p, err := todo.ParsePriority(priority)
		if err != nil {
			return []todo.Task{}, corrupt(err)
		}
		t := todo.Task{
			ID:        id,
			Title:     title,
			Completed: completed == 1,
			Priority:  p,
		}
		if err := t.Validate(); err != nil {
			return []todo.Task{}, corrupt(err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return []todo.Task{}, corrupt(err)
	}
	return tasks, nil
}

// Save replaces every row in one transaction.
func (s *SQLiteStore) Save(tasks []todo.Task) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM todos;`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO todos (position, id, title, completed, priority) VALUES (?, ?, ?, ?, ?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tasks {
		done := 0
		if t.Completed {
			done = 1
		}
		if _, err = stmt.Exec(i, t.ID.String(), t.Title, done, string(t.Priority)); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
