package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tudu/internal/todo"
)

func sampleTasks() []todo.Task {
	return []todo.Task{
		{ID: uuid.New(), Title: "Buy milk", Completed: false, Priority: todo.PriorityHigh},
		{ID: uuid.New(), Title: "Write report", Completed: true, Priority: todo.PriorityMedium},
		{ID: uuid.New(), Title: "Call plumber", Completed: false, Priority: todo.PriorityLow},
		{ID: uuid.New(), Title: "Ünïcode ✓", Completed: true, Priority: todo.PriorityMedium},
	}
}

func openBoth(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	stores := map[string]Store{}
	for _, kind := range []string{KindJSON, KindSQLite} {
		s, err := Open(kind, filepath.Join(dir, "todos."+kind))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		stores[kind] = s
	}
	return stores
}

func TestStore_LoadMissingIsEmpty(t *testing.T) {
	for kind, s := range openBoth(t) {
		tasks, err := s.Load()
		require.NoError(t, err, kind)
		assert.NotNil(t, tasks, kind)
		assert.Empty(t, tasks, kind)
	}
}

func TestStore_RoundTripKeepsOrder(t *testing.T) {
	for kind, s := range openBoth(t) {
		want := sampleTasks()
		require.NoError(t, s.Save(want), kind)

		got, err := s.Load()
		require.NoError(t, err, kind)
		assert.Equal(t, want, got, kind)
	}
}

func TestStore_SaveReplacesEverything(t *testing.T) {
	for kind, s := range openBoth(t) {
		require.NoError(t, s.Save(sampleTasks()), kind)

		smaller := sampleTasks()[:1]
		require.NoError(t, s.Save(smaller), kind)
		got, err := s.Load()
		require.NoError(t, err, kind)
		assert.Equal(t, smaller, got, kind)

		require.NoError(t, s.Save(nil), kind)
		got, err = s.Load()
		require.NoError(t, err, kind)
		assert.Empty(t, got, kind)
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	_, err := Open("xml", filepath.Join(t.TempDir(), "x"))
	assert.Error(t, err)

	_, err = Open(KindJSON, "")
	assert.Error(t, err)
}

func TestJSONStore_CorruptFileIsSwallowed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "garbage", content: "{not json"},
		{name: "wrong shape", content: `{"id": 1}`},
		{name: "bad id", content: `[{"id":"nope","title":"x","completed":false,"priority":"High"}]`},
		{name: "bad priority", content: `[{"id":"` + uuid.NewString() + `","title":"x","completed":false,"priority":"Urgent"}]`},
		{name: "missing priority", content: `[{"id":"` + uuid.NewString() + `","title":"old","completed":false}]`},
		{name: "null priority", content: `[{"id":"` + uuid.NewString() + `","title":"old","completed":false,"priority":null}]`},
		{name: "missing id", content: `[{"title":"old","completed":false,"priority":"Low"}]`},
		{name: "blank title", content: `[{"id":"` + uuid.NewString() + `","title":"   ","completed":false,"priority":"Low"}]`},
		{name: "one bad record", content: `[{"id":"` + uuid.NewString() + `","title":"ok","completed":false,"priority":"Low"},{"id":"` + uuid.NewString() + `","title":""}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "todos.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			tasks, err := OpenJSON(path).Load()
			require.ErrorIs(t, err, ErrCorrupt)
			assert.NotNil(t, tasks)
			assert.Empty(t, tasks)
		})
	}
}

func TestJSONStore_SavesAfterRejectingRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	content := `[{"id":"6f1c1e3a-9a4b-4c55-8a57-8f0f4c1e2d3b","title":"old","completed":false}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := OpenJSON(path)
	tasks, err := s.Load()
	require.ErrorIs(t, err, ErrCorrupt)
	require.Empty(t, tasks)

	want := sampleTasks()
	require.NoError(t, s.Save(want))
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLiteStore_BlankTitleRowIsSwallowed(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "todo.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec(`INSERT INTO todos (position, id, title, completed, priority) VALUES (0, ?, '  ', 0, 'High');`, uuid.NewString())
	require.NoError(t, err)

	tasks, err := s.Load()
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Empty(t, tasks)
}

func TestJSONStore_ReadsOriginalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	content := `[
  {
    "id": "6f1c1e3a-9a4b-4c55-8a57-8f0f4c1e2d3b",
    "title": "Water plants",
    "completed": true,
    "priority": "Low"
  }
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tasks, err := OpenJSON(path).Load()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "6f1c1e3a-9a4b-4c55-8a57-8f0f4c1e2d3b", tasks[0].ID.String())
	assert.Equal(t, "Water plants", tasks[0].Title)
	assert.True(t, tasks[0].Completed)
	assert.Equal(t, todo.PriorityLow, tasks[0].Priority)
}

func TestJSONStore_SaveCreatesDirAndLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := OpenJSON(filepath.Join(dir, "todos.json"))
	require.NoError(t, s.Save(sampleTasks()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "todos.json", entries[0].Name())
}

func TestSQLiteStore_CorruptRowIsSwallowed(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "todo.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec(`INSERT INTO todos (position, id, title, completed, priority) VALUES (0, 'not-a-uuid', 'x', 0, 'High');`)
	require.NoError(t, err)

	tasks, err := s.Load()
	require.ErrorIs(t, err, ErrCorrupt)
	assert.Empty(t, tasks)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	want := sampleTasks()
	require.NoError(t, s.Save(want))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLiteStore_MigratesOldTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = s.db.Exec(`DROP TABLE todos;`)
	require.NoError(t, err)
	_, err = s.db.Exec(`CREATE TABLE todos (position INTEGER PRIMARY KEY, id TEXT NOT NULL UNIQUE, title TEXT NOT NULL);`)
	require.NoError(t, err)
	id := uuid.New()
	_, err = s.db.Exec(`INSERT INTO todos (position, id, title) VALUES (0, ?, 'legacy');`, id.String())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []todo.Task{{ID: id, Title: "legacy", Priority: todo.PriorityMedium}}, got)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:memdb?mode=memory", sqliteDSN("file:memdb?mode=memory"))

	dsn := sqliteDSN(filepath.Join(t.TempDir(), "todo.db"))
	assert.Contains(t, dsn, "file://")
	assert.Contains(t, dsn, "mode=rwc")
	assert.Contains(t, dsn, "busy_timeout")
}
