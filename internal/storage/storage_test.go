package storage

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"dayplan/internal/planner"
)

func sampleState() planner.State {
	return planner.State{
		Tasks: []planner.Task{
			{ID: "a1", Name: "mop floor", Date: "2024-02-29", Time: "08:00", Category: "Cleaning", Location: "home"},
			{ID: "b2", Name: "essay", Date: "2024-03-01", Time: "20:15", Category: "Gone", Done: true},
		},
		Categories: []string{"Cleaning", "Personal", "School"},
	}
}

func equalStates(t *testing.T, got, want planner.State) {
	t.Helper()
	if !slices.Equal(got.Tasks, want.Tasks) {
		t.Errorf("tasks = %+v, want %+v", got.Tasks, want.Tasks)
	}
	if !slices.Equal(got.Categories, want.Categories) {
		t.Errorf("categories = %v, want %v", got.Categories, want.Categories)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todos.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ---------------------------------------------------------------------------
// Backend selection
// ---------------------------------------------------------------------------

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()
	gw, err := Open("", filepath.Join(dir, "todos.json"))
	if err != nil {
		t.Fatalf("Open(json) error = %v", err)
	}
	if _, ok := gw.(*JSONFile); !ok {
		t.Fatalf("default backend = %T, want *JSONFile", gw)
	}

	gw, err = Open(BackendSQLite, filepath.Join(dir, "todo.db"))
	if err != nil {
		t.Fatalf("Open(sqlite) error = %v", err)
	}
	defer gw.Close()
	if _, ok := gw.(*SQLite); !ok {
		t.Fatalf("sqlite backend = %T", gw)
	}

	if _, err := Open("redis", "x"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

// ---------------------------------------------------------------------------
// JSON document
// ---------------------------------------------------------------------------

func TestJSONMissingFileIsNoState(t *testing.T) {
	gw, _ := OpenJSON(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := gw.Load(); !errors.Is(err, planner.ErrNoState) {
		t.Fatalf("Load() error = %v, want ErrNoState", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todos.json")
	gw, _ := OpenJSON(path)

	if err := gw.Save(sampleState()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := gw.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	equalStates(t, got, sampleState())

	data, _ := os.ReadFile(path)
	if !strings.HasSuffix(string(data), "}\n") || !strings.Contains(string(data), "\n  \"todos\": [") {
		t.Fatalf("unexpected formatting:\n%s", data)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestJSONSaveEmptyState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	gw, _ := OpenJSON(path)
	if err := gw.Save(planner.State{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	want := "{\n  \"todos\": [],\n  \"categories\": []\n}\n"
	if string(data) != want {
		t.Fatalf("file = %q, want %q", data, want)
	}
}

func TestJSONLegacyDocumentWithoutIDs(t *testing.T) {
	path := writeFile(t, `{"todos": [
		{"name": "a", "date": "2024-01-01", "time": "10:00", "category": "School", "location": "", "done": false},
		{"name": "b", "date": "2024-01-02", "time": "11:00", "category": null, "location": "park", "done": true}
	], "categories": ["School", "Personal", "Cleaning"]}`)
	gw, _ := OpenJSON(path)

	first, err := gw.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(first.Tasks) != 2 {
		t.Fatalf("tasks = %d", len(first.Tasks))
	}
	if first.Tasks[0].ID == "" || first.Tasks[0].ID == first.Tasks[1].ID {
		t.Fatalf("ids not assigned: %+v", first.Tasks)
	}
	if first.Tasks[1].Category != "" {
		t.Fatalf("null category = %q, want empty", first.Tasks[1].Category)
	}

	second, _ := gw.Load()
	if first.Tasks[0].ID != second.Tasks[0].ID || first.Tasks[1].ID != second.Tasks[1].ID {
		t.Fatal("derived ids changed between loads")
	}
}

func TestJSONLoadErrors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantField string
	}{
		{"not json", `{"todos": [`, ""},
		{"missing categories", `{"todos": []}`, ""},
		{"categories wrong type", `{"todos": [], "categories": "School"}`, "categories"},
		{"done wrong type", `{"todos": [{"name": "a", "date": "", "time": "", "category": "", "location": "", "done": "yes"}], "categories": []}`, "todos[0].done"},
		{"missing todo field", `{"todos": [{"name": "a", "date": "", "time": "", "category": "", "done": false}], "categories": []}`, "todos[0]"},
		{"unknown top-level field", `{"todos": [], "categories": [], "version": 2}`, ""},
		{"top-level array", `[]`, ""},
		{"duplicate ids", `{"todos": [
			{"id": "x", "name": "a", "date": "", "time": "", "category": "", "location": "", "done": false},
			{"id": "x", "name": "b", "date": "", "time": "", "category": "", "location": "", "done": false}
		], "categories": []}`, "todos[1].id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, _ := OpenJSON(writeFile(t, tt.content))
			_, err := gw.Load()
			var le *planner.LoadError
			if !errors.As(err, &le) {
				t.Fatalf("Load() error = %v, want *LoadError", err)
			}
			if tt.wantField != "" && le.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", le.Field, tt.wantField)
			}
			if !strings.Contains(le.Error(), "todos.json") {
				t.Errorf("error does not name the file: %v", le)
			}
		})
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"/categories":     "categories",
		"/todos/3/done":   "todos[3].done",
		"#/todos/0":       "todos[0]",
		"/a~1b/c~0d":      "a/b.c~d",
		"/todos/12/name/": "todos[12].name",
	}
	for in, want := range tests {
		if got := jsonPointerToPath(in); got != want {
			t.Errorf("jsonPointerToPath(%q) = %q, want %q", in, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// SQLite
// ---------------------------------------------------------------------------

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}

	if _, err := db.Load(); !errors.Is(err, planner.ErrNoState) {
		t.Fatalf("fresh Load() error = %v, want ErrNoState", err)
	}
	if err := db.Save(sampleState()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	db.Close()

	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()
	got, err := db.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	equalStates(t, got, sampleState())
}

func TestSQLiteSaveReplacesState(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "todo.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := db.Save(sampleState()); err != nil {
		t.Fatal(err)
	}
	smaller := planner.State{
		Tasks:      sampleState().Tasks[1:],
		Categories: []string{"Work"},
	}
	if err := db.Save(smaller); err != nil {
		t.Fatal(err)
	}
	got, err := db.Load()
	if err != nil {
		t.Fatal(err)
	}
	equalStates(t, got, smaller)
}

func TestSQLiteDSN(t *testing.T) {
	if got := sqliteDSN("file:memdb?mode=memory"); got != "file:memdb?mode=memory" {
		t.Errorf("file: DSN rewritten to %q", got)
	}
	got := sqliteDSN(filepath.Join(t.TempDir(), "todo.db"))
	if !strings.HasPrefix(got, "file:") || !strings.Contains(got, "mode=rwc") || !strings.Contains(got, "busy_timeout") {
		t.Errorf("sqliteDSN() = %q", got)
	}
}
