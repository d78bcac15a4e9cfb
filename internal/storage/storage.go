package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"dayplan/internal/planner"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the gateway for backend. path is the JSON document for the
// json backend and the database file for sqlite.
func Open(backend, path string) (planner.Gateway, error) {
	var (
		gw  planner.Gateway
		err error
	)
	switch backend {
	case "", BackendJSON:
		gw, err = OpenJSON(path)
	case BackendSQLite:
		gw, err = OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	return gw, nil
}

// SQLite keeps the state in a SQLite database. Save replaces every row in one
// transaction, so the database always holds one complete state.
type SQLite struct {
	db   *sql.DB
	path string
}

func OpenSQLite(dbPath string) (*SQLite, error) {
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

	s := &SQLite{db: db, path: dbPath}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	date TEXT NOT NULL DEFAULT '',
	time TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	done INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS categories (
	position INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Load returns planner.ErrNoState until the first Save.
func (s *SQLite) Load() (planner.State, error) {
	var saved string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'saved_at';`).Scan(&saved)
	if errors.Is(err, sql.ErrNoRows) {
		return planner.State{}, planner.ErrNoState
	}
	if err != nil {
		return planner.State{}, &planner.LoadError{Path: s.path, Field: "meta", Err: err}
	}

	tasks, err := s.fetchTasks()
	if err != nil {
		return planner.State{}, &planner.LoadError{Path: s.path, Field: "tasks", Err: err}
	}
	cats, err := s.fetchCategories()
	if err != nil {
		return planner.State{}, &planner.LoadError{Path: s.path, Field: "categories", Err: err}
	}
	return planner.State{Tasks: tasks, Categories: cats}, nil
}

func (s *SQLite) fetchTasks() ([]planner.Task, error) {
	rows, err := s.db.Query(`SELECT id, name, date, time, category, location, done FROM tasks ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []planner.Task{}
	for rows.Next() {
		var t planner.Task
		var doneInt int
		if err := rows.Scan(&t.ID, &t.Name, &t.Date, &t.Time, &t.Category, &t.Location, &doneInt); err != nil {
			return nil, err
		}
		t.Done = doneInt == 1
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *SQLite) fetchCategories() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM categories ORDER BY position;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cats = append(cats, name)
	}
	return cats, rows.Err()
}

func (s *SQLite) Save(state planner.State) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM tasks;`); err != nil {
		return err
	}
	if _, err = tx.Exec(`DELETE FROM categories;`); err != nil {
		return err
	}
	for i, t := range state.Tasks {
		done := 0
		if t.Done {
			done = 1
		}
		_, err = tx.Exec(`INSERT INTO tasks (id, position, name, date, time, category, location, done) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
			t.ID, i, t.Name, t.Date, t.Time, t.Category, t.Location, done)
		if err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	for i, name := range state.Categories {
		if _, err = tx.Exec(`INSERT INTO categories (position, name) VALUES (?, ?);`, i, name); err != nil {
			return fmt.Errorf("insert category %q: %w", name, err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err = tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('saved_at', ?);`, now); err != nil {
		return err
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
