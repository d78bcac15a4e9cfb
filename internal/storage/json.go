package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"dayplan/internal/planner"
)

//go:embed document.schema.json
var documentSchemaSource string

var documentSchema = jsonschema.MustCompileString("document.schema.json", documentSchemaSource)

// legacyIDSpace namespaces the ids derived for todos saved without one.
var legacyIDSpace = uuid.MustParse("5b0f7d3e-2c64-4c1d-9a53-6f1b1e0c8d21")

type document struct {
	Todos      []todoRecord `json:"todos"`
	Categories []string     `json:"categories"`
}

type todoRecord struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Date     string  `json:"date"`
	Time     string  `json:"time"`
	Category *string `json:"category"`
	Location string  `json:"location"`
	Done     bool    `json:"done"`
}

// JSONFile persists the state as a single JSON document:
//
//	{"todos": [{"id", "name", "date", "time", "category", "location", "done"}], "categories": [...]}
//
// Every Save rewrites the whole file. There is no locking; when two processes
// share a file the last writer wins.
type JSONFile struct {
	path string
}

// OpenJSON returns a gateway for the document at path. The file is not
// touched until Load or Save.
func OpenJSON(path string) (*JSONFile, error) {
	if path == "" {
		return nil, errors.New("data path is empty")
	}
	return &JSONFile{path: path}, nil
}

// Path returns the document location.
func (f *JSONFile) Path() string {
	return f.path
}

// Load reads and validates the document. A missing file yields
// planner.ErrNoState.
func (f *JSONFile) Load() (planner.State, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return planner.State{}, planner.ErrNoState
	}
	if err != nil {
		return planner.State{}, fmt.Errorf("read data file: %w", err)
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return planner.State{}, &planner.LoadError{Path: f.path, Err: fmt.Errorf("parse: %w", err)}
	}
	if err := documentSchema.Validate(raw); err != nil {
		return planner.State{}, f.schemaError(err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return planner.State{}, &planner.LoadError{Path: f.path, Err: err}
	}
	return f.toState(doc)
}

// Save writes the whole document with 2-space indentation and a trailing
// newline. The new content goes to a temp file that is renamed over the old
// one.
func (f *JSONFile) Save(state planner.State) error {
	data, err := json.MarshalIndent(fromState(state), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data file: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}

func (f *JSONFile) Close() error {
	return nil
}

func (f *JSONFile) toState(doc document) (planner.State, error) {
	state := planner.State{
		Tasks:      make([]planner.Task, 0, len(doc.Todos)),
		Categories: doc.Categories,
	}
	seen := make(map[string]int, len(doc.Todos))
	for i, r := range doc.Todos {
		id := r.ID
		if id == "" {
			id = legacyID(i)
		}
		if prev, dup := seen[id]; dup {
			return planner.State{}, &planner.LoadError{
				Path:  f.path,
				Field: fmt.Sprintf("todos[%d].id", i),
				Err:   fmt.Errorf("duplicate id %q (also used by todos[%d])", id, prev),
			}
		}
		seen[id] = i
		t := planner.Task{
			ID:       id,
			Name:     r.Name,
			Date:     r.Date,
			Time:     r.Time,
			Location: r.Location,
			Done:     r.Done,
		}
		if r.Category != nil {
			t.Category = *r.Category
		}
		state.Tasks = append(state.Tasks, t)
	}
	return state, nil
}

func fromState(state planner.State) document {
	doc := document{
		Todos:      make([]todoRecord, 0, len(state.Tasks)),
		Categories: state.Categories,
	}
	if doc.Categories == nil {
		doc.Categories = []string{}
	}
	for _, t := range state.Tasks {
		category := t.Category
		doc.Todos = append(doc.Todos, todoRecord{
			ID:       t.ID,
			Name:     t.Name,
			Date:     t.Date,
			Time:     t.Time,
			Category: &category,
			Location: t.Location,
			Done:     t.Done,
		})
	}
	return doc
}

// legacyID derives a stable id from a todo's position so files written
// without ids stay addressable across restarts.
func legacyID(position int) string {
	return uuid.NewSHA1(legacyIDSpace, []byte("todo/"+strconv.Itoa(position))).String()
}

func (f *JSONFile) schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &planner.LoadError{Path: f.path, Err: err}
	}
	leaf := firstLeaf(ve)
	return &planner.LoadError{
		Path:  f.path,
		Field: jsonPointerToPath(leaf.InstanceLocation),
		Err:   errors.New(leaf.Message),
	}
}

func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// jsonPointerToPath turns "/todos/0/done" into "todos[0].done".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
