// Package planner owns the application state: the task set and the category
// registry. All mutations go through Store, which writes the whole state to
// its Gateway before returning.
package planner

import (
	"slices"
)

// DefaultCategories seeds the registry when no state has been saved yet.
var DefaultCategories = []string{"Cleaning", "Personal", "School"}

// Task is a single planner entry. Date and Time are kept verbatim; Category
// refers to a registry entry by name only and may outlive it.
type Task struct {
	ID       string
	Name     string
	Date     string
	Time     string
	Category string
	Location string
	Done     bool
}

// Fields holds the caller-supplied attributes of a task.
type Fields struct {
	Name     string
	Date     string
	Time     string
	Category string
	Location string
	Done     bool
}

func (f Fields) apply(t *Task) {
	t.Name = f.Name
	t.Date = f.Date
	t.Time = f.Time
	t.Category = f.Category
	t.Location = f.Location
	t.Done = f.Done
}

// FieldsOf returns the editable attributes of t.
func FieldsOf(t Task) Fields {
	return Fields{
		Name:     t.Name,
		Date:     t.Date,
		Time:     t.Time,
		Category: t.Category,
		Location: t.Location,
		Done:     t.Done,
	}
}

// State is the unit of persistence.
type State struct {
	Tasks      []Task
	Categories []string
}

// DefaultState is the state used when nothing has been saved yet.
func DefaultState() State {
	return State{
		Tasks:      []Task{},
		Categories: slices.Clone(DefaultCategories),
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	tasks := make([]Task, len(s.Tasks))
	copy(tasks, s.Tasks)
	cats := make([]string, len(s.Categories))
	copy(cats, s.Categories)
	return State{Tasks: tasks, Categories: cats}
}

// Gateway reads and writes the full state as one document.
type Gateway interface {
	// Load returns ErrNoState when nothing was ever saved and a *LoadError
	// when the stored document has the wrong shape.
	Load() (State, error)
	Save(State) error
	Close() error
}
