package planner

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Store holds the authoritative task set and category registry in memory.
// Tasks live in a map for id lookup and a separate slice that keeps
// insertion order for List.
type Store struct {
	mu         sync.Mutex
	gw         Gateway
	logger     *log.Logger
	tasks      map[string]Task
	order      []string
	categories []string
	newID      func() string
}

// Open loads the state from gw. A gateway that has never been written yields
// the default state; any other load failure is returned as-is.
func Open(gw Gateway, logger *log.Logger) (*Store, error) {
	state, err := gw.Load()
	switch {
	case errors.Is(err, ErrNoState):
		logger.Info("no saved state, starting from defaults")
		state = DefaultState()
	case err != nil:
		return nil, err
	}

	s := &Store{
		gw:     gw,
		logger: logger,
		tasks:  make(map[string]Task, len(state.Tasks)),
		newID:  uuid.NewString,
	}
	s.restore(state)
	logger.Debug("state loaded", "tasks", len(s.order), "categories", len(s.categories))
	return s, nil
}

// Close releases the gateway. Every mutation has already been written, so
// nothing is saved here.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gw.Close()
}

// Create appends a task built from f and returns its new id.
func (s *Store) Create(f Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	err := s.commit(func() error {
		t := Task{ID: id}
		f.apply(&t)
		s.tasks[id] = t
		s.order = append(s.order, id)
		return nil
	})
	if err != nil {
		return "", err
	}
	s.logger.Debug("task created", "id", id, "name", f.Name, "date", f.Date)
	return id, nil
}

// List returns a copy of every task in insertion order.
func (s *Store) List() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, taskNotFound(id)
	}
	return t, nil
}

// SetDone sets the completion flag of a task.
func (s *Store) SetDone(id string, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func() error {
		t, ok := s.tasks[id]
		if !ok {
			return taskNotFound(id)
		}
		t.Done = done
		s.tasks[id] = t
		s.logger.Debug("task done flag set", "id", id, "done", done)
		return nil
	})
}

// Toggle flips the completion flag of a task and returns the new value.
func (s *Store) Toggle(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var done bool
	err := s.commit(func() error {
		t, ok := s.tasks[id]
		if !ok {
			return taskNotFound(id)
		}
		t.Done = !t.Done
		done = t.Done
		s.tasks[id] = t
		s.logger.Debug("task toggled", "id", id, "done", done)
		return nil
	})
	return done, err
}

// Update replaces every editable field of a task. The id is kept.
func (s *Store) Update(id string, f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func() error {
		t, ok := s.tasks[id]
		if !ok {
			return taskNotFound(id)
		}
		f.apply(&t)
		s.tasks[id] = t
		s.logger.Debug("task updated", "id", id)
		return nil
	})
}

// Delete removes a task.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func() error {
		if _, ok := s.tasks[id]; !ok {
			return taskNotFound(id)
		}
		delete(s.tasks, id)
		for i, oid := range s.order {
			if oid == id {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
		s.logger.Debug("task deleted", "id", id)
		return nil
	})
}

// Snapshot returns a deep copy of the current state for read-only consumers.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// commit runs mutate and persists the result. When either step fails the
// in-memory state is restored to what it was before the call.
func (s *Store) commit(mutate func() error) error {
	prev := s.snapshot()
	if err := mutate(); err != nil {
		return err
	}
	if err := s.gw.Save(s.snapshot()); err != nil {
		s.restore(prev)
		s.logger.Error("persist failed, change rolled back", "err", err)
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

func (s *Store) list() []Task {
	out := make([]Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out
}

func (s *Store) snapshot() State {
	cats := make([]string, len(s.categories))
	copy(cats, s.categories)
	return State{Tasks: s.list(), Categories: cats}
}

func (s *Store) restore(state State) {
	clear(s.tasks)
	s.order = s.order[:0]
	for _, t := range state.Tasks {
		if _, dup := s.tasks[t.ID]; !dup {
			s.order = append(s.order, t.ID)
		}
		s.tasks[t.ID] = t
	}
	s.categories = sortedCopy(state.Categories)
}
