package planner

import (
	"slices"
	"strings"
)

// AddCategory trims name and inserts it into the registry, keeping the
// registry sorted. Blank names and names already present leave the registry
// untouched and are not persisted.
func (s *Store) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.categories, name) {
		s.logger.Debug("category already present", "category", name)
		return nil
	}
	return s.commit(func() error {
		s.categories = append(s.categories, name)
		slices.Sort(s.categories)
		s.logger.Debug("category added", "category", name)
		return nil
	})
}

// RemoveCategory deletes the first registry entry equal to name. Tasks that
// reference the category keep their Category value.
func (s *Store) RemoveCategory(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(func() error {
		i := slices.Index(s.categories, name)
		if i < 0 {
			return categoryNotFound(name)
		}
		s.categories = slices.Delete(slices.Clone(s.categories), i, i+1)
		s.logger.Debug("category removed", "category", name)
		return nil
	})
}

// Categories returns the registry in ascending order.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.categories)
}

func sortedCopy(in []string) []string {
	out := slices.Clone(in)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return out
}
