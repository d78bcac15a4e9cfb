// Package query filters and sorts task snapshots. It never mutates its input.
//
// Callers filter first and sort the filtered result. Apply keeps the input
// order, so the stable sort keeps equal-keyed tasks in their original
// relative order.
package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"dayplan/internal/planner"
)

var (
	ErrUnknownFilter  = errors.New("unknown filter")
	ErrUnknownSortKey = errors.New("unknown sort key")
)

// Filter selects tasks by completion state.
type Filter int

const (
	FilterAll Filter = iota
	FilterDone
	FilterPending
)

var filterNames = map[Filter]string{
	FilterAll:     "all",
	FilterDone:    "done",
	FilterPending: "pending",
}

// Filters lists every filter in cycling order.
var Filters = []Filter{FilterAll, FilterDone, FilterPending}

func (f Filter) String() string {
	if name, ok := filterNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Filter(%d)", int(f))
}

// ParseFilter accepts all, done and pending. "todo" is kept as an alias for
// pending.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return FilterAll, nil
	case "done":
		return FilterDone, nil
	case "pending", "todo":
		return FilterPending, nil
	}
	return FilterAll, fmt.Errorf("%w: %q (want all, done or pending)", ErrUnknownFilter, s)
}

// Next returns the filter after f in Filters, wrapping around.
func (f Filter) Next() Filter {
	return Filters[(slices.Index(Filters, f)+1)%len(Filters)]
}

func (f Filter) keep(t planner.Task) bool {
	switch f {
	case FilterDone:
		return t.Done
	case FilterPending:
		return !t.Done
	default:
		return true
	}
}

// SortKey names the task field a list is ordered by.
type SortKey int

const (
	SortTime SortKey = iota
	SortName
	SortCategory
)

type sortKeyDef struct {
	name    string
	extract func(planner.Task) string
}

var sortKeys = map[SortKey]sortKeyDef{
	SortTime:     {"time", func(t planner.Task) string { return t.Time }},
	SortName:     {"name", func(t planner.Task) string { return t.Name }},
	SortCategory: {"category", func(t planner.Task) string { return t.Category }},
}

// SortKeys lists every sort key in cycling order.
var SortKeys = []SortKey{SortTime, SortName, SortCategory}

func (k SortKey) String() string {
	if def, ok := sortKeys[k]; ok {
		return def.name
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

// ParseSortKey maps time, name or category to its SortKey.
func ParseSortKey(s string) (SortKey, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range SortKeys {
		if sortKeys[k].name == name {
			return k, nil
		}
	}
	return SortTime, fmt.Errorf("%w: %q (want time, name or category)", ErrUnknownSortKey, s)
}

// Next returns the sort key after k in SortKeys, wrapping around.
func (k SortKey) Next() SortKey {
	return SortKeys[(slices.Index(SortKeys, k)+1)%len(SortKeys)]
}

// Apply returns the tasks kept by f, in input order.
func Apply(tasks []planner.Task, f Filter) []planner.Task {
	out := make([]planner.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Sort returns a copy of tasks stably ordered by k using plain byte-wise
// string comparison.
func Sort(tasks []planner.Task, k SortKey) ([]planner.Task, error) {
	def, ok := sortKeys[k]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSortKey, k)
	}
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, func(a, b planner.Task) int {
		return strings.Compare(def.extract(a), def.extract(b))
	})
	return out, nil
}

// Run filters tasks with f and sorts the result by k.
func Run(tasks []planner.Task, f Filter, k SortKey) ([]planner.Task, error) {
	return Sort(Apply(tasks, f), k)
}
