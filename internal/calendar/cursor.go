package calendar

import (
	"fmt"
	"time"

	"dayplan/internal/planner"
)

// Year bounds offered by the month picker.
const (
	MinYear = 2000
	MaxYear = 2030
)

// Cursor is the (year, month) a calendar view is showing. Its methods return
// new values and never touch planner state.
type Cursor struct {
	Year  int
	Month time.Month
}

// CursorAt returns the cursor for the month containing t.
func CursorAt(t time.Time) Cursor {
	return Cursor{Year: t.Year(), Month: t.Month()}
}

// Add moves the cursor by delta months, carrying into the year.
func (c Cursor) Add(delta int) Cursor {
	idx := c.Year*12 + int(c.Month-1) + delta
	year, m := idx/12, idx%12
	if m < 0 {
		m += 12
		year--
	}
	return Cursor{Year: year, Month: time.Month(m + 1)}
}

func (c Cursor) Next() Cursor { return c.Add(1) }
func (c Cursor) Prev() Cursor { return c.Add(-1) }

// WithYear replaces the year, as picking it from a year list does.
func (c Cursor) WithYear(year int) Cursor {
	c.Year = year
	return c
}

// WithMonth replaces the month, as picking it from a month list does.
func (c Cursor) WithMonth(month time.Month) Cursor {
	c.Month = month
	return c
}

// Build lays out the month the cursor points at.
func (c Cursor) Build(tasks []planner.Task) (Grid, error) {
	return Build(tasks, c.Year, c.Month)
}

func (c Cursor) String() string {
	return fmt.Sprintf("%s %d", c.Month, c.Year)
}
