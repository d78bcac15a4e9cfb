// Package calendar groups tasks by calendar day for a month view.
//
// Tasks are matched to days by exact string equality between Task.Date and
// the zero-padded YYYY-MM-DD key of the day. Dates in any other format never
// match a day and only show up in flat task lists.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"dayplan/internal/planner"
)

var (
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	ErrInvalidYear  = errors.New("year must be between 1 and 9999")
)

// Cell is one day slot of the grid. Day is 0 for slots outside the month.
type Cell struct {
	Day   int
	Date  string
	Tasks []planner.Task
}

// Blank reports whether the cell lies outside the month.
func (c Cell) Blank() bool {
	return c.Day == 0
}

// Grid is a week-major month layout. Weeks start on Monday and always hold
// seven cells.
type Grid struct {
	Year  int
	Month time.Month
	Weeks [][7]Cell
}

// Day returns the cell for the given day of the month.
func (g Grid) Day(day int) (Cell, bool) {
	for _, w := range g.Weeks {
		for _, c := range w {
			if c.Day == day && day != 0 {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// DateKey formats a day as the YYYY-MM-DD string tasks are matched against.
func DateKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Build lays out the month and fills every in-month cell with the tasks
// dated on that day. tasks is not modified.
func Build(tasks []planner.Task, year int, month time.Month) (Grid, error) {
	if err := validate(year, month); err != nil {
		return Grid{}, err
	}

	byDate := make(map[string][]planner.Task)
	for _, t := range tasks {
		byDate[t.Date] = append(byDate[t.Date], t)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lead := (int(first.Weekday()) + 6) % 7 // Monday = 0
	days := DaysIn(year, month)

	g := Grid{Year: year, Month: month}
	var week [7]Cell
	col := lead
	for day := 1; day <= days; day++ {
		key := DateKey(year, month, day)
		week[col] = Cell{Day: day, Date: key, Tasks: byDate[key]}
		col++
		if col == 7 {
			g.Weeks = append(g.Weeks, week)
			week = [7]Cell{}
			col = 0
		}
	}
	if col > 0 {
		g.Weeks = append(g.Weeks, week)
	}
	return g, nil
}

// TasksOnDate returns the tasks whose Date equals date exactly, in input order.
func TasksOnDate(tasks []planner.Task, date string) []planner.Task {
	var out []planner.Task
	for _, t := range tasks {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return out
}

func validate(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, int(month))
	}
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}
	return nil
}
