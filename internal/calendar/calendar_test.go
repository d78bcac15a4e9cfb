package calendar

import (
	"errors"
	"testing"
	"time"

	"dayplan/internal/planner"
)

func days(w [7]Cell) [7]int {
	var out [7]int
	for i, c := range w {
		out[i] = c.Day
	}
	return out
}

func TestBuildLayout(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		weeks     int
		firstWeek [7]int
		lastWeek  [7]int
	}{
		{"leap february", 2024, time.February, 5, [7]int{0, 0, 0, 1, 2, 3, 4}, [7]int{26, 27, 28, 29, 0, 0, 0}},
		{"starts on monday", 2024, time.January, 5, [7]int{1, 2, 3, 4, 5, 6, 7}, [7]int{29, 30, 31, 0, 0, 0, 0}},
		{"exactly four weeks", 2021, time.February, 4, [7]int{1, 2, 3, 4, 5, 6, 7}, [7]int{22, 23, 24, 25, 26, 27, 28}},
		{"starts on sunday", 2023, time.October, 6, [7]int{0, 0, 0, 0, 0, 0, 1}, [7]int{30, 31, 0, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(nil, tt.year, tt.month)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if len(g.Weeks) != tt.weeks {
				t.Fatalf("weeks = %d, want %d", len(g.Weeks), tt.weeks)
			}
			if got := days(g.Weeks[0]); got != tt.firstWeek {
				t.Errorf("first week = %v, want %v", got, tt.firstWeek)
			}
			if got := days(g.Weeks[len(g.Weeks)-1]); got != tt.lastWeek {
				t.Errorf("last week = %v, want %v", got, tt.lastWeek)
			}
		})
	}
}

func TestBuildBucketsByExactDate(t *testing.T) {
	tasks := []planner.Task{
		{ID: "leap", Date: "2024-02-29"},
		{ID: "unpadded", Date: "2024-2-29"},
		{ID: "first", Date: "2024-02-01"},
		{ID: "other-month", Date: "2024-03-01"},
		{ID: "leap-2", Date: "2024-02-29"},
	}
	g, err := Build(tasks, 2024, time.February)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	found := map[string][]int{}
	for _, w := range g.Weeks {
		for _, c := range w {
			if c.Blank() && len(c.Tasks) > 0 {
				t.Fatalf("blank cell has tasks: %+v", c)
			}
			for _, task := range c.Tasks {
				found[task.ID] = append(found[task.ID], c.Day)
			}
		}
	}

	if got := found["leap"]; len(got) != 1 || got[0] != 29 {
		t.Errorf("leap task in days %v, want [29]", got)
	}
	if got := found["first"]; len(got) != 1 || got[0] != 1 {
		t.Errorf("first task in days %v, want [1]", got)
	}
	if _, ok := found["unpadded"]; ok {
		t.Error("unpadded date matched a day")
	}
	if _, ok := found["other-month"]; ok {
		t.Error("task from another month matched a day")
	}

	c, ok := g.Day(29)
	if !ok {
		t.Fatal("day 29 missing")
	}
	if c.Date != "2024-02-29" || len(c.Tasks) != 2 || c.Tasks[0].ID != "leap" || c.Tasks[1].ID != "leap-2" {
		t.Errorf("day 29 cell = %+v", c)
	}
}

func TestBuildRejectsInvalidInput(t *testing.T) {
	if _, err := Build(nil, 2024, 13); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("month 13 error = %v", err)
	}
	if _, err := Build(nil, 2024, 0); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("month 0 error = %v", err)
	}
	if _, err := Build(nil, 0, time.May); !errors.Is(err, ErrInvalidYear) {
		t.Errorf("year 0 error = %v", err)
	}
}

func TestDateKey(t *testing.T) {
	if got := DateKey(2024, time.March, 5); got != "2024-03-05" {
		t.Errorf("DateKey() = %q", got)
	}
	if got := DaysIn(2023, time.February); got != 28 {
		t.Errorf("DaysIn(2023, Feb) = %d", got)
	}
}

func TestTasksOnDate(t *testing.T) {
	tasks := []planner.Task{
		{ID: "a", Date: "2024-05-01"},
		{ID: "b", Date: "2024-5-1"},
		{ID: "c", Date: "2024-05-01"},
	}
	got := TasksOnDate(tasks, "2024-05-01")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("TasksOnDate() = %+v", got)
	}
	if got := TasksOnDate(tasks, "2024-05-02"); len(got) != 0 {
		t.Fatalf("expected no tasks, got %+v", got)
	}
}

func TestCursorRollover(t *testing.T) {
	tests := []struct {
		name  string
		from  Cursor
		delta int
		want  Cursor
	}{
		{"december forward", Cursor{2023, time.December}, 1, Cursor{2024, time.January}},
		{"january back", Cursor{2024, time.January}, -1, Cursor{2023, time.December}},
		{"mid year", Cursor{2024, time.June}, 1, Cursor{2024, time.July}},
		{"many back", Cursor{2024, time.March}, -15, Cursor{2022, time.December}},
		{"many forward", Cursor{2024, time.November}, 14, Cursor{2026, time.January}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.Add(tt.delta); got != tt.want {
				t.Errorf("%v.Add(%d) = %v, want %v", tt.from, tt.delta, got, tt.want)
			}
		})
	}

	if got := (Cursor{2023, time.December}).Next(); got != (Cursor{2024, time.January}) {
		t.Errorf("Next() = %v", got)
	}
	if got := (Cursor{2024, time.January}).Prev(); got != (Cursor{2023, time.December}) {
		t.Errorf("Prev() = %v", got)
	}
}

func TestCursorPickers(t *testing.T) {
	c := Cursor{2024, time.May}
	if got := c.WithYear(2010); got != (Cursor{2010, time.May}) {
		t.Errorf("WithYear() = %v", got)
	}
	if got := c.WithMonth(time.August); got != (Cursor{2024, time.August}) {
		t.Errorf("WithMonth() = %v", got)
	}
	if c != (Cursor{2024, time.May}) {
		t.Error("pickers mutated the receiver")
	}
	if got := c.String(); got != "May 2024" {
		t.Errorf("String() = %q", got)
	}
}
