package query

import (
	"errors"
	"testing"

	"dayplan/internal/planner"
)

func tasks() []planner.Task {
	return []planner.Task{
		{ID: "1", Name: "walk", Time: "09:00", Category: "Personal", Done: true},
		{ID: "2", Name: "mop", Time: "08:00", Category: "Cleaning"},
		{ID: "3", Name: "Read", Time: "09:00", Category: "School"},
		{ID: "4", Name: "dust", Time: "07:30", Category: "Cleaning", Done: true},
		{ID: "5", Name: "mop", Time: "10:00", Category: "Personal"},
	}
}

func ids(ts []planner.Task) string {
	s := ""
	for _, t := range ts {
		s += t.ID
	}
	return s
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"all", FilterAll, false},
		{"DONE", FilterDone, false},
		{"pending", FilterPending, false},
		{"todo", FilterPending, false},
		{"finished", FilterAll, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFilter) {
					t.Fatalf("ParseFilter(%q) error = %v, want ErrUnknownFilter", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ParseFilter(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestParseSortKey(t *testing.T) {
	for _, k := range SortKeys {
		got, err := ParseSortKey(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseSortKey(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseSortKey("priority"); !errors.Is(err, ErrUnknownSortKey) {
		t.Fatalf("ParseSortKey(priority) error = %v", err)
	}
}

func TestNextCycles(t *testing.T) {
	if FilterPending.Next() != FilterAll {
		t.Errorf("FilterPending.Next() = %v", FilterPending.Next())
	}
	if SortTime.Next() != SortName || SortCategory.Next() != SortTime {
		t.Error("SortKey.Next() does not cycle")
	}
}

func TestApply(t *testing.T) {
	in := tasks()
	tests := []struct {
		filter Filter
		want   string
	}{
		{FilterAll, "12345"},
		{FilterDone, "14"},
		{FilterPending, "235"},
	}
	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			if got := ids(Apply(in, tt.filter)); got != tt.want {
				t.Errorf("Apply(%v) = %s, want %s", tt.filter, got, tt.want)
			}
		})
	}
}

func TestApplyPartitions(t *testing.T) {
	in := tasks()
	done := Apply(in, FilterDone)
	pending := Apply(in, FilterPending)
	if len(done)+len(pending) != len(in) {
		t.Fatalf("done+pending = %d, want %d", len(done)+len(pending), len(in))
	}
	seen := map[string]bool{}
	for _, task := range append(done, pending...) {
		if seen[task.ID] {
			t.Fatalf("task %s in both partitions", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestSortIsStable(t *testing.T) {
	in := tasks()
	tests := []struct {
		key  SortKey
		want string
	}{
		// 1 and 3 share 09:00 and keep input order.
		{SortTime, "42135"},
		// byte-wise: "Read" sorts before lowercase names; 2 and 5 share "mop".
		{SortName, "34251"},
		{SortCategory, "24153"},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			got, err := Sort(in, tt.key)
			if err != nil {
				t.Fatalf("Sort() error = %v", err)
			}
			if ids(got) != tt.want {
				t.Errorf("Sort(%v) = %s, want %s", tt.key, ids(got), tt.want)
			}
		})
	}
	if ids(in) != "12345" {
		t.Fatal("Sort mutated its input")
	}
}

func TestSortUnknownKey(t *testing.T) {
	if _, err := Sort(tasks(), SortKey(42)); !errors.Is(err, ErrUnknownSortKey) {
		t.Fatalf("Sort(42) error = %v", err)
	}
}

func TestRun(t *testing.T) {
	got, err := Run(tasks(), FilterPending, SortName)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ids(got) != "325" {
		t.Fatalf("Run() = %s, want 325", ids(got))
	}
}
