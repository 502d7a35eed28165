package csvimport

import (
	"strings"
	"testing"

	"github.com/taskql/taskql/service"
)

func testWorkspace() *service.WorkspaceConfig {
	return &service.WorkspaceConfig{
		Dartboards: []service.NamedRef{
			{ID: "d1", Name: "Engineering"},
			{ID: "d2", Name: "Design"},
		},
		Assignees: []service.NamedRef{
			{ID: "u1", Name: "Sam"},
			{ID: "u2", Name: "Priya"},
		},
		Statuses: []string{"Todo", "Doing", "Done"},
		Sizes:    []string{"S", "M", "L"},
	}
}

func TestResolveHeader(t *testing.T) {
	tests := []struct {
		raw   string
		field string
		ok    bool
	}{
		{"title", "title", true},
		{"Name", "title", true},
		{"Task Name", "title", true},
		{"STATUS", "status", true},
		{"Labels", "tags", true},
		{"Due Date", "due_at", true},
		{"boards", "dartboard", true},
		{"Assigned To", "assignee", true},
		{"priority", "priority", true},
		{"mystery_column", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			field, _, ok := ResolveHeader(tt.raw)
			if ok != tt.ok || field != tt.field {
				t.Errorf("ResolveHeader(%q) = %q, %v; want %q, %v", tt.raw, field, ok, tt.field, tt.ok)
			}
		})
	}
}

func TestResolveHeaderSuggestsCloseSpelling(t *testing.T) {
	_, suggestion, ok := ResolveHeader("statuss")
	if ok {
		t.Fatal("statuss should not resolve")
	}
	if suggestion != "status" {
		t.Errorf("suggestion = %q, want status", suggestion)
	}
}

func TestReadMapsAndValidates(t *testing.T) {
	input := strings.Join([]string{
		"Name,Status,Priority,Assigned To,Board,Labels,Due Date",
		"Fix login,Todo,3,Sam,Engineering,\"urgent, bug\",2026-09-15",
		"Update docs,doing,1,priya,engineering,,",
	}, "\n")

	res, err := New(testWorkspace()).Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(res.RowErrors) != 0 {
		t.Fatalf("row errors: %v", res.RowErrors)
	}
	if len(res.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(res.Tasks))
	}

	first := res.Tasks[0]
	if first.Title != "Fix login" || first.Status != "Todo" || first.Assignee != "Sam" {
		t.Errorf("first task = %+v", first)
	}
	if first.Priority == nil || *first.Priority != 3 {
		t.Errorf("priority = %v", first.Priority)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "urgent" || first.Tags[1] != "bug" {
		t.Errorf("tags = %v", first.Tags)
	}
	if first.DueAt != "2026-09-15T00:00:00Z" {
		t.Errorf("due_at = %q", first.DueAt)
	}

	// Case-insensitive reference and status resolution.
	second := res.Tasks[1]
	if second.Status != "Doing" || second.Assignee != "Priya" || second.Dartboard != "Engineering" {
		t.Errorf("second task = %+v", second)
	}
}

func TestReadFuzzyReferenceResolution(t *testing.T) {
	input := "Name,Board\nFix login,Enginering\n"

	res, err := New(testWorkspace()).Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(res.Tasks) != 1 || res.Tasks[0].Dartboard != "Engineering" {
		t.Errorf("tasks = %+v, want dartboard resolved by edit distance", res.Tasks)
	}
}

func TestReadCollectsRowErrors(t *testing.T) {
	input := strings.Join([]string{
		"Name,Status,Priority",
		"Good row,Todo,2",
		",Todo,2",
		"Bad status,Blocked,2",
		"Bad priority,Todo,high",
	}, "\n")

	res, err := New(testWorkspace()).Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(res.Tasks) != 1 {
		t.Errorf("tasks = %d, want 1", len(res.Tasks))
	}
	if len(res.RowErrors) != 3 {
		t.Fatalf("row errors = %v, want 3", res.RowErrors)
	}
	for i, want := range []string{"title is required", "unknown status", "not a number"} {
		if !strings.Contains(res.RowErrors[i].Message, want) {
			t.Errorf("row error %d = %q, want mention of %q", i, res.RowErrors[i].Message, want)
		}
	}
	if res.RowErrors[1].Row != 4 {
		t.Errorf("bad status row = %d, want 4", res.RowErrors[1].Row)
	}
}

func TestReadSkipsUnknownColumns(t *testing.T) {
	input := "Name,Mystery\nFix login,whatever\n"

	res, err := New(testWorkspace()).Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(res.SkippedColumns) != 1 || res.SkippedColumns[0].Header != "Mystery" {
		t.Errorf("skipped = %v", res.SkippedColumns)
	}
	if len(res.Tasks) != 1 || res.Tasks[0].Title != "Fix login" {
		t.Errorf("tasks = %v", res.Tasks)
	}
}

func TestReadRequiresTitleColumn(t *testing.T) {
	if _, err := New(testWorkspace()).Read(strings.NewReader("Status\nTodo\n")); err == nil {
		t.Error("want error when no title column maps")
	}
}

func TestReadEmptyInput(t *testing.T) {
	if _, err := New(testWorkspace()).Read(strings.NewReader("")); err == nil {
		t.Error("want error for empty input")
	}
}
