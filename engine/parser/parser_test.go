package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/taskql/taskql/engine/ast"
	"github.com/taskql/taskql/engine/lexer"
)

func parse(t *testing.T, input string) *ParseResult {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	return Parse(tokens)
}

func TestParse(t *testing.T) {
	testCases := []struct {
		input    string
		expected string // string representation of the expected AST
	}{
		{
			input:    "status = 'Todo'",
			expected: "=(status, Todo)",
		},
		{
			input:    "status = 'Todo' AND priority >= 3",
			expected: "AND(=(status, Todo), >=(priority, 3))",
		},
		{
			// OR binds looser than AND
			input:    "status = 'a' OR priority = 2 AND size = 3",
			expected: "OR(=(status, a), AND(=(priority, 2), =(size, 3)))",
		},
		{
			// NOT binds tighter than AND
			input:    "NOT status = 'a' AND priority = 2",
			expected: "AND(NOT(=(status, a)), =(priority, 2))",
		},
		{
			// left-leaning chains
			input:    "status = 'a' AND priority = 1 AND size = 2",
			expected: "AND(AND(=(status, a), =(priority, 1)), =(size, 2))",
		},
		{
			input:    "(status = 'a' OR status = 'b') AND priority = 1",
			expected: "AND((OR(=(status, a), =(status, b))), =(priority, 1))",
		},
		{
			// a group wraps even a single comparison
			input:    "(status = 'a')",
			expected: "(=(status, a))",
		},
		{
			input:    "status IN ('Todo', 'Doing')",
			expected: "IN(status, [Todo, Doing])",
		},
		{
			input:    "status NOT IN ('Done', 'Canceled')",
			expected: "NOT IN(status, [Done, Canceled])",
		},
		{
			// empty IN list is legal
			input:    "tags IN ()",
			expected: "IN(tags, [])",
		},
		{
			input:    "priority BETWEEN 2 AND 5",
			expected: "BETWEEN(priority, 2, 5)",
		},
		{
			input:    "assignee IS NULL",
			expected: "IS NULL(assignee)",
		},
		{
			input:    "assignee IS NOT NULL",
			expected: "IS NOT NULL(assignee)",
		},
		{
			input:    "title LIKE 'fix%'",
			expected: "LIKE(title, fix%)",
		},
		{
			input:    "tags CONTAINS 'urgent'",
			expected: "CONTAINS(tags, urgent)",
		},
		{
			input:    "priority = 2.5",
			expected: "=(priority, 2.5)",
		},
		{
			input:    "parent_task = NULL",
			expected: "=(parent_task, <nil>)",
		},
		{
			input:    "NOT (status = 'Done' OR status = 'Canceled')",
			expected: "NOT((OR(=(status, Done), =(status, Canceled))))",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			res := parse(t, tc.input)
			if len(res.Errors) != 0 {
				t.Fatalf("errors: %v", res.Errors)
			}
			got := fmt.Sprintf("%v", res.AST)
			if got != tc.expected {
				t.Errorf("AST = %s, want %s", got, tc.expected)
			}
		})
	}
}

func TestParseCollectsFields(t *testing.T) {
	res := parse(t, "Status = 'a' AND priority >= 2")
	if !res.Fields["status"] || !res.Fields["priority"] {
		t.Errorf("fields = %v, want status and priority", res.Fields)
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		input   string
		wantMsg string
	}{
		{"", "Empty query"},
		{"status =", "Expected value"},
		{"status", "Expected operator"},
		{"= 'Todo'", "Expected field name"},
		{"(status = 'a'", "Expected ')'"},
		{"status IN 'a'", "Expected '('"},
		{"status IN ('a'", "Expected ')'"},
		{"priority BETWEEN 2 5", "Expected AND"},
		{"assignee IS 3", "Expected NULL"},
		{"NOT IN ('a')", "Expected field name"},
	}

	for _, tc := range testCases {
		name := tc.input
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			res := parse(t, tc.input)
			if len(res.Errors) == 0 {
				t.Fatalf("want error containing %q, got none (ast=%v)", tc.wantMsg, res.AST)
			}
			if !strings.Contains(res.Errors[0], tc.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", res.Errors[0], tc.wantMsg)
			}
			group, ok := res.AST.(*ast.GroupNode)
			if !ok || group.Inner != nil {
				t.Errorf("AST on error = %v, want degenerate empty group", res.AST)
			}
		})
	}
}

func TestParseTrailingTokensKeepAST(t *testing.T) {
	res := parse(t, "status = 'a' status")

	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "Unexpected token") {
		t.Fatalf("errors = %v, want one unexpected-token diagnostic", res.Errors)
	}
	if got := fmt.Sprintf("%v", res.AST); got != "=(status, a)" {
		t.Errorf("AST = %s, want the already-built tree preserved", got)
	}
}
