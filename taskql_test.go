package taskql

import (
	"strings"
	"testing"

	"github.com/taskql/taskql/engine/ast"
)

func TestParseQueryEndToEnd(t *testing.T) {
	pr := ParseQuery("status = 'Todo' AND priority > 3")

	if len(pr.Errors) != 0 {
		t.Fatalf("errors = %v, want none", pr.Errors)
	}
	if got := pr.AST.String(); got != "AND(=(status, Todo), >(priority, 3))" {
		t.Errorf("AST = %s", got)
	}
	if !pr.Fields["status"] || !pr.Fields["priority"] {
		t.Errorf("Fields = %v, want status and priority", pr.Fields)
	}
}

func TestParseQueryTokenizerFailureIsFatal(t *testing.T) {
	pr := ParseQuery("status = 'unterminated")

	if len(pr.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", pr.Errors)
	}
	if _, ok := pr.AST.(*ast.GroupNode); !ok {
		t.Errorf("AST = %T, want degenerate group", pr.AST)
	}
}

func TestParseQueryUnknownFieldSuppressesParse(t *testing.T) {
	pr := ParseQuery("priorty = 3")

	if len(pr.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", pr.Errors)
	}
	if !strings.Contains(pr.Errors[0], "priority") {
		t.Errorf("error %q should suggest priority", pr.Errors[0])
	}
	group, ok := pr.AST.(*ast.GroupNode)
	if !ok || group.Inner != nil {
		t.Errorf("AST = %v, want empty group", pr.AST)
	}
}

func TestCompileQueryServerSide(t *testing.T) {
	pr, res := CompileQuery("status = 'Todo' AND dartboard = 'Eng'")

	if len(pr.Errors) != 0 {
		t.Fatalf("parse errors: %v", pr.Errors)
	}
	if res == nil {
		t.Fatal("compile result missing")
	}
	if res.RequiresClientSide {
		t.Errorf("RequiresClientSide = true, warnings=%v", res.Warnings)
	}
	if res.ServerFilter["status"] != "Todo" || res.ServerFilter["dartboard"] != "Eng" {
		t.Errorf("ServerFilter = %v", res.ServerFilter)
	}
}

func TestCompileQueryClientSide(t *testing.T) {
	_, res := CompileQuery("tags CONTAINS 'urgent' OR priority >= 4")

	if res == nil {
		t.Fatal("compile result missing")
	}
	if !res.RequiresClientSide || res.ClientPredicate == nil {
		t.Fatal("want client-side fallback with a predicate")
	}
	if !res.ClientPredicate(map[string]any{"tags": []any{"urgent"}, "priority": float64(1)}) {
		t.Error("record with urgent tag should match")
	}
	if res.ClientPredicate(map[string]any{"tags": []any{"bug"}, "priority": float64(1)}) {
		t.Error("record matching neither branch should not match")
	}
}

func TestCompileQuerySkippedOnParseError(t *testing.T) {
	pr, res := CompileQuery("status =")

	if len(pr.Errors) == 0 {
		t.Fatal("want parse errors")
	}
	if res != nil {
		t.Errorf("compile result = %+v, want nil on parse failure", res)
	}
}
