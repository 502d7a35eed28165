package translator

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskql/taskql/engine/ast"
	"github.com/taskql/taskql/engine/lexer"
	"github.com/taskql/taskql/engine/parser"
)

func parse(t *testing.T, input string) ast.Expr {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	pr := parser.Parse(tokens)
	if len(pr.Errors) != 0 {
		t.Fatalf("parse errors: %v", pr.Errors)
	}
	return pr.AST
}

func TestPostgresWhere(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"status = 'Todo'", "status = 'Todo'"},
		{"priority >= 3", "priority >= 3"},
		{"status != 'Done'", "status <> 'Done'"},
		{"title LIKE 'fix%'", "title ILIKE 'fix%'"},
		{"tags CONTAINS 'urgent'", "'urgent' = ANY (tags)"},
		{"status IN ('Todo', 'Doing')", "status IN ('Todo', 'Doing')"},
		{"status NOT IN ('Done')", "status NOT IN ('Done')"},
		{"priority BETWEEN 2 AND 5", "priority BETWEEN 2 AND 5"},
		{"assignee IS NULL", "assignee IS NULL"},
		{"assignee IS NOT NULL", "assignee IS NOT NULL"},
		{"status = 'Todo' AND priority > 3", "status = 'Todo' AND priority > 3"},
		{"(status = 'a' OR status = 'b') AND priority = 1", "(status = 'a' OR status = 'b') AND priority = 1"},
		{"NOT status = 'Done'", "NOT status = 'Done'"},
		{"status IN ()", "FALSE"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := PostgresWhere(parse(t, tt.input))
			if err != nil {
				t.Fatalf("PostgresWhere error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPostgresWhereQuoting(t *testing.T) {
	expr := &ast.ComparisonNode{Field: "title", Operator: "=", Value: "it's done"}
	got, err := PostgresWhere(expr)
	if err != nil {
		t.Fatalf("PostgresWhere error: %v", err)
	}
	if got != "title = 'it''s done'" {
		t.Errorf("got %q, embedded quote should be doubled", got)
	}
}

func TestMySQLWhere(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"title LIKE 'fix%'", "title LIKE 'fix%'"},
		{"tags CONTAINS 'urgent'", `tags LIKE '%urgent%'`},
		{"status != 'Done'", "status <> 'Done'"},
		{"status = 'Todo' OR status = 'Doing'", "status = 'Todo' OR status = 'Doing'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := MySQLWhere(parse(t, tt.input))
			if err != nil {
				t.Fatalf("MySQLWhere error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMongoFilter(t *testing.T) {
	tests := []struct {
		input string
		want  bson.M
	}{
		{"status = 'Todo'", bson.M{"status": "Todo"}},
		{"status != 'Done'", bson.M{"status": bson.M{"$ne": "Done"}}},
		{"priority >= 3", bson.M{"priority": bson.M{"$gte": float64(3)}}},
		{"status IN ('a', 'b')", bson.M{"status": bson.M{"$in": bson.A{"a", "b"}}}},
		{"status NOT IN ('a')", bson.M{"status": bson.M{"$nin": bson.A{"a"}}}},
		{"tags CONTAINS 'urgent'", bson.M{"tags": "urgent"}},
		{"priority BETWEEN 2 AND 5", bson.M{"priority": bson.M{"$gte": float64(2), "$lte": float64(5)}}},
		{"assignee IS NULL", bson.M{"assignee": nil}},
		{"assignee IS NOT NULL", bson.M{"assignee": bson.M{"$ne": nil}}},
		{
			"status = 'a' AND priority = 1",
			bson.M{"$and": bson.A{bson.M{"status": "a"}, bson.M{"priority": float64(1)}}},
		},
		{
			"status = 'a' OR status = 'b'",
			bson.M{"$or": bson.A{bson.M{"status": "a"}, bson.M{"status": "b"}}},
		},
		{"NOT status = 'Done'", bson.M{"$nor": bson.A{bson.M{"status": "Done"}}}},
		{"(status = 'a')", bson.M{"status": "a"}},
		{
			"title LIKE 'fix%'",
			bson.M{"title": primitive.Regex{Pattern: "^fix.*$", Options: "i"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := MongoFilter(parse(t, tt.input))
			if err != nil {
				t.Fatalf("MongoFilter error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTranslateRejectsUnknownDialect(t *testing.T) {
	if _, err := Translate(parse(t, "status = 'Todo'"), "oracle"); err == nil {
		t.Error("want error for unsupported dialect")
	}
}

func TestTranslateRejectsUnknownField(t *testing.T) {
	expr := &ast.ComparisonNode{Field: "bogus", Operator: "=", Value: "x"}
	if _, err := PostgresWhere(expr); err == nil {
		t.Error("postgres: want error for unknown field")
	}
	if _, err := MySQLWhere(expr); err == nil {
		t.Error("mysql: want error for unknown field")
	}
	if _, err := MongoFilter(expr); err == nil {
		t.Error("mongodb: want error for unknown field")
	}
}
