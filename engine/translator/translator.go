// Package translator renders a parsed expression tree into backend query
// languages. Three targets are supported: a PostgreSQL WHERE clause, a
// MySQL WHERE clause, and a MongoDB filter document.
package translator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taskql/taskql/engine/ast"
	"github.com/taskql/taskql/mapping"
)

// Dialect names accepted by Translate.
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectMongo    = "mongodb"
)

// Translate renders expr for the named dialect. SQL dialects return the
// WHERE clause body as a string; the mongodb dialect returns the filter
// document serialized via its bson form.
func Translate(expr ast.Expr, dialect string) (string, error) {
	switch dialect {
	case DialectPostgres:
		return PostgresWhere(expr)
	case DialectMySQL:
		return MySQLWhere(expr)
	case DialectMongo:
		return MongoJSON(expr)
	default:
		return "", fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// sqlValue renders a literal for direct embedding in a rendered clause.
// Strings are single-quoted with embedded quotes doubled.
func sqlValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func sqlValueList(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = sqlValue(v)
	}
	return strings.Join(parts, ", ")
}

// containsPattern builds the infix LIKE pattern for dialects that
// express CONTAINS as a substring match, escaping LIKE metacharacters.
func containsPattern(v any) string {
	s, _ := v.(string)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return "%" + s + "%"
}

func validField(name string) error {
	if !mapping.IsField(name) {
		return fmt.Errorf("unknown field: %s", name)
	}
	return nil
}

var sqlBinaryOps = map[string]string{
	mapping.OpEq:  "=",
	mapping.OpNeq: "<>",
	mapping.OpGt:  ">",
	mapping.OpGte: ">=",
	mapping.OpLt:  "<",
	mapping.OpLte: "<=",
}
