package translator

import (
	"fmt"

	"github.com/taskql/taskql/engine/ast"
	"github.com/taskql/taskql/mapping"
)

// PostgresWhere renders expr as a PostgreSQL WHERE clause body.
// CONTAINS on array fields uses = ANY, everything else maps to the
// standard SQL operators.
func PostgresWhere(expr ast.Expr) (string, error) {
	if expr == nil {
		return "", fmt.Errorf("nothing to translate")
	}
	return renderPostgres(expr)
}

func renderPostgres(expr ast.Expr) (string, error) {
	switch node := expr.(type) {
	case *ast.ComparisonNode:
		return renderPostgresComparison(node)

	case *ast.LogicalNode:
		right, err := renderPostgres(node.Right)
		if err != nil {
			return "", err
		}
		if node.Operator == mapping.LogicNot {
			return "NOT " + right, nil
		}
		left, err := renderPostgres(node.Left)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", left, node.Operator, right), nil

	case *ast.GroupNode:
		if node.Inner == nil {
			return "", fmt.Errorf("empty group")
		}
		inner, err := renderPostgres(node.Inner)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil

	default:
		return "", fmt.Errorf("unsupported node %T", expr)
	}
}

func renderPostgresComparison(node *ast.ComparisonNode) (string, error) {
	if err := validField(node.Field); err != nil {
		return "", err
	}

	switch node.Operator {
	case mapping.OpLike:
		return fmt.Sprintf("%s ILIKE %s", node.Field, sqlValue(node.Value)), nil
	case mapping.OpContains:
		return fmt.Sprintf("%s = ANY (%s)", sqlValue(node.Value), node.Field), nil
	case mapping.OpIn:
		if len(node.Values) == 0 {
			return "FALSE", nil
		}
		return fmt.Sprintf("%s IN (%s)", node.Field, sqlValueList(node.Values)), nil
	case mapping.OpNotIn:
		if len(node.Values) == 0 {
			return "TRUE", nil
		}
		return fmt.Sprintf("%s NOT IN (%s)", node.Field, sqlValueList(node.Values)), nil
	case mapping.OpBetween:
		return fmt.Sprintf("%s BETWEEN %s AND %s", node.Field, sqlValue(node.Value), sqlValue(node.Value2)), nil
	case mapping.OpIsNull:
		return node.Field + " IS NULL", nil
	case mapping.OpIsNotNull:
		return node.Field + " IS NOT NULL", nil
	}

	if op, ok := sqlBinaryOps[node.Operator]; ok {
		return fmt.Sprintf("%s %s %s", node.Field, op, sqlValue(node.Value)), nil
	}
	return "", fmt.Errorf("unsupported operator: %s", node.Operator)
}
