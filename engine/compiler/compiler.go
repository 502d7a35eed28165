// Package compiler lowers a parsed expression tree into the filter shapes
// the task service can consume: a flat server-side filter map when the whole
// tree fits the service's capability table, or an in-process predicate over
// candidate records when it does not.
package compiler

import (
	"fmt"

	"github.com/taskql/taskql/engine/ast"
	"github.com/taskql/taskql/mapping"
)

// Result is the outcome of compiling one expression tree. Exactly one of
// ServerFilter / ClientPredicate carries the query: a populated ServerFilter
// means the service applies it, a non-nil ClientPredicate means the caller
// must fetch candidates and filter locally.
type Result struct {
	ServerFilter       map[string]any
	ClientPredicate    Predicate
	RequiresClientSide bool
	Warnings           []string
	Errors             []string
}

// Compile classifies the tree against the service capability table and
// produces either the merged server filter or a whole-tree predicate.
// It never panics or returns an error; internal failures are reported in
// Result.Errors with an empty filter.
func Compile(expr ast.Expr) *Result {
	res := &Result{ServerFilter: map[string]any{}}

	if expr == nil {
		res.Errors = append(res.Errors, "nothing to compile")
		return res
	}
	if group, ok := expr.(*ast.GroupNode); ok && group.Inner == nil {
		res.Errors = append(res.Errors, "nothing to compile: empty expression")
		return res
	}

	reasons := analyze(expr)
	if len(reasons) == 0 {
		merge(expr, res)
		return res
	}

	res.RequiresClientSide = true
	res.Warnings = append(res.Warnings, reasons...)
	res.Warnings = append(res.Warnings, "query requires client-side filtering; may impact performance")
	res.ClientPredicate = compilePredicate(expr)
	return res
}

// analyze classifies every node as server-compatible or not, accumulating a
// reason for each incompatibility rather than stopping at the first.
func analyze(expr ast.Expr) []string {
	switch n := expr.(type) {
	case *ast.ComparisonNode:
		if !mapping.ServerSupports(n.Field, n.Operator) {
			return []string{fmt.Sprintf("operator %s on field '%s' is not supported server-side", n.Operator, n.Field)}
		}
		return nil
	case *ast.LogicalNode:
		var reasons []string
		switch n.Operator {
		case mapping.LogicAnd:
			// AND is compatible iff both children are
		case mapping.LogicOr:
			reasons = append(reasons, "OR expressions cannot be evaluated server-side")
		case mapping.LogicNot:
			reasons = append(reasons, "NOT expressions cannot be evaluated server-side")
		default:
			reasons = append(reasons, fmt.Sprintf("unknown logical operator '%s'", n.Operator))
		}
		if n.Left != nil {
			reasons = append(reasons, analyze(n.Left)...)
		}
		if n.Right != nil {
			reasons = append(reasons, analyze(n.Right)...)
		}
		return reasons
	case *ast.GroupNode:
		if n.Inner == nil {
			return []string{"empty group"}
		}
		return analyze(n.Inner)
	}
	return []string{fmt.Sprintf("unsupported expression node %T", expr)}
}

// merge flattens a fully server-compatible tree into one field->value map.
// A field repeated across AND-joined comparisons keeps the later value and
// is flagged with a warning.
func merge(expr ast.Expr, res *Result) {
	switch n := expr.(type) {
	case *ast.ComparisonNode:
		key := mapping.ServerFilterKey(n.Field, n.Operator)
		if _, dup := res.ServerFilter[key]; dup {
			res.Warnings = append(res.Warnings, fmt.Sprintf("field '%s' appears more than once; the later value wins", n.Field))
		}
		res.ServerFilter[key] = n.Value
	case *ast.LogicalNode:
		if n.Left != nil {
			merge(n.Left, res)
		}
		if n.Right != nil {
			merge(n.Right, res)
		}
	case *ast.GroupNode:
		if n.Inner != nil {
			merge(n.Inner, res)
		}
	}
}
