// Package ast defines the expression tree of the filter dialect. The tree
// is a closed sum of three variants; every walk over it (compatibility
// analysis, filter merging, predicate compilation) switches exhaustively
// over ComparisonNode, LogicalNode and GroupNode.
package ast

import (
	"fmt"
	"strings"

	"github.com/taskql/taskql/mapping"
)

// Expr is the interface all expression nodes implement
type Expr interface {
	expr()
	Pos() int
	String() string
}

// ComparisonNode is a single field comparison.
//
// Exactly one of the operand slots is meaningful for a given operator:
// Value for binary operators, Value and Value2 for BETWEEN, Values for
// IN / NOT IN, none for IS [NOT] NULL.
type ComparisonNode struct {
	Field    string
	Operator string
	Value    any
	Value2   any
	Values   []any
	Position int
}

func (n *ComparisonNode) expr()    {}
func (n *ComparisonNode) Pos() int { return n.Position }

func (n *ComparisonNode) String() string {
	switch n.Operator {
	case mapping.OpIsNull, mapping.OpIsNotNull:
		return fmt.Sprintf("%s(%s)", n.Operator, n.Field)
	case mapping.OpIn, mapping.OpNotIn:
		parts := make([]string, len(n.Values))
		for i, v := range n.Values {
			parts[i] = fmt.Sprintf("%v", v)
		}
		return fmt.Sprintf("%s(%s, [%s])", n.Operator, n.Field, strings.Join(parts, ", "))
	case mapping.OpBetween:
		return fmt.Sprintf("BETWEEN(%s, %v, %v)", n.Field, n.Value, n.Value2)
	default:
		return fmt.Sprintf("%s(%s, %v)", n.Operator, n.Field, n.Value)
	}
}

// LogicalNode combines child expressions with AND, OR or NOT.
// Left is nil only for NOT.
type LogicalNode struct {
	Operator string
	Left     Expr
	Right    Expr
	Position int
}

func (n *LogicalNode) expr()    {}
func (n *LogicalNode) Pos() int { return n.Position }

func (n *LogicalNode) String() string {
	if n.Left == nil {
		return fmt.Sprintf("%s(%s)", n.Operator, exprString(n.Right))
	}
	return fmt.Sprintf("%s(%s, %s)", n.Operator, exprString(n.Left), exprString(n.Right))
}

// GroupNode marks explicit parenthesization, preserved through parsing so
// downstream passes can tell grouped nodes from bare ones. A GroupNode with
// a nil Inner is the degenerate tree returned for failed parses.
type GroupNode struct {
	Inner    Expr
	Position int
}

func (n *GroupNode) expr()    {}
func (n *GroupNode) Pos() int { return n.Position }

func (n *GroupNode) String() string {
	return "(" + exprString(n.Inner) + ")"
}

func exprString(e Expr) string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%v", e)
}
