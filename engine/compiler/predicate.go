package compiler

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/taskql/taskql/engine/ast"
	"github.com/taskql/taskql/mapping"
)

// Predicate evaluates a record against the compiled expression. Records are
// flat field->value maps; a nil record never matches, and no evaluation ever
// panics: every type mismatch degrades to false.
type Predicate func(record map[string]any) bool

func falsePredicate(map[string]any) bool { return false }

// compilePredicate builds one closure per node, composed bottom-up so the
// tree is walked once at compile time, not per record.
func compilePredicate(expr ast.Expr) Predicate {
	switch n := expr.(type) {
	case *ast.ComparisonNode:
		return compileComparison(n)
	case *ast.LogicalNode:
		return compileLogical(n)
	case *ast.GroupNode:
		if n.Inner == nil {
			return falsePredicate
		}
		return compilePredicate(n.Inner)
	}
	return falsePredicate
}

func compileLogical(n *ast.LogicalNode) Predicate {
	// A missing child in a malformed tree evaluates as false for that side.
	child := func(e ast.Expr) Predicate {
		if e == nil {
			return falsePredicate
		}
		return compilePredicate(e)
	}

	switch n.Operator {
	case mapping.LogicAnd:
		left, right := child(n.Left), child(n.Right)
		return func(record map[string]any) bool {
			return left(record) && right(record)
		}
	case mapping.LogicOr:
		left, right := child(n.Left), child(n.Right)
		return func(record map[string]any) bool {
			return left(record) || right(record)
		}
	case mapping.LogicNot:
		if n.Right == nil {
			return falsePredicate
		}
		inner := compilePredicate(n.Right)
		return func(record map[string]any) bool {
			return !inner(record)
		}
	}
	return falsePredicate
}

func compileComparison(n *ast.ComparisonNode) Predicate {
	field := n.Field

	switch n.Operator {
	case mapping.OpEq:
		want := n.Value
		return func(record map[string]any) bool {
			v, ok := lookup(record, field)
			return ok && equalValues(v, want)
		}
	case mapping.OpNeq:
		want := n.Value
		return func(record map[string]any) bool {
			if record == nil {
				return false
			}
			v, ok := lookup(record, field)
			if !ok {
				return true
			}
			return !equalValues(v, want)
		}
	case mapping.OpGt, mapping.OpGte, mapping.OpLt, mapping.OpLte:
		op := n.Operator
		want := n.Value
		return func(record map[string]any) bool {
			v, ok := lookup(record, field)
			if !ok {
				return false
			}
			c, ok := compareValues(v, want)
			if !ok {
				return false
			}
			switch op {
			case mapping.OpGt:
				return c > 0
			case mapping.OpGte:
				return c >= 0
			case mapping.OpLt:
				return c < 0
			case mapping.OpLte:
				return c <= 0
			}
			return false
		}
	case mapping.OpIn:
		want := n.Values
		return func(record map[string]any) bool {
			v, ok := lookup(record, field)
			return ok && memberOf(v, want)
		}
	case mapping.OpNotIn:
		want := n.Values
		return func(record map[string]any) bool {
			if record == nil {
				return false
			}
			v, ok := lookup(record, field)
			if !ok {
				return true
			}
			return !memberOf(v, want)
		}
	case mapping.OpLike:
		pattern, _ := n.Value.(string)
		re := likeRegexp(pattern)
		return func(record map[string]any) bool {
			if re == nil {
				return false
			}
			v, ok := lookup(record, field)
			if !ok {
				return false
			}
			s, ok := v.(string)
			return ok && re.MatchString(s)
		}
	case mapping.OpContains:
		want := n.Value
		return func(record map[string]any) bool {
			v, ok := lookup(record, field)
			if !ok {
				return false
			}
			return containsValue(v, want)
		}
	case mapping.OpIsNull:
		return func(record map[string]any) bool {
			if record == nil {
				return false
			}
			v, ok := record[field]
			return !ok || v == nil
		}
	case mapping.OpIsNotNull:
		return func(record map[string]any) bool {
			if record == nil {
				return false
			}
			v, ok := record[field]
			return ok && v != nil
		}
	case mapping.OpBetween:
		low, high := n.Value, n.Value2
		return func(record map[string]any) bool {
			v, ok := lookup(record, field)
			if !ok {
				return false
			}
			cl, okLow := compareValues(v, low)
			ch, okHigh := compareValues(v, high)
			return okLow && okHigh && cl >= 0 && ch <= 0
		}
	}
	return falsePredicate
}

// lookup fetches a non-nil record value.
func lookup(record map[string]any, field string) (any, bool) {
	if record == nil {
		return nil, false
	}
	v, ok := record[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// equalValues compares numerics by value and everything else structurally.
func equalValues(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	if _, bok := toFloat(b); bok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values: numerically when both are numbers,
// lexicographically when both are strings (which also orders ISO-8601
// timestamps), and not at all otherwise.
func compareValues(a, b any) (int, bool) {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func memberOf(v any, values []any) bool {
	for _, item := range values {
		if equalValues(v, item) {
			return true
		}
	}
	return false
}

// containsValue implements CONTAINS: array membership when the record value
// is a slice, substring match when both sides are strings.
func containsValue(v, want any) bool {
	switch arr := v.(type) {
	case []any:
		for _, item := range arr {
			if equalValues(item, want) {
				return true
			}
		}
		return false
	case []string:
		s, ok := want.(string)
		if !ok {
			return false
		}
		for _, item := range arr {
			if item == s {
				return true
			}
		}
		return false
	case string:
		s, ok := want.(string)
		return ok && strings.Contains(arr, s)
	}
	return false
}

// likeRegexp converts a SQL LIKE pattern to an anchored case-insensitive
// regexp: % matches any run, _ matches one character, everything else is
// literal.
func likeRegexp(pattern string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, "%", ".*")
	quoted = strings.ReplaceAll(quoted, "_", ".")
	re, err := regexp.Compile("(?i)^" + quoted + "$")
	if err != nil {
		return nil
	}
	return re
}
