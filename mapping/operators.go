package mapping

// Comparison operators of the filter dialect.
const (
	OpEq        = "="
	OpNeq       = "!="
	OpGt        = ">"
	OpGte       = ">="
	OpLt        = "<"
	OpLte       = "<="
	OpIn        = "IN"
	OpNotIn     = "NOT IN"
	OpLike      = "LIKE"
	OpContains  = "CONTAINS"
	OpIsNull    = "IS NULL"
	OpIsNotNull = "IS NOT NULL"
	OpBetween   = "BETWEEN"
)

// Logical operators.
const (
	LogicAnd = "AND"
	LogicOr  = "OR"
	LogicNot = "NOT"
)

// Keywords is the reserved-word set of the dialect, matched
// case-insensitively by the tokenizer.
var Keywords = map[string]bool{
	"AND":      true,
	"OR":       true,
	"NOT":      true,
	"IN":       true,
	"LIKE":     true,
	"CONTAINS": true,
	"IS":       true,
	"NULL":     true,
	"BETWEEN":  true,
}

// ServerOperators is the per-field operator capability of the task service's
// list endpoint. Fields absent from this table cannot be filtered
// server-side at all. due_at is the only field with range support: the
// service exposes it as before/after bounds.
var ServerOperators = map[string][]string{
	"status":      {OpEq},
	"priority":    {OpEq},
	"size":        {OpEq},
	"assignee":    {OpEq},
	"dartboard":   {OpEq},
	"parent_task": {OpEq},
	"id":          {OpEq},
	"due_at":      {OpEq, OpLt, OpLte, OpGt, OpGte},
}

// ServerSupports reports whether the service can apply op to field directly.
func ServerSupports(field, op string) bool {
	ops, ok := ServerOperators[field]
	if !ok {
		return false
	}
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

// ServerFilterKey returns the request parameter a comparison maps to. Range
// operators on due_at collapse to the before/after bounds the service
// accepts; everything else keeps the field name.
func ServerFilterKey(field, op string) string {
	if field == "due_at" {
		switch op {
		case OpLt, OpLte:
			return "due_at_before"
		case OpGt, OpGte:
			return "due_at_after"
		}
	}
	return field
}
