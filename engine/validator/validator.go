// Package validator checks rendered SQL WHERE clauses against real
// database grammars before they are handed to a backend.
package validator

import (
	"fmt"
)

// ValidationResult contains detailed validation info.
type ValidationResult struct {
	Valid bool
	Error string
}

// probe wraps a WHERE clause body in a minimal statement so the
// dialect parsers will accept it.
func probe(whereClause string) string {
	return "SELECT 1 FROM tasks WHERE " + whereClause
}

// Validate checks a WHERE clause body against the named dialect grammar.
func Validate(whereClause string, dialect string) error {
	switch dialect {
	case "postgres":
		return ValidatePostgres(whereClause)
	case "mysql":
		return ValidateMySQL(whereClause)
	default:
		return fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// ValidateWithDetails returns a detailed validation result.
func ValidateWithDetails(whereClause string, dialect string) (*ValidationResult, error) {
	switch dialect {
	case "postgres":
		return ValidatePostgresWithDetails(whereClause)
	case "mysql":
		return ValidateMySQLWithDetails(whereClause)
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}
