package validator

import (
	"github.com/xwb1989/sqlparser"
)

// ValidateMySQL validates a WHERE clause body against the MySQL grammar.
func ValidateMySQL(whereClause string) error {
	_, err := sqlparser.Parse(probe(whereClause))
	return err
}

// ValidateMySQLWithDetails returns a detailed validation result.
func ValidateMySQLWithDetails(whereClause string) (*ValidationResult, error) {
	if err := ValidateMySQL(whereClause); err != nil {
		return &ValidationResult{
			Valid: false,
			Error: err.Error(),
		}, nil
	}
	return &ValidationResult{Valid: true}, nil
}
