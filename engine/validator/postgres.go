package validator

import (
	pg_query "github.com/pganalyze/pg_query_go/v5"
)

// ValidatePostgres validates a WHERE clause body against the PostgreSQL grammar.
func ValidatePostgres(whereClause string) error {
	_, err := pg_query.Parse(probe(whereClause))
	return err
}

// ValidatePostgresWithDetails returns a detailed validation result.
func ValidatePostgresWithDetails(whereClause string) (*ValidationResult, error) {
	if err := ValidatePostgres(whereClause); err != nil {
		return &ValidationResult{
			Valid: false,
			Error: err.Error(),
		}, nil
	}
	return &ValidationResult{Valid: true}, nil
}
