package lexer

import "fmt"

// ParseError represents a character-level error with position info. It is
// the only fatal error class of the engine: tokenization stops immediately.
type ParseError struct {
	Message  string
	Position int
	Token    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Position, e.Message)
}

// NewParseError creates a new parse error for the given token
func NewParseError(token Token, message string) *ParseError {
	return &ParseError{
		Message:  message,
		Position: token.Position,
		Token:    token.Value,
	}
}
