package lexer

// TokenType represents the category of a token
type TokenType int

const (
	TOKEN_UNKNOWN    TokenType = iota
	TOKEN_IDENTIFIER           // status, priority (field names)
	TOKEN_STRING               // 'Todo', "hello"
	TOKEN_NUMBER               // 3, 2.5
	TOKEN_EQ                   // =
	TOKEN_NEQ                  // !=
	TOKEN_GT                   // >
	TOKEN_GTE                  // >=
	TOKEN_LT                   // <
	TOKEN_LTE                  // <=
	TOKEN_AND                  // AND
	TOKEN_OR                   // OR
	TOKEN_NOT                  // NOT
	TOKEN_IN                   // IN
	TOKEN_LIKE                 // LIKE
	TOKEN_CONTAINS             // CONTAINS
	TOKEN_IS                   // IS
	TOKEN_NULL                 // NULL
	TOKEN_BETWEEN              // BETWEEN
	TOKEN_LPAREN               // (
	TOKEN_RPAREN               // )
	TOKEN_COMMA                // ,
	TOKEN_EOF                  // End of input
)

// Token represents a single token with position info. Tokens are immutable
// once produced; Value holds the decoded text for string literals and the
// original casing for identifiers.
type Token struct {
	Type     TokenType
	Value    string
	Position int // Character position in input
	Length   int // Consumed length in the raw input
}

// String returns human-readable token type name
func (t TokenType) String() string {
	names := []string{
		"UNKNOWN",
		"IDENTIFIER",
		"STRING",
		"NUMBER",
		"EQ",
		"NEQ",
		"GT",
		"GTE",
		"LT",
		"LTE",
		"AND",
		"OR",
		"NOT",
		"IN",
		"LIKE",
		"CONTAINS",
		"IS",
		"NULL",
		"BETWEEN",
		"LPAREN",
		"RPAREN",
		"COMMA",
		"EOF",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "UNKNOWN"
}
