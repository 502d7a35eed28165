// Package analyzer performs the semantic pre-flight pass over a token
// stream: it validates field identifiers against the vocabulary and checks
// IS continuations. It builds no syntax tree and never aborts early, so a
// query with several typos reports all of them in one shot.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/taskql/taskql/engine/lexer"
	"github.com/taskql/taskql/fuzzy"
	"github.com/taskql/taskql/mapping"
)

// maxSuggestDistance bounds the edit distance for "did you mean".
const maxSuggestDistance = 2

// Result collects everything the pass found.
type Result struct {
	Errors []string
	Fields map[string]bool
}

// Analyze walks the token stream and accumulates validation errors.
func Analyze(tokens []lexer.Token) Result {
	res := Result{Fields: make(map[string]bool)}

	for i, tok := range tokens {
		switch tok.Type {
		case lexer.TOKEN_IDENTIFIER:
			name := strings.ToLower(tok.Value)
			res.Fields[name] = true
			if !mapping.IsField(name) {
				res.Errors = append(res.Errors, unknownFieldError(tok.Value, name))
			}
		case lexer.TOKEN_IS:
			if !validIsContinuation(tokens, i) {
				res.Errors = append(res.Errors, fmt.Sprintf(
					"Invalid IS at position %d: IS must be followed by NULL or NOT NULL", tok.Position))
			}
		}
	}

	return res
}

func unknownFieldError(original, folded string) string {
	if suggestion := fuzzy.Closest(folded, mapping.Fields, maxSuggestDistance); suggestion != "" {
		return fmt.Sprintf("Unknown field: %s. Did you mean %s?", original, suggestion)
	}
	return fmt.Sprintf("Unknown field: %s. Valid fields: %s", original, strings.Join(mapping.Fields, ", "))
}

func validIsContinuation(tokens []lexer.Token, i int) bool {
	if i+1 >= len(tokens) {
		return false
	}
	next := tokens[i+1].Type
	return next == lexer.TOKEN_NULL || next == lexer.TOKEN_NOT
}
