// Package taskql is the top-level entry point for the TQL query language.
// It chains the tokenizer, the field analyzer, the recursive descent
// parser, and the filter compiler into two calls most consumers need.
package taskql

import (
	"errors"

	"github.com/taskql/taskql/engine/analyzer"
	"github.com/taskql/taskql/engine/ast"
	"github.com/taskql/taskql/engine/compiler"
	"github.com/taskql/taskql/engine/lexer"
	"github.com/taskql/taskql/engine/parser"
)

// ParseQuery runs the full front half of the pipeline over a raw query
// string. Tokenizer failures stop the pipeline; analyzer findings are
// reported without attempting a structural parse, since an unknown
// field makes the tree unusable anyway. The result always carries a
// non-nil AST, degraded to an empty group on error.
func ParseQuery(input string) *parser.ParseResult {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		var perr *lexer.ParseError
		msg := err.Error()
		if errors.As(err, &perr) {
			msg = perr.Message
		}
		return &parser.ParseResult{
			AST:    &ast.GroupNode{},
			Fields: map[string]bool{},
			Errors: []string{msg},
		}
	}

	sem := analyzer.Analyze(tokens)
	if len(sem.Errors) > 0 {
		return &parser.ParseResult{
			AST:    &ast.GroupNode{},
			Fields: sem.Fields,
			Errors: sem.Errors,
		}
	}

	return parser.Parse(tokens)
}

// CompileQuery parses input and, when the parse is clean, compiles the
// tree into a filter. On parse errors the compiler never runs and the
// second return is nil.
func CompileQuery(input string) (*parser.ParseResult, *compiler.Result) {
	pr := ParseQuery(input)
	if len(pr.Errors) > 0 {
		return pr, nil
	}
	return pr, compiler.Compile(pr.AST)
}
