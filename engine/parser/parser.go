// Package parser implements a recursive descent parser for the filter
// dialect. Precedence, lowest binding first: OR, AND, NOT, primary.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taskql/taskql/engine/ast"
	"github.com/taskql/taskql/engine/lexer"
	"github.com/taskql/taskql/mapping"
)

// ParseResult is the outcome of one parse. AST is never nil: production
// failures leave the degenerate empty group, trailing-token errors keep
// the tree built so far.
type ParseResult struct {
	AST    ast.Expr
	Fields map[string]bool
	Errors []string
}

// Parser walks a token stream produced by the lexer
type Parser struct {
	tokens []lexer.Token
	pos    int
	fields map[string]bool
}

// Parse builds an expression tree from tokens. Production failures are
// contained: the caller always gets a usable ParseResult, never an error.
func Parse(tokens []lexer.Token) *ParseResult {
	p := &Parser{tokens: tokens, fields: make(map[string]bool)}
	res := &ParseResult{Fields: p.fields}

	if p.current().Type == lexer.TOKEN_EOF {
		res.Errors = append(res.Errors, "Empty query")
		res.AST = &ast.GroupNode{}
		return res
	}

	expr, err := p.parseOr()
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		res.AST = &ast.GroupNode{}
		return res
	}

	// A structurally complete parse with leftover tokens keeps the tree and
	// reports the remainder.
	if p.current().Type != lexer.TOKEN_EOF {
		tok := p.current()
		res.Errors = append(res.Errors, fmt.Sprintf("Unexpected token '%s' at position %d", tok.Value, tok.Position))
	}

	res.AST = expr
	return res
}

// =============================================================================
// TOKEN NAVIGATION
// =============================================================================

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.TOKEN_EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(offset int) lexer.Token {
	pos := p.pos + offset
	if pos < 0 || pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.TOKEN_EOF}
	}
	return p.tokens[pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

func (p *Parser) errorAt(message string) error {
	tok := p.current()
	return p.errorf("%s, got '%s' at position %d", message, tok.Value, tok.Position)
}

// =============================================================================
// GRAMMAR PRODUCTIONS
// =============================================================================

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().Type == lexer.TOKEN_OR {
		pos := p.advance().Position
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalNode{Operator: mapping.LogicOr, Left: left, Right: right, Position: pos}
	}

	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.current().Type == lexer.TOKEN_AND {
		pos := p.advance().Position
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicalNode{Operator: mapping.LogicAnd, Left: left, Right: right, Position: pos}
	}

	return left, nil
}

func (p *Parser) parseNot() (ast.Expr, error) {
	if p.current().Type == lexer.TOKEN_NOT {
		// NOT directly before IN is the NOT IN comparison operator, not
		// logical negation; leave both tokens for the comparison production.
		if p.peek(1).Type == lexer.TOKEN_IN {
			return p.parsePrimary()
		}
		pos := p.advance().Position
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.LogicalNode{Operator: mapping.LogicNot, Right: inner, Position: pos}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	if p.current().Type == lexer.TOKEN_LPAREN {
		pos := p.advance().Position
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.current().Type != lexer.TOKEN_RPAREN {
			return nil, p.errorAt("Expected ')' to close group")
		}
		p.advance()
		return &ast.GroupNode{Inner: inner, Position: pos}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	tok := p.current()
	if tok.Type != lexer.TOKEN_IDENTIFIER {
		return nil, p.errorAt("Expected field name")
	}
	field := strings.ToLower(tok.Value)
	p.fields[field] = true
	pos := tok.Position
	p.advance()

	switch p.current().Type {
	case lexer.TOKEN_IS:
		return p.parseNullCheck(field, pos)
	case lexer.TOKEN_IN:
		p.advance()
		values, err := p.parseValueList()
		if err != nil {
			return nil, err
		}
		return &ast.ComparisonNode{Field: field, Operator: mapping.OpIn, Values: values, Position: pos}, nil
	case lexer.TOKEN_NOT:
		if p.peek(1).Type != lexer.TOKEN_IN {
			return nil, p.errorf("Expected IN after NOT, got '%s' at position %d", p.peek(1).Value, p.peek(1).Position)
		}
		p.advance()
		p.advance()
		values, err := p.parseValueList()
		if err != nil {
			return nil, err
		}
		return &ast.ComparisonNode{Field: field, Operator: mapping.OpNotIn, Values: values, Position: pos}, nil
	case lexer.TOKEN_BETWEEN:
		return p.parseBetween(field, pos)
	}

	op, ok := binaryOperator(p.current().Type)
	if !ok {
		return nil, p.errorAt(fmt.Sprintf("Expected operator after '%s'", field))
	}
	p.advance()

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &ast.ComparisonNode{Field: field, Operator: op, Value: value, Position: pos}, nil
}

func (p *Parser) parseNullCheck(field string, pos int) (ast.Expr, error) {
	p.advance() // consume IS

	operator := mapping.OpIsNull
	if p.current().Type == lexer.TOKEN_NOT {
		p.advance()
		operator = mapping.OpIsNotNull
	}
	if p.current().Type != lexer.TOKEN_NULL {
		return nil, p.errorAt("Expected NULL after IS")
	}
	p.advance()

	return &ast.ComparisonNode{Field: field, Operator: operator, Position: pos}, nil
}

func (p *Parser) parseBetween(field string, pos int) (ast.Expr, error) {
	p.advance() // consume BETWEEN

	low, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if p.current().Type != lexer.TOKEN_AND {
		return nil, p.errorAt("Expected AND between BETWEEN bounds")
	}
	p.advance()
	high, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	return &ast.ComparisonNode{Field: field, Operator: mapping.OpBetween, Value: low, Value2: high, Position: pos}, nil
}

// parseValueList consumes a parenthesized, comma-separated value list.
// The empty list () is legal and yields an empty slice.
func (p *Parser) parseValueList() ([]any, error) {
	if p.current().Type != lexer.TOKEN_LPAREN {
		return nil, p.errorAt("Expected '(' to open value list")
	}
	p.advance()

	values := []any{}
	if p.current().Type == lexer.TOKEN_RPAREN {
		p.advance()
		return values, nil
	}

	for {
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		values = append(values, value)

		if p.current().Type == lexer.TOKEN_COMMA {
			p.advance()
			continue
		}
		break
	}

	if p.current().Type != lexer.TOKEN_RPAREN {
		return nil, p.errorAt("Expected ')' to close value list")
	}
	p.advance()
	return values, nil
}

func (p *Parser) parseValue() (any, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.TOKEN_STRING:
		p.advance()
		return tok.Value, nil
	case lexer.TOKEN_NUMBER:
		p.advance()
		n, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errorf("Invalid number '%s' at position %d", tok.Value, tok.Position)
		}
		return n, nil
	case lexer.TOKEN_NULL:
		p.advance()
		return nil, nil
	}
	return nil, p.errorAt("Expected value")
}

func binaryOperator(t lexer.TokenType) (string, bool) {
	switch t {
	case lexer.TOKEN_EQ:
		return mapping.OpEq, true
	case lexer.TOKEN_NEQ:
		return mapping.OpNeq, true
	case lexer.TOKEN_GT:
		return mapping.OpGt, true
	case lexer.TOKEN_GTE:
		return mapping.OpGte, true
	case lexer.TOKEN_LT:
		return mapping.OpLt, true
	case lexer.TOKEN_LTE:
		return mapping.OpLte, true
	case lexer.TOKEN_LIKE:
		return mapping.OpLike, true
	case lexer.TOKEN_CONTAINS:
		return mapping.OpContains, true
	}
	return "", false
}
