package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/taskql/taskql/mapping"
)

// Tokenizer converts a raw query string to tokens
type Tokenizer struct {
	input  string
	pos    int
	tokens []Token
}

var keywordTokens = map[string]TokenType{
	"AND":      TOKEN_AND,
	"OR":       TOKEN_OR,
	"NOT":      TOKEN_NOT,
	"IN":       TOKEN_IN,
	"LIKE":     TOKEN_LIKE,
	"CONTAINS": TOKEN_CONTAINS,
	"IS":       TOKEN_IS,
	"NULL":     TOKEN_NULL,
	"BETWEEN":  TOKEN_BETWEEN,
}

// Tokenize converts a query string to tokens. The returned slice always ends
// with an EOF token. An unterminated string literal or an unrecognized
// character yields a *ParseError and no tokens.
func Tokenize(input string) ([]Token, error) {
	t := &Tokenizer{input: input}
	return t.tokenize()
}

func (t *Tokenizer) tokenize() ([]Token, error) {
	for t.pos < len(t.input) {
		if t.skipWhitespace() {
			continue
		}

		ch := t.input[t.pos]

		switch ch {
		case '(':
			t.addToken(TOKEN_LPAREN, "(", 1)
			continue
		case ')':
			t.addToken(TOKEN_RPAREN, ")", 1)
			continue
		case ',':
			t.addToken(TOKEN_COMMA, ",", 1)
			continue
		case '\'', '"':
			token, err := t.scanString(ch)
			if err != nil {
				return nil, err
			}
			t.tokens = append(t.tokens, token)
			continue
		}

		if unicode.IsLetter(rune(ch)) || ch == '_' {
			t.tokens = append(t.tokens, t.scanWord())
			continue
		}

		if unicode.IsDigit(rune(ch)) {
			t.tokens = append(t.tokens, t.scanNumber())
			continue
		}

		if isOperatorChar(ch) {
			token, err := t.scanOperator()
			if err != nil {
				return nil, err
			}
			t.tokens = append(t.tokens, token)
			continue
		}

		return nil, &ParseError{
			Message:  fmt.Sprintf("unexpected character '%c'", ch),
			Position: t.pos,
			Token:    string(ch),
		}
	}

	t.tokens = append(t.tokens, Token{Type: TOKEN_EOF, Position: t.pos})

	return t.tokens, nil
}

func (t *Tokenizer) skipWhitespace() bool {
	skipped := false
	for t.pos < len(t.input) {
		switch t.input[t.pos] {
		case ' ', '\t', '\n', '\r':
			t.pos++
			skipped = true
		default:
			return skipped
		}
	}
	return skipped
}

func (t *Tokenizer) addToken(tokenType TokenType, value string, length int) {
	t.tokens = append(t.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: t.pos,
		Length:   length,
	})
	t.pos += length
}

func (t *Tokenizer) scanString(quote byte) (Token, error) {
	startPos := t.pos
	t.pos++ // Skip opening quote

	var value strings.Builder
	for t.pos < len(t.input) {
		ch := t.input[t.pos]

		if ch == '\\' && t.pos+1 < len(t.input) {
			t.pos++
			switch t.input[t.pos] {
			case 'n':
				value.WriteByte('\n')
			case 't':
				value.WriteByte('\t')
			case 'r':
				value.WriteByte('\r')
			case '\\':
				value.WriteByte('\\')
			case '\'':
				value.WriteByte('\'')
			case '"':
				value.WriteByte('"')
			default:
				value.WriteByte(t.input[t.pos])
			}
			t.pos++
			continue
		}

		if ch == quote {
			t.pos++ // Skip closing quote
			return Token{
				Type:     TOKEN_STRING,
				Value:    value.String(),
				Position: startPos,
				Length:   t.pos - startPos,
			}, nil
		}

		value.WriteByte(ch)
		t.pos++
	}

	return Token{}, &ParseError{
		Message:  fmt.Sprintf("unterminated string, expected %c", quote),
		Position: startPos,
	}
}

func (t *Tokenizer) scanNumber() Token {
	startPos := t.pos

	var value strings.Builder
	for t.pos < len(t.input) && unicode.IsDigit(rune(t.input[t.pos])) {
		value.WriteByte(t.input[t.pos])
		t.pos++
	}

	// Optional decimal fraction
	if t.pos+1 < len(t.input) && t.input[t.pos] == '.' && unicode.IsDigit(rune(t.input[t.pos+1])) {
		value.WriteByte('.')
		t.pos++
		for t.pos < len(t.input) && unicode.IsDigit(rune(t.input[t.pos])) {
			value.WriteByte(t.input[t.pos])
			t.pos++
		}
	}

	return Token{
		Type:     TOKEN_NUMBER,
		Value:    value.String(),
		Position: startPos,
		Length:   t.pos - startPos,
	}
}

func (t *Tokenizer) scanWord() Token {
	startPos := t.pos

	var value strings.Builder
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_' {
			value.WriteByte(ch)
			t.pos++
		} else {
			break
		}
	}

	word := value.String()
	upper := strings.ToUpper(word)

	tokenType := TOKEN_IDENTIFIER
	if mapping.Keywords[upper] {
		tokenType = keywordTokens[upper]
	}

	return Token{
		Type:     tokenType,
		Value:    word,
		Position: startPos,
		Length:   t.pos - startPos,
	}
}

func (t *Tokenizer) scanOperator() (Token, error) {
	startPos := t.pos
	ch := t.input[t.pos]

	// Two-character operators match greedily
	if t.pos+1 < len(t.input) && t.input[t.pos+1] == '=' {
		two := t.input[t.pos : t.pos+2]
		var tokenType TokenType
		switch two {
		case "!=":
			tokenType = TOKEN_NEQ
		case ">=":
			tokenType = TOKEN_GTE
		case "<=":
			tokenType = TOKEN_LTE
		}
		if tokenType != TOKEN_UNKNOWN {
			t.pos += 2
			return Token{Type: tokenType, Value: two, Position: startPos, Length: 2}, nil
		}
	}

	var tokenType TokenType
	switch ch {
	case '=':
		tokenType = TOKEN_EQ
	case '>':
		tokenType = TOKEN_GT
	case '<':
		tokenType = TOKEN_LT
	default:
		return Token{}, &ParseError{
			Message:  fmt.Sprintf("unexpected character '%c'", ch),
			Position: startPos,
			Token:    string(ch),
		}
	}

	t.pos++
	return Token{Type: tokenType, Value: string(ch), Position: startPos, Length: 1}, nil
}

func isOperatorChar(ch byte) bool {
	return ch == '=' || ch == '!' || ch == '<' || ch == '>'
}
