package lexer

import (
	"fmt"
	"strings"
	"unicode"
)

// Tokenizer converts a raw query string to tokens
type Tokenizer struct {
	input  string
	pos    int
	line   int
	column int
	tokens []Token
}

// Tokenize converts a RESTQL query string to tokens
func Tokenize(input string) ([]Token, error) {
	t := &Tokenizer{
		input:  input,
		pos:    0,
		line:   1,
		column: 1,
	}
	return t.tokenize()
}

func (t *Tokenizer) tokenize() ([]Token, error) {
	for t.pos < len(t.input) {
		// Skip whitespace
		if t.skipWhitespace() {
			continue
		}

		ch := t.input[t.pos]

		// Single character tokens
		switch ch {
		case '{':
			t.addToken(TOKEN_LBRACE, "{")
			t.advance()
			continue
		case '}':
			t.addToken(TOKEN_RBRACE, "}")
			t.advance()
			continue
		case '(':
			t.addToken(TOKEN_LPAREN, "(")
			t.advance()
			continue
		case ')':
			t.addToken(TOKEN_RPAREN, ")")
			t.advance()
			continue
		case ',':
			t.addToken(TOKEN_COMMA, ",")
			t.advance()
			continue
		case ':':
			t.addToken(TOKEN_COLON, ":")
			t.advance()
			continue
		case '*':
			t.addToken(TOKEN_STAR, "*")
			t.advance()
			continue
		case '\'', '"':
			token, err := t.scanString(ch)
			if err != nil {
				return nil, err
			}
			t.tokens = append(t.tokens, token)
			continue
		}

		// '-' is the exclude marker, except when it starts a negative
		// numeric argument value
		if ch == '-' {
			if t.peekDigit() && t.canStartSignedNumber() {
				token := t.scanNumber()
				t.tokens = append(t.tokens, token)
				continue
			}
			t.addToken(TOKEN_MINUS, "-")
			t.advance()
			continue
		}

		// '+' is only valid as a numeric sign in value position
		if ch == '+' && t.peekDigit() && t.canStartSignedNumber() {
			token := t.scanNumber()
			t.tokens = append(t.tokens, token)
			continue
		}

		// Identifiers: field names, argument names, bare argument values
		if isIdentStart(ch) {
			token := t.scanIdentifier()
			t.tokens = append(t.tokens, token)
			continue
		}

		if unicode.IsDigit(rune(ch)) {
			token := t.scanNumber()
			t.tokens = append(t.tokens, token)
			continue
		}

		// Unknown character
		return nil, &LexError{
			Message:  fmt.Sprintf("unexpected character '%c'", ch),
			Position: t.pos,
			Line:     t.line,
			Column:   t.column,
		}
	}

	// Add EOF token
	t.addToken(TOKEN_EOF, "")

	return t.tokens, nil
}

func (t *Tokenizer) skipWhitespace() bool {
	skipped := false
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if ch == ' ' || ch == '\t' {
			t.column++
			t.pos++
			skipped = true
		} else if ch == '\n' {
			t.line++
			t.column = 1
			t.pos++
			skipped = true
		} else if ch == '\r' {
			t.pos++
			skipped = true
		} else {
			break
		}
	}
	return skipped
}

func (t *Tokenizer) advance() {
	t.pos++
	t.column++
}

func (t *Tokenizer) peekDigit() bool {
	if t.pos+1 < len(t.input) {
		return unicode.IsDigit(rune(t.input[t.pos+1]))
	}
	return false
}

// canStartSignedNumber checks if current position can start a signed number.
// Returns true only in argument value position, i.e. right after ':'
func (t *Tokenizer) canStartSignedNumber() bool {
	if len(t.tokens) == 0 {
		return false
	}
	return t.tokens[len(t.tokens)-1].Type == TOKEN_COLON
}

func (t *Tokenizer) addToken(tokenType TokenType, value string) {
	t.tokens = append(t.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: t.pos,
		Line:     t.line,
		Column:   t.column,
	})
}

// scanString scans a quoted argument value. The other quote character is
// usable unescaped inside; the matching one must be escaped with a backslash.
func (t *Tokenizer) scanString(quote byte) (Token, error) {
	startPos := t.pos
	startLine := t.line
	startCol := t.column

	t.advance() // Skip opening quote

	var value strings.Builder
	for t.pos < len(t.input) {
		ch := t.input[t.pos]

		if ch == '\\' && t.pos+1 < len(t.input) {
			// Escape sequence
			t.advance()
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
			t.advance()
			continue
		}

		if ch == quote {
			t.advance() // Skip closing quote
			return Token{
				Type:     TOKEN_STRING,
				Value:    value.String(),
				Position: startPos,
				Line:     startLine,
				Column:   startCol,
			}, nil
		}

		if ch == '\n' {
			t.line++
			t.column = 0
		}
		value.WriteByte(ch)
		t.advance()
	}

	return Token{}, &LexError{
		Message:  fmt.Sprintf("unclosed string, expected %c", quote),
		Position: startPos,
		Line:     startLine,
		Column:   startCol,
	}
}

func (t *Tokenizer) scanNumber() Token {
	startPos := t.pos
	startCol := t.column

	var value strings.Builder

	// Handle sign; a leading '+' is legal input but not kept
	if t.input[t.pos] == '-' || t.input[t.pos] == '+' {
		if t.input[t.pos] == '-' {
			value.WriteByte('-')
		}
		t.advance()
	}

	// Integer part
	for t.pos < len(t.input) && unicode.IsDigit(rune(t.input[t.pos])) {
		value.WriteByte(t.input[t.pos])
		t.advance()
	}

	// Decimal part
	if t.pos < len(t.input) && t.input[t.pos] == '.' {
		value.WriteByte('.')
		t.advance()
		for t.pos < len(t.input) && unicode.IsDigit(rune(t.input[t.pos])) {
			value.WriteByte(t.input[t.pos])
			t.advance()
		}
	}

	return Token{
		Type:     TOKEN_NUMBER,
		Value:    value.String(),
		Position: startPos,
		Line:     t.line,
		Column:   startCol,
	}
}

func (t *Tokenizer) scanIdentifier() Token {
	startPos := t.pos
	startCol := t.column

	var value strings.Builder
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if isIdentStart(ch) || unicode.IsDigit(rune(ch)) {
			value.WriteByte(ch)
			t.advance()
		} else {
			break
		}
	}

	return Token{
		Type:     TOKEN_IDENTIFIER,
		Value:    value.String(),
		Position: startPos,
		Line:     t.line,
		Column:   startCol,
	}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
