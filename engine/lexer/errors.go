package lexer

import "fmt"

// LexError represents an invalid character or unterminated literal,
// with position info
type LexError struct {
	Message  string
	Position int
	Line     int
	Column   int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}
