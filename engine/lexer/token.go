package lexer

// TokenType represents the category of a token
type TokenType int

const (
	TOKEN_UNKNOWN    TokenType = iota
	TOKEN_IDENTIFIER           // field/argument names, bare values
	TOKEN_STRING               // 'Canada', "hello"
	TOKEN_NUMBER               // 25, 3.14, -4
	TOKEN_LBRACE               // {
	TOKEN_RBRACE               // }
	TOKEN_LPAREN               // (
	TOKEN_RPAREN               // )
	TOKEN_COMMA                // ,
	TOKEN_COLON                // :
	TOKEN_MINUS                // - (exclude marker)
	TOKEN_STAR                 // * (wildcard)
	TOKEN_EOF                  // End of input
)

// Token represents a single token with position info
type Token struct {
	Type     TokenType
	Value    string // Original value (unquoted for strings)
	Position int    // Character position in input
	Line     int    // Line number (1-indexed)
	Column   int    // Column number (1-indexed)
}

// String returns human-readable token type name
func (t TokenType) String() string {
	names := []string{
		"UNKNOWN",
		"IDENTIFIER",
		"STRING",
		"NUMBER",
		"LBRACE",
		"RBRACE",
		"LPAREN",
		"RPAREN",
		"COMMA",
		"COLON",
		"MINUS",
		"STAR",
		"EOF",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "UNKNOWN"
}
