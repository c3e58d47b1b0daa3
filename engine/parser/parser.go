package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/restql-engine/restql/engine/ast"
	"github.com/restql-engine/restql/engine/lexer"
)

// Bounds applied to adversarial input. Both are overridable via Options.
const (
	DefaultMaxAliasLen = 50
	DefaultMaxDepth    = 32
)

// Options control parser limits
type Options struct {
	// MaxAliasLen caps the length of a field alias. Zero means default.
	MaxAliasLen int

	// MaxDepth caps subtree nesting. Zero means default.
	MaxDepth int
}

// Parser implements a recursive descent parser for RESTQL queries
type Parser struct {
	tokens []lexer.Token
	pos    int
	opts   Options
}

// Parse is the package-level entry point. It parses a query string into a
// root QueryNode using default limits.
func Parse(input string) (*ast.QueryNode, error) {
	return ParseWithOptions(input, Options{})
}

// ParseWithOptions parses with explicit limits
func ParseWithOptions(input string, opts Options) (*ast.QueryNode, error) {
	if opts.MaxAliasLen == 0 {
		opts.MaxAliasLen = DefaultMaxAliasLen
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &Parser{tokens: tokens, pos: 0, opts: opts}

	node, err := p.parseNode(0)
	if err != nil {
		return nil, err
	}

	// Ensure all tokens were consumed
	if !p.isAtEnd() {
		return nil, p.error(ast.RuleTrailingTokens,
			fmt.Sprintf("unexpected '%s' after query", p.current().Value))
	}

	return node, nil
}

// parseNode parses one nesting level: argumentList? '{' entryList '}'
func (p *Parser) parseNode(depth int) (*ast.QueryNode, error) {
	if depth > p.opts.MaxDepth {
		return nil, p.error(ast.RuleTooDeep,
			fmt.Sprintf("query nesting exceeds %d levels", p.opts.MaxDepth))
	}

	node := &ast.QueryNode{Position: p.current().Position}

	if p.current().Type == lexer.TOKEN_LPAREN {
		if err := p.parseArguments(node); err != nil {
			return nil, err
		}
	}

	if p.current().Type != lexer.TOKEN_LBRACE {
		return nil, p.error(ast.RuleUnbalancedBraces,
			fmt.Sprintf("expected '{', got '%s'", p.describe(p.current())))
	}
	p.advance()

	if p.current().Type == lexer.TOKEN_RBRACE {
		return nil, p.error(ast.RuleEmptyFieldList,
			"empty field list: specify at least one field or '*'")
	}

	for {
		field, err := p.parseEntry(depth)
		if err != nil {
			return nil, err
		}
		node.Fields = append(node.Fields, field)

		if p.current().Type == lexer.TOKEN_COMMA {
			p.advance()
			// Trailing comma before '}' is tolerated
			if p.current().Type == lexer.TOKEN_RBRACE {
				break
			}
			continue
		}
		break
	}

	if p.current().Type != lexer.TOKEN_RBRACE {
		return nil, p.error(ast.RuleUnbalancedBraces,
			fmt.Sprintf("expected '}', got '%s'", p.describe(p.current())))
	}
	p.advance()

	return node, p.validateNode(node)
}

// parseArguments parses '(' key ':' value (',' key ':' value)* ')'.
// A duplicate key at the same level keeps its first position but takes the
// later value (last write wins).
func (p *Parser) parseArguments(node *ast.QueryNode) error {
	p.advance() // consume '('

	for p.current().Type != lexer.TOKEN_RPAREN {
		tok := p.current()
		if tok.Type != lexer.TOKEN_IDENTIFIER {
			return p.error(ast.RuleInvalidArgument,
				fmt.Sprintf("expected argument name, got '%s'", p.describe(tok)))
		}
		key := tok.Value
		p.advance()

		if p.current().Type != lexer.TOKEN_COLON {
			return p.error(ast.RuleInvalidArgument,
				fmt.Sprintf("expected ':' after argument '%s'", key))
		}
		p.advance()

		value, err := p.parseValue()
		if err != nil {
			return err
		}

		p.setArgument(node, ast.Argument{Key: key, Value: value, Position: tok.Position})

		if p.current().Type == lexer.TOKEN_COMMA {
			p.advance()
			continue
		}
		break
	}

	if p.current().Type != lexer.TOKEN_RPAREN {
		return p.error(ast.RuleInvalidArgument,
			fmt.Sprintf("expected ')', got '%s'", p.describe(p.current())))
	}
	p.advance()
	return nil
}

// parseValue parses an argument value: identifier, numeral or quoted literal.
// Bare true/false/null become typed values; any other identifier is a string.
func (p *Parser) parseValue() (any, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.TOKEN_STRING:
		p.advance()
		return tok.Value, nil
	case lexer.TOKEN_NUMBER:
		p.advance()
		if strings.Contains(tok.Value, ".") {
			f, err := strconv.ParseFloat(tok.Value, 64)
			if err != nil {
				return nil, p.errorAt(tok, ast.RuleInvalidArgument,
					fmt.Sprintf("invalid number '%s'", tok.Value))
			}
			return f, nil
		}
		i, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.errorAt(tok, ast.RuleInvalidArgument,
				fmt.Sprintf("invalid number '%s'", tok.Value))
		}
		return i, nil
	case lexer.TOKEN_IDENTIFIER:
		p.advance()
		switch tok.Value {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		}
		return tok.Value, nil
	}
	return nil, p.errorAt(tok, ast.RuleInvalidArgument,
		fmt.Sprintf("expected argument value, got '%s'", p.describe(tok)))
}

// parseEntry parses one field entry:
// (alias ':')? '-'? (IDENT | '*') (argumentList? '{' entryList '}')?
func (p *Parser) parseEntry(depth int) (ast.FieldSpec, error) {
	field := ast.FieldSpec{Position: p.current().Position}

	// Optional 'alias :' prefix
	if p.current().Type == lexer.TOKEN_IDENTIFIER && p.peek(1).Type == lexer.TOKEN_COLON {
		field.Alias = p.current().Value
		if len(field.Alias) > p.opts.MaxAliasLen {
			return field, p.error(ast.RuleAliasTooLong,
				fmt.Sprintf("alias '%s' exceeds the %d character limit",
					field.Alias, p.opts.MaxAliasLen))
		}
		p.advance() // alias
		p.advance() // ':'
	}

	// Optional exclude marker
	if p.current().Type == lexer.TOKEN_MINUS {
		field.Excluded = true
		p.advance()
		if field.Alias != "" {
			return field, p.error(ast.RuleAliasOnExcluded,
				fmt.Sprintf("excluded field cannot carry the alias '%s'", field.Alias))
		}
	}

	// Wildcard entry
	if p.current().Type == lexer.TOKEN_STAR {
		field.Wildcard = true
		p.advance()
		if field.Excluded {
			return field, p.error(ast.RuleWildcardMisuse, "'*' cannot be excluded")
		}
		if field.Alias != "" {
			return field, p.error(ast.RuleWildcardMisuse, "'*' cannot carry an alias")
		}
		if p.current().Type == lexer.TOKEN_LBRACE || p.current().Type == lexer.TOKEN_LPAREN {
			return field, p.error(ast.RuleWildcardMisuse, "'*' cannot be expanded")
		}
		return field, nil
	}

	tok := p.current()
	if tok.Type != lexer.TOKEN_IDENTIFIER {
		return field, p.error(ast.RuleUnexpectedToken,
			fmt.Sprintf("expected field name, got '%s'", p.describe(tok)))
	}
	field.Name = tok.Value
	p.advance()

	// Optional subtree: argumentList? '{' entryList '}'
	if p.current().Type == lexer.TOKEN_LPAREN || p.current().Type == lexer.TOKEN_LBRACE {
		if field.Excluded {
			return field, p.error(ast.RuleExcludedSubtree,
				fmt.Sprintf("excluded field '%s' cannot be expanded", field.Name))
		}
		subtree, err := p.parseNode(depth + 1)
		if err != nil {
			return field, err
		}
		field.Subtree = subtree
	}

	return field, nil
}

// validateNode enforces the per-level invariants and determines the mode
func (p *Parser) validateNode(node *ast.QueryNode) error {
	wildcards := 0
	hasExcluded := false
	hasIncluded := false
	for _, f := range node.Fields {
		switch {
		case f.Wildcard:
			wildcards++
		case f.Excluded:
			hasExcluded = true
		default:
			hasIncluded = true
		}
	}

	if wildcards > 1 {
		return p.nodeError(node, ast.RuleWildcardMisuse,
			"'*' may appear at most once per level")
	}

	switch {
	case wildcards == 1:
		node.Mode = ast.ModeWildcardRefined
	case hasExcluded && hasIncluded:
		// Mixing include and exclude at one level is only legal under '*'
		return p.nodeError(node, ast.RuleMixedSelection,
			"cannot mix included and excluded fields at the same level")
	case hasExcluded:
		node.Mode = ast.ModeBlacklist
	default:
		node.Mode = ast.ModeWhitelist
	}

	return nil
}

// setArgument applies last-write-wins semantics for duplicate keys
func (p *Parser) setArgument(node *ast.QueryNode, arg ast.Argument) {
	for i := range node.Arguments {
		if node.Arguments[i].Key == arg.Key {
			node.Arguments[i].Value = arg.Value
			return
		}
	}
	node.Arguments = append(node.Arguments, arg)
}

// =============================================================================
// TOKEN NAVIGATION
// =============================================================================

// current returns current token without advancing
func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.TOKEN_EOF}
	}
	return p.tokens[p.pos]
}

// advance moves to next token, returns previous
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// peek looks ahead without advancing
func (p *Parser) peek(offset int) lexer.Token {
	pos := p.pos + offset
	if pos < 0 || pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.TOKEN_EOF}
	}
	return p.tokens[pos]
}

// isAtEnd checks if all tokens consumed
func (p *Parser) isAtEnd() bool {
	return p.pos >= len(p.tokens) || p.current().Type == lexer.TOKEN_EOF
}

func (p *Parser) describe(tok lexer.Token) string {
	if tok.Type == lexer.TOKEN_EOF {
		return "end of query"
	}
	return tok.Value
}

// =============================================================================
// ERROR HANDLING
// =============================================================================

// error creates a syntax error at the current position
func (p *Parser) error(rule, message string) error {
	return p.errorAt(p.current(), rule, message)
}

func (p *Parser) errorAt(tok lexer.Token, rule, message string) error {
	return &ast.SyntaxError{
		Rule:     rule,
		Message:  message,
		Position: tok.Position,
		Line:     tok.Line,
		Column:   tok.Column,
		Token:    tok.Value,
	}
}

// nodeError reports a whole-level violation at the node's opening position
func (p *Parser) nodeError(node *ast.QueryNode, rule, message string) error {
	tok := p.current()
	return &ast.SyntaxError{
		Rule:     rule,
		Message:  message,
		Position: node.Position,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}
