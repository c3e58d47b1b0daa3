package ast

import "fmt"

// SyntaxError represents a structural violation in a query, with the violated
// rule and position info
type SyntaxError struct {
	Rule     string // short name of the violated rule
	Message  string
	Position int
	Line     int
	Column   int
	Token    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Rule names carried by SyntaxError. The parser fails fast on the first
// violation; there is no partial recovery.
const (
	RuleUnbalancedBraces  = "unbalanced-braces"
	RuleEmptyFieldList    = "empty-field-list"
	RuleMixedSelection    = "mixed-include-exclude"
	RuleExcludedSubtree   = "excluded-field-with-subtree"
	RuleAliasOnExcluded   = "alias-on-excluded-field"
	RuleWildcardMisuse    = "wildcard-misuse"
	RuleAliasTooLong      = "alias-too-long"
	RuleTooDeep           = "max-depth-exceeded"
	RuleTrailingTokens    = "trailing-tokens"
	RuleUnexpectedToken   = "unexpected-token"
	RuleInvalidArgument   = "invalid-argument"
)
