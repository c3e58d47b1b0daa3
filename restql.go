// Package restql implements a bracketed field-selection query language for
// REST APIs: clients describe the exact fields, nesting and filters they
// want, and the engine parses, resolves and translates that description for
// the storage backend.
package restql

import (
	"github.com/restql-engine/restql/engine/arguments"
	"github.com/restql-engine/restql/engine/ast"
	"github.com/restql-engine/restql/engine/parser"
	"github.com/restql-engine/restql/engine/resolver"
)

// Settings bundle the tunables of the engine
type Settings struct {
	// QueryParamName is the URL parameter carrying the query string
	QueryParamName string

	// MaxAliasLen caps the length of a field alias
	MaxAliasLen int

	// MaxDepth caps subtree nesting
	MaxDepth int
}

// DefaultSettings returns the stock configuration
func DefaultSettings() Settings {
	return Settings{
		QueryParamName: "query",
		MaxAliasLen:    parser.DefaultMaxAliasLen,
		MaxDepth:       parser.DefaultMaxDepth,
	}
}

// Parse parses a query string into a query tree using default settings
func Parse(input string) (*ast.QueryNode, error) {
	return parser.Parse(input)
}

// ParseWithSettings parses with explicit limits
func ParseWithSettings(input string, s Settings) (*ast.QueryNode, error) {
	return parser.ParseWithOptions(input, parser.Options{
		MaxAliasLen: s.MaxAliasLen,
		MaxDepth:    s.MaxDepth,
	})
}

// Resolve projects a query tree onto a schema
func Resolve(node *ast.QueryNode, schema resolver.Schema) (*resolver.FieldSet, error) {
	return resolver.Resolve(node, schema)
}

// ExtractArguments flattens the tree's arguments into one map
func ExtractArguments(node *ast.QueryNode) map[string]any {
	return arguments.Extract(node)
}

// DefaultQuery returns the tree equivalent to "{*}": everything, unrefined.
// Used when a request carries no query parameter.
func DefaultQuery() *ast.QueryNode {
	return &ast.QueryNode{
		Mode:   ast.ModeWildcardRefined,
		Fields: []ast.FieldSpec{{Wildcard: true}},
	}
}
