// Package reverse converts native SQL back into query-string form, so
// existing hand-written SELECTs can be migrated to field-selection queries.
package reverse

import (
	"errors"
	"fmt"

	"github.com/jinzhu/inflection"

	"github.com/restql-engine/restql/engine/ast"
)

// ============================================================================
// ERRORS
// ============================================================================

var (
	ErrNotSupported = errors.New("SQL feature has no query-string equivalent")
	ErrParseError   = errors.New("failed to parse SQL")
	ErrEmptyQuery   = errors.New("empty query")
)

// ============================================================================
// MAIN INTERFACE
// ============================================================================

// ToQuery converts a native SELECT to a query tree
func ToQuery(sql string, backend string) (*ast.QueryNode, error) {
	if sql == "" {
		return nil, ErrEmptyQuery
	}

	switch backend {
	case "PostgreSQL":
		return PostgreSQLToQuery(sql)
	case "MySQL":
		return MySQLToQuery(sql)
	default:
		return nil, fmt.Errorf("%w: unsupported backend %s", ErrNotSupported, backend)
	}
}

// ToQueryString converts a native SELECT to query-string form
func ToQueryString(sql string, backend string) (string, error) {
	node, err := ToQuery(sql, backend)
	if err != nil {
		return "", err
	}
	return node.String(), nil
}

// ============================================================================
// TREE ASSEMBLY
// ============================================================================

// ensureRelation finds or creates the subtree for a nested field
func ensureRelation(node *ast.QueryNode, name string) *ast.QueryNode {
	for i := range node.Fields {
		if node.Fields[i].Name == name && node.Fields[i].Subtree != nil {
			return node.Fields[i].Subtree
		}
	}
	node.Fields = append(node.Fields, ast.FieldSpec{
		Name:    name,
		Subtree: &ast.QueryNode{},
	})
	return node.Fields[len(node.Fields)-1].Subtree
}

func addField(node *ast.QueryNode, name, alias string) {
	node.Fields = append(node.Fields, ast.FieldSpec{Name: name, Alias: alias})
}

func addWildcard(node *ast.QueryNode) {
	if !node.HasWildcard() {
		node.Fields = append(node.Fields, ast.FieldSpec{Wildcard: true})
	}
}

func addArgument(node *ast.QueryNode, key string, value any) {
	for i := range node.Arguments {
		if node.Arguments[i].Key == key {
			node.Arguments[i].Value = value
			return
		}
	}
	node.Arguments = append(node.Arguments, ast.Argument{Key: key, Value: value})
}

// finalize assigns modes bottom-up so the tree prints and re-parses cleanly
func finalize(node *ast.QueryNode) error {
	if len(node.Fields) == 0 {
		return fmt.Errorf("%w: no selectable columns", ErrNotSupported)
	}
	if node.HasWildcard() {
		node.Mode = ast.ModeWildcardRefined
	} else {
		node.Mode = ast.ModeWhitelist
	}
	for i := range node.Fields {
		if node.Fields[i].Subtree != nil {
			if err := finalize(node.Fields[i].Subtree); err != nil {
				return err
			}
		}
	}
	return nil
}

// relationName maps a joined table back to its field name: "locations" -> "location"
func relationName(table string) string {
	return inflection.Singular(table)
}

// lookupSuffix maps a SQL comparison operator to a lookup name; exact match
// maps to the empty suffix
var lookupSuffix = map[string]string{
	"=":  "",
	"!=": "ne",
	"<>": "ne",
	">":  "gt",
	">=": "gte",
	"<":  "lt",
	"<=": "lte",
}

// argumentKey builds the flat key for one condition column
func argumentKey(column, suffix string) string {
	if suffix == "" {
		return column
	}
	return column + "__" + suffix
}

// likeLookup classifies a LIKE pattern by its wildcard placement and strips
// the percent signs
func likeLookup(pattern string, caseInsensitive bool) (lookup, value string, err error) {
	n := len(pattern)
	switch {
	case n >= 2 && pattern[0] == '%' && pattern[n-1] == '%':
		lookup, value = "contains", pattern[1:n-1]
	case n >= 1 && pattern[n-1] == '%':
		lookup, value = "startswith", pattern[:n-1]
	case n >= 1 && pattern[0] == '%':
		lookup, value = "endswith", pattern[1:]
	default:
		return "", "", fmt.Errorf("%w: LIKE without wildcards", ErrNotSupported)
	}
	if caseInsensitive && lookup == "contains" {
		lookup = "icontains"
	}
	return lookup, value, nil
}
