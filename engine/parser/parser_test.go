package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restql-engine/restql/engine/ast"
)

func TestParseFlatWhitelist(t *testing.T) {
	node, err := Parse("{id, name, email}")
	require.NoError(t, err)

	assert.Equal(t, ast.ModeWhitelist, node.Mode)
	require.Len(t, node.Fields, 3)
	assert.Equal(t, "id", node.Fields[0].Name)
	assert.Equal(t, "name", node.Fields[1].Name)
	assert.Equal(t, "email", node.Fields[2].Name)
	assert.Empty(t, node.Arguments)
}

func TestParseNestedSubtrees(t *testing.T) {
	node, err := Parse("{id, location{country, city{name}}}")
	require.NoError(t, err)

	require.Len(t, node.Fields, 2)
	loc := node.Fields[1]
	assert.Equal(t, "location", loc.Name)
	require.NotNil(t, loc.Subtree)
	require.Len(t, loc.Subtree.Fields, 2)

	city := loc.Subtree.Fields[1]
	assert.Equal(t, "city", city.Name)
	require.NotNil(t, city.Subtree)
	assert.Equal(t, "name", city.Subtree.Fields[0].Name)
}

func TestParseBlacklist(t *testing.T) {
	node, err := Parse("{-password, -ssn}")
	require.NoError(t, err)

	assert.Equal(t, ast.ModeBlacklist, node.Mode)
	assert.True(t, node.Fields[0].Excluded)
	assert.Equal(t, "password", node.Fields[0].Name)
	assert.True(t, node.Fields[1].Excluded)
}

func TestParseWildcardRefined(t *testing.T) {
	node, err := Parse("{*, -password, location{country}}")
	require.NoError(t, err)

	assert.Equal(t, ast.ModeWildcardRefined, node.Mode)
	assert.True(t, node.Fields[0].Wildcard)
	assert.True(t, node.Fields[1].Excluded)
	assert.NotNil(t, node.Fields[2].Subtree)
}

func TestParseBareWildcard(t *testing.T) {
	node, err := Parse("{*}")
	require.NoError(t, err)
	assert.Equal(t, ast.ModeWildcardRefined, node.Mode)
	require.Len(t, node.Fields, 1)
	assert.True(t, node.Fields[0].Wildcard)
}

func TestParseWildcardWithPlainField(t *testing.T) {
	// A plain include under '*' is a no-op refinement but still legal
	node, err := Parse("{*, name}")
	require.NoError(t, err)
	assert.Equal(t, ast.ModeWildcardRefined, node.Mode)
}

func TestParseAlias(t *testing.T) {
	node, err := Parse("{fullName: name, id}")
	require.NoError(t, err)

	f := node.Fields[0]
	assert.Equal(t, "fullName", f.Alias)
	assert.Equal(t, "name", f.Name)
	assert.Equal(t, "fullName", f.Key())
	assert.Equal(t, "id", node.Fields[1].Key())
}

func TestParseAliasOnNestedField(t *testing.T) {
	node, err := Parse("{place: location{country}}")
	require.NoError(t, err)

	f := node.Fields[0]
	assert.Equal(t, "place", f.Alias)
	assert.Equal(t, "location", f.Name)
	require.NotNil(t, f.Subtree)
}

func TestParseArguments(t *testing.T) {
	node, err := Parse(`(age: 18, active: true, name: "O'Brien", score: 4.5, note: null){id}`)
	require.NoError(t, err)

	val, ok := node.Argument("age")
	require.True(t, ok)
	assert.Equal(t, int64(18), val)

	val, _ = node.Argument("active")
	assert.Equal(t, true, val)

	val, _ = node.Argument("name")
	assert.Equal(t, "O'Brien", val)

	val, _ = node.Argument("score")
	assert.Equal(t, 4.5, val)

	val, ok = node.Argument("note")
	require.True(t, ok)
	assert.Nil(t, val)
}

func TestParseNestedArguments(t *testing.T) {
	node, err := Parse("(age: 18){name, location(country: Canada){country}}")
	require.NoError(t, err)

	val, _ := node.Argument("age")
	assert.Equal(t, int64(18), val)

	loc := node.Fields[1]
	require.NotNil(t, loc.Subtree)
	val, ok := loc.Subtree.Argument("country")
	require.True(t, ok)
	// Bare identifier values stay strings
	assert.Equal(t, "Canada", val)
}

func TestParseNegativeNumberArgument(t *testing.T) {
	node, err := Parse("(offset: -10, delta: -0.5){id}")
	require.NoError(t, err)

	val, _ := node.Argument("offset")
	assert.Equal(t, int64(-10), val)
	val, _ = node.Argument("delta")
	assert.Equal(t, -0.5, val)
}

func TestParseDuplicateArgumentLastWins(t *testing.T) {
	node, err := Parse("(limit: 10, limit: 20){id}")
	require.NoError(t, err)

	require.Len(t, node.Arguments, 1)
	val, _ := node.Argument("limit")
	assert.Equal(t, int64(20), val)
}

func TestParseTrailingCommas(t *testing.T) {
	node, err := Parse("(age: 18,){id, name,}")
	require.NoError(t, err)
	assert.Len(t, node.Fields, 2)
	assert.Len(t, node.Arguments, 1)
}

func TestParseWhitespaceInsensitive(t *testing.T) {
	a, err := Parse("{id,name,location{country}}")
	require.NoError(t, err)
	b, err := Parse(" {\n  id ,\n  name ,\n  location { country }\n} ")
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

// =============================================================================
// REJECTIONS
// =============================================================================

func requireSyntaxError(t *testing.T, input, rule string) {
	t.Helper()
	_, err := Parse(input)
	require.Error(t, err, "input %q should not parse", input)
	var se *ast.SyntaxError
	require.True(t, errors.As(err, &se), "expected *ast.SyntaxError, got %T: %v", err, err)
	assert.Equal(t, rule, se.Rule, "input %q: %v", input, err)
}

func TestParseRejectsEmptyBraces(t *testing.T) {
	requireSyntaxError(t, "{}", ast.RuleEmptyFieldList)
	requireSyntaxError(t, "{location{}}", ast.RuleEmptyFieldList)
}

func TestParseRejectsUnbalancedBraces(t *testing.T) {
	requireSyntaxError(t, "{id, name", ast.RuleUnbalancedBraces)
	requireSyntaxError(t, "id, name}", ast.RuleUnbalancedBraces)
	requireSyntaxError(t, "{location{country}", ast.RuleUnbalancedBraces)
}

func TestParseRejectsTrailingTokens(t *testing.T) {
	requireSyntaxError(t, "{id}{name}", ast.RuleTrailingTokens)
	requireSyntaxError(t, "{id} name", ast.RuleTrailingTokens)
}

func TestParseRejectsMixedSelection(t *testing.T) {
	requireSyntaxError(t, "{id, -password}", ast.RuleMixedSelection)
}

func TestParseAllowsMixedSelectionUnderWildcard(t *testing.T) {
	_, err := Parse("{*, -password, location{country}}")
	assert.NoError(t, err)
}

func TestParseRejectsExcludedSubtree(t *testing.T) {
	requireSyntaxError(t, "{-location{country}}", ast.RuleExcludedSubtree)
	requireSyntaxError(t, "{-location(country: Canada){country}}", ast.RuleExcludedSubtree)
}

func TestParseRejectsAliasOnExcluded(t *testing.T) {
	requireSyntaxError(t, "{secret: -password}", ast.RuleAliasOnExcluded)
}

func TestParseRejectsWildcardMisuse(t *testing.T) {
	requireSyntaxError(t, "{*, *}", ast.RuleWildcardMisuse)
	requireSyntaxError(t, "{-*}", ast.RuleWildcardMisuse)
	requireSyntaxError(t, "{everything: *}", ast.RuleWildcardMisuse)
	requireSyntaxError(t, "{*{id}}", ast.RuleWildcardMisuse)
}

func TestParseRejectsOverlongAlias(t *testing.T) {
	alias := strings.Repeat("a", DefaultMaxAliasLen+1)
	requireSyntaxError(t, fmt.Sprintf("{%s: name}", alias), ast.RuleAliasTooLong)

	// The boundary itself is fine
	_, err := Parse(fmt.Sprintf("{%s: name}", strings.Repeat("a", DefaultMaxAliasLen)))
	assert.NoError(t, err)
}

func TestParseRejectsExcessiveDepth(t *testing.T) {
	var b strings.Builder
	for i := 0; i <= DefaultMaxDepth+1; i++ {
		b.WriteString("{a")
	}
	for i := 0; i <= DefaultMaxDepth+1; i++ {
		b.WriteString("}")
	}
	requireSyntaxError(t, b.String(), ast.RuleTooDeep)
}

func TestParseCustomDepthLimit(t *testing.T) {
	_, err := ParseWithOptions("{a{b{c}}}", Options{MaxDepth: 2})
	assert.NoError(t, err)
	_, err = ParseWithOptions("{a{b{c{d}}}}", Options{MaxDepth: 2})
	assert.Error(t, err)
}

func TestParseRejectsMalformedArguments(t *testing.T) {
	requireSyntaxError(t, "(age 18){id}", ast.RuleInvalidArgument)
	requireSyntaxError(t, "(age:){id}", ast.RuleInvalidArgument)
	requireSyntaxError(t, "(: 18){id}", ast.RuleInvalidArgument)
	requireSyntaxError(t, "(age: 18{id}", ast.RuleInvalidArgument)
}

func TestParseRejectsBogusEntries(t *testing.T) {
	requireSyntaxError(t, "{,id}", ast.RuleUnexpectedToken)
	requireSyntaxError(t, "{id,,name}", ast.RuleUnexpectedToken)
}

func TestParseErrorCarriesPosition(t *testing.T) {
	_, err := Parse("{id,\n  -password}")
	var se *ast.SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Line)
	assert.Contains(t, err.Error(), "line 2")
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestStringRoundTrip(t *testing.T) {
	queries := []string{
		"{id, name, email}",
		"{-password, -ssn}",
		"{*, -password, location{country}}",
		"{fullName: name, place: location{country, city{name}}}",
		`(age: 18, active: true){name, location(country: "Canada"){country}}`,
		"(offset: -10, rate: 2.5, note: null){id}",
	}
	for _, q := range queries {
		first, err := Parse(q)
		require.NoError(t, err, q)

		second, err := Parse(first.String())
		require.NoError(t, err, "printed form of %q should re-parse: %q", q, first.String())
		assert.Equal(t, first.String(), second.String(), q)
		assert.Equal(t, first.Mode, second.Mode, q)
	}
}
