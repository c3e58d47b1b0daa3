package arguments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restql-engine/restql/engine/parser"
)

func TestExtractFlattensNestedArguments(t *testing.T) {
	node, err := parser.Parse("(age: 18){name, location(country: Canada){country}}")
	require.NoError(t, err)

	args := Extract(node)
	assert.Equal(t, map[string]any{
		"age":               int64(18),
		"location__country": "Canada",
	}, args)
}

func TestExtractDeepNesting(t *testing.T) {
	node, err := parser.Parse("{a(x: 1){b(y: 2){c}}}")
	require.NoError(t, err)

	args := Extract(node)
	assert.Equal(t, map[string]any{
		"a__x":    int64(1),
		"a__b__y": int64(2),
	}, args)
}

func TestExtractPreservesValueTypes(t *testing.T) {
	node, err := parser.Parse(`(limit: 10, rate: 2.5, active: true, name: "Ada", note: null){id}`)
	require.NoError(t, err)

	args := Extract(node)
	assert.Equal(t, int64(10), args["limit"])
	assert.Equal(t, 2.5, args["rate"])
	assert.Equal(t, true, args["active"])
	assert.Equal(t, "Ada", args["name"])
	val, ok := args["note"]
	require.True(t, ok)
	assert.Nil(t, val)
}

func TestExtractSiblingSubtrees(t *testing.T) {
	node, err := parser.Parse("{home(city: Oslo){city}, work(city: Bergen){city}}")
	require.NoError(t, err)

	args := Extract(node)
	assert.Equal(t, map[string]any{
		"home__city": "Oslo",
		"work__city": "Bergen",
	}, args)
}

func TestExtractDotJoiner(t *testing.T) {
	node, err := parser.Parse("(age: 18){location(country: Canada){country}}")
	require.NoError(t, err)

	args := ExtractWithOptions(node, Options{Join: Dot})
	assert.Equal(t, map[string]any{
		"age":              int64(18),
		"location.country": "Canada",
	}, args)
}

func TestExtractUseAlias(t *testing.T) {
	node, err := parser.Parse("{place: location(country: Canada){country}}")
	require.NoError(t, err)

	args := ExtractWithOptions(node, Options{UseAlias: true})
	assert.Equal(t, map[string]any{"place__country": "Canada"}, args)

	// Without the option the declared name wins
	args = Extract(node)
	assert.Equal(t, map[string]any{"location__country": "Canada"}, args)
}

func TestExtractNoArguments(t *testing.T) {
	node, err := parser.Parse("{id, location{country}}")
	require.NoError(t, err)
	assert.Empty(t, Extract(node))
}
