package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restql-engine/restql/engine/parser"
)

// userSchema mirrors a typical user resource with one nested relation
func userSchema() Schema {
	city := NewMapSchema([]string{"name", "zip"}, nil)
	location := NewMapSchema([]string{"country", "region", "city"}, map[string]Schema{
		"city": city,
	})
	return NewMapSchema(
		[]string{"id", "name", "email", "password", "location"},
		map[string]Schema{"location": location},
	)
}

func resolve(t *testing.T, query string, schema Schema) *FieldSet {
	t.Helper()
	node, err := parser.Parse(query)
	require.NoError(t, err)
	fs, err := Resolve(node, schema)
	require.NoError(t, err)
	return fs
}

func TestResolveWhitelistKeepsQueryOrder(t *testing.T) {
	fs := resolve(t, "{email, id}", userSchema())
	assert.Equal(t, []string{"email", "id"}, fs.Keys())
}

func TestResolveWhitelistNested(t *testing.T) {
	fs := resolve(t, "{id, location{country, city{name}}}", userSchema())

	require.Len(t, fs.Entries, 2)
	loc := fs.Entries[1]
	assert.True(t, loc.Relation)
	require.NotNil(t, loc.Nested)
	assert.Equal(t, []string{"country", "city"}, loc.Nested.Keys())

	city, ok := loc.Nested.Lookup("city")
	require.True(t, ok)
	require.NotNil(t, city.Nested)
	assert.Equal(t, []string{"name"}, city.Nested.Keys())
}

func TestResolveRelationWithoutSubtree(t *testing.T) {
	// A relation selected bare keeps its default representation
	fs := resolve(t, "{id, location}", userSchema())
	loc := fs.Entries[1]
	assert.True(t, loc.Relation)
	assert.Nil(t, loc.Nested)
}

func TestResolveBlacklistFollowsSchemaOrder(t *testing.T) {
	fs := resolve(t, "{-password, -email}", userSchema())
	assert.Equal(t, []string{"id", "name", "location"}, fs.Keys())
}

func TestResolveWildcardRefined(t *testing.T) {
	fs := resolve(t, "{*, -password, location{country}}", userSchema())

	assert.Equal(t, []string{"id", "name", "email", "location"}, fs.Keys())
	loc, ok := fs.Lookup("location")
	require.True(t, ok)
	require.NotNil(t, loc.Nested)
	assert.Equal(t, []string{"country"}, loc.Nested.Keys())
}

func TestResolveBareWildcard(t *testing.T) {
	fs := resolve(t, "{*}", userSchema())
	assert.Equal(t, []string{"id", "name", "email", "password", "location"}, fs.Keys())
}

func TestResolveAlias(t *testing.T) {
	fs := resolve(t, "{fullName: name, place: location{country}}", userSchema())

	assert.Equal(t, []string{"fullName", "place"}, fs.Keys())
	entry, ok := fs.Lookup("fullName")
	require.True(t, ok)
	assert.Equal(t, "name", entry.Source)
}

func TestResolveAliasUnderWildcard(t *testing.T) {
	// The override keeps its schema position but emits under the alias
	fs := resolve(t, "{*, -password, mail: email}", userSchema())
	assert.Equal(t, []string{"id", "name", "mail", "location"}, fs.Keys())
}

func TestResolveUnknownField(t *testing.T) {
	node, err := parser.Parse("{id, emial}")
	require.NoError(t, err)

	_, err = Resolve(node, userSchema())
	var ufe *UnknownFieldError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, "emial", ufe.Field)
	assert.Equal(t, "email", ufe.Suggestion)
	assert.Contains(t, err.Error(), "Did you mean 'email'?")
}

func TestResolveUnknownExcludedField(t *testing.T) {
	node, err := parser.Parse("{-passwrod}")
	require.NoError(t, err)

	_, err = Resolve(node, userSchema())
	var ufe *UnknownFieldError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, "password", ufe.Suggestion)
}

func TestResolveUnknownNestedField(t *testing.T) {
	node, err := parser.Parse("{location{continent}}")
	require.NoError(t, err)

	_, err = Resolve(node, userSchema())
	var ufe *UnknownFieldError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, "continent", ufe.Field)
}

func TestResolveExpandingFlatFieldFails(t *testing.T) {
	node, err := parser.Parse("{email{domain}}")
	require.NoError(t, err)

	_, err = Resolve(node, userSchema())
	var sme *SchemaMismatchError
	require.True(t, errors.As(err, &sme))
	assert.Equal(t, "email", sme.Field)
}

func TestResolveAliasConflict(t *testing.T) {
	node, err := parser.Parse("{name, name: email}")
	require.NoError(t, err)

	_, err = Resolve(node, userSchema())
	var ace *AliasConflictError
	require.True(t, errors.As(err, &ace))
	assert.Equal(t, "name", ace.Key)
}

func TestResolveAliasConflictUnderWildcard(t *testing.T) {
	// Aliasing one field onto another declared field's key collides
	node, err := parser.Parse("{*, name: email}")
	require.NoError(t, err)

	_, err = Resolve(node, userSchema())
	var ace *AliasConflictError
	require.True(t, errors.As(err, &ace))
}

func TestResolveIsDeterministic(t *testing.T) {
	node, err := parser.Parse("{*, -password, location{city{name}, country}}")
	require.NoError(t, err)

	first, err := Resolve(node, userSchema())
	require.NoError(t, err)
	second, err := Resolve(node, userSchema())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
