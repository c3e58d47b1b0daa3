package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restql-engine/restql/engine/parser"
	"github.com/restql-engine/restql/engine/resolver"
)

func userSchema() resolver.Schema {
	location := resolver.NewMapSchema([]string{"country", "city"}, nil)
	books := resolver.NewMapSchema([]string{"id", "title"}, nil)
	return resolver.NewMapSchema(
		[]string{"id", "name", "email", "password", "location", "books"},
		map[string]resolver.Schema{"location": location, "books": books},
	)
}

func fieldSet(t *testing.T, query string) *resolver.FieldSet {
	t.Helper()
	node, err := parser.Parse(query)
	require.NoError(t, err)
	fs, err := resolver.Resolve(node, userSchema())
	require.NoError(t, err)
	return fs
}

func sampleUser() map[string]any {
	return map[string]any{
		"id":       1,
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "secret",
		"location": map[string]any{"country": "UK", "city": "London"},
		"books": []map[string]any{
			{"id": 10, "title": "Notes"},
			{"id": 11, "title": "Letters"},
		},
	}
}

func TestSerializeWhitelist(t *testing.T) {
	out, err := Serialize(sampleUser(), fieldSet(t, "{id, name}"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 1, "name": "Ada"}, out)
}

func TestSerializeAlias(t *testing.T) {
	out, err := Serialize(sampleUser(), fieldSet(t, "{fullName: name}"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"fullName": "Ada"}, out)
}

func TestSerializeNestedRelation(t *testing.T) {
	out, err := Serialize(sampleUser(), fieldSet(t, "{id, location{country}}"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":       1,
		"location": map[string]any{"country": "UK"},
	}, out)
}

func TestSerializeManyRelation(t *testing.T) {
	out, err := Serialize(sampleUser(), fieldSet(t, "{books{title}}"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"books": []map[string]any{{"title": "Notes"}, {"title": "Letters"}},
	}, out)
}

func TestSerializeBareRelationCollapsesToPK(t *testing.T) {
	out, err := Serialize(sampleUser(), fieldSet(t, "{id, location, books}"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":       1,
		"location": nil, // location record has no id field
		"books":    []any{10, 11},
	}, out)
}

func TestSerializeCustomPKField(t *testing.T) {
	record := map[string]any{
		"location": map[string]any{"code": "UK-LDN"},
	}
	out, err := SerializeWithOptions(record, fieldSet(t, "{location}"), Options{PKField: "code"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"location": "UK-LDN"}, out)
}

func TestSerializeScalarForeignKeyPassesThrough(t *testing.T) {
	record := map[string]any{"location": 7}
	out, err := Serialize(record, fieldSet(t, "{location}"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"location": 7}, out)
}

func TestSerializeWildcardDropsExcluded(t *testing.T) {
	out, err := Serialize(sampleUser(), fieldSet(t, "{*, -password, -books, location{city}}"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":       1,
		"name":     "Ada",
		"email":    "ada@example.com",
		"location": map[string]any{"city": "London"},
	}, out)
}

func TestSerializeMissingFieldBecomesNil(t *testing.T) {
	out, err := Serialize(map[string]any{"id": 1}, fieldSet(t, "{id, name}"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 1, "name": nil}, out)
}

func TestSerializeNilRelation(t *testing.T) {
	out, err := Serialize(map[string]any{"id": 1}, fieldSet(t, "{location{country}}"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"location": nil}, out)
}

func TestSerializeRelationTypeMismatch(t *testing.T) {
	record := map[string]any{"location": "not an object"}
	_, err := Serialize(record, fieldSet(t, "{location{country}}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location")
}

func TestSerializeMany(t *testing.T) {
	records := []map[string]any{
		{"id": 1, "name": "Ada"},
		{"id": 2, "name": "Bob"},
	}
	out, err := SerializeMany(records, fieldSet(t, "{name}"))
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"name": "Ada"}, {"name": "Bob"}}, out)
}

func TestSerializeManyPropagatesRecordIndex(t *testing.T) {
	records := []map[string]any{
		{"id": 1, "location": map[string]any{"country": "UK"}},
		{"id": 2, "location": 5.0},
	}
	_, err := SerializeMany(records, fieldSet(t, "{location{country}}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
}
