package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLookup(t *testing.T) {
	cases := []struct {
		key    string
		field  string
		lookup string
	}{
		{"age", "age", "exact"},
		{"age__gte", "age", "gte"},
		{"name__icontains", "name", "icontains"},
		{"location__country", "location__country", "exact"},
		{"location__country__ne", "location__country", "ne"},
		{"email__isnull", "email", "isnull"},
	}
	for _, c := range cases {
		field, lookup := SplitLookup(c.key)
		assert.Equal(t, c.field, field, c.key)
		assert.Equal(t, c.lookup, lookup, c.key)
	}
}

func TestIsLookup(t *testing.T) {
	assert.True(t, IsLookup("gte"))
	assert.True(t, IsLookup("icontains"))
	assert.False(t, IsLookup("country"))
}

func TestIsSupportedBackend(t *testing.T) {
	for _, b := range SupportedBackends {
		assert.True(t, IsSupportedBackend(b))
	}
	assert.False(t, IsSupportedBackend("SQLite"))
	assert.False(t, IsSupportedBackend("postgresql"))
}

func TestLookupMapsCoverAllLookups(t *testing.T) {
	for _, l := range Lookups {
		for db, ops := range SQLLookupMap {
			assert.Contains(t, ops, l, "%s missing lookup %s", db, l)
		}
		assert.Contains(t, MongoLookupMap, l, "MongoDB missing lookup %s", l)
	}
}
