package mapping

import "strings"

// Lookups recognized as the trailing segment of a flattened argument key,
// e.g. age__gte or name__icontains. A key without a lookup suffix means
// an exact match.
var Lookups = []string{
	"exact",
	"ne",
	"gt",
	"gte",
	"lt",
	"lte",
	"in",
	"contains",
	"icontains",
	"startswith",
	"endswith",
	"isnull",
}

// SQLLookupMap - Runtime mapping for SQL translators
// Usage: SQLLookupMap["PostgreSQL"]["gte"] returns ">="
var SQLLookupMap = map[string]map[string]string{
	"PostgreSQL": {
		"exact": "=",
		"ne":    "!=",
		"gt":    ">",
		"gte":   ">=",
		"lt":    "<",
		"lte":   "<=",

		"in":         "IN",
		"contains":   "LIKE",
		"icontains":  "ILIKE", // Case-insensitive LIKE (PostgreSQL specific)
		"startswith": "LIKE",
		"endswith":   "LIKE",
		"isnull":     "IS NULL",
	},
	"MySQL": {
		"exact": "=",
		"ne":    "!=",
		"gt":    ">",
		"gte":   ">=",
		"lt":    "<",
		"lte":   "<=",

		"in":         "IN",
		"contains":   "LIKE",
		"icontains":  "LIKE", // MySQL LIKE is case-insensitive under default collations
		"startswith": "LIKE",
		"endswith":   "LIKE",
		"isnull":     "IS NULL",
	},
}

// MongoLookupMap maps lookup names to MongoDB query operators
var MongoLookupMap = map[string]string{
	"exact": "$eq",
	"ne":    "$ne",
	"gt":    "$gt",
	"gte":   "$gte",
	"lt":    "$lt",
	"lte":   "$lte",
	"in":    "$in",

	// Substring lookups become anchored or unanchored $regex matches
	"contains":   "$regex",
	"icontains":  "$regex",
	"startswith": "$regex",
	"endswith":   "$regex",
	"isnull":     "$eq",
}

// IsLookup checks if a name is a recognized lookup
func IsLookup(name string) bool {
	for _, l := range Lookups {
		if l == name {
			return true
		}
	}
	return false
}

// SplitLookup splits a flattened argument key into the field path and the
// lookup name. The path keeps its own "__" separators:
//
//	age__gte          -> ("age", "gte")
//	location__country -> ("location__country", "exact")
func SplitLookup(key string) (field, lookup string) {
	idx := strings.LastIndex(key, "__")
	if idx < 0 {
		return key, "exact"
	}
	suffix := key[idx+2:]
	if !IsLookup(suffix) {
		return key, "exact"
	}
	return key[:idx], suffix
}
