package translator

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/restql-engine/restql/engine/resolver"
	"github.com/restql-engine/restql/mapping"
)

// DocumentQuery is a find() against one collection. Aliases are not applied
// here; MongoDB projections cannot rename, so output keys are mapped during
// serialization.
type DocumentQuery struct {
	Collection string
	Filter     bson.M
	Projection bson.M
}

// TranslateMongoDB renders the request as a MongoDB find query
func TranslateMongoDB(req Request) (*DocumentQuery, error) {
	doc := &DocumentQuery{
		Collection: tableName(req.Resource),
		Filter:     bson.M{},
		Projection: bson.M{},
	}

	projectFields(req.Fields, "", doc.Projection)

	keys := make([]string, 0, len(req.Args))
	for k := range req.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field, lookup := mapping.SplitLookup(key)
		path := strings.ReplaceAll(field, "__", ".")
		cond, err := mongoCondition(lookup, req.Args[key])
		if err != nil {
			return nil, fmt.Errorf("argument '%s': %w", key, err)
		}
		doc.Filter[path] = cond
	}

	return doc, nil
}

// projectFields flattens the field set into dotted projection paths. Unlike
// SQL, document nesting has no join limit.
func projectFields(fs *resolver.FieldSet, prefix string, out bson.M) {
	for _, entry := range fs.Entries {
		path := entry.Source
		if prefix != "" {
			path = prefix + "." + entry.Source
		}
		if entry.Nested != nil {
			projectFields(entry.Nested, path, out)
			continue
		}
		out[path] = 1
	}
}

func mongoCondition(lookup string, value any) (bson.M, error) {
	op, ok := mapping.MongoLookupMap[lookup]
	if !ok {
		return nil, fmt.Errorf("unknown lookup '%s'", lookup)
	}

	switch lookup {
	case "contains":
		return bson.M{"$regex": regexp.QuoteMeta(stringValue(value))}, nil
	case "icontains":
		return bson.M{"$regex": regexp.QuoteMeta(stringValue(value)), "$options": "i"}, nil
	case "startswith":
		return bson.M{"$regex": "^" + regexp.QuoteMeta(stringValue(value))}, nil
	case "endswith":
		return bson.M{"$regex": regexp.QuoteMeta(stringValue(value)) + "$"}, nil

	case "isnull":
		want, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("isnull expects true or false, got %v", value)
		}
		if want {
			return bson.M{"$eq": nil}, nil
		}
		return bson.M{"$ne": nil}, nil

	case "in":
		return bson.M{"$in": bson.A{value}}, nil
	}

	return bson.M{op: value}, nil
}
