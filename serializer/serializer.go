// Package serializer shapes fetched records according to a resolved field
// set: output keys take aliases, relations nest, and relations selected
// without a subtree collapse to their primary key.
package serializer

import (
	"fmt"

	"github.com/restql-engine/restql/engine/resolver"
)

// DefaultPKField is the record key used for the collapsed representation of
// a bare relation
const DefaultPKField = "id"

// Options control serialization
type Options struct {
	// PKField overrides the primary key field name. Empty means DefaultPKField.
	PKField string
}

// Serialize shapes one record. Fields the record does not carry come out
// as nil, so output shape depends only on the field set.
func Serialize(record map[string]any, fs *resolver.FieldSet) (map[string]any, error) {
	return SerializeWithOptions(record, fs, Options{})
}

// SerializeWithOptions serializes with an explicit primary key field
func SerializeWithOptions(record map[string]any, fs *resolver.FieldSet, opts Options) (map[string]any, error) {
	if opts.PKField == "" {
		opts.PKField = DefaultPKField
	}
	return serialize(record, fs, opts)
}

// SerializeMany shapes a list of records
func SerializeMany(records []map[string]any, fs *resolver.FieldSet) ([]map[string]any, error) {
	return SerializeManyWithOptions(records, fs, Options{})
}

// SerializeManyWithOptions serializes a list with an explicit primary key field
func SerializeManyWithOptions(records []map[string]any, fs *resolver.FieldSet, opts Options) ([]map[string]any, error) {
	if opts.PKField == "" {
		opts.PKField = DefaultPKField
	}
	out := make([]map[string]any, 0, len(records))
	for i, record := range records {
		shaped, err := serialize(record, fs, opts)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, shaped)
	}
	return out, nil
}

func serialize(record map[string]any, fs *resolver.FieldSet, opts Options) (map[string]any, error) {
	out := make(map[string]any, len(fs.Entries))

	for _, entry := range fs.Entries {
		value := record[entry.Source]

		switch {
		case entry.Relation && entry.Nested != nil:
			shaped, err := serializeRelation(value, entry, opts)
			if err != nil {
				return nil, err
			}
			out[entry.Key] = shaped

		case entry.Relation:
			out[entry.Key] = collapseToPK(value, opts.PKField)

		default:
			out[entry.Key] = value
		}
	}
	return out, nil
}

func serializeRelation(value any, entry resolver.Entry, opts Options) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return serialize(v, entry.Nested, opts)
	case []map[string]any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			shaped, err := serialize(item, entry.Nested, opts)
			if err != nil {
				return nil, err
			}
			out = append(out, shaped)
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(v))
		for _, raw := range v {
			item, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("relation '%s': element is %T, not an object", entry.Source, raw)
			}
			shaped, err := serialize(item, entry.Nested, opts)
			if err != nil {
				return nil, err
			}
			out = append(out, shaped)
		}
		return out, nil
	}
	return nil, fmt.Errorf("relation '%s': value is %T, not an object or list", entry.Source, value)
}

// collapseToPK reduces a bare relation to its primary key. Scalar values are
// assumed to already be foreign keys and pass through.
func collapseToPK(value any, pkField string) any {
	switch v := value.(type) {
	case map[string]any:
		return v[pkField]
	case []map[string]any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, item[pkField])
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, raw := range v {
			if item, ok := raw.(map[string]any); ok {
				out = append(out, item[pkField])
				continue
			}
			out = append(out, raw)
		}
		return out
	}
	return value
}
