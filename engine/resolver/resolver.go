package resolver

import (
	"fmt"

	"github.com/restql-engine/restql/engine/ast"
)

// Schema describes the declared fields of one resource level. Implementations
// must return Fields in declared order; that order drives blacklist and
// wildcard output.
type Schema interface {
	// Fields returns the declared field names in declared order
	Fields() []string

	// IsNested reports whether the named field is a relation
	IsNested(name string) bool

	// Nested returns the schema of a relation field, nil if the field
	// is flat or unknown
	Nested(name string) Schema
}

// MapSchema is a Schema backed by an ordered field list and a relation map.
// It covers tests and ad-hoc wiring; real resources typically implement
// Schema directly.
type MapSchema struct {
	fields []string
	nested map[string]Schema
}

// NewMapSchema builds a MapSchema. Every key of nested must also appear
// in fields.
func NewMapSchema(fields []string, nested map[string]Schema) *MapSchema {
	return &MapSchema{fields: fields, nested: nested}
}

func (s *MapSchema) Fields() []string { return s.fields }

func (s *MapSchema) IsNested(name string) bool {
	_, ok := s.nested[name]
	return ok
}

func (s *MapSchema) Nested(name string) Schema { return s.nested[name] }

// FieldSet is the resolved projection for one resource level: which declared
// fields to emit, under which output keys, in which order.
type FieldSet struct {
	Entries []Entry
}

// Entry is one resolved output field
type Entry struct {
	Key      string // output key: the alias when set, the field name otherwise
	Source   string // declared field name
	Relation bool
	// Nested is the resolved projection of a relation subtree. A relation
	// selected without a subtree keeps Nested nil and is rendered in its
	// default representation.
	Nested *FieldSet
}

// Keys returns the output keys in emission order
func (fs *FieldSet) Keys() []string {
	keys := make([]string, len(fs.Entries))
	for i, e := range fs.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Lookup returns the entry emitted under the given output key
func (fs *FieldSet) Lookup(key string) (Entry, bool) {
	for _, e := range fs.Entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Resolve projects a parsed query onto a schema. The result is deterministic:
// whitelist output follows query order, blacklist and wildcard output follow
// the schema's declared order. Resolving the same node against the same
// schema twice yields equal field sets.
func Resolve(node *ast.QueryNode, schema Schema) (*FieldSet, error) {
	switch node.Mode {
	case ast.ModeWhitelist:
		return resolveWhitelist(node, schema)
	case ast.ModeBlacklist:
		return resolveBlacklist(node, schema)
	case ast.ModeWildcardRefined:
		return resolveWildcard(node, schema)
	}
	return nil, fmt.Errorf("unknown query mode %d", node.Mode)
}

func resolveWhitelist(node *ast.QueryNode, schema Schema) (*FieldSet, error) {
	fs := &FieldSet{}
	seen := map[string]bool{}

	for _, f := range node.Fields {
		entry, err := resolveField(f, schema)
		if err != nil {
			return nil, err
		}
		if seen[entry.Key] {
			return nil, &AliasConflictError{Key: entry.Key}
		}
		seen[entry.Key] = true
		fs.Entries = append(fs.Entries, entry)
	}
	return fs, nil
}

func resolveBlacklist(node *ast.QueryNode, schema Schema) (*FieldSet, error) {
	excluded := map[string]bool{}
	for _, f := range node.Fields {
		if err := requireField(f.Name, schema); err != nil {
			return nil, err
		}
		excluded[f.Name] = true
	}

	fs := &FieldSet{}
	for _, name := range schema.Fields() {
		if excluded[name] {
			continue
		}
		fs.Entries = append(fs.Entries, Entry{
			Key:      name,
			Source:   name,
			Relation: schema.IsNested(name),
		})
	}
	return fs, nil
}

func resolveWildcard(node *ast.QueryNode, schema Schema) (*FieldSet, error) {
	excluded := map[string]bool{}
	overrides := map[string]ast.FieldSpec{}

	for _, f := range node.Fields {
		if f.Wildcard {
			continue
		}
		if err := requireField(f.Name, schema); err != nil {
			return nil, err
		}
		if f.Excluded {
			excluded[f.Name] = true
			continue
		}
		overrides[f.Name] = f
	}

	fs := &FieldSet{}
	seen := map[string]bool{}
	for _, name := range schema.Fields() {
		if excluded[name] {
			continue
		}

		entry := Entry{Key: name, Source: name, Relation: schema.IsNested(name)}
		if f, ok := overrides[name]; ok {
			resolved, err := resolveField(f, schema)
			if err != nil {
				return nil, err
			}
			entry = resolved
		}

		if seen[entry.Key] {
			return nil, &AliasConflictError{Key: entry.Key}
		}
		seen[entry.Key] = true
		fs.Entries = append(fs.Entries, entry)
	}
	return fs, nil
}

// resolveField turns one included FieldSpec into an Entry, recursing into
// subtrees against the relation's schema
func resolveField(f ast.FieldSpec, schema Schema) (Entry, error) {
	if err := requireField(f.Name, schema); err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Key:      f.Key(),
		Source:   f.Name,
		Relation: schema.IsNested(f.Name),
	}

	if f.Subtree != nil {
		if !entry.Relation {
			return Entry{}, &SchemaMismatchError{
				Field:   f.Name,
				Message: fmt.Sprintf("field '%s' is not a relation and cannot be expanded", f.Name),
			}
		}
		sub := schema.Nested(f.Name)
		if sub == nil {
			return Entry{}, &SchemaMismatchError{
				Field:   f.Name,
				Message: fmt.Sprintf("relation '%s' has no schema", f.Name),
			}
		}
		nested, err := Resolve(f.Subtree, sub)
		if err != nil {
			return Entry{}, err
		}
		entry.Nested = nested
	}

	return entry, nil
}

func requireField(name string, schema Schema) error {
	for _, declared := range schema.Fields() {
		if declared == name {
			return nil
		}
	}
	return &UnknownFieldError{
		Field:      name,
		Suggestion: suggestSimilar(name, schema.Fields()),
	}
}
