package ast

// Mode describes how a QueryNode's field list is interpreted against a
// resource's declared fields.
type Mode int

const (
	// ModeWhitelist includes only the listed fields
	ModeWhitelist Mode = iota
	// ModeBlacklist includes all declared fields except the listed ones
	ModeBlacklist
	// ModeWildcardRefined starts from all declared fields, removes excluded
	// entries and applies listed entries as per-field overrides
	ModeWildcardRefined
)

// String returns human-readable mode name
func (m Mode) String() string {
	switch m {
	case ModeWhitelist:
		return "WHITELIST"
	case ModeBlacklist:
		return "BLACKLIST"
	case ModeWildcardRefined:
		return "WILDCARD_REFINED"
	}
	return "UNKNOWN"
}

// QueryNode is one nesting level of a parsed query. A tree is built once per
// parse call and never mutated afterwards; resolvers and extractors only
// read it.
type QueryNode struct {
	Fields    []FieldSpec
	Mode      Mode
	Arguments []Argument
	Position  int
}

// FieldSpec is one field reference within a QueryNode
type FieldSpec struct {
	Name     string
	Alias    string // optional rename of the output key; empty means Name
	Excluded bool   // written with the '-' prefix
	Wildcard bool   // the '*' entry
	Subtree  *QueryNode
	Position int
}

// Key returns the output key for this entry: the alias when set,
// the field name otherwise
func (f FieldSpec) Key() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// Argument is one (key: value) pair scoped to a QueryNode. Value is one of
// string, bool, int64, float64 or nil.
type Argument struct {
	Key      string
	Value    any
	Position int
}

// HasWildcard reports whether the node contains a '*' entry
func (n *QueryNode) HasWildcard() bool {
	for _, f := range n.Fields {
		if f.Wildcard {
			return true
		}
	}
	return false
}

// Argument returns the value of the named argument at this level
func (n *QueryNode) Argument(key string) (any, bool) {
	for _, a := range n.Arguments {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}
