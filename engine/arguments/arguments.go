// Package arguments flattens the (key: value) pairs of a query tree into a
// single map, prefixing nested keys with the path of field names that leads
// to them.
package arguments

import "github.com/restql-engine/restql/engine/ast"

// Joiner combines a field path and an argument key into one flat map key
type Joiner func(path []string, key string) string

// DoubleUnderscore joins path segments with "__", the convention most
// ORM-style filter backends expect: location__country
func DoubleUnderscore(path []string, key string) string {
	out := ""
	for _, seg := range path {
		out += seg + "__"
	}
	return out + key
}

// Dot joins path segments with ".": location.country
func Dot(path []string, key string) string {
	out := ""
	for _, seg := range path {
		out += seg + "."
	}
	return out + key
}

// Options control how argument keys are built
type Options struct {
	// Join combines the field path with the argument key. Nil means
	// DoubleUnderscore.
	Join Joiner

	// UseAlias builds the path from output keys (aliases) instead of
	// declared field names
	UseAlias bool
}

// Extract walks the tree and returns all arguments keyed by their flattened
// path. Root-level arguments keep their bare key. Value types are preserved
// as parsed: string, bool, int64, float64 or nil.
func Extract(node *ast.QueryNode) map[string]any {
	return ExtractWithOptions(node, Options{})
}

// ExtractWithOptions extracts with an explicit key-building strategy
func ExtractWithOptions(node *ast.QueryNode, opts Options) map[string]any {
	if opts.Join == nil {
		opts.Join = DoubleUnderscore
	}
	out := map[string]any{}
	collect(node, nil, opts, out)
	return out
}

func collect(node *ast.QueryNode, path []string, opts Options, out map[string]any) {
	for _, arg := range node.Arguments {
		out[opts.Join(path, arg.Key)] = arg.Value
	}
	for _, f := range node.Fields {
		if f.Subtree == nil {
			continue
		}
		seg := f.Name
		if opts.UseAlias {
			seg = f.Key()
		}
		collect(f.Subtree, append(path, seg), opts, out)
	}
}
