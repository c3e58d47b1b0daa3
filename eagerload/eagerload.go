// Package eagerload decides which relations a data layer should join or
// prefetch for a given query, so nested selections do not degenerate into
// per-record lookups.
package eagerload

import (
	"sort"
	"strings"

	"github.com/restql-engine/restql/engine/ast"
)

// Mapping binds dotted query paths to the relations the data layer loads
// when that path is requested. A path like "location.city" triggers only
// when the query expands location down to city.
type Mapping struct {
	Select   map[string][]string // one-to-one relations, loaded by join
	Prefetch map[string][]string // to-many relations, loaded in a second pass
}

// Plan lists the relations to load, deduplicated and sorted
type Plan struct {
	Select   []string
	Prefetch []string
}

// Related computes the load plan for a parsed query
func Related(node *ast.QueryNode, m Mapping) Plan {
	return Plan{
		Select:   matchPaths(node, m.Select),
		Prefetch: matchPaths(node, m.Prefetch),
	}
}

func matchPaths(node *ast.QueryNode, paths map[string][]string) []string {
	set := map[string]bool{}
	for path, relations := range paths {
		if requested(node, strings.Split(path, ".")) {
			for _, rel := range relations {
				set[rel] = true
			}
		}
	}

	out := make([]string, 0, len(set))
	for rel := range set {
		out = append(out, rel)
	}
	sort.Strings(out)
	return out
}

// requested reports whether the query asks for the given field path. A field
// covered implicitly, by '*' or by not being blacklisted, counts as requested
// in full depth: the whole relation is emitted, subfields included.
func requested(node *ast.QueryNode, segments []string) bool {
	if len(segments) == 0 {
		return true
	}
	seg := segments[0]

	for _, f := range node.Fields {
		if f.Wildcard || f.Name != seg {
			continue
		}
		if f.Excluded {
			return false
		}
		if f.Subtree != nil {
			return requested(f.Subtree, segments[1:])
		}
		// Listed without expansion: emitted whole
		return true
	}

	// Not listed: blacklist and wildcard modes include it implicitly
	return node.Mode != ast.ModeWhitelist
}
