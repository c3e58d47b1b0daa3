package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the node back to query-string form. Re-parsing the output
// yields a structurally equal tree.
func (n *QueryNode) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *QueryNode) write(b *strings.Builder) {
	if len(n.Arguments) > 0 {
		b.WriteByte('(')
		for i, a := range n.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.Key)
			b.WriteString(": ")
			b.WriteString(formatValue(a.Value))
		}
		b.WriteByte(')')
	}

	b.WriteByte('{')
	for i, f := range n.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		f.write(b)
	}
	b.WriteByte('}')
}

func (f *FieldSpec) write(b *strings.Builder) {
	if f.Alias != "" {
		b.WriteString(f.Alias)
		b.WriteString(": ")
	}
	if f.Excluded {
		b.WriteByte('-')
	}
	if f.Wildcard {
		b.WriteByte('*')
		return
	}
	b.WriteString(f.Name)
	if f.Subtree != nil {
		f.Subtree.write(b)
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return strconv.Quote(val)
	default:
		return strconv.Quote(fmt.Sprintf("%v", val))
	}
}
