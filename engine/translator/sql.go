package translator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/restql-engine/restql/mapping"
)

// sqlDialect captures the per-database differences the SQL builder cares
// about: the lookup map key and identifier quoting
type sqlDialect struct {
	name  string
	quote func(ident string) string
}

// buildSQL renders one SELECT statement. Relations resolve to a single JOIN
// on the <field>_id convention; anything deeper than one join level returns
// ErrNotSupported.
func buildSQL(req Request, d sqlDialect) (string, error) {
	table := tableName(req.Resource)

	var columns []string
	var joins []string
	joined := map[string]bool{}

	addJoin := func(field string) string {
		relTable := tableName(field)
		if !joined[field] {
			joined[field] = true
			joins = append(joins, fmt.Sprintf("JOIN %s ON %s.%s_id = %s.id",
				relTable, table, field, relTable))
		}
		return relTable
	}

	for _, entry := range req.Fields.Entries {
		switch {
		case entry.Relation && entry.Nested != nil:
			relTable := addJoin(entry.Source)
			for _, sub := range entry.Nested.Entries {
				if sub.Nested != nil {
					return "", fmt.Errorf("relation '%s.%s': %w", entry.Source, sub.Source, ErrNotSupported)
				}
				alias := entry.Key + "." + sub.Key
				columns = append(columns, fmt.Sprintf("%s.%s AS %s",
					relTable, sub.Source, d.quote(alias)))
			}

		case entry.Relation:
			// Bare relation: project the foreign key
			columns = append(columns, fmt.Sprintf("%s.%s_id AS %s",
				table, entry.Source, d.quote(entry.Key)))

		case entry.Key != entry.Source:
			columns = append(columns, fmt.Sprintf("%s.%s AS %s",
				table, entry.Source, d.quote(entry.Key)))

		default:
			columns = append(columns, fmt.Sprintf("%s.%s", table, entry.Source))
		}
	}

	where, err := buildWhere(req, d, table, addJoin)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(table)
	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	return b.String(), nil
}

// buildWhere renders the flattened arguments as an AND chain. Keys are
// processed in sorted order so output is deterministic.
func buildWhere(req Request, d sqlDialect, table string, addJoin func(string) string) (string, error) {
	if len(req.Args) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(req.Args))
	for k := range req.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conditions []string
	for _, key := range keys {
		field, lookup := mapping.SplitLookup(key)
		segments := strings.Split(field, "__")

		var column string
		switch len(segments) {
		case 1:
			column = table + "." + segments[0]
		case 2:
			relTable := addJoin(segments[0])
			column = relTable + "." + segments[1]
		default:
			return "", fmt.Errorf("argument '%s': %w", key, ErrNotSupported)
		}

		cond, err := renderCondition(d, column, lookup, req.Args[key])
		if err != nil {
			return "", fmt.Errorf("argument '%s': %w", key, err)
		}
		conditions = append(conditions, cond)
	}
	return strings.Join(conditions, " AND "), nil
}

func renderCondition(d sqlDialect, column, lookup string, value any) (string, error) {
	op, ok := mapping.SQLLookupMap[d.name][lookup]
	if !ok {
		return "", fmt.Errorf("unknown lookup '%s'", lookup)
	}

	switch lookup {
	case "isnull":
		want, ok := value.(bool)
		if !ok {
			return "", fmt.Errorf("isnull expects true or false, got %v", value)
		}
		if want {
			return column + " IS NULL", nil
		}
		return column + " IS NOT NULL", nil

	case "contains", "icontains":
		return fmt.Sprintf("%s %s %s", column, op, sqlString("%"+stringValue(value)+"%")), nil
	case "startswith":
		return fmt.Sprintf("%s %s %s", column, op, sqlString(stringValue(value)+"%")), nil
	case "endswith":
		return fmt.Sprintf("%s %s %s", column, op, sqlString("%"+stringValue(value))), nil

	case "in":
		return fmt.Sprintf("%s IN (%s)", column, sqlLiteral(value)), nil
	}

	// NULL never matches '=' or '!='; spell it as IS (NOT) NULL instead
	if value == nil {
		switch lookup {
		case "exact":
			return column + " IS NULL", nil
		case "ne":
			return column + " IS NOT NULL", nil
		}
		return "", fmt.Errorf("lookup '%s' does not accept null", lookup)
	}

	return fmt.Sprintf("%s %s %s", column, op, sqlLiteral(value)), nil
}

func sqlLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return sqlString(v)
	}
	return sqlString(fmt.Sprintf("%v", value))
}

// sqlString quotes a string literal, doubling embedded quotes
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
