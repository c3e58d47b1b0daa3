package translator

import (
	"fmt"

	"github.com/restql-engine/restql/mapping"
)

// KeyValuePlan targets hash-per-record storage: each record lives at
// "<table>:<id>" and field selection maps to HMGET. Either Key or Match is
// set, never both.
type KeyValuePlan struct {
	Key    string   // exact hash key when the id argument pins one record
	Match  string   // SCAN pattern when no id is given
	Fields []string // hash fields to fetch
}

// TranslateRedis renders the request as a key-value fetch plan. Relations
// and non-id lookups have no hash equivalent and return ErrNotSupported.
func TranslateRedis(req Request) (*KeyValuePlan, error) {
	table := tableName(req.Resource)
	plan := &KeyValuePlan{}

	for _, entry := range req.Fields.Entries {
		if entry.Relation {
			return nil, fmt.Errorf("relation '%s': %w", entry.Source, ErrNotSupported)
		}
		plan.Fields = append(plan.Fields, entry.Source)
	}

	for key, value := range req.Args {
		field, lookup := mapping.SplitLookup(key)
		if field != "id" || lookup != "exact" {
			return nil, fmt.Errorf("argument '%s': %w", key, ErrNotSupported)
		}
		plan.Key = fmt.Sprintf("%s:%v", table, value)
	}

	if plan.Key == "" {
		plan.Match = table + ":*"
	}
	return plan, nil
}
