package translator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/restql-engine/restql/engine/resolver"
	"github.com/restql-engine/restql/mapping"
)

// ErrNotSupported is returned when a query shape cannot be expressed on the
// chosen backend, such as relations deeper than one join on SQL or any
// relation at all on Redis
var ErrNotSupported = errors.New("query shape not supported by this backend")

// Request carries everything a backend needs to build a query: the resource,
// its resolved projection and the flattened arguments.
type Request struct {
	Resource string // singular entity name, e.g. "user"
	Fields   *resolver.FieldSet
	Args     map[string]any
}

// Result wraps the backend-specific query form
type Result struct {
	Backend  string
	SQL      string         // PostgreSQL, MySQL
	Document *DocumentQuery // MongoDB
	KeyValue *KeyValuePlan  // Redis
}

// Translate routes the request to the appropriate backend translator
func Translate(req Request, backend string) (*Result, error) {
	if !mapping.IsSupportedBackend(backend) {
		return nil, fmt.Errorf("unsupported backend: %s (supported: %v)", backend, mapping.SupportedBackends)
	}
	if req.Fields == nil || len(req.Fields.Entries) == 0 {
		return nil, fmt.Errorf("nothing to select for resource '%s'", req.Resource)
	}

	switch backend {
	case "PostgreSQL":
		sql, err := TranslatePostgreSQL(req)
		if err != nil {
			return nil, err
		}
		return &Result{Backend: backend, SQL: sql}, nil

	case "MySQL":
		sql, err := TranslateMySQL(req)
		if err != nil {
			return nil, err
		}
		return &Result{Backend: backend, SQL: sql}, nil

	case "MongoDB":
		doc, err := TranslateMongoDB(req)
		if err != nil {
			return nil, err
		}
		return &Result{Backend: backend, Document: doc}, nil

	case "Redis":
		plan, err := TranslateRedis(req)
		if err != nil {
			return nil, err
		}
		return &Result{Backend: backend, KeyValue: plan}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

// tableName derives the storage name for a resource: "User" -> "users"
func tableName(resource string) string {
	return inflection.Plural(strings.ToLower(resource))
}
