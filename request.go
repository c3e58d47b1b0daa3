package restql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/restql-engine/restql/engine/ast"
)

type contextKey struct{}

var queryKey contextKey

// HasQueryParam reports whether the request carries a query parameter
func HasQueryParam(r *http.Request, s Settings) bool {
	return r.URL.Query().Has(s.QueryParamName)
}

// FromRequest parses the query parameter of an HTTP request. A request
// without the parameter gets the default wildcard query.
func FromRequest(r *http.Request, s Settings) (*ast.QueryNode, error) {
	if !HasQueryParam(r, s) {
		return DefaultQuery(), nil
	}
	return ParseWithSettings(r.URL.Query().Get(s.QueryParamName), s)
}

// QueryFromContext returns the query tree stashed by Middleware
func QueryFromContext(ctx context.Context) (*ast.QueryNode, bool) {
	node, ok := ctx.Value(queryKey).(*ast.QueryNode)
	return node, ok
}

// WithQuery returns a context carrying the query tree
func WithQuery(ctx context.Context, node *ast.QueryNode) context.Context {
	return context.WithValue(ctx, queryKey, node)
}

// InjectArguments copies the query's flattened arguments into the request's
// URL parameters, so downstream filter and pagination layers that read plain
// query params see them without knowing about the query language
func InjectArguments(r *http.Request, node *ast.QueryNode) {
	args := ExtractArguments(node)
	if len(args) == 0 {
		return
	}
	params := r.URL.Query()
	for key, value := range args {
		if value == nil {
			params.Set(key, "")
			continue
		}
		params.Set(key, fmt.Sprint(value))
	}
	r.URL.RawQuery = params.Encode()
}

// Middleware parses the query parameter once per request, stashes the tree
// in the request context and injects its arguments as URL parameters.
// Malformed queries answer 400 with a JSON error body before the handler
// runs.
func Middleware(logger zerolog.Logger, s Settings) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			node, err := FromRequest(r, s)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("path", r.URL.Path).
					Str(s.QueryParamName, r.URL.Query().Get(s.QueryParamName)).
					Msg("rejected malformed query")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
				return
			}

			logger.Debug().
				Str("path", r.URL.Path).
				Str("mode", node.Mode.String()).
				Int("fields", len(node.Fields)).
				Msg("parsed query")

			r = r.WithContext(WithQuery(r.Context(), node))
			InjectArguments(r, node)
			next.ServeHTTP(w, r)
		})
	}
}
