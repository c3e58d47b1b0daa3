package restql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restql-engine/restql/engine/resolver"
	"github.com/restql-engine/restql/engine/translator"
	"github.com/restql-engine/restql/engine/validator"
	"github.com/restql-engine/restql/serializer"
)

// ============================================
// CLIENT STRUCT
// ============================================

// Client wraps a database connection and runs the full pipeline per fetch:
// parse, resolve, translate, validate, execute, serialize.
type Client struct {
	sqlDB   *sql.DB
	mongoDB *mongo.Database
	redisDB *redis.Client
	backend string
	logger  zerolog.Logger
	ctx     context.Context
}

// ============================================
// CONSTRUCTORS
// ============================================

// WrapSQL wraps a SQL database connection (PostgreSQL or MySQL)
func WrapSQL(db *sql.DB, backend string) *Client {
	if backend != "PostgreSQL" && backend != "MySQL" {
		backend = "PostgreSQL"
	}
	return &Client{
		sqlDB:   db,
		backend: backend,
		logger:  zerolog.Nop(),
		ctx:     context.Background(),
	}
}

// WrapMongo wraps a MongoDB database connection
func WrapMongo(db *mongo.Database) *Client {
	return &Client{
		mongoDB: db,
		backend: "MongoDB",
		logger:  zerolog.Nop(),
		ctx:     context.Background(),
	}
}

// WrapRedis wraps a Redis client connection
func WrapRedis(rdb *redis.Client) *Client {
	return &Client{
		redisDB: rdb,
		backend: "Redis",
		logger:  zerolog.Nop(),
		ctx:     context.Background(),
	}
}

// ============================================
// CONFIGURATION
// ============================================

// SetContext sets the context for database operations
func (c *Client) SetContext(ctx context.Context) {
	c.ctx = ctx
}

// SetLogger sets the logger; the default discards everything
func (c *Client) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

// ============================================
// FETCH
// ============================================

// Fetch parses a query, resolves it against the resource schema and runs it
func (c *Client) Fetch(resource, query string, schema resolver.Schema) ([]map[string]any, error) {
	node, err := Parse(query)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	fields, err := Resolve(node, schema)
	if err != nil {
		return nil, fmt.Errorf("resolve error: %w", err)
	}

	req := translator.Request{
		Resource: resource,
		Fields:   fields,
		Args:     ExtractArguments(node),
	}

	result, err := translator.Translate(req, c.backend)
	if err != nil {
		return nil, fmt.Errorf("translation error: %w", err)
	}
	if err := validator.Validate(result); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	c.logger.Debug().
		Str("backend", c.backend).
		Str("resource", resource).
		Str("query", query).
		Msg("running query")

	switch c.backend {
	case "PostgreSQL", "MySQL":
		return c.fetchSQL(result.SQL)
	case "MongoDB":
		return c.fetchMongo(result.Document, fields)
	case "Redis":
		return c.fetchRedis(result.KeyValue, fields)
	}
	return nil, fmt.Errorf("unsupported backend: %s", c.backend)
}

// ============================================
// SQL IMPLEMENTATION (PostgreSQL, MySQL)
// ============================================

func (c *Client) fetchSQL(query string) ([]map[string]any, error) {
	rows, err := c.sqlDB.QueryContext(c.ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	flat, err := rowsToMaps(rows)
	if err != nil {
		return nil, err
	}

	// Joined columns come back under dotted aliases; fold them into objects
	results := make([]map[string]any, 0, len(flat))
	for _, row := range flat {
		results = append(results, nestRow(row))
	}
	return results, nil
}

func rowsToMaps(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]any

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any)
		for i, col := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = val
			}
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// nestRow turns {"id": 1, "location.country": "UK"} into
// {"id": 1, "location": {"country": "UK"}}
func nestRow(flat map[string]any) map[string]any {
	out := make(map[string]any, len(flat))
	for col, val := range flat {
		parts := strings.Split(col, ".")
		node := out
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = val
	}
	return out
}

// ============================================
// MONGODB IMPLEMENTATION
// ============================================

func (c *Client) fetchMongo(doc *translator.DocumentQuery, fields *resolver.FieldSet) ([]map[string]any, error) {
	coll := c.mongoDB.Collection(doc.Collection)

	cursor, err := coll.Find(c.ctx, doc.Filter, options.Find().SetProjection(doc.Projection))
	if err != nil {
		return nil, fmt.Errorf("find error: %w", err)
	}
	defer cursor.Close(c.ctx)

	var records []map[string]any
	for cursor.Next(c.ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode error: %w", err)
		}
		records = append(records, bsonToMap(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	// Aliases and pk collapsing are not expressible in a projection;
	// shape the documents here
	return serializeRecords(records, fields)
}

func serializeRecords(records []map[string]any, fields *resolver.FieldSet) ([]map[string]any, error) {
	return serializer.SerializeMany(records, fields)
}

// bsonToMap converts a decoded document to plain maps all the way down
func bsonToMap(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = bsonValue(v)
	}
	return out
}

func bsonValue(v any) any {
	switch val := v.(type) {
	case bson.M:
		return bsonToMap(val)
	case bson.A:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, bsonValue(item))
		}
		return out
	}
	return v
}

// ============================================
// REDIS IMPLEMENTATION
// ============================================

func (c *Client) fetchRedis(plan *translator.KeyValuePlan, fields *resolver.FieldSet) ([]map[string]any, error) {
	if plan.Key != "" {
		record, err := c.redisFetchHash(plan.Key, plan.Fields)
		if err != nil {
			return nil, err
		}
		if record == nil {
			return []map[string]any{}, nil
		}
		return serializeRecords([]map[string]any{record}, fields)
	}

	var records []map[string]any
	var cursor uint64
	for {
		keys, next, err := c.redisDB.Scan(c.ctx, cursor, plan.Match, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		for _, key := range keys {
			record, err := c.redisFetchHash(key, plan.Fields)
			if err != nil {
				return nil, err
			}
			if record != nil {
				records = append(records, record)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return serializeRecords(records, fields)
}

// redisFetchHash reads the selected fields of one hash; nil means the key
// holds nothing
func (c *Client) redisFetchHash(key string, fields []string) (map[string]any, error) {
	values, err := c.redisDB.HMGet(c.ctx, key, fields...).Result()
	if err != nil {
		return nil, fmt.Errorf("hmget error: %w", err)
	}

	record := make(map[string]any, len(fields))
	empty := true
	for i, field := range fields {
		record[field] = values[i]
		if values[i] != nil {
			empty = false
		}
	}
	if empty {
		return nil, nil
	}
	return record, nil
}
