package gateway

// In this file: per-operation argument contracts.  Every argument bag is
// validated and normalized here before anything touches the database.

import (
	"math"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/satyajeetjadhav/mcp-mongo-server/internal/mongodb"
)

// defQueryLimit caps query results when the caller gives no limit.  It is a
// deliberate safety ceiling against unbounded result sets; aggregate, count
// and distinct carry no such default.
const defQueryLimit = 100

// Args is the untyped argument bag of a single operation request.
type Args map[string]any

// collection extracts the mandatory collection name.
func (a Args) collection() (string, *Error) {
	v, ok := a["collection"]
	if !ok || v == nil {
		return "", errf(CodeInvalidQuery, "collection name is required")
	}
	name, ok := v.(string)
	if !ok || name == "" {
		return "", errf(CodeInvalidQuery, "collection name must be a non-empty string")
	}
	return name, nil
}

// field extracts the mandatory field name for distinct.
func (a Args) field() (string, *Error) {
	name, ok := a["field"].(string)
	if !ok || name == "" {
		return "", errf(CodeInvalidQuery, "field name is required")
	}
	return name, nil
}

// parseFilter normalizes the two accepted filter encodings into a single
// structured document.  A string is parsed as extended JSON; an absent
// filter matches all documents.
func parseFilter(v any) (any, *Error) {
	switch f := v.(type) {
	case nil:
		return bson.D{}, nil
	case string:
		var doc bson.D
		if err := bson.UnmarshalExtJSON([]byte(f), false, &doc); err != nil {
			return nil, errf(CodeInvalidQuery, "filter is not valid JSON: %v", err)
		}
		return doc, nil
	case map[string]any:
		return f, nil
	case bson.D:
		return f, nil
	default:
		return nil, errf(CodeInvalidQuery, "filter must be an object or a JSON string, got %T", v)
	}
}

// requireFilter is parseFilter for operations where the filter is mandatory
// (update).
func requireFilter(v any) (any, *Error) {
	if v == nil {
		return nil, errf(CodeInvalidQuery, "filter is required")
	}
	return parseFilter(v)
}

// parsePipeline checks that v is a sequence of stage objects.
func parsePipeline(v any) ([]any, *Error) {
	stages, ok := v.([]any)
	if !ok {
		return nil, errf(CodeInvalidPipeline, "pipeline must be an array of stage objects, got %T", v)
	}
	for i, stage := range stages {
		if _, ok := stage.(map[string]any); !ok {
			return nil, errf(CodeInvalidPipeline, "pipeline stage %d must be an object, got %T", i, stage)
		}
	}
	return stages, nil
}

// parseProjection checks the optional field -> 0/1 mapping.
func parseProjection(v any) (any, *Error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errf(CodeInvalidProjection, "projection must be an object mapping fields to 0 or 1, got %T", v)
	}
	for field, val := range m {
		n, ok := asInt(val)
		if !ok || (n != 0 && n != 1) {
			return nil, errf(CodeInvalidProjection, "projection value for field %q must be 0 or 1", field)
		}
	}
	return m, nil
}

// parseSort checks the optional field -> 1/-1 mapping.
func parseSort(v any) (any, *Error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errf(CodeInvalidSort, "sort must be an object mapping fields to 1 or -1, got %T", v)
	}
	for field, val := range m {
		n, ok := asInt(val)
		if !ok || (n != 1 && n != -1) {
			return nil, errf(CodeInvalidSort, "sort value for field %q must be 1 or -1", field)
		}
	}
	return m, nil
}

// parseLimit returns the caller's limit or def when absent.
func parseLimit(v any, def int64) (int64, *Error) {
	if v == nil {
		return def, nil
	}
	n, ok := asInt(v)
	if !ok || n <= 0 {
		return 0, errf(CodeInvalidQuery, "limit must be a positive integer")
	}
	return n, nil
}

// parseSkip returns the optional non-negative skip.
func parseSkip(v any) (int64, *Error) {
	if v == nil {
		return 0, nil
	}
	n, ok := asInt(v)
	if !ok || n < 0 {
		return 0, errf(CodeInvalidQuery, "skip must be a non-negative integer")
	}
	return n, nil
}

// parseDocuments checks the mandatory documents array for insert.
func parseDocuments(v any) ([]any, *Error) {
	docs, ok := v.([]any)
	if !ok {
		return nil, errf(CodeInvalidQuery, "documents must be an array of objects, got %T", v)
	}
	if len(docs) == 0 {
		return nil, errf(CodeInvalidQuery, "documents must not be empty")
	}
	for i, doc := range docs {
		if _, ok := doc.(map[string]any); !ok {
			return nil, errf(CodeInvalidQuery, "document %d must be an object, got %T", i, doc)
		}
	}
	return docs, nil
}

// parseUpdate checks the mandatory update specification. Operator-level
// semantics are left to the server.
func parseUpdate(v any) (any, *Error) {
	if v == nil {
		return nil, errf(CodeInvalidQuery, "update specification is required")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errf(CodeInvalidQuery, "update specification must be an object, got %T", v)
	}
	return m, nil
}

// parseWriteOptions extracts the supported write options for insert. Only
// "ordered" is honored; it defaults to true like the server does.
func parseWriteOptions(v any) (ordered bool, gwErr *Error) {
	if v == nil {
		return true, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return false, errf(CodeInvalidQuery, "writeOptions must be an object, got %T", v)
	}
	if o, ok := m["ordered"].(bool); ok {
		return o, nil
	}
	return true, nil
}

// parseIndexKeys checks the mandatory index key specification.
func parseIndexKeys(v any) (any, *Error) {
	if v == nil {
		return nil, errf(CodeInvalidQuery, "index keys are required")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errf(CodeInvalidQuery, "index keys must be an object, got %T", v)
	}
	if len(m) == 0 {
		return nil, errf(CodeInvalidQuery, "index keys must not be empty")
	}
	return m, nil
}

// parseIndexOptions extracts the supported subset of index options.
func parseIndexOptions(v any) (mongodb.IndexOptions, *Error) {
	var opts mongodb.IndexOptions
	if v == nil {
		return opts, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return opts, errf(CodeInvalidQuery, "index options must be an object, got %T", v)
	}
	if name, ok := m["name"].(string); ok {
		opts.Name = name
	}
	if unique, ok := m["unique"].(bool); ok {
		opts.Unique = unique
	}
	if sparse, ok := m["sparse"].(bool); ok {
		opts.Sparse = sparse
	}
	if ttl, ok := asInt(m["expireAfterSeconds"]); ok {
		sec := int32(ttl)
		opts.ExpireAfterSeconds = &sec
	}
	return opts, nil
}

// asInt converts the JSON-decoded numeric representations to an integer.
// Fractional floats are rejected.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}
