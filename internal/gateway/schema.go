package gateway

// In this file: shallow schema inference from a sample document and the live
// index catalog.

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/satyajeetjadhav/mcp-mongo-server/internal/mongodb"
)

// Schema is the advisory structural description of a collection.  It is
// derived from one sample document and the current index catalog, is never
// cached, and goes stale the moment the collection changes.
type Schema struct {
	Collection string              `json:"collection"`
	Fields     []Field             `json:"fields"`
	Indexes    []mongodb.IndexSpec `json:"indexes"`
}

// Field pairs a top-level field name with its inferred value type.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Analysis bundles everything the collection-analysis prompt needs.
type Analysis struct {
	Schema  *Schema
	Count   int64
	Samples []bson.D
}

// analysisSampleLimit bounds the sample documents included in an Analysis.
const analysisSampleLimit = 5

// InferSchema derives a Schema for collection.  An empty collection yields
// empty field and index lists; that is not an error.
func (g *Gateway) InferSchema(ctx context.Context, collection string) (*Schema, *Error) {
	if gwErr := g.Authorize(OpQuery, collection); gwErr != nil {
		return nil, gwErr
	}
	col := g.db.Collection(collection)

	cur, err := col.Find(ctx, bson.D{}, mongodb.FindOptions{Limit: 1})
	if err != nil {
		return nil, reclassify(OpQuery, collection, err)
	}
	var sample []bson.D
	if err := cur.All(ctx, &sample); err != nil {
		return nil, reclassify(OpQuery, collection, err)
	}

	fields := []Field{}
	if len(sample) > 0 {
		for _, elem := range sample[0] {
			fields = append(fields, Field{Name: elem.Key, Type: typeName(elem.Value)})
		}
	}

	indexes, err := col.Indexes(ctx)
	if err != nil {
		return nil, reclassify(OpQuery, collection, err)
	}
	if indexes == nil {
		indexes = []mongodb.IndexSpec{}
	}

	return &Schema{
		Collection: collection,
		Fields:     fields,
		Indexes:    indexes,
	}, nil
}

// AnalyzeCollection gathers the inferred schema, a document count and up to
// five sample documents for the collection-analysis prompt.
func (g *Gateway) AnalyzeCollection(ctx context.Context, collection string) (*Analysis, *Error) {
	schema, gwErr := g.InferSchema(ctx, collection)
	if gwErr != nil {
		return nil, gwErr
	}
	col := g.db.Collection(collection)

	count, err := col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, reclassify(OpCount, collection, err)
	}

	cur, err := col.Find(ctx, bson.D{}, mongodb.FindOptions{Limit: analysisSampleLimit})
	if err != nil {
		return nil, reclassify(OpQuery, collection, err)
	}
	var samples []bson.D
	if err := cur.All(ctx, &samples); err != nil {
		return nil, reclassify(OpQuery, collection, err)
	}

	return &Analysis{Schema: schema, Count: count, Samples: samples}, nil
}

// typeName maps a decoded BSON value to its inferred schema type.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case int32, int64, float64, bson.Decimal128:
		return "number"
	case bool:
		return "boolean"
	case bson.DateTime, time.Time:
		return "date"
	case bson.ObjectID:
		return "identifier"
	case bson.A, []any:
		return "array"
	case bson.D, bson.M, map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
