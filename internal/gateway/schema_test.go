package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/mock/gomock"

	"github.com/satyajeetjadhav/mcp-mongo-server/internal/mongodb"
)

func TestGateway_InferSchema(t *testing.T) {
	t.Run("fields in document order", func(t *testing.T) {
		g, _, mc := testGateway(t, false)
		oid, err := bson.ObjectIDFromHex("507f1f77bcf86cd799439011")
		require.NoError(t, err)
		sample := bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "alice"},
			{Key: "age", Value: int32(30)},
			{Key: "active", Value: true},
			{Key: "joined", Value: bson.DateTime(1700000000000)},
			{Key: "tags", Value: bson.A{"a", "b"}},
			{Key: "address", Value: bson.D{{Key: "city", Value: "berlin"}}},
			{Key: "note", Value: nil},
		}
		mc.EXPECT().Find(gomock.Any(), gomock.Any(), mongodb.FindOptions{Limit: 1}).
			Return(cursorOf(t, sample), nil)
		mc.EXPECT().Indexes(gomock.Any()).Return([]mongodb.IndexSpec{
			{Name: "_id_", Keys: bson.D{{Key: "_id", Value: int32(1)}}},
		}, nil)

		schema, gwErr := g.InferSchema(context.Background(), "users")
		require.Nil(t, gwErr)
		assert.Equal(t, "users", schema.Collection)
		assert.Equal(t, []Field{
			{Name: "_id", Type: "identifier"},
			{Name: "name", Type: "string"},
			{Name: "age", Type: "number"},
			{Name: "active", Type: "boolean"},
			{Name: "joined", Type: "date"},
			{Name: "tags", Type: "array"},
			{Name: "address", Type: "object"},
			{Name: "note", Type: "null"},
		}, schema.Fields)
		require.Len(t, schema.Indexes, 1)
		assert.Equal(t, "_id_", schema.Indexes[0].Name)
	})
	t.Run("empty collection", func(t *testing.T) {
		g, _, mc := testGateway(t, false)
		mc.EXPECT().Find(gomock.Any(), gomock.Any(), gomock.Any()).Return(cursorOf(t), nil)
		mc.EXPECT().Indexes(gomock.Any()).Return(nil, nil)

		schema, gwErr := g.InferSchema(context.Background(), "empty")
		require.Nil(t, gwErr)
		assert.Empty(t, schema.Fields)
		assert.Empty(t, schema.Indexes)
		assert.NotNil(t, schema.Fields, "empty, not null")
		assert.NotNil(t, schema.Indexes, "empty, not null")
	})
	t.Run("system collection is denied", func(t *testing.T) {
		g, _, _ := testGateway(t, false)
		_, gwErr := g.InferSchema(context.Background(), "system.indexes")
		require.NotNil(t, gwErr)
		assert.Equal(t, CodeUnauthorized, gwErr.Code)
	})
}

func TestGateway_AnalyzeCollection(t *testing.T) {
	g, _, mc := testGateway(t, false)
	sample := bson.D{{Key: "name", Value: "alice"}}

	// schema inference
	mc.EXPECT().Find(gomock.Any(), gomock.Any(), mongodb.FindOptions{Limit: 1}).
		Return(cursorOf(t, sample), nil)
	mc.EXPECT().Indexes(gomock.Any()).Return([]mongodb.IndexSpec{}, nil)
	// analysis extras
	mc.EXPECT().CountDocuments(gomock.Any(), gomock.Any()).Return(int64(250), nil)
	mc.EXPECT().Find(gomock.Any(), gomock.Any(), mongodb.FindOptions{Limit: analysisSampleLimit}).
		Return(cursorOf(t, sample, sample), nil)

	a, gwErr := g.AnalyzeCollection(context.Background(), "users")
	require.Nil(t, gwErr)
	assert.Equal(t, int64(250), a.Count)
	assert.Len(t, a.Samples, 2)
	require.NotNil(t, a.Schema)
	assert.Equal(t, []Field{{Name: "name", Type: "string"}}, a.Schema.Fields)
}

func Test_typeName(t *testing.T) {
	oid, err := bson.ObjectIDFromHex("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	dec, err := bson.ParseDecimal128("1.5")
	require.NoError(t, err)

	tests := []struct {
		v    any
		want string
	}{
		{nil, "null"},
		{"s", "string"},
		{int32(1), "number"},
		{int64(1), "number"},
		{1.5, "number"},
		{dec, "number"},
		{true, "boolean"},
		{bson.DateTime(0), "date"},
		{time.Now(), "date"},
		{oid, "identifier"},
		{bson.A{}, "array"},
		{[]any{}, "array"},
		{bson.D{}, "object"},
		{bson.M{}, "object"},
		{map[string]any{}, "object"},
		{bson.Binary{}, "unknown"},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, typeName(tt.v), "typeName(%T)", tt.v)
	}
}
