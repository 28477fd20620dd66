package gateway

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFormatJSON(t *testing.T) {
	t.Run("empty document sequence", func(t *testing.T) {
		got, err := FormatJSON([]bson.D{})
		require.NoError(t, err)
		assert.Equal(t, "[]", got)
	})
	t.Run("document sequence keeps order", func(t *testing.T) {
		docs := []bson.D{
			{{Key: "b", Value: "second"}, {Key: "a", Value: "first"}},
			{{Key: "n", Value: int32(2)}},
		}
		got, err := FormatJSON(docs)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"b": "second", "a": "first"}, {"n": 2}]`, got)
		// field order within a document is preserved, not sorted
		assert.Less(t, strings.Index(got, `"b"`), strings.Index(got, `"a"`))
	})
	t.Run("single document", func(t *testing.T) {
		oid, err := bson.ObjectIDFromHex("507f1f77bcf86cd799439011")
		require.NoError(t, err)
		got, err := FormatJSON(bson.D{{Key: "_id", Value: oid}, {Key: "name", Value: "alice"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"_id": {"$oid": "507f1f77bcf86cd799439011"}, "name": "alice"}`, got)
	})
	t.Run("scalar falls back to plain json", func(t *testing.T) {
		got, err := FormatJSON(int64(42))
		require.NoError(t, err)
		assert.Equal(t, "42", got)
	})
	t.Run("plain slice", func(t *testing.T) {
		got, err := FormatJSON([]any{"a", "b"})
		require.NoError(t, err)
		assert.JSONEq(t, `["a", "b"]`, got)
	})
}
