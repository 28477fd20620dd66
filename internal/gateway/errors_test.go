package gateway

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func Test_reclassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode Code
	}{
		{
			"gateway error passes through",
			errf(CodeInvalidSort, "bad sort"),
			CodeInvalidSort,
		},
		{
			"wrapped gateway error passes through",
			fmt.Errorf("running: %w", errf(CodeInvalidProjection, "bad projection")),
			CodeInvalidProjection,
		},
		{
			"deadline exceeded",
			context.DeadlineExceeded,
			CodeTimeout,
		},
		{
			"network error label",
			mongo.CommandError{Code: 6, Message: "host unreachable", Labels: []string{"NetworkError"}},
			CodeConnectionError,
		},
		{
			"namespace not found by code",
			mongo.CommandError{Code: 26, Message: "ns does not exist"},
			CodeCollectionNotFound,
		},
		{
			"namespace not found by name",
			mongo.CommandError{Code: 0, Name: "NamespaceNotFound", Message: "no such collection"},
			CodeCollectionNotFound,
		},
		{
			"database not found",
			mongo.CommandError{Code: 59, Message: "database mydb not found"},
			CodeDatabaseNotFound,
		},
		{
			"server rejection defaults to invalid query",
			mongo.CommandError{Code: 2, Name: "BadValue", Message: "unknown operator $foo"},
			CodeInvalidQuery,
		},
		{
			"plain error defaults to invalid query",
			errors.New("boom"),
			CodeInvalidQuery,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gwErr := reclassify(OpQuery, "users", tt.err)
			require.NotNil(t, gwErr)
			assert.Equal(t, tt.wantCode, gwErr.Code)
			assert.NotEmpty(t, gwErr.Message)
		})
	}
}

func Test_reclassify_message(t *testing.T) {
	gwErr := reclassify(OpAggregate, "orders", errors.New("boom"))
	require.NotNil(t, gwErr)
	assert.Contains(t, gwErr.Message, "aggregate")
	assert.Contains(t, gwErr.Message, "orders")
}

func TestError_Error(t *testing.T) {
	e := errf(CodeTimeout, "query timed out")
	assert.Equal(t, "TIMEOUT: query timed out", e.Error())
}
