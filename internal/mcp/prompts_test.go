package mcp

import (
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	gomock "go.uber.org/mock/gomock"

	"github.com/satyajeetjadhav/mcp-mongo-server/internal/mongodb"
)

// promptReq builds a GetPromptRequest with the given arguments.
func promptReq(args map[string]string) mcplib.GetPromptRequest {
	req := mcplib.GetPromptRequest{}
	req.Params.Arguments = args
	return req
}

func TestServer_handleAnalyzeCollection(t *testing.T) {
	t.Run("builds the analysis transcript", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		srv, _, mc := newTestServer(t, ctrl, false)
		sample := bson.D{{Key: "name", Value: "alice"}, {Key: "age", Value: int32(30)}}

		mc.EXPECT().Find(gomock.Any(), gomock.Any(), mongodb.FindOptions{Limit: 1}).
			Return(cursorOf(t, sample), nil)
		mc.EXPECT().Indexes(gomock.Any()).Return([]mongodb.IndexSpec{}, nil)
		mc.EXPECT().CountDocuments(gomock.Any(), gomock.Any()).Return(int64(120), nil)
		mc.EXPECT().Find(gomock.Any(), gomock.Any(), gomock.Not(mongodb.FindOptions{Limit: 1})).
			Return(cursorOf(t, sample), nil)

		res, err := srv.handleAnalyzeCollection(t.Context(), promptReq(map[string]string{"collection": "users"}))
		require.NoError(t, err)
		require.NotNil(t, res)
		require.Len(t, res.Messages, 2)

		assert.Equal(t, mcplib.RoleUser, res.Messages[0].Role)
		user, ok := res.Messages[0].Content.(mcplib.TextContent)
		require.True(t, ok)
		assert.Contains(t, user.Text, `"users"`)
		assert.Contains(t, user.Text, "120")
		assert.Contains(t, user.Text, "alice")

		assert.Equal(t, mcplib.RoleAssistant, res.Messages[1].Role)
	})
	t.Run("collection argument is mandatory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		srv, _, _ := newTestServer(t, ctrl, false)

		_, err := srv.handleAnalyzeCollection(t.Context(), promptReq(nil))
		assert.Error(t, err)
	})
	t.Run("gateway failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		srv, _, _ := newTestServer(t, ctrl, false)

		_, err := srv.handleAnalyzeCollection(t.Context(), promptReq(map[string]string{"collection": "system.views"}))
		assert.Error(t, err)
	})
}
