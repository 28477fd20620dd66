package mcp

import (
	"encoding/json"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/satyajeetjadhav/mcp-mongo-server/internal/gateway"
	"github.com/satyajeetjadhav/mcp-mongo-server/internal/mongodb/mock_mongodb"
)

// newTestServer creates a *Server over a gateway backed by gomock database
// and collection mocks.  The database mock resolves any collection name to
// the returned collection mock.
func newTestServer(t *testing.T, ctrl *gomock.Controller, readOnly bool) (*Server, *mock_mongodb.MockDatabase, *mock_mongodb.MockCollection) {
	t.Helper()
	md := mock_mongodb.NewMockDatabase(ctrl)
	mc := mock_mongodb.NewMockCollection(ctrl)
	md.EXPECT().Name().Return("testdb").AnyTimes()
	md.EXPECT().Collection(gomock.Any()).Return(mc).AnyTimes()

	gw := gateway.New(gateway.Config{DB: md, ReadOnly: readOnly})
	srv := New(gw, WithLogger(nil))
	require.NotNil(t, srv)
	return srv, md, mc
}

// toolReq builds a CallToolRequest with the given argument map.
func toolReq(args map[string]any) mcplib.CallToolRequest {
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// isErrorResult returns true when the result carries IsError=true.
func isErrorResult(r *mcplib.CallToolResult) bool {
	return r != nil && r.IsError
}

// firstText returns the text of the first TextContent in the result.
func firstText(t *testing.T, r *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, r.Content, "result has no content")
	txt, ok := r.Content[0].(mcplib.TextContent)
	require.True(t, ok, "first content item is not TextContent")
	return txt.Text
}

// ─── New / options ────────────────────────────────────────────────────────────

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	srv, _, _ := newTestServer(t, ctrl, false)
	assert.NotNil(t, srv.mcp)
	assert.NotNil(t, srv.gw)
	assert.NotNil(t, srv.logger)
}

func TestNew_withLogger_nil(t *testing.T) {
	// A nil logger must not panic and must fall back to slog.Default().
	ctrl := gomock.NewController(t)
	assert.NotPanics(t, func() {
		srv, _, _ := newTestServer(t, ctrl, false)
		assert.NotNil(t, srv.logger)
	})
}

func Test_instructions(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Run("read-write", func(t *testing.T) {
		md := mock_mongodb.NewMockDatabase(ctrl)
		md.EXPECT().Name().Return("shop").AnyTimes()
		got := instructions(gateway.New(gateway.Config{DB: md}))
		assert.Contains(t, got, `"shop"`)
		assert.Contains(t, got, "read-write")
	})
	t.Run("read-only", func(t *testing.T) {
		md := mock_mongodb.NewMockDatabase(ctrl)
		md.EXPECT().Name().Return("shop").AnyTimes()
		got := instructions(gateway.New(gateway.Config{DB: md, ReadOnly: true}))
		assert.Contains(t, got, "read-only")
	})
}

// ─── result helpers ───────────────────────────────────────────────────────────

func Test_toolResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, err := toolResult("[]", nil)
		require.NoError(t, err)
		assert.False(t, isErrorResult(r))
		assert.Equal(t, "[]", firstText(t, r))
	})
	t.Run("gateway error renders the wire shape", func(t *testing.T) {
		gwErr := &gateway.Error{Code: gateway.CodeUnauthorized, Message: "denied"}
		r, err := toolResult("", gwErr)
		require.NoError(t, err)
		assert.True(t, isErrorResult(r))

		var decoded gateway.Error
		require.NoError(t, json.Unmarshal([]byte(firstText(t, r)), &decoded))
		assert.Equal(t, gateway.CodeUnauthorized, decoded.Code)
		assert.Equal(t, "denied", decoded.Message)
	})
}
