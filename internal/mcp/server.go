package mcp

// In this file: MCP server construction and transport management.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/satyajeetjadhav/mcp-mongo-server/internal/gateway"
)

const (
	serverName    = "mcp-mongo-server"
	serverVersion = "1.0.0"
)

// Transport selects how the MCP server communicates with its client.
type Transport string

const (
	// TransportStdio uses stdin/stdout for communication (default, suitable
	// for local agent integrations such as Claude Desktop).
	TransportStdio Transport = "stdio"
	// TransportHTTP uses Streamable HTTP transport (suitable for remote
	// agents or when multiple concurrent clients are needed).
	TransportHTTP Transport = "http"
)

// Server wraps an MCP server and the operation gateway it exposes.
type Server struct {
	mcp    *mcpsrv.MCPServer
	gw     *gateway.Gateway
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.  A nil logger falls back to
// slog.Default().
func WithLogger(lg *slog.Logger) Option {
	return func(s *Server) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// New creates a new MCP server backed by the given gateway.  The server is
// populated with all tools, static resources and prompts but does not start
// listening until one of the Serve* methods is called.  Per-collection
// resources are added separately via RegisterCollections.
func New(gw *gateway.Gateway, opts ...Option) *Server {
	s := &Server{
		gw:     gw,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mcpServer := mcpsrv.NewMCPServer(
		serverName,
		serverVersion,
		mcpsrv.WithToolCapabilities(false),
		mcpsrv.WithResourceCapabilities(false, true),
		mcpsrv.WithPromptCapabilities(false),
		mcpsrv.WithInstructions(instructions(gw)),
	)

	s.mcp = mcpServer

	for _, t := range s.tools() {
		mcpServer.AddTool(t.Tool, t.Handler)
	}
	s.registerStaticResources()
	s.registerPrompts()

	return s
}

// instructions returns the server instructions that describe the database to
// the connecting agent.
func instructions(gw *gateway.Gateway) string {
	mode := "read-write"
	if gw.ReadOnly() {
		mode = "read-only; update, insert and createIndex are disabled"
	}
	return fmt.Sprintf(`You are connected to the MongoDB database %q (%s).

Collections are exposed as resources under mongodb:///<collection>; reading
one returns its inferred schema (top-level fields with types, plus indexes).
The schema is advisory: it is derived from a single sample document and may
be stale or incomplete.

Available tools: query, aggregate, count, distinct, update, insert,
createIndex, serverInfo.  query returns at most 100 documents unless a limit
is given.  Collections in the reserved system namespace are not accessible.

The resource mongodb://query-operators documents the supported filter
operators with examples.
`, gw.DatabaseName(), mode)
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is cancelled.
// This is the standard transport used by local agent integrations.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := mcpsrv.NewStdioServer(s.mcp)
	s.logger.InfoContext(ctx, "mcp server listening on stdio", "database", s.gw.DatabaseName(), "read_only", s.gw.ReadOnly())
	if err := srv.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// ServeHTTP runs the MCP server as a Streamable HTTP server on addr until
// ctx is cancelled.  addr should be a host:port string such as "127.0.0.1:8900".
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpSrv := &http.Server{Addr: addr}
	streamSrv := mcpsrv.NewStreamableHTTPServer(s.mcp,
		mcpsrv.WithStreamableHTTPServer(httpSrv),
	)

	s.logger.InfoContext(ctx, "mcp server listening on http", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := streamSrv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("mcp http server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "mcp server shutting down")
		if err := streamSrv.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("mcp http server shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// resultText wraps text in a successful CallToolResult.
func resultText(text string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(text)
}

// resultGatewayErr renders a gateway error as its wire-level JSON shape in a
// CallToolResult with IsError=true.
func resultGatewayErr(gwErr *gateway.Error) *mcplib.CallToolResult {
	b, err := json.MarshalIndent(gwErr, "", "  ")
	if err != nil {
		return mcplib.NewToolResultError(gwErr.Error())
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(b))},
		IsError: true,
	}
}

// toolResult converts a gateway outcome into a CallToolResult.
func toolResult(out string, gwErr *gateway.Error) (*mcplib.CallToolResult, error) {
	if gwErr != nil {
		return resultGatewayErr(gwErr), nil
	}
	return resultText(out), nil
}
