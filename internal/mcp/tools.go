package mcp

// In this file: MCP tool definitions and handler implementations.  Handlers
// are thin: the argument bag goes to the gateway as-is and the outcome comes
// back formatted.

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/satyajeetjadhav/mcp-mongo-server/internal/gateway"
)

// tools returns all MCP tools that this server exposes.
func (s *Server) tools() []mcpsrv.ServerTool {
	return []mcpsrv.ServerTool{
		s.toolQuery(),
		s.toolAggregate(),
		s.toolCount(),
		s.toolDistinct(),
		s.toolUpdate(),
		s.toolInsert(),
		s.toolCreateIndex(),
		s.toolServerInfo(),
	}
}

// args converts a tool call request into a gateway argument bag.
func args(req mcplib.CallToolRequest) gateway.Args {
	return gateway.Args(req.GetArguments())
}

// ─── query ────────────────────────────────────────────────────────────────────

func (s *Server) toolQuery() mcpsrv.ServerTool {
	tool := mcplib.NewTool("query",
		mcplib.WithDescription(`Execute a read query against a MongoDB collection using find syntax.

Returns the matching documents as a JSON array in natural cursor order.  At
most 100 documents are returned unless an explicit limit is given.`),
		mcplib.WithString("collection",
			mcplib.Description("Name of the collection to query"),
			mcplib.Required(),
		),
		mcplib.WithObject("filter",
			mcplib.Description("MongoDB query filter as an object, or a JSON-encoded string of one. Omit to match all documents."),
		),
		mcplib.WithObject("projection",
			mcplib.Description("Fields to include (1) or exclude (0), e.g. {\"name\": 1, \"_id\": 0}"),
		),
		mcplib.WithObject("sort",
			mcplib.Description("Sort specification mapping fields to 1 (ascending) or -1 (descending)"),
		),
		mcplib.WithNumber("limit",
			mcplib.Description("Maximum number of documents to return (default 100)"),
		),
		mcplib.WithNumber("skip",
			mcplib.Description("Number of matching documents to skip before returning results"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleQuery}
}

func (s *Server) handleQuery(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return toolResult(s.gw.Query(ctx, args(req)))
}

// ─── aggregate ────────────────────────────────────────────────────────────────

func (s *Server) toolAggregate() mcpsrv.ServerTool {
	tool := mcplib.NewTool("aggregate",
		mcplib.WithDescription("Run an aggregation pipeline against a MongoDB collection and return all results as a JSON array."),
		mcplib.WithString("collection",
			mcplib.Description("Name of the collection to aggregate"),
			mcplib.Required(),
		),
		mcplib.WithArray("pipeline",
			mcplib.Description("Aggregation pipeline: an array of stage objects, e.g. [{\"$match\": {...}}, {\"$group\": {...}}]"),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleAggregate}
}

func (s *Server) handleAggregate(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return toolResult(s.gw.Aggregate(ctx, args(req)))
}

// ─── count ────────────────────────────────────────────────────────────────────

func (s *Server) toolCount() mcpsrv.ServerTool {
	tool := mcplib.NewTool("count",
		mcplib.WithDescription("Count the documents in a collection that match a filter.  Returns a single integer."),
		mcplib.WithString("collection",
			mcplib.Description("Name of the collection to count"),
			mcplib.Required(),
		),
		mcplib.WithObject("filter",
			mcplib.Description("MongoDB query filter as an object, or a JSON-encoded string of one. Omit to count all documents."),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleCount}
}

func (s *Server) handleCount(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return toolResult(s.gw.Count(ctx, args(req)))
}

// ─── distinct ─────────────────────────────────────────────────────────────────

func (s *Server) toolDistinct() mcpsrv.ServerTool {
	tool := mcplib.NewTool("distinct",
		mcplib.WithDescription("Return the set of distinct values of a field across the documents matching a filter."),
		mcplib.WithString("collection",
			mcplib.Description("Name of the collection"),
			mcplib.Required(),
		),
		mcplib.WithString("field",
			mcplib.Description("Field name to collect distinct values of"),
			mcplib.Required(),
		),
		mcplib.WithObject("filter",
			mcplib.Description("Optional MongoDB query filter restricting the documents considered."),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleDistinct}
}

func (s *Server) handleDistinct(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return toolResult(s.gw.Distinct(ctx, args(req)))
}

// ─── update ───────────────────────────────────────────────────────────────────

func (s *Server) toolUpdate() mcpsrv.ServerTool {
	tool := mcplib.NewTool("update",
		mcplib.WithDescription(`Update documents matching a filter.  Denied in read-only mode.

Returns the matched, modified and upserted counts.  By default only the
first matching document is updated; set multi to update all matches.`),
		mcplib.WithString("collection",
			mcplib.Description("Name of the collection to update"),
			mcplib.Required(),
		),
		mcplib.WithObject("filter",
			mcplib.Description("MongoDB query filter selecting the documents to update"),
			mcplib.Required(),
		),
		mcplib.WithObject("update",
			mcplib.Description("Update operations using MongoDB update operators, e.g. {\"$set\": {\"active\": true}}"),
			mcplib.Required(),
		),
		mcplib.WithBoolean("upsert",
			mcplib.Description("Insert a new document when no document matches the filter"),
		),
		mcplib.WithBoolean("multi",
			mcplib.Description("Update every matching document instead of only the first"),
		),
		mcplib.WithDestructiveHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleUpdate}
}

func (s *Server) handleUpdate(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return toolResult(s.gw.Update(ctx, args(req)))
}

// ─── insert ───────────────────────────────────────────────────────────────────

func (s *Server) toolInsert() mcpsrv.ServerTool {
	tool := mcplib.NewTool("insert",
		mcplib.WithDescription("Insert one or more documents into a collection and return the newly assigned document IDs.  Denied in read-only mode."),
		mcplib.WithString("collection",
			mcplib.Description("Name of the collection to insert into"),
			mcplib.Required(),
		),
		mcplib.WithArray("documents",
			mcplib.Description("Array of documents to insert"),
			mcplib.Required(),
		),
		mcplib.WithObject("writeOptions",
			mcplib.Description("Optional write options; {\"ordered\": false} continues past individual failures"),
		),
		mcplib.WithDestructiveHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleInsert}
}

func (s *Server) handleInsert(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return toolResult(s.gw.Insert(ctx, args(req)))
}

// ─── createIndex ──────────────────────────────────────────────────────────────

func (s *Server) toolCreateIndex() mcpsrv.ServerTool {
	tool := mcplib.NewTool("createIndex",
		mcplib.WithDescription("Create an index on a collection and return its name.  Denied in read-only mode."),
		mcplib.WithString("collection",
			mcplib.Description("Name of the collection to index"),
			mcplib.Required(),
		),
		mcplib.WithObject("keys",
			mcplib.Description("Index key specification mapping fields to 1 (ascending) or -1 (descending), e.g. {\"email\": 1}"),
			mcplib.Required(),
		),
		mcplib.WithObject("options",
			mcplib.Description("Optional index options: name, unique, sparse, expireAfterSeconds"),
		),
		mcplib.WithDestructiveHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleCreateIndex}
}

func (s *Server) handleCreateIndex(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return toolResult(s.gw.CreateIndex(ctx, args(req)))
}

// ─── serverInfo ───────────────────────────────────────────────────────────────

func (s *Server) toolServerInfo() mcpsrv.ServerTool {
	tool := mcplib.NewTool("serverInfo",
		mcplib.WithDescription("Return MongoDB server build information and this server's read-only status."),
		mcplib.WithBoolean("debugInfo",
			mcplib.Description("Include extended server diagnostics (serverStatus)"),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleServerInfo}
}

func (s *Server) handleServerInfo(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return toolResult(s.gw.ServerInfo(ctx, args(req)))
}
