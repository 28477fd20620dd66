// Package mcp implements the Model Context Protocol (MCP) surface of the
// server.  It exposes a single MongoDB database to AI agents as resources
// (collections with inferred schemas), tools (query, aggregate, count,
// distinct, update, insert, createIndex, serverInfo) and a guided
// collection-analysis prompt.
//
// All request semantics live in the gateway package; this package only
// registers the MCP catalog, decodes argument bags, and converts gateway
// outcomes into protocol results.
//
// Transport: the server supports two transports selectable at runtime:
//   - stdio  – standard MCP stdio transport (default); suitable for local
//     agent integration (e.g. Claude Desktop, VS Code Copilot).
//   - http   – Streamable HTTP transport; suitable for remote agents or when
//     multiple concurrent clients are needed.
package mcp
