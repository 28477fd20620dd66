package mcp

// In this file: resource registration and read handlers.  Each collection is
// a resource whose content is its inferred schema; a resource template
// covers collections created after startup.

import (
	"context"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/satyajeetjadhav/mcp-mongo-server/internal/gateway"
)

const (
	// collectionURIPrefix is the URI scheme for collection resources.
	collectionURIPrefix = "mongodb:///"
	// operatorsURI is the static query-operator guide.
	operatorsURI = "mongodb://query-operators"

	jsonMIME     = "application/json"
	markdownMIME = "text/markdown"
)

// registerStaticResources adds the collection resource template and the
// query-operator guide.
func (s *Server) registerStaticResources() {
	tpl := mcplib.NewResourceTemplate(
		collectionURIPrefix+"{collection}",
		"Collection schema",
		mcplib.WithTemplateDescription("Inferred schema of a MongoDB collection: top-level fields with their types, plus the index catalog. Derived from a single sample document; advisory only."),
		mcplib.WithTemplateMIMEType(jsonMIME),
	)
	s.mcp.AddResourceTemplate(tpl, s.handleCollectionResource)

	guide := mcplib.NewResource(
		operatorsURI,
		"Query operators",
		mcplib.WithResourceDescription("Reference for the MongoDB filter operators supported by the query tools, with examples."),
		mcplib.WithMIMEType(markdownMIME),
	)
	s.mcp.AddResource(guide, s.handleOperatorsResource)
}

// RegisterCollections lists the database's collections and registers one
// resource per collection.  Collections created later remain reachable via
// the resource template.
func (s *Server) RegisterCollections(ctx context.Context) error {
	names, gwErr := s.gw.ListCollections(ctx)
	if gwErr != nil {
		return fmt.Errorf("mcp: list collections: %w", gwErr)
	}
	for _, name := range names {
		res := mcplib.NewResource(
			collectionURIPrefix+name,
			name,
			mcplib.WithResourceDescription(fmt.Sprintf("Inferred schema of the %q collection", name)),
			mcplib.WithMIMEType(jsonMIME),
		)
		s.mcp.AddResource(res, s.handleCollectionResource)
	}
	s.logger.InfoContext(ctx, "mcp: registered collection resources", "count", len(names))
	return nil
}

// handleCollectionResource serves the inferred schema for the collection
// named in the resource URI.
func (s *Server) handleCollectionResource(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	name := strings.TrimPrefix(req.Params.URI, collectionURIPrefix)
	if name == "" || name == req.Params.URI {
		return nil, fmt.Errorf("invalid collection resource URI %q", req.Params.URI)
	}

	schema, gwErr := s.gw.InferSchema(ctx, name)
	if gwErr != nil {
		return nil, gwErr
	}
	text, err := gateway.FormatJSON(schema)
	if err != nil {
		return nil, fmt.Errorf("serialise schema for %q: %w", name, err)
	}

	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: jsonMIME,
			Text:     text,
		},
	}, nil
}

// handleOperatorsResource serves the static filter-operator guide.
func (s *Server) handleOperatorsResource(_ context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: markdownMIME,
			Text:     operatorsGuide,
		},
	}, nil
}

// operatorsGuide documents the supported filter operators.  Documentation
// only; filters are not validated against this list.
const operatorsGuide = `# Supported query operators

Filters passed to the query, count and distinct tools use standard MongoDB
operator syntax.

| Operator | Meaning | Example |
|----------|---------|---------|
| $eq | equal to | {"age": {"$eq": 30}} |
| $gt | greater than | {"age": {"$gt": 30}} |
| $gte | greater than or equal | {"age": {"$gte": 30}} |
| $lt | less than | {"age": {"$lt": 30}} |
| $lte | less than or equal | {"age": {"$lte": 30}} |
| $in | value in list | {"status": {"$in": ["active", "pending"]}} |
| $nin | value not in list | {"status": {"$nin": ["deleted"]}} |
| $ne | not equal to | {"status": {"$ne": "deleted"}} |
| $exists | field presence | {"email": {"$exists": true}} |

A bare value is shorthand for $eq: {"name": "alice"} matches documents whose
name field equals "alice".  Conditions on multiple fields are combined with
a logical AND.
`
