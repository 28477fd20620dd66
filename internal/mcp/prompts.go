package mcp

// In this file: prompt registration and the analyze_collection handler.

import (
	"context"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/satyajeetjadhav/mcp-mongo-server/internal/gateway"
)

// registerPrompts adds the prompt catalog to the MCP server.
func (s *Server) registerPrompts() {
	prompt := mcplib.NewPrompt("analyze_collection",
		mcplib.WithPromptDescription("Analyze the structure and contents of a MongoDB collection: inferred schema, document count and sample documents, with a request for narrative analysis."),
		mcplib.WithArgument("collection",
			mcplib.ArgumentDescription("Name of the collection to analyze"),
			mcplib.RequiredArgument(),
		),
	)
	s.mcp.AddPrompt(prompt, s.handleAnalyzeCollection)
}

func (s *Server) handleAnalyzeCollection(ctx context.Context, req mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	collection := req.Params.Arguments["collection"]
	if collection == "" {
		return nil, errors.New("analyze_collection: collection is required")
	}

	analysis, gwErr := s.gw.AnalyzeCollection(ctx, collection)
	if gwErr != nil {
		return nil, gwErr
	}

	schemaJSON, err := gateway.FormatJSON(analysis.Schema)
	if err != nil {
		return nil, fmt.Errorf("analyze_collection: serialise schema: %w", err)
	}
	samplesJSON, err := gateway.FormatJSON(analysis.Samples)
	if err != nil {
		return nil, fmt.Errorf("analyze_collection: serialise samples: %w", err)
	}

	userText := fmt.Sprintf(`Please analyze the MongoDB collection %q.

Inferred schema (from one sample document, advisory):
%s

Document count: %d

Sample documents (up to %d):
%s

Describe the apparent purpose of this collection, the structure and meaning
of its fields, any data quality concerns you notice, and how the existing
indexes relate to likely query patterns.`,
		collection, schemaJSON, analysis.Count, len(analysis.Samples), samplesJSON)

	return mcplib.NewGetPromptResult(
		fmt.Sprintf("Analysis of collection %q", collection),
		[]mcplib.PromptMessage{
			mcplib.NewPromptMessage(mcplib.RoleUser, mcplib.NewTextContent(userText)),
			mcplib.NewPromptMessage(mcplib.RoleAssistant, mcplib.NewTextContent(
				fmt.Sprintf("I'll review the schema, sample documents and indexes of %q and describe its structure, apparent purpose and any data quality concerns.", collection),
			)),
		},
	), nil
}
