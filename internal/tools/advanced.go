package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

// RawGraphQLTool handles the monday_raw_graphql MCP tool. It is the escape
// hatch for API surface no dedicated tool covers; requests still go through
// the rate limiter.
type RawGraphQLTool struct {
	client monday.Querier
}

func NewRawGraphQLTool(client monday.Querier) *RawGraphQLTool {
	return &RawGraphQLTool{client: client}
}

func (t *RawGraphQLTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_raw_graphql",
		mcp.WithDescription(
			"Run an arbitrary GraphQL query or mutation against the "+
				"monday.com API. Use monday_get_schema to discover types.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The GraphQL query or mutation"),
		),
		mcp.WithObject("variables",
			mcp.Description("Variables for the query"),
		),
	)
}

func (t *RawGraphQLTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	data, err := t.client.Query(ctx, query, mapArg(req, "variables"))
	if err != nil {
		return apiError(err), nil
	}
	return rawResult(data)
}

// GetSchemaTool handles the monday_get_schema MCP tool. Without a type name
// it returns a trimmed schema overview; with one it introspects that type.
type GetSchemaTool struct {
	client monday.Querier
}

func NewGetSchemaTool(client monday.Querier) *GetSchemaTool {
	return &GetSchemaTool{client: client}
}

func (t *GetSchemaTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_get_schema",
		mcp.WithDescription(
			"Introspect the monday.com GraphQL schema. Pass type_name for "+
				"one type's fields, or omit it for an overview.",
		),
		mcp.WithString("type_name",
			mcp.Description("A GraphQL type to introspect (e.g. \"Board\", \"ItemsQuery\")"),
		),
	)
}

func (t *GetSchemaTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if typeName := req.GetString("type_name", ""); typeName != "" {
		return t.describeType(ctx, typeName)
	}
	return t.overview(ctx)
}

func (t *GetSchemaTool) describeType(ctx context.Context, typeName string) (*mcp.CallToolResult, error) {
	data, err := t.client.Query(ctx, `query ($typeName: String!) {
		__type(name: $typeName) {
			name kind description
			fields {
				name description
				type { name kind ofType { name kind } }
				args {
					name description
					type { name kind ofType { name kind } }
				}
			}
			inputFields {
				name description
				type { name kind ofType { name kind } }
			}
			enumValues { name description }
		}
	}`, map[string]any{"typeName": typeName})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Type json.RawMessage `json:"__type"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding type introspection: %w", err)
	}
	if string(resp.Type) == "" || string(resp.Type) == "null" {
		return mcp.NewToolResultText(fmt.Sprintf("Type %q not found in the schema.", typeName)), nil
	}
	return rawResult(resp.Type)
}

func (t *GetSchemaTool) overview(ctx context.Context) (*mcp.CallToolResult, error) {
	data, err := t.client.Query(ctx, `query {
		__schema {
			queryType { name }
			mutationType { name }
			types { name kind description }
		}
	}`, nil)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Schema struct {
			QueryType    struct{ Name string } `json:"queryType"`
			MutationType struct{ Name string } `json:"mutationType"`
			Types        []struct {
				Name        string `json:"name"`
				Kind        string `json:"kind"`
				Description string `json:"description"`
			} `json:"types"`
		} `json:"__schema"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding schema overview: %w", err)
	}

	// Trim introspection internals and scalars to keep the overview readable.
	type typeSummary struct {
		Name        string `json:"name"`
		Kind        string `json:"kind"`
		Description string `json:"description,omitempty"`
	}
	types := make([]typeSummary, 0, len(resp.Schema.Types))
	for _, tp := range resp.Schema.Types {
		if strings.HasPrefix(tp.Name, "__") || tp.Kind == "SCALAR" {
			continue
		}
		types = append(types, typeSummary{Name: tp.Name, Kind: tp.Kind, Description: tp.Description})
	}

	return jsonResult(map[string]any{
		"query_type":    resp.Schema.QueryType.Name,
		"mutation_type": resp.Schema.MutationType.Name,
		"types":         types,
	})
}
