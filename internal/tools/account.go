package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

// GetAccountInfoTool handles the monday_get_account_info MCP tool.
type GetAccountInfoTool struct {
	client monday.Querier
}

func NewGetAccountInfoTool(client monday.Querier) *GetAccountInfoTool {
	return &GetAccountInfoTool{client: client}
}

func (t *GetAccountInfoTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_get_account_info",
		mcp.WithDescription("Get the authenticated user, their account plan, and team memberships."),
	)
}

func (t *GetAccountInfoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := t.client.Query(ctx, `query {
		me {
			id name email
			is_admin is_guest
			created_at
			account {
				id name slug
				plan { period tier version }
				first_day_of_the_week
				country_code
			}
			teams { id name }
		}
	}`, nil)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Me json.RawMessage `json:"me"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding account info: %w", err)
	}
	return rawResult(resp.Me)
}
