package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

type userRecord struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Title     string          `json:"title,omitempty"`
	IsAdmin   bool            `json:"is_admin"`
	IsGuest   bool            `json:"is_guest"`
	Enabled   bool            `json:"enabled"`
	Account   *monday.Account `json:"account,omitempty"`
	Teams     []teamRecord    `json:"teams,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
}

type teamRecord struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Owners []monday.User `json:"owners,omitempty"`
	Users  []monday.User `json:"users,omitempty"`
}

// ListUsersTool handles the monday_list_users_and_teams MCP tool.
type ListUsersTool struct {
	client monday.Querier
}

func NewListUsersTool(client monday.Querier) *ListUsersTool {
	return &ListUsersTool{client: client}
}

func (t *ListUsersTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_list_users_and_teams",
		mcp.WithDescription("List the users of the account, optionally with their teams."),
		mcp.WithString("kind",
			mcp.Description("Filter by user kind (default: all)"),
			mcp.DefaultString("all"),
			mcp.Enum("all", "non_guests", "guests", "non_pending"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max users to return (default 50)"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (1-based)"),
		),
		mcp.WithBoolean("include_teams",
			mcp.Description("Also return the account's teams with their members"),
		),
	)
}

func (t *ListUsersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := req.GetString("kind", "all")
	limit := intArg(req, "limit", 50)
	page := intArg(req, "page", 1)

	query := fmt.Sprintf(`query {
		users(kind: %s, limit: %d, page: %d) {
			id name email title
			is_admin is_guest enabled
			account { id name }
			teams { id name }
			created_at
		}`, kind, limit, page)
	if boolArg(req, "include_teams", false) {
		query += `
		teams {
			id name
			owners { id name }
			users { id name email }
		}`
	}
	query += "\n\t}"

	data, err := t.client.Query(ctx, query, nil)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Users []userRecord `json:"users"`
		Teams []teamRecord `json:"teams"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}

	payload := map[string]any{"users": resp.Users}
	if resp.Teams != nil {
		payload["teams"] = resp.Teams
	}
	return jsonResult(payload)
}
