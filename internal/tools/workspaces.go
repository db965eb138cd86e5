package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

// workspaceRecord carries the workspace fields the workspace tools return.
type workspaceRecord struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Kind              string        `json:"kind,omitempty"`
	Description       string        `json:"description,omitempty"`
	OwnersSubscribers []monday.User `json:"owners_subscribers,omitempty"`
	CreatedAt         string        `json:"created_at,omitempty"`
}

// ListWorkspacesTool handles the monday_list_workspaces MCP tool.
type ListWorkspacesTool struct {
	client monday.Querier
}

func NewListWorkspacesTool(client monday.Querier) *ListWorkspacesTool {
	return &ListWorkspacesTool{client: client}
}

func (t *ListWorkspacesTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_list_workspaces",
		mcp.WithDescription("List monday.com workspaces."),
		mcp.WithNumber("limit",
			mcp.Description("Max workspaces to return (default 25)"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (1-based)"),
		),
		mcp.WithString("kind",
			mcp.Description("Filter by workspace kind"),
			mcp.Enum("open", "closed"),
		),
	)
}

func (t *ListWorkspacesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := intArg(req, "limit", 25)
	page := intArg(req, "page", 1)

	args := fmt.Sprintf("limit: %d, page: %d", limit, page)
	if kind := req.GetString("kind", ""); kind != "" {
		args += ", kind: " + kind
	}

	data, err := t.client.Query(ctx, fmt.Sprintf(`query {
		workspaces(%s) {
			id name kind description
			owners_subscribers { id name email }
			created_at
		}
	}`, args), nil)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Workspaces []workspaceRecord `json:"workspaces"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding workspaces: %w", err)
	}
	return jsonResult(resp.Workspaces)
}

// CreateWorkspaceTool handles the monday_create_workspace MCP tool.
type CreateWorkspaceTool struct {
	client monday.Querier
}

func NewCreateWorkspaceTool(client monday.Querier) *CreateWorkspaceTool {
	return &CreateWorkspaceTool{client: client}
}

func (t *CreateWorkspaceTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_create_workspace",
		mcp.WithDescription("Create a new workspace."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Workspace name"),
		),
		mcp.WithString("kind",
			mcp.Description("Workspace visibility (default: open)"),
			mcp.DefaultString("open"),
			mcp.Enum("open", "closed"),
		),
		mcp.WithString("description",
			mcp.Description("Workspace description"),
		),
	)
}

func (t *CreateWorkspaceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	kind := req.GetString("kind", "open")

	varDefs := "$name: String!"
	args := "name: $name, kind: " + kind
	vars := map[string]any{"name": name}

	if desc := req.GetString("description", ""); desc != "" {
		varDefs += ", $desc: String"
		args += ", description: $desc"
		vars["desc"] = desc
	}

	data, err := t.client.Query(ctx, fmt.Sprintf(`mutation (%s) {
		create_workspace(%s) {
			id name kind description
		}
	}`, varDefs, args), vars)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		CreateWorkspace workspaceRecord `json:"create_workspace"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_workspace: %w", err)
	}
	return jsonResult(resp.CreateWorkspace)
}
