package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

// ListBoardsTool handles the monday_list_boards MCP tool.
type ListBoardsTool struct {
	client monday.Querier
}

func NewListBoardsTool(client monday.Querier) *ListBoardsTool {
	return &ListBoardsTool{client: client}
}

func (t *ListBoardsTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_list_boards",
		mcp.WithDescription(
			"List monday.com boards with their columns, groups, and owners. "+
				"Supports paging and filtering by workspace or board kind.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Max boards to return (default 25)"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number (1-based)"),
		),
		mcp.WithNumber("workspace_id",
			mcp.Description("Filter by workspace ID"),
		),
		mcp.WithString("board_kind",
			mcp.Description("Filter by board kind"),
			mcp.Enum("public", "private", "share"),
		),
	)
}

func (t *ListBoardsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := intArg(req, "limit", 25)
	page := intArg(req, "page", 1)
	kind := req.GetString("board_kind", "")
	workspaceID := idArg(req, "workspace_id")

	args := fmt.Sprintf("limit: %d, page: %d", limit, page)
	if kind != "" {
		args += ", board_kind: " + kind
	}

	const fields = `id name description board_kind state
		workspace { id name }
		columns { id title type }
		groups { id title }
		owners { id name }
		items_count`

	var (
		query string
		vars  map[string]any
	)
	if workspaceID != "" {
		query = fmt.Sprintf(`query ($wsId: [ID!]) {
			boards(%s, workspace_ids: $wsId) { %s }
		}`, args, fields)
		vars = map[string]any{"wsId": []string{workspaceID}}
	} else {
		query = fmt.Sprintf(`query { boards(%s) { %s } }`, args, fields)
	}

	data, err := t.client.Query(ctx, query, vars)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Boards []monday.Board `json:"boards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding boards: %w", err)
	}
	return jsonResult(resp.Boards)
}

// GetBoardTool handles the monday_get_board MCP tool.
type GetBoardTool struct {
	client monday.Querier
}

func NewGetBoardTool(client monday.Querier) *GetBoardTool {
	return &GetBoardTool{client: client}
}

func (t *GetBoardTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_get_board",
		mcp.WithDescription(
			"Get full details of one board: columns with settings, groups, "+
				"owners, subscribers, and item count.",
		),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("The board ID to retrieve"),
		),
	)
}

func (t *GetBoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := idArg(req, "board_id")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	data, err := t.client.Query(ctx, `query ($boardId: [ID!]!) {
		boards(ids: $boardId) {
			id name description board_kind state
			workspace { id name }
			columns { id title type settings_str }
			groups { id title color position }
			owners { id name email }
			subscribers { id name email }
			items_count
			permissions
			updated_at
		}
	}`, map[string]any{"boardId": []string{boardID}})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Boards []monday.Board `json:"boards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding board: %w", err)
	}
	if len(resp.Boards) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Board %s not found.", boardID)), nil
	}
	return jsonResult(resp.Boards[0])
}

// CreateBoardTool handles the monday_create_board MCP tool.
type CreateBoardTool struct {
	client monday.Querier
}

func NewCreateBoardTool(client monday.Querier) *CreateBoardTool {
	return &CreateBoardTool{client: client}
}

func (t *CreateBoardTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_create_board",
		mcp.WithDescription(
			"Create a new monday.com board, optionally inside a workspace or "+
				"cloned from a template board.",
		),
		mcp.WithString("board_name",
			mcp.Required(),
			mcp.Description("Name for the new board"),
		),
		mcp.WithString("board_kind",
			mcp.Description("Board visibility (default: public)"),
			mcp.DefaultString("public"),
			mcp.Enum("public", "private", "share"),
		),
		mcp.WithNumber("workspace_id",
			mcp.Description("Workspace to create the board in"),
		),
		mcp.WithNumber("template_id",
			mcp.Description("Template board ID to clone from"),
		),
		mcp.WithString("description",
			mcp.Description("Board description"),
		),
	)
}

func (t *CreateBoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("board_name", "")
	if name == "" {
		return mcp.NewToolResultError("'board_name' is required"), nil
	}
	kind := req.GetString("board_kind", "public")

	args := "board_name: $name, board_kind: " + kind
	varDefs := "$name: String!"
	vars := map[string]any{"name": name}

	if wsID := idArg(req, "workspace_id"); wsID != "" {
		args += ", workspace_id: $wsId"
		varDefs += ", $wsId: ID"
		vars["wsId"] = wsID
	}
	if tmplID := idArg(req, "template_id"); tmplID != "" {
		args += ", template_id: $tmplId"
		varDefs += ", $tmplId: ID"
		vars["tmplId"] = tmplID
	}
	if desc := req.GetString("description", ""); desc != "" {
		args += ", description: $desc"
		varDefs += ", $desc: String"
		vars["desc"] = desc
	}

	data, err := t.client.Query(ctx, fmt.Sprintf(`mutation (%s) {
		create_board(%s) {
			id name board_kind
			workspace { id name }
		}
	}`, varDefs, args), vars)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		CreateBoard monday.Board `json:"create_board"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_board: %w", err)
	}
	return jsonResult(resp.CreateBoard)
}

// DeleteBoardTool handles the monday_delete_board MCP tool.
type DeleteBoardTool struct {
	client monday.Querier
}

func NewDeleteBoardTool(client monday.Querier) *DeleteBoardTool {
	return &DeleteBoardTool{client: client}
}

func (t *DeleteBoardTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_delete_board",
		mcp.WithDescription("Delete a monday.com board by ID. This cannot be undone."),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("The board ID to delete"),
		),
	)
}

func (t *DeleteBoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := idArg(req, "board_id")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	data, err := t.client.Query(ctx, `mutation ($boardId: ID!) {
		delete_board(board_id: $boardId) { id }
	}`, map[string]any{"boardId": boardID})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		DeleteBoard struct {
			ID string `json:"id"`
		} `json:"delete_board"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding delete_board: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Board %s deleted successfully.", resp.DeleteBoard.ID)), nil
}
