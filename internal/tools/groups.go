package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

// ListGroupsTool handles the monday_list_groups MCP tool.
type ListGroupsTool struct {
	client monday.Querier
}

func NewListGroupsTool(client monday.Querier) *ListGroupsTool {
	return &ListGroupsTool{client: client}
}

func (t *ListGroupsTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_list_groups",
		mcp.WithDescription("List the groups of a board."),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board ID to list groups from"),
		),
	)
}

func (t *ListGroupsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := idArg(req, "board_id")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	data, err := t.client.Query(ctx, `query ($boardId: [ID!]!) {
		boards(ids: $boardId) {
			groups {
				id title color position
			}
		}
	}`, map[string]any{"boardId": []string{boardID}})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Boards []monday.Board `json:"boards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding groups: %w", err)
	}
	if len(resp.Boards) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Board %s not found.", boardID)), nil
	}
	return jsonResult(resp.Boards[0].Groups)
}

// CreateGroupTool handles the monday_create_group MCP tool.
type CreateGroupTool struct {
	client monday.Querier
}

func NewCreateGroupTool(client monday.Querier) *CreateGroupTool {
	return &CreateGroupTool{client: client}
}

func (t *CreateGroupTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_create_group",
		mcp.WithDescription("Create a new group on a board."),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board ID to create the group on"),
		),
		mcp.WithString("group_name",
			mcp.Required(),
			mcp.Description("Name for the new group"),
		),
		mcp.WithString("position",
			mcp.Description("Position for the group: \"top\" to place at top, omit for default position"),
		),
	)
}

func (t *CreateGroupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := idArg(req, "board_id")
	groupName := req.GetString("group_name", "")
	if boardID == "" || groupName == "" {
		return mcp.NewToolResultError("'board_id' and 'group_name' are required"), nil
	}

	args := "board_id: $boardId, group_name: $groupName"
	if req.GetString("position", "") == "top" {
		args += ", position_relative_method: before_at"
	}

	data, err := t.client.Query(ctx, fmt.Sprintf(`mutation ($boardId: ID!, $groupName: String!) {
		create_group(%s) {
			id title color position
		}
	}`, args), map[string]any{"boardId": boardID, "groupName": groupName})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		CreateGroup monday.Group `json:"create_group"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_group: %w", err)
	}
	return jsonResult(resp.CreateGroup)
}

// MoveItemToGroupTool handles the monday_move_item_to_group MCP tool.
type MoveItemToGroupTool struct {
	client monday.Querier
}

func NewMoveItemToGroupTool(client monday.Querier) *MoveItemToGroupTool {
	return &MoveItemToGroupTool{client: client}
}

func (t *MoveItemToGroupTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_move_item_to_group",
		mcp.WithDescription("Move an item into a group on its board."),
		mcp.WithNumber("item_id",
			mcp.Required(),
			mcp.Description("Item ID to move"),
		),
		mcp.WithString("group_id",
			mcp.Required(),
			mcp.Description("Target group ID"),
		),
	)
}

func (t *MoveItemToGroupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID := idArg(req, "item_id")
	groupID := req.GetString("group_id", "")
	if itemID == "" || groupID == "" {
		return mcp.NewToolResultError("'item_id' and 'group_id' are required"), nil
	}

	data, err := t.client.Query(ctx, `mutation ($itemId: ID!, $groupId: String!) {
		move_item_to_group(item_id: $itemId, group_id: $groupId) {
			id name
			group { id title }
		}
	}`, map[string]any{"itemId": itemID, "groupId": groupID})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Moved monday.Item `json:"move_item_to_group"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding move_item_to_group: %w", err)
	}
	return jsonResult(resp.Moved)
}
