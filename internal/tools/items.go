package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

// GetItemsTool handles the monday_get_items MCP tool.
type GetItemsTool struct {
	client monday.Querier
}

func NewGetItemsTool(client monday.Querier) *GetItemsTool {
	return &GetItemsTool{client: client}
}

func (t *GetItemsTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_get_items",
		mcp.WithDescription(
			"Get items from a board with their column values. Supports cursor "+
				"pagination, group filtering, and column value filtering.",
		),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board ID to get items from"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max items to return (default 50)"),
		),
		mcp.WithString("group_id",
			mcp.Description("Filter by group ID"),
		),
		mcp.WithString("column_id",
			mcp.Description("Filter by column ID (used with column_value)"),
		),
		mcp.WithString("column_value",
			mcp.Description("Filter by column value (used with column_id)"),
		),
		mcp.WithString("cursor",
			mcp.Description("Pagination cursor from a previous response"),
		),
	)
}

func (t *GetItemsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := intArg(req, "limit", 50)

	// A cursor continues a previous listing.
	if cursor := req.GetString("cursor", ""); cursor != "" {
		data, err := t.client.Query(ctx, fmt.Sprintf(`query ($cursor: String!) {
			next_items_page(cursor: $cursor, limit: %d) {
				cursor
				items {
					id name
					group { id title }
					column_values { id type text value }
					created_at updated_at
				}
			}
		}`, limit), map[string]any{"cursor": cursor})
		if err != nil {
			return apiError(err), nil
		}
		var resp struct {
			NextItemsPage monday.ItemsPage `json:"next_items_page"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("decoding next_items_page: %w", err)
		}
		return jsonResult(map[string]any{
			"items":  resp.NextItemsPage.Items,
			"cursor": resp.NextItemsPage.Cursor,
		})
	}

	boardID := idArg(req, "board_id")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	queryParams := ""
	if colID, colVal := req.GetString("column_id", ""), req.GetString("column_value", ""); colID != "" && colVal != "" {
		queryParams = fmt.Sprintf(`{ rules: [{ column_id: %q, compare_value: [%q] }] }`, colID, colVal)
	}

	if groupID := req.GetString("group_id", ""); groupID != "" {
		return t.handleGroupScoped(ctx, boardID, groupID, limit, queryParams)
	}

	pageReq := monday.ItemsPageRequest(boardID, "", limit, queryParams)
	data, err := t.client.Query(ctx, pageReq.Query, pageReq.Variables)
	if err != nil {
		return apiError(err), nil
	}
	page, err := monday.ExtractItemsPage(data, false)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"items": page.Items, "cursor": page.Cursor})
}

func (t *GetItemsTool) handleGroupScoped(ctx context.Context, boardID, groupID string, limit int, queryParams string) (*mcp.CallToolResult, error) {
	queryArg := ""
	if queryParams != "" {
		queryArg = ", query_params: " + queryParams
	}
	data, err := t.client.Query(ctx, fmt.Sprintf(`query ($boardId: [ID!]!) {
		boards(ids: $boardId) {
			groups(ids: [%q]) {
				id title
				items_page(limit: %d%s) {
					cursor
					items {
						id name
						group { id title }
						column_values { id type text value }
						created_at updated_at
					}
				}
			}
		}
	}`, groupID, limit, queryArg), map[string]any{"boardId": []string{boardID}})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Boards []struct {
			Groups []struct {
				ID        string           `json:"id"`
				Title     string           `json:"title"`
				ItemsPage monday.ItemsPage `json:"items_page"`
			} `json:"groups"`
		} `json:"boards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding group items: %w", err)
	}
	if len(resp.Boards) == 0 || len(resp.Boards[0].Groups) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Group %s not found on board %s.", groupID, boardID)), nil
	}

	group := resp.Boards[0].Groups[0]
	return jsonResult(map[string]any{
		"group":  map[string]string{"id": group.ID, "title": group.Title},
		"items":  group.ItemsPage.Items,
		"cursor": group.ItemsPage.Cursor,
	})
}

// CreateItemTool handles the monday_create_item MCP tool.
type CreateItemTool struct {
	client monday.Querier
}

func NewCreateItemTool(client monday.Querier) *CreateItemTool {
	return &CreateItemTool{client: client}
}

func (t *CreateItemTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_create_item",
		mcp.WithDescription(
			"Create a new item on a board, optionally in a specific group and "+
				"with initial column values.",
		),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board ID to create the item in"),
		),
		mcp.WithString("item_name",
			mcp.Required(),
			mcp.Description("Name of the new item"),
		),
		mcp.WithString("group_id",
			mcp.Description("Group ID to place the item in"),
		),
		mcp.WithObject("column_values",
			mcp.Description("Column values as { column_id: value } object"),
		),
		mcp.WithBoolean("create_labels_if_missing",
			mcp.Description("Auto-create status/dropdown labels if they don't exist"),
		),
	)
}

func (t *CreateItemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := idArg(req, "board_id")
	itemName := req.GetString("item_name", "")
	if boardID == "" || itemName == "" {
		return mcp.NewToolResultError("'board_id' and 'item_name' are required"), nil
	}

	args := "board_id: $boardId, item_name: $itemName"
	varDefs := "$boardId: ID!, $itemName: String!"
	vars := map[string]any{"boardId": boardID, "itemName": itemName}

	if groupID := req.GetString("group_id", ""); groupID != "" {
		args += ", group_id: $groupId"
		varDefs += ", $groupId: String"
		vars["groupId"] = groupID
	}
	if colVals := mapArg(req, "column_values"); len(colVals) > 0 {
		formatted, err := monday.FormatColumnValues(colVals)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid column_values: %v", err)), nil
		}
		args += ", column_values: $colVals"
		varDefs += ", $colVals: JSON"
		vars["colVals"] = formatted
	}
	if boolArg(req, "create_labels_if_missing", false) {
		args += ", create_labels_if_missing: true"
	}

	data, err := t.client.Query(ctx, fmt.Sprintf(`mutation (%s) {
		create_item(%s) {
			id name
			group { id title }
			column_values { id type text value }
		}
	}`, varDefs, args), vars)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		CreateItem monday.Item `json:"create_item"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_item: %w", err)
	}
	return jsonResult(resp.CreateItem)
}

// UpdateItemColumnsTool handles the monday_update_item_columns MCP tool.
type UpdateItemColumnsTool struct {
	client monday.Querier
}

func NewUpdateItemColumnsTool(client monday.Querier) *UpdateItemColumnsTool {
	return &UpdateItemColumnsTool{client: client}
}

func (t *UpdateItemColumnsTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_update_item_columns",
		mcp.WithDescription("Update one or more column values on an existing item."),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board ID containing the item"),
		),
		mcp.WithNumber("item_id",
			mcp.Required(),
			mcp.Description("Item ID to update"),
		),
		mcp.WithObject("column_values",
			mcp.Required(),
			mcp.Description("Column values to update as { column_id: value } object"),
		),
		mcp.WithBoolean("create_labels_if_missing",
			mcp.Description("Auto-create status/dropdown labels if they don't exist"),
		),
	)
}

func (t *UpdateItemColumnsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := idArg(req, "board_id")
	itemID := idArg(req, "item_id")
	colVals := mapArg(req, "column_values")
	if boardID == "" || itemID == "" || len(colVals) == 0 {
		return mcp.NewToolResultError("'board_id', 'item_id', and 'column_values' are required"), nil
	}

	formatted, err := monday.FormatColumnValues(colVals)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid column_values: %v", err)), nil
	}

	args := "board_id: $boardId, item_id: $itemId, column_values: $colVals"
	if boolArg(req, "create_labels_if_missing", false) {
		args += ", create_labels_if_missing: true"
	}

	data, err := t.client.Query(ctx, fmt.Sprintf(`mutation ($boardId: ID!, $itemId: ID!, $colVals: JSON!) {
		change_multiple_column_values(%s) {
			id name
			column_values { id type text value }
		}
	}`, args), map[string]any{"boardId": boardID, "itemId": itemID, "colVals": formatted})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Changed monday.Item `json:"change_multiple_column_values"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding change_multiple_column_values: %w", err)
	}
	return jsonResult(resp.Changed)
}

// MoveItemTool handles the monday_move_item MCP tool.
type MoveItemTool struct {
	client monday.Querier
}

func NewMoveItemTool(client monday.Querier) *MoveItemTool {
	return &MoveItemTool{client: client}
}

func (t *MoveItemTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_move_item",
		mcp.WithDescription("Move an item to a different group."),
		mcp.WithNumber("item_id",
			mcp.Required(),
			mcp.Description("Item ID to move"),
		),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Target board ID"),
		),
		mcp.WithString("group_id",
			mcp.Required(),
			mcp.Description("Target group ID"),
		),
	)
}

func (t *MoveItemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

// DeleteItemTool handles the monday_delete_item MCP tool.
type DeleteItemTool struct {
	client monday.Querier
}

func NewDeleteItemTool(client monday.Querier) *DeleteItemTool {
	return &DeleteItemTool{client: client}
}

func (t *DeleteItemTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_delete_item",
		mcp.WithDescription("Delete an item by ID. This cannot be undone."),
		mcp.WithNumber("item_id",
			mcp.Required(),
			mcp.Description("Item ID to delete"),
		),
	)
}

func (t *DeleteItemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID := idArg(req, "item_id")
	if itemID == "" {
		return mcp.NewToolResultError("'item_id' is required"), nil
	}

	data, err := t.client.Query(ctx, `mutation ($itemId: ID!) {
		delete_item(item_id: $itemId) { id }
	}`, map[string]any{"itemId": itemID})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		DeleteItem struct {
			ID string `json:"id"`
		} `json:"delete_item"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding delete_item: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Item %s deleted successfully.", resp.DeleteItem.ID)), nil
}
