package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

// GetSubitemsTool handles the monday_get_subitems MCP tool.
type GetSubitemsTool struct {
	client monday.Querier
}

func NewGetSubitemsTool(client monday.Querier) *GetSubitemsTool {
	return &GetSubitemsTool{client: client}
}

func (t *GetSubitemsTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_get_subitems",
		mcp.WithDescription("Get all subitems of an item with their column values."),
		mcp.WithNumber("item_id",
			mcp.Required(),
			mcp.Description("Parent item ID to get subitems from"),
		),
	)
}

func (t *GetSubitemsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID := idArg(req, "item_id")
	if itemID == "" {
		return mcp.NewToolResultError("'item_id' is required"), nil
	}

	data, err := t.client.Query(ctx, `query ($itemId: [ID!]!) {
		items(ids: $itemId) {
			id name
			subitems {
				id name
				board { id name }
				group { id title }
				column_values { id type text value }
				created_at updated_at
			}
		}
	}`, map[string]any{"itemId": []string{itemID}})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Items []monday.Item `json:"items"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding subitems: %w", err)
	}
	if len(resp.Items) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Item %s not found.", itemID)), nil
	}

	item := resp.Items[0]
	return jsonResult(map[string]any{
		"parent_item": map[string]string{"id": item.ID, "name": item.Name},
		"subitems":    item.Subitems,
	})
}

// CreateSubitemTool handles the monday_create_subitem MCP tool.
type CreateSubitemTool struct {
	client monday.Querier
}

func NewCreateSubitemTool(client monday.Querier) *CreateSubitemTool {
	return &CreateSubitemTool{client: client}
}

func (t *CreateSubitemTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_create_subitem",
		mcp.WithDescription(
			"Create a subitem under a parent item. Subitems have their own "+
				"column schema independent of the parent board.",
		),
		mcp.WithNumber("parent_item_id",
			mcp.Required(),
			mcp.Description("Parent item ID to create the subitem under"),
		),
		mcp.WithString("item_name",
			mcp.Required(),
			mcp.Description("Name of the new subitem"),
		),
		mcp.WithObject("column_values",
			mcp.Description("Column values as { column_id: value } object"),
		),
		mcp.WithBoolean("create_labels_if_missing",
			mcp.Description("Auto-create status/dropdown labels if they don't exist"),
		),
	)
}

func (t *CreateSubitemTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parentID := idArg(req, "parent_item_id")
	itemName := req.GetString("item_name", "")
	if parentID == "" || itemName == "" {
		return mcp.NewToolResultError("'parent_item_id' and 'item_name' are required"), nil
	}

	args := "parent_item_id: $parentItemId, item_name: $itemName"
	varDefs := "$parentItemId: ID!, $itemName: String!"
	vars := map[string]any{"parentItemId": parentID, "itemName": itemName}

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
		create_subitem(%s) {
			id name
			board { id name }
			column_values { id type text value }
		}
	}`, varDefs, args), vars)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		CreateSubitem monday.Item `json:"create_subitem"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_subitem: %w", err)
	}
	return jsonResult(resp.CreateSubitem)
}

// UpdateSubitemColumnsTool handles the monday_update_subitem_columns MCP tool.
type UpdateSubitemColumnsTool struct {
	client monday.Querier
}

func NewUpdateSubitemColumnsTool(client monday.Querier) *UpdateSubitemColumnsTool {
	return &UpdateSubitemColumnsTool{client: client}
}

func (t *UpdateSubitemColumnsTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_update_subitem_columns",
		mcp.WithDescription(
			"Update column values on a subitem. Requires the subitems board ID, "+
				"not the parent board ID.",
		),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Subitems board ID (not the parent board ID)"),
		),
		mcp.WithNumber("item_id",
			mcp.Required(),
			mcp.Description("Subitem ID to update"),
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

func (t *UpdateSubitemColumnsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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
