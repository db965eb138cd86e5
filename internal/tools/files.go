package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

// AddFileToColumnTool handles the monday_add_file_to_column MCP tool. It
// links a file by URL into a file column; direct uploads need multipart
// requests the GraphQL endpoint does not accept.
type AddFileToColumnTool struct {
	client monday.Querier
}

func NewAddFileToColumnTool(client monday.Querier) *AddFileToColumnTool {
	return &AddFileToColumnTool{client: client}
}

func (t *AddFileToColumnTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_add_file_to_column",
		mcp.WithDescription("Link a file by URL into an item's file column."),
		mcp.WithNumber("item_id",
			mcp.Required(),
			mcp.Description("Item ID that owns the file column"),
		),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board ID of the item"),
		),
		mcp.WithString("column_id",
			mcp.Required(),
			mcp.Description("File column ID"),
		),
		mcp.WithString("file_url",
			mcp.Required(),
			mcp.Description("Publicly reachable URL of the file"),
		),
	)
}

func (t *AddFileToColumnTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID := idArg(req, "item_id")
	boardID := idArg(req, "board_id")
	columnID := req.GetString("column_id", "")
	fileURL := req.GetString("file_url", "")
	if itemID == "" || boardID == "" || columnID == "" || fileURL == "" {
		return mcp.NewToolResultError("'item_id', 'board_id', 'column_id', and 'file_url' are required"), nil
	}

	value, err := json.Marshal(map[string]any{
		"files": []map[string]string{{"url": fileURL}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding file value: %w", err)
	}

	data, err := t.client.Query(ctx, `mutation ($itemId: ID!, $boardId: ID!, $columnId: String!, $value: JSON!) {
		change_column_value(item_id: $itemId, board_id: $boardId, column_id: $columnId, value: $value) {
			id name
		}
	}`, map[string]any{
		"itemId":   itemID,
		"boardId":  boardID,
		"columnId": columnID,
		"value":    string(value),
	})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Changed monday.Item `json:"change_column_value"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding change_column_value: %w", err)
	}
	return jsonResult(resp.Changed)
}
