package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

// CreateColumnTool handles the monday_create_column MCP tool.
type CreateColumnTool struct {
	client monday.Querier
}

func NewCreateColumnTool(client monday.Querier) *CreateColumnTool {
	return &CreateColumnTool{client: client}
}

func (t *CreateColumnTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_create_column",
		mcp.WithDescription(
			"Create a new column on a board. Common types: status, text, "+
				"numbers, date, people, timeline, dropdown, checkbox, rating, "+
				"link, email, phone, long_text.",
		),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board ID to create the column on"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title for the new column"),
		),
		mcp.WithString("column_type",
			mcp.Required(),
			mcp.Description("Column type (e.g. \"status\", \"text\", \"numbers\", \"date\")"),
		),
		mcp.WithString("description",
			mcp.Description("Column description"),
		),
		mcp.WithObject("defaults",
			mcp.Description("Default values/labels for the column (e.g. status labels)"),
		),
	)
}

func (t *CreateColumnTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := idArg(req, "board_id")
	title := req.GetString("title", "")
	columnType := req.GetString("column_type", "")
	if boardID == "" || title == "" || columnType == "" {
		return mcp.NewToolResultError("'board_id', 'title', and 'column_type' are required"), nil
	}

	varDefs := "$boardId: ID!, $title: String!, $columnType: ColumnType!"
	args := "board_id: $boardId, title: $title, column_type: $columnType"
	vars := map[string]any{"boardId": boardID, "title": title, "columnType": columnType}

	if desc := req.GetString("description", ""); desc != "" {
		varDefs += ", $description: String"
		args += ", description: $description"
		vars["description"] = desc
	}
	if defaults := mapArg(req, "defaults"); len(defaults) > 0 {
		raw, err := json.Marshal(defaults)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid defaults: %v", err)), nil
		}
		varDefs += ", $defaults: JSON"
		args += ", defaults: $defaults"
		vars["defaults"] = string(raw)
	}

	data, err := t.client.Query(ctx, fmt.Sprintf(`mutation (%s) {
		create_column(%s) {
			id title type description settings_str
		}
	}`, varDefs, args), vars)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		CreateColumn monday.Column `json:"create_column"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_column: %w", err)
	}
	return jsonResult(resp.CreateColumn)
}

// GetColumnValuesTool handles the monday_get_column_values MCP tool.
type GetColumnValuesTool struct {
	client monday.Querier
}

func NewGetColumnValuesTool(client monday.Querier) *GetColumnValuesTool {
	return &GetColumnValuesTool{client: client}
}

func (t *GetColumnValuesTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_get_column_values",
		mcp.WithDescription(
			"Get all column values of an item, including each column's "+
				"settings (e.g. available status labels).",
		),
		mcp.WithNumber("item_id",
			mcp.Required(),
			mcp.Description("Item ID to retrieve column values for"),
		),
	)
}

func (t *GetColumnValuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID := idArg(req, "item_id")
	if itemID == "" {
		return mcp.NewToolResultError("'item_id' is required"), nil
	}

	data, err := t.client.Query(ctx, `query ($itemId: [ID!]!) {
		items(ids: $itemId) {
			id name
			column_values {
				id
				type
				text
				value
				column { settings_str }
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
		return nil, fmt.Errorf("decoding column values: %w", err)
	}
	if len(resp.Items) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Item %s not found.", itemID)), nil
	}
	item := resp.Items[0]

	// Flatten column settings into each value for convenience.
	type flatValue struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		Text        string `json:"text"`
		Value       string `json:"value"`
		SettingsStr string `json:"settings_str,omitempty"`
	}
	values := make([]flatValue, 0, len(item.ColumnValues))
	for _, cv := range item.ColumnValues {
		fv := flatValue{ID: cv.ID, Type: cv.Type, Text: cv.Text, Value: cv.Value}
		if cv.Column != nil {
			fv.SettingsStr = cv.Column.Settings
		}
		values = append(values, fv)
	}

	return jsonResult(map[string]any{
		"item_id":       item.ID,
		"item_name":     item.Name,
		"column_values": values,
	})
}
