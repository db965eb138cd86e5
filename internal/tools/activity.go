package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

type activityLogEntry struct {
	ID        string `json:"id"`
	Event     string `json:"event"`
	Data      string `json:"data"`
	Entity    string `json:"entity"`
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at"`
}

// GetActivityLogTool handles the monday_get_activity_log MCP tool.
type GetActivityLogTool struct {
	client monday.Querier
}

func NewGetActivityLogTool(client monday.Querier) *GetActivityLogTool {
	return &GetActivityLogTool{client: client}
}

func (t *GetActivityLogTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_get_activity_log",
		mcp.WithDescription("Get a board's activity log (who changed what, and when)."),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board ID to read the activity log of"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max log entries to return (default 25)"),
		),
		mcp.WithString("from",
			mcp.Description("Only events after this ISO8601 timestamp"),
		),
		mcp.WithString("to",
			mcp.Description("Only events before this ISO8601 timestamp"),
		),
		mcp.WithArray("user_ids",
			mcp.Description("Only events by these users"),
		),
		mcp.WithArray("item_ids",
			mcp.Description("Only events on these items"),
		),
	)
}

func (t *GetActivityLogTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := idArg(req, "board_id")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}
	limit := intArg(req, "limit", 25)

	varDefs := "$boardId: [ID!]!"
	args := fmt.Sprintf("limit: %d", limit)
	vars := map[string]any{"boardId": []string{boardID}}

	if from := req.GetString("from", ""); from != "" {
		args += fmt.Sprintf(", from: %q", from)
	}
	if to := req.GetString("to", ""); to != "" {
		args += fmt.Sprintf(", to: %q", to)
	}
	if userIDs := idSliceArg(req, "user_ids"); len(userIDs) > 0 {
		varDefs += ", $userIds: [ID!]"
		args += ", user_ids: $userIds"
		vars["userIds"] = userIDs
	}
	if itemIDs := idSliceArg(req, "item_ids"); len(itemIDs) > 0 {
		varDefs += ", $itemIds: [ID!]"
		args += ", item_ids: $itemIds"
		vars["itemIds"] = itemIDs
	}

	data, err := t.client.Query(ctx, fmt.Sprintf(`query (%s) {
		boards(ids: $boardId) {
			activity_logs(%s) {
				id event data entity user_id created_at
			}
		}
	}`, varDefs, args), vars)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Boards []struct {
			ActivityLogs []activityLogEntry `json:"activity_logs"`
		} `json:"boards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding activity log: %w", err)
	}
	if len(resp.Boards) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Board %s not found.", boardID)), nil
	}
	return jsonResult(resp.Boards[0].ActivityLogs)
}
