package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/contacts"
)

// SyncContactsTool handles the monday_sync_contacts MCP tool.
type SyncContactsTool struct {
	sync *contacts.Sync
}

func NewSyncContactsTool(sync *contacts.Sync) *SyncContactsTool {
	return &SyncContactsTool{sync: sync}
}

func (t *SyncContactsTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_sync_contacts",
		mcp.WithDescription(
			"Sync the contact allowlist between the local config and its "+
				"monday.com board. 'to_board' pushes configured numbers onto "+
				"the board; 'from_board' rebuilds the config from the board's "+
				"Status column; 'status' just reports the configured counts.",
		),
		mcp.WithString("direction",
			mcp.Description("Sync direction (default: status)"),
			mcp.DefaultString("status"),
			mcp.Enum("to_board", "from_board", "status"),
		),
		mcp.WithString("add_number",
			mcp.Description("Add this phone number as a pending contact instead of syncing"),
		),
		mcp.WithString("add_name",
			mcp.Description("Contact name for add_number"),
		),
	)
}

func (t *SyncContactsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if number := req.GetString("add_number", ""); number != "" {
		if err := t.sync.AddIncoming(ctx, number, req.GetString("add_name", "")); err != nil {
			return apiError(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Added %s as a pending contact. Approve or block it on the allowlist board.", number)), nil
	}

	switch req.GetString("direction", "status") {
	case "to_board":
		result, err := t.sync.ToBoard(ctx)
		if err != nil {
			return apiError(err), nil
		}
		return jsonResult(result)
	case "from_board":
		result, err := t.sync.FromBoard(ctx)
		if err != nil {
			return apiError(err), nil
		}
		return jsonResult(result)
	default:
		allowed, blocked, pending, err := t.sync.Counts()
		if err != nil {
			return nil, fmt.Errorf("reading allowlist config: %w", err)
		}
		return jsonResult(map[string]int{
			"allowed": allowed,
			"blocked": blocked,
			"pending": pending,
		})
	}
}
