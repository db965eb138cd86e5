package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

// CreateUpdateTool handles the monday_create_update MCP tool.
type CreateUpdateTool struct {
	client monday.Querier
}

func NewCreateUpdateTool(client monday.Querier) *CreateUpdateTool {
	return &CreateUpdateTool{client: client}
}

func (t *CreateUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_create_update",
		mcp.WithDescription("Post an update/comment on an item."),
		mcp.WithNumber("item_id",
			mcp.Required(),
			mcp.Description("The item ID to post an update/comment on"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("The update/comment text (supports HTML)"),
		),
	)
}

func (t *CreateUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID := idArg(req, "item_id")
	body := req.GetString("body", "")
	if itemID == "" || body == "" {
		return mcp.NewToolResultError("'item_id' and 'body' are required"), nil
	}

	data, err := t.client.Query(ctx, `mutation ($itemId: ID!, $body: String!) {
		create_update(item_id: $itemId, body: $body) {
			id
			body
			creator { id name }
			created_at
		}
	}`, map[string]any{"itemId": itemID, "body": body})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		CreateUpdate monday.Update `json:"create_update"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_update: %w", err)
	}
	return jsonResult(resp.CreateUpdate)
}

// GetUpdatesTool handles the monday_get_updates MCP tool.
type GetUpdatesTool struct {
	client monday.Querier
}

func NewGetUpdatesTool(client monday.Querier) *GetUpdatesTool {
	return &GetUpdatesTool{client: client}
}

func (t *GetUpdatesTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_get_updates",
		mcp.WithDescription("Get the updates/comments of an item, including replies."),
		mcp.WithNumber("item_id",
			mcp.Required(),
			mcp.Description("The item ID to get updates for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max updates to return (default 25)"),
		),
	)
}

func (t *GetUpdatesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID := idArg(req, "item_id")
	if itemID == "" {
		return mcp.NewToolResultError("'item_id' is required"), nil
	}
	limit := intArg(req, "limit", 25)

	data, err := t.client.Query(ctx, fmt.Sprintf(`query ($itemId: [ID!]!) {
		items(ids: $itemId) {
			updates(limit: %d) {
				id
				body
				creator { id name }
				created_at
				replies {
					id
					body
					creator { id name }
					created_at
				}
			}
		}
	}`, limit), map[string]any{"itemId": []string{itemID}})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Items []monday.Item `json:"items"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding updates: %w", err)
	}
	if len(resp.Items) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Item %s not found.", itemID)), nil
	}
	return jsonResult(resp.Items[0].Updates)
}

// ReplyToUpdateTool handles the monday_reply_to_update MCP tool.
type ReplyToUpdateTool struct {
	client monday.Querier
}

func NewReplyToUpdateTool(client monday.Querier) *ReplyToUpdateTool {
	return &ReplyToUpdateTool{client: client}
}

func (t *ReplyToUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_reply_to_update",
		mcp.WithDescription("Reply to an existing update."),
		mcp.WithNumber("update_id",
			mcp.Required(),
			mcp.Description("The update ID to reply to"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("The reply text (supports HTML)"),
		),
	)
}

func (t *ReplyToUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	updateID := idArg(req, "update_id")
	body := req.GetString("body", "")
	if updateID == "" || body == "" {
		return mcp.NewToolResultError("'update_id' and 'body' are required"), nil
	}

	data, err := t.client.Query(ctx, `mutation ($updateId: ID!, $body: String!) {
		create_update(parent_id: $updateId, body: $body) {
			id
			body
			creator { id name }
			created_at
		}
	}`, map[string]any{"updateId": updateID, "body": body})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		CreateUpdate monday.Update `json:"create_update"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_update: %w", err)
	}
	return jsonResult(resp.CreateUpdate)
}
