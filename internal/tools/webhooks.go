package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

type webhookRecord struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	Event   string `json:"event"`
	Config  string `json:"config,omitempty"`
}

// webhookEvents are the board events a webhook can subscribe to.
var webhookEvents = []string{
	"change_column_value",
	"change_status_column_value",
	"change_specific_column_value",
	"create_item",
	"delete_item",
	"create_update",
	"create_subitem",
	"change_subitem_column_value",
}

// ListWebhooksTool handles the monday_list_webhooks MCP tool.
type ListWebhooksTool struct {
	client monday.Querier
}

func NewListWebhooksTool(client monday.Querier) *ListWebhooksTool {
	return &ListWebhooksTool{client: client}
}

func (t *ListWebhooksTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_list_webhooks",
		mcp.WithDescription("List the webhooks registered on a board."),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board ID to list webhooks for"),
		),
	)
}

func (t *ListWebhooksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := idArg(req, "board_id")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	data, err := t.client.Query(ctx, `query ($boardId: ID!) {
		webhooks(board_id: $boardId) {
			id board_id event config
		}
	}`, map[string]any{"boardId": boardID})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Webhooks []webhookRecord `json:"webhooks"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding webhooks: %w", err)
	}
	return jsonResult(resp.Webhooks)
}

// CreateWebhookTool handles the monday_create_webhook MCP tool.
type CreateWebhookTool struct {
	client monday.Querier
}

func NewCreateWebhookTool(client monday.Querier) *CreateWebhookTool {
	return &CreateWebhookTool{client: client}
}

func (t *CreateWebhookTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_create_webhook",
		mcp.WithDescription(
			"Register a webhook on a board. The target URL must respond to "+
				"monday.com's challenge request.",
		),
		mcp.WithNumber("board_id",
			mcp.Required(),
			mcp.Description("Board ID to attach the webhook to"),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL monday.com will POST events to"),
		),
		mcp.WithString("event",
			mcp.Required(),
			mcp.Description("The board event to subscribe to"),
			mcp.Enum(webhookEvents...),
		),
		mcp.WithObject("config",
			mcp.Description("Event config, e.g. {\"columnId\": \"status\"} for change_specific_column_value"),
		),
	)
}

func (t *CreateWebhookTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := idArg(req, "board_id")
	url := req.GetString("url", "")
	event := req.GetString("event", "")
	if boardID == "" || url == "" || event == "" {
		return mcp.NewToolResultError("'board_id', 'url', and 'event' are required"), nil
	}
	if !validWebhookEvent(event) {
		return mcp.NewToolResultError(fmt.Sprintf("unknown webhook event %q", event)), nil
	}

	varDefs := "$boardId: ID!, $url: String!"
	args := fmt.Sprintf("board_id: $boardId, url: $url, event: %s", event)
	vars := map[string]any{"boardId": boardID, "url": url}

	if config := mapArg(req, "config"); len(config) > 0 {
		raw, err := json.Marshal(config)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid config: %v", err)), nil
		}
		varDefs += ", $config: JSON"
		args += ", config: $config"
		vars["config"] = string(raw)
	}

	data, err := t.client.Query(ctx, fmt.Sprintf(`mutation (%s) {
		create_webhook(%s) {
			id board_id event config
		}
	}`, varDefs, args), vars)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		CreateWebhook webhookRecord `json:"create_webhook"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_webhook: %w", err)
	}
	return jsonResult(resp.CreateWebhook)
}

func validWebhookEvent(event string) bool {
	for _, e := range webhookEvents {
		if e == event {
			return true
		}
	}
	return false
}
