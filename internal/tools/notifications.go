package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/forwarder"
	"github.com/openclaw/monday-mcp/internal/monday"
)

const minPollInterval = 10 * time.Second

// GetNotificationsTool handles the monday_get_notifications MCP tool. It
// reads the recent updates feed directly; the background poller's status is
// attached so the caller can tell whether dedup is running.
type GetNotificationsTool struct {
	client monday.Querier
	fwd    *forwarder.Forwarder
}

func NewGetNotificationsTool(client monday.Querier, fwd *forwarder.Forwarder) *GetNotificationsTool {
	return &GetNotificationsTool{client: client, fwd: fwd}
}

func (t *GetNotificationsTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_get_notifications",
		mcp.WithDescription("Get recent updates across the account, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Max updates to return (default 25)"),
		),
	)
}

func (t *GetNotificationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := intArg(req, "limit", 25)

	data, err := t.client.Query(ctx, fmt.Sprintf(`query {
		updates(limit: %d) {
			id
			text_body
			created_at
			creator { id name }
			item_id
			replies {
				id
				text_body
				creator { name }
				created_at
			}
		}
	}`, limit), nil)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Updates []monday.Update `json:"updates"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding updates: %w", err)
	}

	return jsonResult(map[string]any{
		"updates":        resp.Updates,
		"polling_active": t.fwd.IsPolling(),
		"seen_count":     t.fwd.SeenCount(),
	})
}

// GetNotificationStatsTool handles the monday_get_notification_stats MCP
// tool, summarizing the recent update feed by author kind and reply volume.
type GetNotificationStatsTool struct {
	client monday.Querier
}

func NewGetNotificationStatsTool(client monday.Querier) *GetNotificationStatsTool {
	return &GetNotificationStatsTool{client: client}
}

func (t *GetNotificationStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_get_notification_stats",
		mcp.WithDescription("Summarize recent update activity: totals, replies, automation vs user authorship."),
	)
}

func (t *GetNotificationStatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := t.client.Query(ctx, `query {
		updates(limit: 50) {
			id
			creator_id
			created_at
			replies { id }
		}
	}`, nil)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Updates []monday.Update `json:"updates"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding updates: %w", err)
	}

	stats := struct {
		Total       int    `json:"total"`
		WithReplies int    `json:"with_replies"`
		BySystem    int    `json:"by_system"`
		ByUsers     int    `json:"by_users"`
		Oldest      string `json:"oldest,omitempty"`
		Newest      string `json:"newest,omitempty"`
	}{Total: len(resp.Updates)}

	for _, u := range resp.Updates {
		if len(u.Replies) > 0 {
			stats.WithReplies++
		}
		// Automations and integrations post with negative creator IDs.
		if len(u.CreatorID) > 0 && u.CreatorID[0] == '-' {
			stats.BySystem++
		} else {
			stats.ByUsers++
		}
		if stats.Oldest == "" || u.CreatedAt < stats.Oldest {
			stats.Oldest = u.CreatedAt
		}
		if u.CreatedAt > stats.Newest {
			stats.Newest = u.CreatedAt
		}
	}

	return jsonResult(stats)
}

// ConfigureNotificationsTool handles the monday_configure_notifications MCP
// tool, starting or stopping the background update poller at runtime. The
// poller outlives individual tool calls, so it is started on the base
// context supplied at construction, not the request context.
type ConfigureNotificationsTool struct {
	fwd     *forwarder.Forwarder
	baseCtx context.Context
}

func NewConfigureNotificationsTool(fwd *forwarder.Forwarder, baseCtx context.Context) *ConfigureNotificationsTool {
	return &ConfigureNotificationsTool{fwd: fwd, baseCtx: baseCtx}
}

func (t *ConfigureNotificationsTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_configure_notifications",
		mcp.WithDescription(
			"Enable, disable, or inspect background update polling. With no "+
				"arguments, reports the current status.",
		),
		mcp.WithBoolean("enabled",
			mcp.Description("true to start polling, false to stop it"),
		),
		mcp.WithNumber("interval_seconds",
			mcp.Description("Poll interval in seconds (minimum 10, default 60)"),
		),
	)
}

func (t *ConfigureNotificationsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	enabled, ok := req.GetArguments()["enabled"].(bool)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Polling active: %v, tracked updates: %d. Pass enabled=true/false to change.",
			t.fwd.IsPolling(), t.fwd.SeenCount())), nil
	}

	if !enabled {
		t.fwd.Stop()
		return mcp.NewToolResultText("Update polling stopped."), nil
	}

	interval := time.Duration(intArg(req, "interval_seconds", 60)) * time.Second
	if interval < minPollInterval {
		interval = minPollInterval
	}

	// Restart to apply the new interval when already running.
	if t.fwd.IsPolling() {
		t.fwd.Stop()
	}
	if err := t.fwd.Start(t.baseCtx, interval); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not start polling: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Update polling started (every %s).", interval)), nil
}
