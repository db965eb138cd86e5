package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/sessions"
)

var sessionTypes = []string{"coding", "writing", "analysis", "chat", "planning", "debugging"}

// LogSessionTool handles the monday_log_session MCP tool.
type LogSessionTool struct {
	logger *sessions.Logger
}

func NewLogSessionTool(logger *sessions.Logger) *LogSessionTool {
	return &LogSessionTool{logger: logger}
}

func (t *LogSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_log_session",
		mcp.WithDescription(
			"Log this AI session to the analytics board. The board is "+
				"created on first use.",
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("One-line summary of what the session accomplished"),
		),
		mcp.WithString("session_type",
			mcp.Description("Kind of work done (default: chat)"),
			mcp.DefaultString("chat"),
			mcp.Enum(sessionTypes...),
		),
		mcp.WithNumber("message_count",
			mcp.Description("Number of messages exchanged"),
		),
		mcp.WithNumber("duration_minutes",
			mcp.Description("How long the session ran, in minutes"),
		),
		mcp.WithNumber("productivity",
			mcp.Description("Self-assessed productivity, 1-5"),
		),
		mcp.WithNumber("cost_estimate",
			mcp.Description("Estimated session cost in USD"),
		),
		mcp.WithString("session_id",
			mcp.Description("Host session identifier, used for the session link"),
		),
	)
}

func (t *LogSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary := req.GetString("summary", "")
	if summary == "" {
		return mcp.NewToolResultError("'summary' is required"), nil
	}

	now := time.Now()
	duration := time.Duration(intArg(req, "duration_minutes", 0)) * time.Minute

	cost, _ := req.GetArguments()["cost_estimate"].(float64)
	rec := sessions.Record{
		SessionID:    req.GetString("session_id", ""),
		StartTime:    now.Add(-duration),
		EndTime:      now,
		MessageCount: intArg(req, "message_count", 0),
		SessionType:  req.GetString("session_type", "chat"),
		CostEstimate: cost,
		Productivity: intArg(req, "productivity", 3),
		Summary:      summary,
	}

	result, err := t.logger.LogSession(ctx, rec)
	if err != nil {
		return apiError(err), nil
	}
	return jsonResult(result)
}

// SessionHistoryTool handles the monday_session_history MCP tool. It reads
// the local ledger, so it works even when the analytics board is gone.
type SessionHistoryTool struct {
	store *sessions.Store
}

func NewSessionHistoryTool(store *sessions.Store) *SessionHistoryTool {
	return &SessionHistoryTool{store: store}
}

func (t *SessionHistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_session_history",
		mcp.WithDescription("Show previously logged sessions from the local ledger, with totals."),
		mcp.WithNumber("limit",
			mcp.Description("Max sessions to return (default 10)"),
		),
		mcp.WithString("session_type",
			mcp.Description("Filter by session type"),
			mcp.Enum(sessionTypes...),
		),
	)
}

func (t *SessionHistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := t.store.Recent(req.GetString("session_type", ""), intArg(req, "limit", 10))
	if err != nil {
		return nil, fmt.Errorf("reading session ledger: %w", err)
	}
	stats, err := t.store.Stats()
	if err != nil {
		return nil, fmt.Errorf("aggregating session ledger: %w", err)
	}

	return jsonResult(map[string]any{
		"sessions": entries,
		"stats":    stats,
	})
}
