// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the monday.com client, the
// update forwarder, and the session/contact subsystems, and injects them
// into the tools and prompts that depend on them. No business logic lives
// here, only wiring.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/openclaw/monday-mcp/internal/config"
	"github.com/openclaw/monday-mcp/internal/contacts"
	"github.com/openclaw/monday-mcp/internal/forwarder"
	"github.com/openclaw/monday-mcp/internal/monday"
	"github.com/openclaw/monday-mcp/internal/prompts"
	"github.com/openclaw/monday-mcp/internal/sessions"
	"github.com/openclaw/monday-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools and prompts
// registered. ctx is the lifetime of background work (update polling);
// cancel it on shutdown.
//
// The returned cleanup function stops the forwarder and closes the
// session ledger. It is always non-nil and safe to call even if a
// subsystem failed to initialize.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*server.MCPServer, func(), error) {
	client := monday.New(monday.Config{
		Token:              cfg.Token,
		APIURL:             cfg.APIURL,
		APIVersion:         cfg.APIVersion,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		MaxRetries:         cfg.MaxRetries,
		Logger:             log.With().Str("component", "monday").Logger(),
	})

	// Startup token probe. An API rejection means the token is bad and
	// every later call would fail the same way, so fail fast; transient
	// errors only get a warning.
	var apiErr *monday.APIError
	switch me, err := client.Me(ctx); {
	case err == nil:
		log.Info().Str("user", me.Name).Str("user_id", me.ID).Msg("authenticated with monday.com")
	case errors.As(err, &apiErr):
		return nil, func() {}, fmt.Errorf("validating API token: %w", err)
	default:
		log.Warn().Err(err).Msg("could not verify API token")
	}

	s := server.NewMCPServer(
		"monday-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Boards, groups, columns ---

	registerTools(s,
		tools.NewListBoardsTool(client),
		tools.NewGetBoardTool(client),
		tools.NewCreateBoardTool(client),
		tools.NewDeleteBoardTool(client),
		tools.NewListGroupsTool(client),
		tools.NewCreateGroupTool(client),
		tools.NewMoveItemToGroupTool(client),
		tools.NewCreateColumnTool(client),
		tools.NewGetColumnValuesTool(client),
	)

	// --- Items and subitems ---

	registerTools(s,
		tools.NewGetItemsTool(client),
		tools.NewCreateItemTool(client),
		tools.NewUpdateItemColumnsTool(client),
		tools.NewMoveItemTool(client),
		tools.NewDeleteItemTool(client),
		tools.NewGetSubitemsTool(client),
		tools.NewCreateSubitemTool(client),
		tools.NewUpdateSubitemColumnsTool(client),
	)

	// --- Updates, docs, files ---

	registerTools(s,
		tools.NewCreateUpdateTool(client),
		tools.NewGetUpdatesTool(client),
		tools.NewReplyToUpdateTool(client),
		tools.NewListDocsTool(client),
		tools.NewCreateDocTool(client),
		tools.NewReadDocTool(client),
		tools.NewAddFileToColumnTool(client),
	)

	// --- Workspaces, users, account ---

	registerTools(s,
		tools.NewListWorkspacesTool(client),
		tools.NewCreateWorkspaceTool(client),
		tools.NewListUsersTool(client),
		tools.NewGetAccountInfoTool(client),
	)

	// --- Search, activity, webhooks, advanced ---

	registerTools(s,
		tools.NewSearchTool(client),
		tools.NewGetActivityLogTool(client),
		tools.NewListWebhooksTool(client),
		tools.NewCreateWebhookTool(client),
		tools.NewRawGraphQLTool(client),
		tools.NewGetSchemaTool(client),
	)

	// --- Update forwarding ---

	fwd := forwarder.New(
		client,
		cfg.Notifications.StatePath,
		cfg.Notifications.FetchLimit,
		log.With().Str("component", "forwarder").Logger(),
	)
	fwd.OnUpdate(func(u forwarder.EnrichedUpdate) {
		log.Info().
			Str("update_id", u.ID).
			Str("title", u.Title).
			Str("triggered_by", u.TriggeredBy).
			Str("item_url", u.ItemURL).
			Msg("new monday.com update")
	})

	registerTools(s,
		tools.NewGetNotificationsTool(client, fwd),
		tools.NewGetNotificationStatsTool(client),
		tools.NewConfigureNotificationsTool(fwd, ctx),
	)

	if cfg.Notifications.Enabled {
		interval := time.Duration(cfg.Notifications.IntervalSeconds) * time.Second
		if err := fwd.Start(ctx, interval); err != nil {
			log.Warn().Err(err).Msg("could not start update polling")
		}
	}

	// --- Session logging ---
	//
	// The local ledger is an independent subsystem: if sqlite fails to
	// open, board logging still works and only history is unavailable.

	cleanup := func() { fwd.Stop() }
	ledger, ledgerErr := sessions.NewStore(cfg.Sessions.DataDir)
	if ledgerErr != nil {
		log.Warn().Err(ledgerErr).Msg("session ledger disabled")
		ledger = nil
	} else {
		prev := cleanup
		cleanup = func() {
			prev()
			if err := ledger.Close(); err != nil {
				log.Warn().Err(err).Msg("closing session ledger")
			}
		}
	}

	sessionLogger := sessions.NewLogger(client, ledger, log.With().Str("component", "sessions").Logger())
	registerTools(s, tools.NewLogSessionTool(sessionLogger))
	if ledger != nil {
		registerTools(s, tools.NewSessionHistoryTool(ledger))
	}

	// --- Contact allowlist sync ---

	contactSync := contacts.NewSync(client, cfg.Contacts.ConfigPath, log.With().Str("component", "contacts").Logger())
	registerTools(s, tools.NewSyncContactsTool(contactSync))

	// --- Prompts ---

	registerPrompts(s,
		prompts.NewSetupTokenPrompt(),
		prompts.NewQuickStartPrompt(),
		prompts.NewCreateBoardPrompt(),
		prompts.NewSetupProjectPrompt(),
		prompts.NewSetupSprintPrompt(),
		prompts.NewSetupCRMPrompt(),
		prompts.NewSessionSettingsPrompt(),
	)

	return s, cleanup, nil
}

type tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type prompt interface {
	Definition() mcp.Prompt
	Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error)
}

func registerTools(s *server.MCPServer, ts ...tool) {
	for _, t := range ts {
		s.AddTool(t.Definition(), t.Handle)
	}
}

func registerPrompts(s *server.MCPServer, ps ...prompt) {
	for _, p := range ps {
		s.AddPrompt(p.Definition(), p.Handle)
	}
}

// serverInstructions returns the system instructions that tell the AI how
// to work with the monday.com tools effectively.
func serverInstructions() string {
	return `You have access to a monday.com MCP server.

## CORE CONCEPTS
- A BOARD holds ITEMS (rows) organized into GROUPS (sections).
- Each board has COLUMNS (status, people, date, numbers, ...); an item's
  cell values are COLUMN VALUES.
- UPDATES are threaded comments on items. SUBITEMS are child items.
- All IDs are strings. Column values are set via JSON keyed by column ID.

## WORKING EFFECTIVELY
1. Start with monday_list_boards or monday_get_board to discover column
   IDs and group IDs before creating or updating items.
2. Column value formats vary by type. Examples:
   - status: {"label": "Done"} or {"index": 1}
   - date: {"date": "2025-06-01"}
   - people: {"personsAndTeams": [{"id": 12345, "kind": "person"}]}
   - timeline: {"from": "2025-06-01", "to": "2025-06-15"}
   - checkbox: {"checked": "true"}
   Use monday_get_column_values to inspect a column's settings (e.g. the
   available status labels) when unsure.
3. monday_get_items returns a cursor when more items exist — pass it back
   to continue paging.
4. For API surface without a dedicated tool, use monday_raw_graphql, and
   monday_get_schema to discover types and fields first.

## RATE LIMITS
Requests are rate limited client-side and retried on monday.com
throttling, so bursts of tool calls are safe but may be slow. Prefer
fewer, larger queries (e.g. one monday_get_items call with a filter over
many monday_get_column_values calls).

## NOTIFICATIONS
Background polling surfaces new updates from your boards. Use
monday_configure_notifications to turn it on or off, and
monday_get_notifications to read the recent feed on demand.

## SESSION LOGGING
When the user finishes a substantial piece of work, offer to log the
session with monday_log_session. Past sessions are available via
monday_session_history.`
}
