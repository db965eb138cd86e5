// Package prompts implements MCP prompt handlers for common monday.com
// workflows.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// SetupTokenPrompt handles the monday-setup-token MCP prompt.
// It walks the user through creating and configuring an API token.
type SetupTokenPrompt struct{}

func NewSetupTokenPrompt() *SetupTokenPrompt {
	return &SetupTokenPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *SetupTokenPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("monday-setup-token",
		mcp.WithPromptDescription(
			"Set up your monday.com API token. Walks you through getting "+
				"a token from monday.com and configuring the server with it.",
		),
	)
}

// Handle processes the monday-setup-token prompt request.
func (p *SetupTokenPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Configure monday.com API access",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"I need to set up my monday.com API token.\n\n" +
						"Please:\n" +
						"1. Explain where to find the token: monday.com > avatar menu > Developers > My access tokens\n" +
						"2. Tell me to set it as the MONDAY_API_TOKEN environment variable, or under `token:` in the config file\n" +
						"3. Once I confirm it's set, run `monday_get_account_info` to verify the token works\n" +
						"4. Show me the account name and plan from the response so I know I'm connected to the right account",
				),
			},
		},
	}, nil
}

// QuickStartPrompt handles the monday-quick-start MCP prompt.
// It gives the AI a guided tour of the connected account.
type QuickStartPrompt struct{}

func NewQuickStartPrompt() *QuickStartPrompt {
	return &QuickStartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *QuickStartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("monday-quick-start",
		mcp.WithPromptDescription(
			"Take a quick tour of your monday.com account: who you are, "+
				"your workspaces, and your most active boards.",
		),
	)
}

// Handle processes the monday-quick-start prompt request.
func (p *QuickStartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "monday.com account tour",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Give me a quick tour of my monday.com account.\n\n" +
						"Please:\n" +
						"1. Run `monday_get_account_info` and introduce me by name\n" +
						"2. Run `monday_list_workspaces` and summarize my workspaces\n" +
						"3. Run `monday_list_boards` and show my boards grouped by workspace, with item counts\n" +
						"4. Suggest two or three things I could do next based on what you found",
				),
			},
		},
	}, nil
}

// SessionSettingsPrompt handles the monday-session-settings MCP prompt.
// It lets the user tune notification polling and session logging.
type SessionSettingsPrompt struct{}

func NewSessionSettingsPrompt() *SessionSettingsPrompt {
	return &SessionSettingsPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *SessionSettingsPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("monday-session-settings",
		mcp.WithPromptDescription(
			"Review and adjust this session's settings: update polling, "+
				"poll interval, and session logging.",
		),
		mcp.WithArgument("notifications",
			mcp.ArgumentDescription("'on' or 'off' to toggle update polling"),
		),
		mcp.WithArgument("interval_seconds",
			mcp.ArgumentDescription("Poll interval in seconds (minimum 10)"),
		),
	)
}

// Handle processes the monday-session-settings prompt request.
func (p *SessionSettingsPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	instructions := "Show me my current session settings.\n\n" +
		"Please:\n" +
		"1. Run `monday_configure_notifications` with no arguments to report polling status\n" +
		"2. Run `monday_session_history` with limit=5 to show my recent sessions\n" +
		"3. Ask whether I want to change anything"

	if args := req.Params.Arguments; args != nil {
		if toggle, ok := args["notifications"]; ok && toggle != "" {
			enabled := toggle == "on"
			interval := args["interval_seconds"]
			if interval == "" {
				interval = "60"
			}
			instructions = fmt.Sprintf(
				"Apply my session settings.\n\n"+
					"Please:\n"+
					"1. Run `monday_configure_notifications` with enabled=%v and interval_seconds=%s\n"+
					"2. Confirm the new polling status back to me",
				enabled, interval,
			)
		}
	}

	return &mcp.GetPromptResult{
		Description: "Session settings",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(instructions),
			},
		},
	}, nil
}
