package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// CreateBoardPrompt handles the monday-create-board MCP prompt.
// It guides the AI through an interactive board build-out.
type CreateBoardPrompt struct{}

func NewCreateBoardPrompt() *CreateBoardPrompt {
	return &CreateBoardPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *CreateBoardPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("monday-create-board",
		mcp.WithPromptDescription(
			"Create a new board interactively: name, columns, groups, and "+
				"a few starter items.",
		),
		mcp.WithArgument("board_name",
			mcp.ArgumentDescription("Name for the new board"),
		),
		mcp.WithArgument("purpose",
			mcp.ArgumentDescription("What the board will track (helps pick columns)"),
		),
	)
}

// Handle processes the monday-create-board prompt request.
func (p *CreateBoardPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	boardName := ""
	purpose := ""
	if args := req.Params.Arguments; args != nil {
		boardName = args["board_name"]
		purpose = args["purpose"]
	}

	intro := "I want to create a new monday.com board."
	if boardName != "" {
		intro = fmt.Sprintf("I want to create a new monday.com board called '%s'.", boardName)
	}
	if purpose != "" {
		intro += fmt.Sprintf(" It will track: %s.", purpose)
	}

	return &mcp.GetPromptResult{
		Description: "Create a board interactively",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(intro + "\n\n" +
					"Please:\n" +
					"1. If I haven't named the board or said what it's for, ask me\n" +
					"2. Run `monday_list_workspaces` and ask which workspace it belongs in\n" +
					"3. Propose a column set that fits the purpose (status, owner, dates, etc.) and confirm it with me\n" +
					"4. Run `monday_create_board`, then `monday_create_column` for each agreed column\n" +
					"5. Run `monday_create_group` for the groups we agree on\n" +
					"6. Offer to add a few starter items with `monday_create_item`\n" +
					"7. Finish with a link-friendly summary of what was built",
				),
			},
		},
	}, nil
}
