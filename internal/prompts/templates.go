package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// templatePrompt is the shared implementation behind the board-template
// prompts (project, sprint, CRM). Each variant differs only in its name,
// description, and the build instructions it emits.
type templatePrompt struct {
	name        string
	description string
	summary     string
	steps       string
}

func (p *templatePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt(p.name,
		mcp.WithPromptDescription(p.description),
		mcp.WithArgument("name",
			mcp.ArgumentDescription("Name for the new board"),
		),
		mcp.WithArgument("workspace_id",
			mcp.ArgumentDescription("Workspace to create the board in"),
		),
	)
}

func (p *templatePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := ""
	workspace := ""
	if args := req.Params.Arguments; args != nil {
		name = args["name"]
		workspace = args["workspace_id"]
	}

	intro := p.summary
	if name != "" {
		intro += fmt.Sprintf(" Name it '%s'.", name)
	}
	if workspace != "" {
		intro += fmt.Sprintf(" Create it in workspace %s.", workspace)
	} else {
		intro += " Ask me which workspace to use (run `monday_list_workspaces` to show options)."
	}

	return &mcp.GetPromptResult{
		Description: p.description,
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(intro + "\n\n" + p.steps),
			},
		},
	}, nil
}

// SetupProjectPrompt handles the monday-setup-project MCP prompt.
type SetupProjectPrompt struct{ templatePrompt }

func NewSetupProjectPrompt() *SetupProjectPrompt {
	return &SetupProjectPrompt{templatePrompt{
		name:        "monday-setup-project",
		description: "Create a project tracking board with phases, owners, timelines, and status columns.",
		summary:     "Set up a project tracking board for me.",
		steps: "Please:\n" +
			"1. Run `monday_create_board` with the agreed name\n" +
			"2. Create columns with `monday_create_column`: status (Not Started / In Progress / Blocked / Done), people (Owner), timeline, date (Deadline), and priority via a status column (Low / Medium / High / Critical)\n" +
			"3. Create groups with `monday_create_group`: Planning, In Progress, Review, Completed\n" +
			"4. Ask me for the first few tasks and add them with `monday_create_item`, setting owner and status\n" +
			"5. Summarize the board structure when done",
	}}
}

// SetupSprintPrompt handles the monday-setup-sprint MCP prompt.
type SetupSprintPrompt struct{ templatePrompt }

func NewSetupSprintPrompt() *SetupSprintPrompt {
	return &SetupSprintPrompt{templatePrompt{
		name:        "monday-setup-sprint",
		description: "Create a sprint board with story points, epics, and a standard agile workflow.",
		summary:     "Set up an agile sprint board for me.",
		steps: "Please:\n" +
			"1. Ask me for the sprint length and start date\n" +
			"2. Run `monday_create_board` with the agreed name\n" +
			"3. Create columns with `monday_create_column`: status (Backlog / To Do / In Progress / In Review / Done), people (Assignee), numbers (Story Points), dropdown (Epic), and date (Due)\n" +
			"4. Create groups with `monday_create_group`: Sprint Backlog, Current Sprint, Done\n" +
			"5. Ask me for the initial backlog and add the stories with `monday_create_item` with their points\n" +
			"6. Finish by totaling the committed story points",
	}}
}

// SetupCRMPrompt handles the monday-setup-crm MCP prompt.
type SetupCRMPrompt struct{ templatePrompt }

func NewSetupCRMPrompt() *SetupCRMPrompt {
	return &SetupCRMPrompt{templatePrompt{
		name:        "monday-setup-crm",
		description: "Create a CRM pipeline board with deal stages, values, and contact details.",
		summary:     "Set up a CRM pipeline board for me.",
		steps: "Please:\n" +
			"1. Run `monday_create_board` with the agreed name\n" +
			"2. Create columns with `monday_create_column`: status as Deal Stage (Lead / Contacted / Demo / Proposal / Negotiation / Won / Lost), people (Owner), numbers (Deal Value), email (Contact Email), phone (Contact Phone), date (Next Follow-up), and long_text (Notes)\n" +
			"3. Create groups with `monday_create_group`: Active Deals, Won, Lost\n" +
			"4. Ask me for my current deals and add them with `monday_create_item`, setting stage and value\n" +
			"5. Finish with a pipeline summary: deal count and total value per stage",
	}}
}
