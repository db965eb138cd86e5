package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

// doc is the workdoc shape shared by the doc tools.
type doc struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	CreatedAt string            `json:"created_at,omitempty"`
	CreatedBy *monday.User      `json:"created_by,omitempty"`
	Workspace *monday.Workspace `json:"workspace,omitempty"`
	Blocks    []docBlock        `json:"blocks,omitempty"`
}

type docBlock struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ListDocsTool handles the monday_list_docs MCP tool.
type ListDocsTool struct {
	client monday.Querier
}

func NewListDocsTool(client monday.Querier) *ListDocsTool {
	return &ListDocsTool{client: client}
}

func (t *ListDocsTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_list_docs",
		mcp.WithDescription("List monday.com workdocs, optionally filtered by workspace."),
		mcp.WithNumber("workspace_id",
			mcp.Description("Filter by workspace ID"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max docs to return (default 25)"),
		),
	)
}

func (t *ListDocsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := intArg(req, "limit", 25)

	const fields = `id
		title
		created_at
		created_by { id name }
		workspace { id name }`

	var (
		query string
		vars  map[string]any
	)
	if wsID := idArg(req, "workspace_id"); wsID != "" {
		query = fmt.Sprintf(`query ($wsId: ID!, $limit: Int!) {
			docs(workspace_ids: [$wsId], limit: $limit) { %s }
		}`, fields)
		vars = map[string]any{"wsId": wsID, "limit": limit}
	} else {
		query = fmt.Sprintf(`query ($limit: Int!) {
			docs(limit: $limit) { %s }
		}`, fields)
		vars = map[string]any{"limit": limit}
	}

	data, err := t.client.Query(ctx, query, vars)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Docs []doc `json:"docs"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding docs: %w", err)
	}
	return jsonResult(resp.Docs)
}

// CreateDocTool handles the monday_create_doc MCP tool.
type CreateDocTool struct {
	client monday.Querier
}

func NewCreateDocTool(client monday.Querier) *CreateDocTool {
	return &CreateDocTool{client: client}
}

func (t *CreateDocTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_create_doc",
		mcp.WithDescription("Create a workdoc in a workspace."),
		mcp.WithNumber("workspace_id",
			mcp.Required(),
			mcp.Description("Workspace ID to create the doc in"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new document"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Document body content in markdown"),
		),
	)
}

func (t *CreateDocTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wsID := idArg(req, "workspace_id")
	title := req.GetString("title", "")
	content := req.GetString("content", "")
	if wsID == "" || title == "" || content == "" {
		return mcp.NewToolResultError("'workspace_id', 'title', and 'content' are required"), nil
	}

	data, err := t.client.Query(ctx, `mutation ($wsId: ID!, $title: String!, $content: String!) {
		create_doc(
			location: { workspace: { workspace_id: $wsId } }
			title: $title
			content: $content
		) {
			id
			title
			created_at
			created_by { id name }
			workspace { id name }
		}
	}`, map[string]any{"wsId": wsID, "title": title, "content": content})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		CreateDoc doc `json:"create_doc"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_doc: %w", err)
	}
	return jsonResult(resp.CreateDoc)
}

// ReadDocTool handles the monday_read_doc MCP tool.
type ReadDocTool struct {
	client monday.Querier
}

func NewReadDocTool(client monday.Querier) *ReadDocTool {
	return &ReadDocTool{client: client}
}

func (t *ReadDocTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_read_doc",
		mcp.WithDescription("Read a workdoc's content blocks."),
		mcp.WithNumber("doc_id",
			mcp.Required(),
			mcp.Description("The document ID to read"),
		),
	)
}

func (t *ReadDocTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID := idArg(req, "doc_id")
	if docID == "" {
		return mcp.NewToolResultError("'doc_id' is required"), nil
	}

	data, err := t.client.Query(ctx, `query ($docId: [ID!]!) {
		docs(ids: $docId) {
			id
			title
			blocks {
				id
				type
				content
			}
		}
	}`, map[string]any{"docId": []string{docID}})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Docs []doc `json:"docs"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding doc: %w", err)
	}
	if len(resp.Docs) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Document %s not found.", docID)), nil
	}
	return jsonResult(resp.Docs[0])
}
