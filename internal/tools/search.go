package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openclaw/monday-mcp/internal/monday"
)

// searchHit is one item matched by a search, annotated with its board.
type searchHit struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	BoardID      string               `json:"board_id"`
	BoardName    string               `json:"board_name"`
	GroupTitle   string               `json:"group,omitempty"`
	ColumnValues []monday.ColumnValue `json:"column_values,omitempty"`
}

// SearchTool handles the monday_search MCP tool. With a board_id it runs a
// server-side items_page filter; without one it scans board names and
// descriptions, then best-effort searches items on the first few matches.
type SearchTool struct {
	client monday.Querier
}

func NewSearchTool(client monday.Querier) *SearchTool {
	return &SearchTool{client: client}
}

func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("monday_search",
		mcp.WithDescription(
			"Search items by name. Provide board_id to search within one "+
				"board; omit it to search across boards (slower).",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for"),
		),
		mcp.WithNumber("board_id",
			mcp.Description("Limit the search to this board"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results to return (default 25)"),
		),
	)
}

func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}
	limit := intArg(req, "limit", 25)

	if boardID := idArg(req, "board_id"); boardID != "" {
		return t.searchBoard(ctx, boardID, query, limit)
	}
	return t.searchGlobal(ctx, query, limit)
}

func (t *SearchTool) searchBoard(ctx context.Context, boardID, query string, limit int) (*mcp.CallToolResult, error) {
	data, err := t.client.Query(ctx, fmt.Sprintf(`query ($boardId: [ID!]!) {
		boards(ids: $boardId) {
			id name
			items_page(limit: %d, query_params: {
				rules: [{ column_id: "name", compare_value: [%q], operator: contains_text }]
			}) {
				items {
					id name
					group { title }
					column_values { id text type }
				}
			}
		}
	}`, limit, query), map[string]any{"boardId": []string{boardID}})
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Boards []monday.Board `json:"boards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding search results: %w", err)
	}
	if len(resp.Boards) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Board %s not found.", boardID)), nil
	}

	board := resp.Boards[0]
	hits := make([]searchHit, 0)
	if board.ItemsPage != nil {
		for _, item := range board.ItemsPage.Items {
			hit := searchHit{
				ID:           item.ID,
				Name:         item.Name,
				BoardID:      board.ID,
				BoardName:    board.Name,
				ColumnValues: item.ColumnValues,
			}
			if item.Group != nil {
				hit.GroupTitle = item.Group.Title
			}
			hits = append(hits, hit)
		}
	}
	return jsonResult(map[string]any{"query": query, "items": hits})
}

func (t *SearchTool) searchGlobal(ctx context.Context, query string, limit int) (*mcp.CallToolResult, error) {
	data, err := t.client.Query(ctx, `query {
		boards(limit: 100, state: active) {
			id name description
		}
	}`, nil)
	if err != nil {
		return apiError(err), nil
	}

	var resp struct {
		Boards []monday.Board `json:"boards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding boards: %w", err)
	}

	needle := strings.ToLower(query)
	var matchedBoards []monday.Board
	for _, b := range resp.Boards {
		if strings.Contains(strings.ToLower(b.Name), needle) ||
			strings.Contains(strings.ToLower(b.Description), needle) {
			matchedBoards = append(matchedBoards, b)
		}
	}

	// Item search is best-effort and bounded: only the first few boards,
	// and failures on individual boards do not fail the search.
	itemLimit := limit
	if itemLimit > 10 {
		itemLimit = 10
	}
	searchBoards := resp.Boards
	if len(searchBoards) > 5 {
		searchBoards = searchBoards[:5]
	}

	var hits []searchHit
	for _, b := range searchBoards {
		if len(hits) >= limit {
			break
		}
		res, err := t.searchBoard(ctx, b.ID, query, itemLimit)
		if err != nil || res.IsError {
			continue
		}
		for _, c := range res.Content {
			text, ok := c.(mcp.TextContent)
			if !ok {
				continue
			}
			var page struct {
				Items []searchHit `json:"items"`
			}
			if json.Unmarshal([]byte(text.Text), &page) == nil {
				hits = append(hits, page.Items...)
			}
		}
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}

	boardSummaries := make([]map[string]string, 0, len(matchedBoards))
	for _, b := range matchedBoards {
		boardSummaries = append(boardSummaries, map[string]string{
			"id": b.ID, "name": b.Name, "description": b.Description,
		})
	}
	return jsonResult(map[string]any{
		"query":  query,
		"boards": boardSummaries,
		"items":  hits,
	})
}
