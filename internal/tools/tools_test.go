package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

// stubQuerier replays canned responses keyed by a query substring. Rules
// are checked in order; the first match wins.
type stubQuerier struct {
	rules   []stubRule
	queries []string
}

type stubRule struct {
	match string
	data  string
	err   error
}

func (s *stubQuerier) Query(_ context.Context, query string, _ map[string]any) (json.RawMessage, error) {
	s.queries = append(s.queries, query)
	for _, r := range s.rules {
		if strings.Contains(query, r.match) {
			if r.err != nil {
				return nil, r.err
			}
			return json.RawMessage(r.data), nil
		}
	}
	return nil, fmt.Errorf("unexpected query: %s", query)
}

func (s *stubQuerier) QueryWithRetry(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	return s.Query(ctx, query, variables)
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = "test"
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

// --- Boards ---

func TestListBoardsReturnsBoards(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "boards(", data: `{"boards": [
			{"id": "101", "name": "Roadmap", "board_kind": "public"},
			{"id": "102", "name": "Bugs", "board_kind": "private"}
		]}`},
	}}

	res, err := NewListBoardsTool(stub).Handle(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Roadmap") || !strings.Contains(text, "102") {
		t.Errorf("result missing boards: %s", text)
	}
}

func TestGetBoardNotFound(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "boards(ids:", data: `{"boards": []}`},
	}}

	res, err := NewGetBoardTool(stub).Handle(context.Background(), callReq(map[string]any{
		"board_id": float64(999),
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "not found") {
		t.Errorf("expected not-found message, got: %s", text)
	}
}

func TestCreateBoardRequiresName(t *testing.T) {
	stub := &stubQuerier{}
	res, err := NewCreateBoardTool(stub).Handle(context.Background(), callReq(map[string]any{
		"board_kind": "public",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for missing board_name")
	}
	if len(stub.queries) != 0 {
		t.Errorf("validation failure should not reach the API, got %d queries", len(stub.queries))
	}
}

// --- Items ---

func TestCreateItemPassesColumnValues(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "create_item", data: `{"create_item": {"id": "201", "name": "New task"}}`},
	}}

	res, err := NewCreateItemTool(stub).Handle(context.Background(), callReq(map[string]any{
		"board_id":  float64(101),
		"item_name": "New task",
		"column_values": map[string]any{
			"status": map[string]any{"label": "Working on it"},
		},
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "201") {
		t.Errorf("result missing created item: %s", text)
	}
	if len(stub.queries) != 1 || !strings.Contains(stub.queries[0], "create_item") {
		t.Errorf("expected one create_item mutation, got %v", stub.queries)
	}
}

func TestGetItemsFollowsCursor(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "next_items_page", data: `{"next_items_page": {"cursor": null, "items": [{"id": "302", "name": "Second"}]}}`},
	}}

	res, err := NewGetItemsTool(stub).Handle(context.Background(), callReq(map[string]any{
		"board_id": float64(101),
		"cursor":   "abc123",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "Second") {
		t.Errorf("result missing cursor page items: %s", text)
	}
}

// --- Workspaces ---

func TestCreateWorkspaceOmitsEmptyDescription(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "create_workspace", data: `{"create_workspace": {"id": "7", "name": "Eng", "kind": "open"}}`},
	}}

	_, err := NewCreateWorkspaceTool(stub).Handle(context.Background(), callReq(map[string]any{
		"name": "Eng",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if strings.Contains(stub.queries[0], "description") {
		t.Errorf("description should be omitted when not provided: %s", stub.queries[0])
	}
}

// --- Search ---

func TestSearchBoardScoped(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "items_page", data: `{"boards": [{"id": "101", "name": "Roadmap", "items_page": {
			"items": [{"id": "301", "name": "Ship login flow", "group": {"title": "Q3"}}]
		}}]}`},
	}}

	res, err := NewSearchTool(stub).Handle(context.Background(), callReq(map[string]any{
		"query":    "login",
		"board_id": float64(101),
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Ship login flow") || !strings.Contains(text, "Roadmap") {
		t.Errorf("hit missing item or board context: %s", text)
	}
	if !strings.Contains(stub.queries[0], `compare_value: ["login"]`) {
		t.Errorf("query filter not spliced in: %s", stub.queries[0])
	}
}

func TestSearchGlobalMatchesBoardNames(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "items_page", data: `{"boards": [{"id": "101", "name": "CRM Pipeline", "items_page": {"items": []}}]}`},
		{match: "boards(limit:", data: `{"boards": [
			{"id": "101", "name": "CRM Pipeline", "description": ""},
			{"id": "102", "name": "Roadmap", "description": "quarterly crm goals"}
		]}`},
	}}

	res, err := NewSearchTool(stub).Handle(context.Background(), callReq(map[string]any{
		"query": "crm",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(t, res)
	// Name match and description match both count.
	if !strings.Contains(text, "CRM Pipeline") || !strings.Contains(text, "Roadmap") {
		t.Errorf("expected both boards matched: %s", text)
	}
}

// --- Webhooks ---

func TestCreateWebhookRejectsUnknownEvent(t *testing.T) {
	stub := &stubQuerier{}
	res, err := NewCreateWebhookTool(stub).Handle(context.Background(), callReq(map[string]any{
		"board_id": float64(101),
		"url":      "https://example.com/hook",
		"event":    "item_exploded",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for unknown event")
	}
	if len(stub.queries) != 0 {
		t.Error("invalid event should not reach the API")
	}
}

func TestCreateWebhookSplicesEventLiteral(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "create_webhook", data: `{"create_webhook": {"id": "55", "board_id": "101", "event": "create_item"}}`},
	}}

	_, err := NewCreateWebhookTool(stub).Handle(context.Background(), callReq(map[string]any{
		"board_id": float64(101),
		"url":      "https://example.com/hook",
		"event":    "create_item",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(stub.queries[0], "event: create_item") {
		t.Errorf("event should be spliced as an enum literal: %s", stub.queries[0])
	}
}

// --- Error propagation ---

func TestAPIErrorBecomesToolError(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "boards(", err: fmt.Errorf("monday api: Board not found (status 200)")},
	}}

	res, err := NewListBoardsTool(stub).Handle(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("API failures must not fail the protocol call: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if text := resultText(t, res); !strings.Contains(text, "Board not found") {
		t.Errorf("error detail lost: %s", text)
	}
}

// --- Schema introspection ---

func TestGetSchemaTypeNotFound(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "__type", data: `{"__type": null}`},
	}}

	res, err := NewGetSchemaTool(stub).Handle(context.Background(), callReq(map[string]any{
		"type_name": "Bogus",
	}))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "not found") {
		t.Errorf("expected not-found message, got: %s", text)
	}
}

func TestGetSchemaOverviewFiltersInternals(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "__schema", data: `{"__schema": {
			"queryType": {"name": "Query"},
			"mutationType": {"name": "Mutation"},
			"types": [
				{"name": "Board", "kind": "OBJECT", "description": "A board"},
				{"name": "__Type", "kind": "OBJECT", "description": ""},
				{"name": "String", "kind": "SCALAR", "description": ""}
			]
		}}`},
	}}

	res, err := NewGetSchemaTool(stub).Handle(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "Board") {
		t.Errorf("overview missing domain type: %s", text)
	}
	if strings.Contains(text, "__Type") || strings.Contains(text, `"String"`) {
		t.Errorf("overview should filter introspection and scalar types: %s", text)
	}
}
