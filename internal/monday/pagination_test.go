package monday

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// stubQuerier feeds canned responses in order and records the requests.
type stubQuerier struct {
	responses []string
	queries   []string
	variables []map[string]any
}

func (s *stubQuerier) Query(_ context.Context, query string, vars map[string]any) (json.RawMessage, error) {
	s.queries = append(s.queries, query)
	s.variables = append(s.variables, vars)
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return json.RawMessage(resp), nil
}

func (s *stubQuerier) QueryWithRetry(ctx context.Context, query string, vars map[string]any) (json.RawMessage, error) {
	return s.Query(ctx, query, vars)
}

func TestCollectBoardItemsFollowsCursor(t *testing.T) {
	q := &stubQuerier{responses: []string{
		`{"boards":[{"items_page":{"cursor":"c1","items":[{"id":"1","name":"one"},{"id":"2","name":"two"}]}}]}`,
		`{"next_items_page":{"cursor":null,"items":[{"id":"3","name":"three"}]}}`,
	}}

	items, err := CollectBoardItems(context.Background(), q, "99", 0, "")
	if err != nil {
		t.Fatalf("CollectBoardItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if items[2].ID != "3" {
		t.Errorf("items[2].ID = %q, want 3", items[2].ID)
	}

	if len(q.queries) != 2 {
		t.Fatalf("issued %d queries, want 2", len(q.queries))
	}
	if !strings.Contains(q.queries[0], "items_page") || strings.Contains(q.queries[0], "next_items_page") {
		t.Errorf("first query should hit items_page: %s", q.queries[0])
	}
	if !strings.Contains(q.queries[1], "next_items_page") {
		t.Errorf("second query should hit next_items_page: %s", q.queries[1])
	}
	if got := q.variables[1]["cursor"]; got != "c1" {
		t.Errorf("second query cursor = %v, want c1", got)
	}
}

func TestCollectBoardItemsHonorsMaxItems(t *testing.T) {
	q := &stubQuerier{responses: []string{
		`{"boards":[{"items_page":{"cursor":"c1","items":[{"id":"1"},{"id":"2"},{"id":"3"}]}}]}`,
	}}

	items, err := CollectBoardItems(context.Background(), q, "99", 2, "")
	if err != nil {
		t.Fatalf("CollectBoardItems: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len(items) = %d, want 2", len(items))
	}
	if len(q.queries) != 1 {
		t.Errorf("issued %d queries, want 1 (stop once maxItems reached)", len(q.queries))
	}
}

func TestCollectBoardItemsEmptyBoard(t *testing.T) {
	q := &stubQuerier{responses: []string{`{"boards":[]}`}}

	items, err := CollectBoardItems(context.Background(), q, "99", 0, "")
	if err != nil {
		t.Fatalf("CollectBoardItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}

func TestItemsPageRequestSplicesQueryParams(t *testing.T) {
	req := ItemsPageRequest("7", "", 25, `{rules: [{column_id: "status", compare_value: [1]}]}`)
	if !strings.Contains(req.Query, "query_params:") {
		t.Errorf("query_params missing from query: %s", req.Query)
	}
	if !strings.Contains(req.Query, "limit: 25") {
		t.Errorf("page size missing from query: %s", req.Query)
	}

	plain := ItemsPageRequest("7", "", 25, "")
	if strings.Contains(plain.Query, "query_params") {
		t.Errorf("query_params present without filters: %s", plain.Query)
	}
}
