package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubQuerier struct {
	rules   []stubRule
	queries []string
}

type stubRule struct {
	match string
	data  string
}

func (s *stubQuerier) Query(_ context.Context, query string, _ map[string]any) (json.RawMessage, error) {
	s.queries = append(s.queries, query)
	for _, r := range s.rules {
		if strings.Contains(query, r.match) {
			return json.RawMessage(r.data), nil
		}
	}
	return nil, fmt.Errorf("unexpected query: %s", query)
}

func (s *stubQuerier) QueryWithRetry(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	return s.Query(ctx, query, variables)
}

func countQueries(queries []string, substr string) int {
	n := 0
	for _, q := range queries {
		if strings.Contains(q, substr) {
			n++
		}
	}
	return n
}

func TestEnsureAnalyticsBoardReusesExisting(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "boards(limit: 50)", data: `{"boards": [
			{"id": "1", "name": "Roadmap"},
			{"id": "2", "name": "My AI Session Log"}
		]}`},
	}}
	logger := NewLogger(stub, nil, zerolog.Nop())

	board, err := logger.EnsureAnalyticsBoard(context.Background())
	if err != nil {
		t.Fatalf("EnsureAnalyticsBoard: %v", err)
	}
	if board.ID != "2" {
		t.Errorf("expected existing board 2, got %s", board.ID)
	}
	if countQueries(stub.queries, "create_board") != 0 {
		t.Error("should not create a board when one exists")
	}

	// Second call hits the cache, no further API calls.
	before := len(stub.queries)
	if _, err := logger.EnsureAnalyticsBoard(context.Background()); err != nil {
		t.Fatalf("second EnsureAnalyticsBoard: %v", err)
	}
	if len(stub.queries) != before {
		t.Error("cached board should not trigger queries")
	}
}

func TestEnsureAnalyticsBoardCreatesWithStructure(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "boards(limit: 50)", data: `{"boards": [{"id": "1", "name": "Roadmap"}]}`},
		{match: "create_board", data: `{"create_board": {"id": "77", "name": "AI Session Analytics"}}`},
		{match: "create_column", data: `{"create_column": {"id": "c"}}`},
		{match: "create_group", data: `{"create_group": {"id": "g"}}`},
	}}
	logger := NewLogger(stub, nil, zerolog.Nop())

	board, err := logger.EnsureAnalyticsBoard(context.Background())
	if err != nil {
		t.Fatalf("EnsureAnalyticsBoard: %v", err)
	}
	if board.ID != "77" {
		t.Errorf("board ID = %s, want 77", board.ID)
	}
	if n := countQueries(stub.queries, "create_column"); n != 8 {
		t.Errorf("created %d columns, want 8", n)
	}
	if n := countQueries(stub.queries, "create_group"); n != 3 {
		t.Errorf("created %d groups, want 3", n)
	}
}

func TestLogSessionWritesItemAndLedger(t *testing.T) {
	stub := &stubQuerier{rules: []stubRule{
		{match: "boards(limit: 50)", data: `{"boards": [{"id": "77", "name": "AI Session Analytics"}]}`},
		{match: "create_item", data: `{"create_item": {"id": "501", "name": "Shipped the parser"}}`},
	}}
	store := testStore(t)
	logger := NewLogger(stub, store, zerolog.Nop())

	now := time.Now()
	result, err := logger.LogSession(context.Background(), Record{
		SessionType:  "coding",
		Summary:      "Shipped the parser",
		StartTime:    now.Add(-time.Hour),
		EndTime:      now,
		MessageCount: 32,
		Productivity: 4,
	})
	if err != nil {
		t.Fatalf("LogSession: %v", err)
	}
	if result.ItemID != "501" {
		t.Errorf("item ID = %s, want 501", result.ItemID)
	}
	if result.BoardURL != "https://monday.com/boards/77" {
		t.Errorf("board URL = %s", result.BoardURL)
	}

	entries, err := store.Recent("", 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 || entries[0].BoardItemID != "501" {
		t.Errorf("ledger entry not recorded: %+v", entries)
	}
}
