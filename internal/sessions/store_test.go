package sessions

import (
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRecordAndRecent(t *testing.T) {
	store := testStore(t)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	recs := []Record{
		{SessionType: "coding", Summary: "Built the widget", StartTime: base, EndTime: base.Add(time.Hour), MessageCount: 40, Productivity: 4},
		{SessionType: "debugging", Summary: "Fixed the widget", StartTime: base.Add(2 * time.Hour), EndTime: base.Add(3 * time.Hour), MessageCount: 20, Productivity: 5, CostEstimate: 1.5},
	}
	for i, rec := range recs {
		if err := store.Record(rec, "100"+string(rune('0'+i))); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := store.Recent("", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Summary != "Fixed the widget" {
		t.Errorf("expected newest session first, got %q", entries[0].Summary)
	}
	if entries[0].SessionType != "debugging" {
		t.Errorf("session type = %q, want debugging", entries[0].SessionType)
	}
}

func TestStoreRecentFiltersByType(t *testing.T) {
	store := testStore(t)

	now := time.Now()
	for _, typ := range []string{"coding", "coding", "chat"} {
		rec := Record{SessionType: typ, Summary: typ + " session", StartTime: now, EndTime: now}
		if err := store.Record(rec, ""); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := store.Recent("coding", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d coding sessions, want 2", len(entries))
	}
	for _, e := range entries {
		if e.SessionType != "coding" {
			t.Errorf("filter leaked type %q", e.SessionType)
		}
	}
}

func TestStoreRecentLimit(t *testing.T) {
	store := testStore(t)

	now := time.Now()
	for i := 0; i < 5; i++ {
		rec := Record{SessionType: "chat", Summary: "s", StartTime: now, EndTime: now}
		if err := store.Record(rec, ""); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := store.Recent("", 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want limit of 3", len(entries))
	}
}

func TestStoreStats(t *testing.T) {
	store := testStore(t)

	now := time.Now()
	recs := []Record{
		{SessionType: "coding", Summary: "a", StartTime: now, EndTime: now, MessageCount: 10, CostEstimate: 0.5},
		{SessionType: "coding", Summary: "b", StartTime: now, EndTime: now, MessageCount: 30, CostEstimate: 1.0},
		{SessionType: "chat", Summary: "c", StartTime: now, EndTime: now, MessageCount: 5},
	}
	for _, rec := range recs {
		if err := store.Record(rec, ""); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats["total_sessions"] != 3 {
		t.Errorf("total_sessions = %v, want 3", stats["total_sessions"])
	}
	if stats["total_messages"] != 45 {
		t.Errorf("total_messages = %v, want 45", stats["total_messages"])
	}
	byType := stats["by_type"].(map[string]int)
	if byType["coding"] != 2 || byType["chat"] != 1 {
		t.Errorf("by_type = %v", byType)
	}
}

func TestRecordDuration(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		end  time.Time
		want string
	}{
		{base.Add(45 * time.Minute), "45m"},
		{base.Add(2*time.Hour + 15*time.Minute), "2h 15m"},
		{base, "0m"},
	}
	for _, tt := range tests {
		rec := Record{StartTime: base, EndTime: tt.end}
		if got := rec.Duration(); got != tt.want {
			t.Errorf("Duration() = %q, want %q", got, tt.want)
		}
	}
}
