package forwarder

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// stubRule answers queries containing match with either data or err.
type stubRule struct {
	match string
	data  string
	err   error
}

// stubQuerier matches queries against its rules in order and records
// every call. First match wins, so put the most specific rule first.
type stubQuerier struct {
	mu    sync.Mutex
	rules []stubRule
	calls []string
}

func (s *stubQuerier) Query(_ context.Context, query string, _ map[string]any) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, query)
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

func (s *stubQuerier) QueryWithRetry(ctx context.Context, query string, vars map[string]any) (json.RawMessage, error) {
	return s.Query(ctx, query, vars)
}

func (s *stubQuerier) callCount(sub string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, q := range s.calls {
		if strings.Contains(q, sub) {
			n++
		}
	}
	return n
}

const meResponse = `{"me":{"id":"10","name":"Alice","account":{"slug":"acme"}}}`

func updatesResponse(updates ...string) string {
	return fmt.Sprintf(`{"updates":[%s]}`, strings.Join(updates, ","))
}

func newTestForwarder(t *testing.T, q *stubQuerier, statePath string) *Forwarder {
	t.Helper()
	if statePath == "" {
		statePath = filepath.Join(t.TempDir(), "state.json")
	}
	return New(q, statePath, 25, zerolog.Nop())
}

func TestPollEmitsNewUpdatesOnce(t *testing.T) {
	q := &stubQuerier{rules: []stubRule{
		{match: "updates(limit:", data: updatesResponse(
			`{"id":"u1","text_body":"hello","created_at":"2024-06-01T00:00:00Z","creator_id":"20","creator":{"id":"20","name":"Bob"}}`,
		)},
	}}
	f := newTestForwarder(t, q, "")

	var emitted []EnrichedUpdate
	f.OnUpdate(func(u EnrichedUpdate) { emitted = append(emitted, u) })

	batch, err := f.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(batch) != 1 || len(emitted) != 1 {
		t.Fatalf("batch = %d, emitted = %d, want 1 each", len(batch), len(emitted))
	}
	if batch[0].ID != "u1" || batch[0].TriggeredBy != "Bob" {
		t.Errorf("batch[0] = %+v", batch[0])
	}

	// Second cycle with the same records yields nothing.
	batch, err = f.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(batch) != 0 || len(emitted) != 1 {
		t.Errorf("second cycle: batch = %d, emitted = %d, want 0 and 1", len(batch), len(emitted))
	}
}

func TestPollDedupsAcrossRestart(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	q := &stubQuerier{rules: []stubRule{
		{match: "updates(limit:", data: updatesResponse(`{"id":"u1","text_body":"hi","creator_id":"20"}`)},
	}}

	f1 := newTestForwarder(t, q, statePath)
	batch, err := f1.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("first process: batch = %d, want 1", len(batch))
	}

	// Fresh instance simulating a restart, loading the persisted state.
	f2 := newTestForwarder(t, q, statePath)
	seen, err := stateFile{path: statePath}.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f2.seen = seen

	batch, err = f2.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(batch) != 0 {
		t.Errorf("after restart: batch = %d, want 0", len(batch))
	}
}

func TestPollExcludesSelfAuthored(t *testing.T) {
	q := &stubQuerier{rules: []stubRule{
		{match: "me {", data: meResponse},
		{match: "updates(limit:", data: updatesResponse(
			`{"id":"mine","text_body":"my own note","creator_id":"10","creator":{"id":"10","name":"Alice"}}`,
			`{"id":"theirs","text_body":"unrelated note","creator_id":"20","creator":{"id":"20","name":"Bob"}}`,
		)},
	}}
	f := newTestForwarder(t, q, "")
	f.resolveIdentity(context.Background())

	batch, err := f.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("batch = %d, want 1 (self-authored excluded, other included)", len(batch))
	}
	if batch[0].ID != "theirs" {
		t.Errorf("batch[0].ID = %q, want theirs", batch[0].ID)
	}
	if f.SeenCount() != 1 {
		t.Errorf("SeenCount = %d, want 1 (excluded record not marked seen)", f.SeenCount())
	}
}

func TestPollIncludesMentionsAndOwnReplies(t *testing.T) {
	q := &stubQuerier{rules: []stubRule{
		{match: "me {", data: meResponse},
		{match: "updates(limit:", data: updatesResponse(
			`{"id":"mention","text_body":"cc Alice please review","creator_id":"20","creator":{"id":"20","name":"Bob"}}`,
			`{"id":"replied","text_body":"thread","creator_id":"20","replies":[{"id":"r1","creator_id":"10"}]}`,
			`{"id":"mine","text_body":"note to self","creator_id":"10"}`,
		)},
	}}
	f := newTestForwarder(t, q, "")
	f.resolveIdentity(context.Background())

	batch, err := f.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("batch = %d, want 2 (mention and own-reply records included)", len(batch))
	}
	ids := map[string]bool{batch[0].ID: true, batch[1].ID: true}
	if !ids["mention"] || !ids["replied"] {
		t.Errorf("batch ids = %v, want mention and replied", ids)
	}
}

func TestPollEnrichesFromItemReference(t *testing.T) {
	q := &stubQuerier{rules: []stubRule{
		{match: "items(ids:", data: `{"items":[{
			"id":"555","name":"Ship it",
			"board":{"id":"9","name":"Roadmap"},
			"column_values":[{"id":"status","title":"Status","text":"Done"}],
			"updates":[{"id":"u0","body":"done","creator":{"id":"20","name":"Bob"}}]
		}]}`},
		{match: "me {", data: meResponse},
		{match: "updates(limit:", data: updatesResponse(
			`{"id":"u1","text_body":"check pulse-555","creator_id":"20","creator":{"id":"20","name":"Bob"}}`,
		)},
	}}
	f := newTestForwarder(t, q, "")
	f.resolveIdentity(context.Background())

	batch, err := f.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("batch = %d, want 1", len(batch))
	}

	got := batch[0]
	if got.RelatedItem == nil {
		t.Fatal("RelatedItem missing")
	}
	if got.RelatedItem.Name != "Ship it" || got.RelatedItem.BoardName != "Roadmap" {
		t.Errorf("RelatedItem = %+v", got.RelatedItem)
	}
	if got.BoardURL != "https://acme.monday.com/boards/9" {
		t.Errorf("BoardURL = %q", got.BoardURL)
	}
	if got.ItemURL != "https://acme.monday.com/boards/9/pulses/555" {
		t.Errorf("ItemURL = %q", got.ItemURL)
	}
}

func TestPollEnrichmentFailureEmitsMinimalRecord(t *testing.T) {
	q := &stubQuerier{rules: []stubRule{
		{match: "items(ids:", err: fmt.Errorf("boom")},
		{match: "updates(limit:", data: updatesResponse(
			`{"id":"u1","text_body":"check pulse-555","created_at":"2024-06-01T00:00:00Z","creator_id":"20"}`,
		)},
	}}
	f := newTestForwarder(t, q, "")

	batch, err := f.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("batch = %d, want 1 (minimal record on enrichment failure)", len(batch))
	}
	if batch[0].RelatedItem != nil {
		t.Error("RelatedItem set despite enrichment failure")
	}
	if batch[0].ID != "u1" || batch[0].Text != "check pulse-555" {
		t.Errorf("minimal record = %+v", batch[0])
	}
}

func TestPollSkipsOverlappingCycle(t *testing.T) {
	q := &stubQuerier{rules: []stubRule{
		{match: "updates(limit:", data: updatesResponse(`{"id":"u1","text_body":"x","creator_id":"20"}`)},
	}}
	f := newTestForwarder(t, q, "")

	// Re-enter Poll from the emission callback: the inner call must be
	// skipped, not run a second cycle.
	var innerBatch []EnrichedUpdate
	var innerErr error
	f.OnUpdate(func(EnrichedUpdate) {
		innerBatch, innerErr = f.Poll(context.Background())
	})

	batch, err := f.Poll(context.Background())
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("outer batch = %d, want 1", len(batch))
	}
	if innerErr != nil {
		t.Errorf("inner Poll error = %v, want nil", innerErr)
	}
	if innerBatch != nil {
		t.Errorf("inner batch = %v, want nil (skipped)", innerBatch)
	}
	if q.callCount("updates(limit:") != 1 {
		t.Errorf("fetch calls = %d, want 1", q.callCount("updates(limit:"))
	}
}

func TestStartAndStop(t *testing.T) {
	q := &stubQuerier{rules: []stubRule{
		{match: "me {", data: meResponse},
		{match: "updates(limit:", data: updatesResponse()},
	}}
	f := newTestForwarder(t, q, "")

	if f.IsPolling() {
		t.Fatal("IsPolling before Start")
	}
	if err := f.Start(context.Background(), time.Hour); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !f.IsPolling() {
		t.Error("IsPolling false after Start")
	}
	if err := f.Start(context.Background(), time.Hour); err == nil {
		t.Error("second Start succeeded, want error")
	}

	f.Stop()
	if f.IsPolling() {
		t.Error("IsPolling true after Stop")
	}
	f.Stop() // idempotent
}
