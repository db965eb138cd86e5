// Package forwarder polls monday.com for new updates, deduplicates them
// against a persisted seen-set, enriches each new record with item and
// board context, and emits the result to a subscriber callback.
package forwarder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/openclaw/monday-mcp/internal/monday"
)

const defaultFetchLimit = 25

// RelatedItem is the enrichment context fetched for an update's item.
type RelatedItem struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	BoardID       string               `json:"board_id"`
	BoardName     string               `json:"board_name"`
	ColumnValues  []monday.ColumnValue `json:"column_values"`
	RecentUpdates []monday.Update      `json:"recent_updates"`
}

// EnrichedUpdate is one newly-surfaced update with whatever context could
// be resolved for it. Ownership passes to the callback; the forwarder
// keeps no reference after emitting.
type EnrichedUpdate struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Text        string       `json:"text"`
	CreatedAt   string       `json:"created_at"`
	TriggeredBy string       `json:"triggered_by,omitempty"`
	RelatedItem *RelatedItem `json:"related_item,omitempty"`
	ItemURL     string       `json:"item_url,omitempty"`
	BoardURL    string       `json:"board_url,omitempty"`
}

// Forwarder is the polling deduplicator. Construct with New, subscribe
// with OnUpdate, then Start. Poll can also be called directly for an
// on-demand cycle.
type Forwarder struct {
	client     monday.Querier
	state      stateFile
	fetchLimit int
	log        zerolog.Logger

	mu       sync.Mutex
	seen     *seenSet
	polling  bool
	inCycle  bool
	cancel   context.CancelFunc
	self     *monday.User
	slug     string
	onUpdate func(EnrichedUpdate)

	now func() time.Time
}

// New builds a Forwarder persisting its seen-set at statePath.
// fetchLimit <= 0 falls back to the default window of 25.
func New(client monday.Querier, statePath string, fetchLimit int, log zerolog.Logger) *Forwarder {
	if fetchLimit <= 0 {
		fetchLimit = defaultFetchLimit
	}
	return &Forwarder{
		client:     client,
		state:      stateFile{path: statePath},
		fetchLimit: fetchLimit,
		log:        log,
		seen:       newSeenSet(),
		now:        time.Now,
	}
}

// OnUpdate sets the single-slot subscriber callback. When unset, polls
// still fetch, dedup, and persist; nothing is emitted.
func (f *Forwarder) OnUpdate(fn func(EnrichedUpdate)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onUpdate = fn
}

// Start loads persisted state, resolves the current user identity
// (best-effort), runs one immediate poll cycle, and arms the recurring
// timer. Returns an error only if polling is already active.
func (f *Forwarder) Start(ctx context.Context, interval time.Duration) error {
	f.mu.Lock()
	if f.polling {
		f.mu.Unlock()
		return fmt.Errorf("polling already active")
	}
	seen, err := f.state.load()
	if err != nil {
		f.log.Warn().Err(err).Msg("could not load seen-state, starting fresh")
	}
	f.seen = seen
	f.polling = true
	ctx, f.cancel = context.WithCancel(ctx)
	f.mu.Unlock()

	f.resolveIdentity(ctx)

	// Immediate first cycle so callers observe the backlog right away.
	if _, err := f.Poll(ctx); err != nil {
		f.log.Error().Err(err).Msg("initial poll failed")
	}

	go f.loop(ctx, interval)
	f.log.Info().Dur("interval", interval).Msg("update polling started")
	return nil
}

func (f *Forwarder) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := f.Poll(ctx); err != nil {
				f.log.Error().Err(err).Msg("poll cycle failed")
			}
		}
	}
}

// Stop ends the polling loop. Idempotent; an in-flight cycle runs to
// completion.
func (f *Forwarder) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.polling {
		return
	}
	f.cancel()
	f.polling = false
	f.log.Info().Msg("update polling stopped")
}

// IsPolling reports whether the recurring loop is active.
func (f *Forwarder) IsPolling() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polling
}

// SeenCount returns the number of tracked update IDs.
func (f *Forwarder) SeenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Len()
}

// Poll runs one fetch-filter-emit-persist cycle and returns the batch of
// newly-surfaced updates (empty when nothing is new). A cycle that would
// overlap a still-running one is skipped.
func (f *Forwarder) Poll(ctx context.Context) ([]EnrichedUpdate, error) {
	f.mu.Lock()
	if f.inCycle {
		f.mu.Unlock()
		f.log.Warn().Msg("poll cycle already in progress, skipping tick")
		return nil, nil
	}
	f.inCycle = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inCycle = false
		f.mu.Unlock()
	}()

	records, err := f.fetchUpdates(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching updates: %w", err)
	}

	var batch []EnrichedUpdate
	for _, rec := range records {
		f.mu.Lock()
		isNew := !f.seen.Has(rec.ID)
		f.mu.Unlock()
		if !isNew || !f.relevant(rec) {
			continue
		}

		// Mark seen before enrichment so a failure mid-batch does not
		// re-surface this record on the next tick.
		f.mu.Lock()
		f.seen.Add(rec.ID)
		cb := f.onUpdate
		f.mu.Unlock()

		enriched := f.enrich(ctx, rec)
		if cb != nil {
			cb(enriched)
		}
		batch = append(batch, enriched)
	}

	if len(batch) > 0 {
		f.mu.Lock()
		seen := f.seen
		f.mu.Unlock()
		if err := f.state.save(seen, f.now()); err != nil {
			f.log.Error().Err(err).Msg("could not persist seen-state")
		}
	}

	return batch, nil
}

func (f *Forwarder) fetchUpdates(ctx context.Context) ([]monday.Update, error) {
	query := fmt.Sprintf(`query {
		updates(limit: %d) {
			id
			text_body
			body
			created_at
			creator_id
			creator { id name }
			item_id
			replies {
				id
				creator_id
				creator { id name }
			}
		}
	}`, f.fetchLimit)

	data, err := f.client.QueryWithRetry(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Updates []monday.Update `json:"updates"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding updates: %w", err)
	}
	return resp.Updates, nil
}

// relevant applies the relevance heuristic: records authored by the
// current user are excluded; records mentioning the user's display name
// or carrying a reply by the user are always included; everything else
// is included by default. Only the self-authorship check actually
// filters anything out.
func (f *Forwarder) relevant(u monday.Update) bool {
	f.mu.Lock()
	self := f.self
	f.mu.Unlock()
	if self == nil || self.ID == "" {
		return true
	}

	if authoredBy(u, self.ID) {
		return false
	}
	if self.Name != "" && strings.Contains(u.TextBody, self.Name) {
		return true
	}
	for _, r := range u.Replies {
		if authoredBy(r, self.ID) {
			return true
		}
	}
	return true
}

func authoredBy(u monday.Update, userID string) bool {
	if u.CreatorID != "" && u.CreatorID == userID {
		return true
	}
	return u.Creator != nil && u.Creator.ID == userID
}

// enrich builds the emitted record, fetching item and board context when
// the update references an item. Enrichment failure degrades to the
// minimal record; it never drops the update.
func (f *Forwarder) enrich(ctx context.Context, u monday.Update) EnrichedUpdate {
	enriched := EnrichedUpdate{
		ID:        u.ID,
		Title:     updateTitle(u),
		Text:      u.TextBody,
		CreatedAt: u.CreatedAt,
	}
	if u.Creator != nil {
		enriched.TriggeredBy = u.Creator.Name
	}

	itemID := extractItemID(u.ItemID, u.TextBody+" "+u.Body)
	if itemID == "" {
		return enriched
	}

	data, err := f.client.QueryWithRetry(ctx, `query ($ids: [ID!]!) {
		items(ids: $ids) {
			id
			name
			board { id name }
			column_values { id title text value }
			updates(limit: 5) {
				id
				body
				created_at
				creator { id name }
			}
		}
	}`, map[string]any{"ids": []string{itemID}})
	if err != nil {
		f.log.Warn().Err(err).Str("item_id", itemID).Str("update_id", u.ID).
			Msg("enrichment failed, emitting minimal record")
		return enriched
	}

	var resp struct {
		Items []monday.Item `json:"items"`
	}
	if err := json.Unmarshal(data, &resp); err != nil || len(resp.Items) == 0 {
		f.log.Warn().Str("item_id", itemID).Msg("enrichment returned no item")
		return enriched
	}
	item := resp.Items[0]

	related := &RelatedItem{
		ID:            item.ID,
		Name:          item.Name,
		ColumnValues:  item.ColumnValues,
		RecentUpdates: item.Updates,
	}
	if item.Board != nil {
		related.BoardID = item.Board.ID
		related.BoardName = item.Board.Name
	}
	enriched.RelatedItem = related

	f.mu.Lock()
	slug := f.slug
	f.mu.Unlock()
	if slug != "" && related.BoardID != "" {
		enriched.BoardURL = fmt.Sprintf("https://%s.monday.com/boards/%s", slug, related.BoardID)
		enriched.ItemURL = fmt.Sprintf("%s/pulses/%s", enriched.BoardURL, item.ID)
	}

	if enriched.TriggeredBy == "" && len(item.Updates) > 0 && item.Updates[0].Creator != nil {
		enriched.TriggeredBy = item.Updates[0].Creator.Name
	}

	return enriched
}

// resolveIdentity caches the current user and account slug for relevance
// filtering and URL building. Failure degrades filtering to
// include-everything rather than blocking startup.
func (f *Forwarder) resolveIdentity(ctx context.Context) {
	data, err := f.client.QueryWithRetry(ctx, `query { me { id name account { slug } } }`, nil)
	if err != nil {
		f.log.Warn().Err(err).Msg("could not resolve current user, relevance filtering disabled")
		return
	}
	var resp struct {
		Me struct {
			ID      string          `json:"id"`
			Name    string          `json:"name"`
			Account *monday.Account `json:"account"`
		} `json:"me"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		f.log.Warn().Err(err).Msg("could not decode current user")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.self = &monday.User{ID: resp.Me.ID, Name: resp.Me.Name}
	if resp.Me.Account != nil {
		f.slug = resp.Me.Account.Slug
	}
}

// updateTitle derives a short title from the update body: its first
// non-empty line, truncated.
func updateTitle(u monday.Update) string {
	for _, line := range strings.Split(u.TextBody, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 80 {
			return line[:77] + "..."
		}
		return line
	}
	return ""
}
