// Package sessions logs AI work sessions to a monday.com analytics board
// and keeps a local sqlite ledger of everything logged.
package sessions

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

const analyticsBoardName = "AI Session Analytics"

// Record describes one completed session to log.
type Record struct {
	SessionID    string    `json:"session_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	MessageCount int       `json:"message_count"`
	ModelsUsed   []string  `json:"models_used,omitempty"`
	SessionType  string    `json:"session_type"`
	CostEstimate float64   `json:"cost_estimate,omitempty"`
	Productivity int       `json:"productivity"`
	Summary      string    `json:"summary"`
}

// LogResult reports where a session landed.
type LogResult struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	BoardID   string `json:"board_id"`
	BoardName string `json:"board_name"`
	BoardURL  string `json:"board_url"`
}

// Logger finds or builds the analytics board and writes session items to
// it. The resolved board is cached for the process lifetime.
type Logger struct {
	client monday.Querier
	store  *Store
	log    zerolog.Logger

	mu    sync.Mutex
	board *monday.Board
}

// NewLogger builds a Logger. store may be nil to skip the local ledger.
func NewLogger(client monday.Querier, store *Store, log zerolog.Logger) *Logger {
	return &Logger{client: client, store: store, log: log}
}

// EnsureAnalyticsBoard returns the analytics board, creating it with its
// column and group structure on first use. An existing board whose name
// contains "AI Session" is reused rather than duplicated.
func (l *Logger) EnsureAnalyticsBoard(ctx context.Context) (*monday.Board, error) {
	l.mu.Lock()
	if l.board != nil {
		board := l.board
		l.mu.Unlock()
		return board, nil
	}
	l.mu.Unlock()

	data, err := l.client.QueryWithRetry(ctx, `query { boards(limit: 50) { id name } }`, nil)
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	var resp struct {
		Boards []monday.Board `json:"boards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding boards: %w", err)
	}

	for _, b := range resp.Boards {
		if b.Name == analyticsBoardName || strings.Contains(b.Name, "AI Session") {
			l.mu.Lock()
			l.board = &monday.Board{ID: b.ID, Name: b.Name}
			board := l.board
			l.mu.Unlock()
			return board, nil
		}
	}

	created, err := l.createBoard(ctx)
	if err != nil {
		return nil, err
	}
	if err := l.setupBoard(ctx, created.ID); err != nil {
		// The board exists; structure can be finished by hand.
		l.log.Warn().Err(err).Str("board_id", created.ID).
			Msg("analytics board created but structure setup failed")
	}

	l.mu.Lock()
	l.board = created
	l.mu.Unlock()
	return created, nil
}

func (l *Logger) createBoard(ctx context.Context) (*monday.Board, error) {
	data, err := l.client.QueryWithRetry(ctx, `mutation ($boardName: String!, $desc: String) {
		create_board(board_name: $boardName, board_kind: private, description: $desc) {
			id name
		}
	}`, map[string]any{
		"boardName": analyticsBoardName,
		"desc":      "Automated logging of AI session analytics and productivity metrics",
	})
	if err != nil {
		return nil, fmt.Errorf("creating analytics board: %w", err)
	}
	var resp struct {
		CreateBoard monday.Board `json:"create_board"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_board: %w", err)
	}
	l.log.Info().Str("board_id", resp.CreateBoard.ID).Msg("created analytics board")
	return &resp.CreateBoard, nil
}

// setupBoard adds the session columns and grouping to a fresh board.
func (l *Logger) setupBoard(ctx context.Context, boardID string) error {
	columns := []struct {
		title string
		typ   string
	}{
		{"Duration", "timeline"},
		{"Messages", "numbers"},
		{"Cost", "numbers"},
		{"Models Used", "tags"},
		{"Session Type", "status"},
		{"Productivity", "rating"},
		{"Key Outcomes", "long_text"},
		{"Session Link", "link"},
	}
	for _, col := range columns {
		_, err := l.client.QueryWithRetry(ctx, `mutation ($boardId: ID!, $title: String!, $type: ColumnType!) {
			create_column(board_id: $boardId, title: $title, column_type: $type) { id }
		}`, map[string]any{"boardId": boardID, "title": col.title, "type": col.typ})
		if err != nil {
			return fmt.Errorf("creating column %q: %w", col.title, err)
		}
	}

	for _, group := range []string{"This Week", "Top Sessions", "Quick Chats"} {
		_, err := l.client.QueryWithRetry(ctx, `mutation ($boardId: ID!, $title: String!) {
			create_group(board_id: $boardId, group_name: $title) { id }
		}`, map[string]any{"boardId": boardID, "title": group})
		if err != nil {
			return fmt.Errorf("creating group %q: %w", group, err)
		}
	}
	return nil
}

// LogSession writes one session item to the analytics board and records it
// in the local ledger.
func (l *Logger) LogSession(ctx context.Context, rec Record) (*LogResult, error) {
	board, err := l.EnsureAnalyticsBoard(ctx)
	if err != nil {
		return nil, err
	}

	itemName := rec.Summary
	if itemName == "" {
		itemName = "AI Session - " + rec.SessionType
	}

	values := map[string]any{
		"duration": monday.TimelineValue(
			rec.StartTime.Format("2006-01-02"),
			rec.EndTime.Format("2006-01-02"),
		),
		"messages":     rec.MessageCount,
		"cost":         rec.CostEstimate,
		"session_type": monday.StatusLabel(capitalize(rec.SessionType)),
		"productivity": monday.RatingValue(rec.Productivity),
		"key_outcomes": monday.LongTextValue(rec.Summary),
	}
	if rec.SessionID != "" {
		values["session_link"] = monday.LinkValue("openclaw://session/"+rec.SessionID, "Open Session")
	}
	columnValues, err := monday.FormatColumnValues(values)
	if err != nil {
		return nil, fmt.Errorf("encoding column values: %w", err)
	}

	data, err := l.client.QueryWithRetry(ctx, `mutation ($boardId: ID!, $itemName: String!, $columnValues: JSON!) {
		create_item(board_id: $boardId, item_name: $itemName, column_values: $columnValues) {
			id name
		}
	}`, map[string]any{
		"boardId":      board.ID,
		"itemName":     itemName,
		"columnValues": columnValues,
	})
	if err != nil {
		return nil, fmt.Errorf("creating session item: %w", err)
	}
	var resp struct {
		CreateItem monday.Item `json:"create_item"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_item: %w", err)
	}

	result := &LogResult{
		ItemID:    resp.CreateItem.ID,
		ItemName:  resp.CreateItem.Name,
		BoardID:   board.ID,
		BoardName: board.Name,
		BoardURL:  "https://monday.com/boards/" + board.ID,
	}

	if l.store != nil {
		if err := l.store.Record(rec, result.ItemID); err != nil {
			l.log.Warn().Err(err).Msg("could not record session in local ledger")
		}
	}

	l.log.Info().Str("item_id", result.ItemID).Str("board_id", board.ID).
		Msg("session logged")
	return result, nil
}

// Duration renders the session length as "2h 15m" or "45m".
func (r Record) Duration() string {
	d := r.EndTime.Sub(r.StartTime)
	minutes := int(d.Minutes())
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
