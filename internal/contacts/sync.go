package contacts

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

const allowlistBoardName = "Contact Allowlist"

// Contact is one tracked number with its board metadata.
type Contact struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name,omitempty"`
	Status      string `json:"status"` // allowed, blocked, pending, unknown
	AddedDate   string `json:"added_date,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Source      string `json:"source,omitempty"` // config, incoming, manual
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Direction string `json:"direction"`
	BoardID   string `json:"board_id"`
	BoardName string `json:"board_name"`
	Allowed   int    `json:"allowed"`
	Blocked   int    `json:"blocked"`
	Pending   int    `json:"pending"`
}

// Sync mirrors the allowlist between the JSON config and a monday.com
// board. The board is the editing surface; the config is what the agent
// host actually enforces.
type Sync struct {
	client monday.Querier
	config configFile
	log    zerolog.Logger

	mu    sync.Mutex
	board *monday.Board
}

// NewSync builds a Sync persisting its allowlist at configPath.
func NewSync(client monday.Querier, configPath string, log zerolog.Logger) *Sync {
	return &Sync{client: client, config: configFile{path: configPath}, log: log}
}

// EnsureBoard returns the allowlist board, creating it with its column and
// group structure on first use.
func (s *Sync) EnsureBoard(ctx context.Context) (*monday.Board, error) {
	s.mu.Lock()
	if s.board != nil {
		board := s.board
		s.mu.Unlock()
		return board, nil
	}
	s.mu.Unlock()

	data, err := s.client.QueryWithRetry(ctx, `query { boards(limit: 50) { id name } }`, nil)
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
		if b.Name == allowlistBoardName || strings.Contains(b.Name, "Allowlist") {
			s.mu.Lock()
			s.board = &monday.Board{ID: b.ID, Name: b.Name}
			board := s.board
			s.mu.Unlock()
			return board, nil
		}
	}

	created, err := s.createBoard(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.setupBoard(ctx, created.ID); err != nil {
		s.log.Warn().Err(err).Str("board_id", created.ID).
			Msg("allowlist board created but structure setup failed")
	}

	s.mu.Lock()
	s.board = created
	s.mu.Unlock()
	return created, nil
}

func (s *Sync) createBoard(ctx context.Context) (*monday.Board, error) {
	data, err := s.client.QueryWithRetry(ctx, `mutation ($boardName: String!, $desc: String) {
		create_board(board_name: $boardName, board_kind: private, description: $desc) {
			id name
		}
	}`, map[string]any{
		"boardName": allowlistBoardName,
		"desc":      "Contact allowlist with 2-way sync to the agent host configuration",
	})
	if err != nil {
		return nil, fmt.Errorf("creating allowlist board: %w", err)
	}
	var resp struct {
		CreateBoard monday.Board `json:"create_board"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding create_board: %w", err)
	}
	s.log.Info().Str("board_id", resp.CreateBoard.ID).Msg("created allowlist board")
	return &resp.CreateBoard, nil
}

func (s *Sync) setupBoard(ctx context.Context, boardID string) error {
	columns := []struct {
		title string
		typ   string
	}{
		{"Phone Number", "phone"},
		{"Contact Name", "text"},
		{"Status", "status"},
		{"Added Date", "date"},
		{"Source", "dropdown"},
		{"Notes", "long_text"},
	}
	for _, col := range columns {
		_, err := s.client.QueryWithRetry(ctx, `mutation ($boardId: ID!, $title: String!, $type: ColumnType!) {
			create_column(board_id: $boardId, title: $title, column_type: $type) { id }
		}`, map[string]any{"boardId": boardID, "title": col.title, "type": col.typ})
		if err != nil {
			return fmt.Errorf("creating column %q: %w", col.title, err)
		}
	}

	for _, group := range []string{"Allowed Contacts", "Blocked Contacts", "Pending Approval"} {
		_, err := s.client.QueryWithRetry(ctx, `mutation ($boardId: ID!, $title: String!) {
			create_group(board_id: $boardId, group_name: $title) { id }
		}`, map[string]any{"boardId": boardID, "title": group})
		if err != nil {
			return fmt.Errorf("creating group %q: %w", group, err)
		}
	}
	return nil
}

// ToBoard pushes every configured number onto the board.
func (s *Sync) ToBoard(ctx context.Context) (*SyncResult, error) {
	list, err := s.config.load()
	if err != nil {
		return nil, err
	}
	board, err := s.EnsureBoard(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	push := func(numbers []string, status string) error {
		for _, number := range numbers {
			contact := Contact{
				PhoneNumber: number,
				Status:      status,
				AddedDate:   today,
				Source:      "config",
			}
			if err := s.addContact(ctx, board.ID, contact); err != nil {
				return fmt.Errorf("adding %s contact %s: %w", status, number, err)
			}
		}
		return nil
	}
	if err := push(list.AllowedNumbers, "allowed"); err != nil {
		return nil, err
	}
	if err := push(list.BlockedNumbers, "blocked"); err != nil {
		return nil, err
	}
	if err := push(list.PendingNumbers, "pending"); err != nil {
		return nil, err
	}

	s.log.Info().Int("contacts", list.Total()).Str("board_id", board.ID).
		Msg("config synced to board")
	return &SyncResult{
		Direction: "config_to_board",
		BoardID:   board.ID,
		BoardName: board.Name,
		Allowed:   len(list.AllowedNumbers),
		Blocked:   len(list.BlockedNumbers),
		Pending:   len(list.PendingNumbers),
	}, nil
}

func (s *Sync) addContact(ctx context.Context, boardID string, contact Contact) error {
	values := map[string]any{
		"phone_number": monday.PhoneValue(contact.PhoneNumber, ""),
		"contact_name": contact.Name,
		"status":       monday.StatusLabel(capitalize(contact.Status)),
		"added_date":   monday.DateValue(contact.AddedDate, ""),
		"source":       monday.DropdownValue([]string{capitalize(contact.Source)}),
		"notes":        monday.LongTextValue(contact.Notes),
	}
	columnValues, err := monday.FormatColumnValues(values)
	if err != nil {
		return fmt.Errorf("encoding column values: %w", err)
	}

	itemName := contact.Name
	if itemName == "" {
		itemName = contact.PhoneNumber
	}
	_, err = s.client.QueryWithRetry(ctx, `mutation ($boardId: ID!, $itemName: String!, $columnValues: JSON!) {
		create_item(board_id: $boardId, item_name: $itemName, column_values: $columnValues) {
			id name
		}
	}`, map[string]any{
		"boardId":      boardID,
		"itemName":     itemName,
		"columnValues": columnValues,
	})
	return err
}

// FromBoard reads the board and rebuilds the config's number lists from
// the Status column. The board is the source of truth in this direction.
func (s *Sync) FromBoard(ctx context.Context) (*SyncResult, error) {
	board, err := s.EnsureBoard(ctx)
	if err != nil {
		return nil, err
	}

	data, err := s.client.QueryWithRetry(ctx, `query ($boardId: [ID!]!) {
		boards(ids: $boardId) {
			items_page(limit: 500) {
				items {
					id name
					column_values { id title text }
				}
			}
		}
	}`, map[string]any{"boardId": []string{board.ID}})
	if err != nil {
		return nil, fmt.Errorf("reading allowlist board: %w", err)
	}

	var resp struct {
		Boards []monday.Board `json:"boards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding allowlist board: %w", err)
	}
	if len(resp.Boards) == 0 || resp.Boards[0].ItemsPage == nil {
		return nil, fmt.Errorf("allowlist board %s returned no items page", board.ID)
	}

	contacts := parseContacts(resp.Boards[0].ItemsPage.Items)

	list, err := s.config.load()
	if err != nil {
		return nil, err
	}
	list.AllowedNumbers = numbersWithStatus(contacts, "allowed")
	list.BlockedNumbers = numbersWithStatus(contacts, "blocked")
	list.PendingNumbers = numbersWithStatus(contacts, "pending")
	if err := s.config.save(list); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("allowed", len(list.AllowedNumbers)).
		Int("blocked", len(list.BlockedNumbers)).
		Int("pending", len(list.PendingNumbers)).
		Msg("board synced to config")
	return &SyncResult{
		Direction: "board_to_config",
		BoardID:   board.ID,
		BoardName: board.Name,
		Allowed:   len(list.AllowedNumbers),
		Blocked:   len(list.BlockedNumbers),
		Pending:   len(list.PendingNumbers),
	}, nil
}

// AddIncoming records a newly-detected number as pending in both the board
// and the config.
func (s *Sync) AddIncoming(ctx context.Context, phoneNumber, name string) error {
	board, err := s.EnsureBoard(ctx)
	if err != nil {
		return err
	}

	contact := Contact{
		PhoneNumber: phoneNumber,
		Name:        name,
		Status:      "pending",
		AddedDate:   time.Now().Format("2006-01-02"),
		Source:      "incoming",
		Notes:       "Auto-detected incoming number",
	}
	if err := s.addContact(ctx, board.ID, contact); err != nil {
		return fmt.Errorf("adding incoming contact: %w", err)
	}

	list, err := s.config.load()
	if err != nil {
		return err
	}
	for _, n := range list.PendingNumbers {
		if n == phoneNumber {
			return nil
		}
	}
	list.PendingNumbers = append(list.PendingNumbers, phoneNumber)
	return s.config.save(list)
}

// Counts returns the configured list sizes without touching the API.
func (s *Sync) Counts() (allowed, blocked, pending int, err error) {
	list, err := s.config.load()
	if err != nil {
		return 0, 0, 0, err
	}
	return len(list.AllowedNumbers), len(list.BlockedNumbers), len(list.PendingNumbers), nil
}

func parseContacts(items []monday.Item) []Contact {
	contacts := make([]Contact, 0, len(items))
	for _, item := range items {
		byTitle := map[string]string{}
		for _, cv := range item.ColumnValues {
			byTitle[cv.Title] = cv.Text
		}

		phone := byTitle["Phone Number"]
		if phone == "" {
			continue
		}
		contacts = append(contacts, Contact{
			PhoneNumber: phone,
			Name:        byTitle["Contact Name"],
			Status:      parseStatus(byTitle["Status"]),
			AddedDate:   byTitle["Added Date"],
			Notes:       byTitle["Notes"],
			Source:      strings.ToLower(byTitle["Source"]),
		})
	}
	return contacts
}

func parseStatus(text string) string {
	switch status := strings.ToLower(text); {
	case strings.Contains(status, "allow"):
		return "allowed"
	case strings.Contains(status, "block"):
		return "blocked"
	case strings.Contains(status, "pending"):
		return "pending"
	default:
		return "unknown"
	}
}

func numbersWithStatus(contacts []Contact, status string) []string {
	numbers := []string{}
	for _, c := range contacts {
		if c.Status == status {
			numbers = append(numbers, c.PhoneNumber)
		}
	}
	return numbers
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
