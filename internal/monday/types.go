// Package monday implements a rate-limited GraphQL client for the
// monday.com API v2, plus helpers for column value formatting and
// cursor-based pagination.
//
// The client enforces a local sliding-window request budget before each
// call, classifies API failures into a retryable RateLimitError and a
// terminal APIError, and offers bounded retry for the former.
package monday

import "encoding/json"

// GraphQLError is one entry of the top-level "errors" array in a
// GraphQL response.
type GraphQLError struct {
	Message    string          `json:"message"`
	Locations  []ErrorLocation `json:"locations,omitempty"`
	Extensions map[string]any  `json:"extensions,omitempty"`
}

// ErrorLocation points at the query position that produced an error.
type ErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Complexity is monday.com's per-minute query complexity budget, reported
// on responses. After < 0 means the budget is exhausted.
type Complexity struct {
	Before         int `json:"before"`
	After          int `json:"after"`
	Query          int `json:"query"`
	ResetInSeconds int `json:"reset_in_x_seconds"`
}

type graphQLResponse struct {
	Data       json.RawMessage `json:"data"`
	Errors     []GraphQLError  `json:"errors"`
	AccountID  int64           `json:"account_id"`
	Complexity *Complexity     `json:"complexity"`
}

// Shared response shapes for the queries this module issues. monday.com
// returns IDs as strings in its GraphQL API.

// User is a monday.com account member.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Account holds account-level metadata; Slug is the subdomain used to
// build https://{slug}.monday.com URLs.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// Board is a monday.com board.
type Board struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	State       string     `json:"state,omitempty"`
	BoardKind   string     `json:"board_kind,omitempty"`
	Workspace   *Workspace `json:"workspace,omitempty"`
	Groups      []Group    `json:"groups,omitempty"`
	Columns     []Column   `json:"columns,omitempty"`
	Owners      []User     `json:"owners,omitempty"`
	Subscribers []User     `json:"subscribers,omitempty"`
	ItemsCount  int        `json:"items_count,omitempty"`
	Permissions string     `json:"permissions,omitempty"`
	UpdatedAt   string     `json:"updated_at,omitempty"`
	ItemsPage   *ItemsPage `json:"items_page,omitempty"`
}

// Group is a section of a board.
type Group struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Color    string `json:"color,omitempty"`
	Position string `json:"position,omitempty"`
}

// Column describes a board column's schema.
type Column struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Settings string `json:"settings_str,omitempty"`
}

// ColumnValue is a cell on an item. Value carries the type-specific JSON
// payload; Text is the API's plain-text rendering of it.
type ColumnValue struct {
	ID     string  `json:"id"`
	Title  string  `json:"title,omitempty"`
	Type   string  `json:"type,omitempty"`
	Text   string  `json:"text"`
	Value  string  `json:"value,omitempty"`
	Column *Column `json:"column,omitempty"`
}

// Item is a row on a board.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	State        string        `json:"state,omitempty"`
	CreatedAt    string        `json:"created_at,omitempty"`
	UpdatedAt    string        `json:"updated_at,omitempty"`
	Board        *Board        `json:"board,omitempty"`
	Group        *Group        `json:"group,omitempty"`
	ColumnValues []ColumnValue `json:"column_values,omitempty"`
	Updates      []Update      `json:"updates,omitempty"`
	Subitems     []Item        `json:"subitems,omitempty"`
}

// ItemsPage is one page of a cursor-paginated item listing. A null cursor
// means no further pages.
type ItemsPage struct {
	Cursor *string `json:"cursor"`
	Items  []Item  `json:"items"`
}

// Update is a post on an item's updates feed.
type Update struct {
	ID        string   `json:"id"`
	Body      string   `json:"body,omitempty"`
	TextBody  string   `json:"text_body,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
	CreatorID string   `json:"creator_id,omitempty"`
	Creator   *User    `json:"creator,omitempty"`
	ItemID    string   `json:"item_id,omitempty"`
	Item      *Item    `json:"item,omitempty"`
	Replies   []Update `json:"replies,omitempty"`
}

// Workspace groups boards.
type Workspace struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind,omitempty"`
	Description string `json:"description,omitempty"`
}
