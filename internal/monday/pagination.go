package monday

import (
	"context"
	"encoding/json"
	"fmt"
)

// Cursor pagination helpers. monday.com pages large item listings through
// boards.items_page (first page) and next_items_page (subsequent pages,
// keyed by an opaque cursor). A null cursor ends the sequence.

const defaultPageSize = 50

// PageRequest is one paginated GraphQL call: the query plus its variables.
type PageRequest struct {
	Query     string
	Variables map[string]any
}

// Page is one decoded page of results.
type Page[T any] struct {
	Items  []T
	Cursor *string
}

// CollectPages drives cursor pagination to completion: build produces the
// request for a given cursor (empty for the first page), extract decodes
// one page from the raw response. Stops when the cursor is exhausted or
// maxItems (0 = unlimited) is reached.
func CollectPages[T any](
	ctx context.Context,
	q Querier,
	maxItems int,
	build func(cursor string, pageSize int) PageRequest,
	extract func(data json.RawMessage, nextPage bool) (Page[T], error),
) ([]T, error) {
	var all []T
	cursor := ""
	for {
		req := build(cursor, defaultPageSize)
		data, err := q.Query(ctx, req.Query, req.Variables)
		if err != nil {
			return nil, err
		}
		page, err := extract(data, cursor != "")
		if err != nil {
			return nil, err
		}

		all = append(all, page.Items...)
		if maxItems > 0 && len(all) >= maxItems {
			return all[:maxItems], nil
		}
		if page.Cursor == nil || *page.Cursor == "" {
			return all, nil
		}
		cursor = *page.Cursor
	}
}

// ItemsPageRequest builds the standard item listing request for a board.
// queryParams, when non-empty, is a raw GraphQL ItemsQuery literal spliced
// into the first-page query (column and group filters).
func ItemsPageRequest(boardID string, cursor string, pageSize int, queryParams string) PageRequest {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	if cursor != "" {
		return PageRequest{
			Query: fmt.Sprintf(`query ($cursor: String!) {
				next_items_page(cursor: $cursor, limit: %d) {
					cursor
					items {
						id
						name
						group { id title }
						column_values { id type text value }
						created_at
						updated_at
					}
				}
			}`, pageSize),
			Variables: map[string]any{"cursor": cursor},
		}
	}

	queryArg := ""
	if queryParams != "" {
		queryArg = ", query_params: " + queryParams
	}
	return PageRequest{
		Query: fmt.Sprintf(`query ($boardId: [ID!]!) {
			boards(ids: $boardId) {
				items_page(limit: %d%s) {
					cursor
					items {
						id
						name
						group { id title }
						column_values { id type text value }
						created_at
						updated_at
					}
				}
			}
		}`, pageSize, queryArg),
		Variables: map[string]any{"boardId": []string{boardID}},
	}
}

// ExtractItemsPage decodes the standard item listing response produced by
// ItemsPageRequest, for either the first or a subsequent page.
func ExtractItemsPage(data json.RawMessage, nextPage bool) (Page[Item], error) {
	if nextPage {
		var resp struct {
			NextItemsPage ItemsPage `json:"next_items_page"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return Page[Item]{}, fmt.Errorf("decoding next_items_page: %w", err)
		}
		return Page[Item]{Items: resp.NextItemsPage.Items, Cursor: resp.NextItemsPage.Cursor}, nil
	}

	var resp struct {
		Boards []struct {
			ItemsPage ItemsPage `json:"items_page"`
		} `json:"boards"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return Page[Item]{}, fmt.Errorf("decoding items_page: %w", err)
	}
	if len(resp.Boards) == 0 {
		return Page[Item]{}, nil
	}
	page := resp.Boards[0].ItemsPage
	return Page[Item]{Items: page.Items, Cursor: page.Cursor}, nil
}

// CollectBoardItems fetches up to maxItems items from a board across all
// pages.
func CollectBoardItems(ctx context.Context, q Querier, boardID string, maxItems int, queryParams string) ([]Item, error) {
	return CollectPages(ctx, q, maxItems,
		func(cursor string, pageSize int) PageRequest {
			return ItemsPageRequest(boardID, cursor, pageSize, queryParams)
		},
		ExtractItemsPage,
	)
}
