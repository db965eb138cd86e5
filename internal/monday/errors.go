package monday

import (
	"fmt"
	"strings"
)

// APIError is returned for any monday.com API failure that is not a rate
// limit: HTTP-level errors, GraphQL errors, and empty responses. It is not
// retried automatically.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []GraphQLError
	Complexity *Complexity
}

func (e *APIError) Error() string {
	return fmt.Sprintf("monday api: %s (status %d)", e.Message, e.StatusCode)
}

// RateLimitError is returned when monday.com rejects a request for rate
// limiting reasons, either via HTTP 429 or via a negative complexity budget.
// ResetInSeconds is when the budget refills; QueryWithRetry honors it.
type RateLimitError struct {
	ResetInSeconds int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("monday api: rate limit exceeded, resets in %ds", e.ResetInSeconds)
}

func joinErrorMessages(errs []GraphQLError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}
