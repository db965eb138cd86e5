package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultAPIURL is the monday.com GraphQL v2 endpoint.
	DefaultAPIURL = "https://api.monday.com/v2"
	// DefaultAPIVersion pins the API schema version on every request.
	DefaultAPIVersion = "2024-10"
	// DefaultRateLimitPerMinute is the local request budget per trailing minute.
	DefaultRateLimitPerMinute = 60
	// DefaultMaxRetries bounds QueryWithRetry's rate-limit retries.
	DefaultMaxRetries = 3

	rateLimitWindow  = time.Minute
	rateLimitMargin  = 100 * time.Millisecond
	defaultRetryWait = 30 * time.Second
	maxRetryWait     = 60 * time.Second
)

// Querier is the client surface tool handlers and the forwarder consume.
// Query returns the raw "data" payload of a successful GraphQL response;
// callers unmarshal into their own response structs.
type Querier interface {
	Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
	QueryWithRetry(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	Token              string
	APIURL             string
	APIVersion         string
	RateLimitPerMinute int
	MaxRetries         int
	HTTPClient         *http.Client
	Logger             zerolog.Logger
}

// Client is a monday.com GraphQL client with a local sliding-window rate
// limiter. Safe for concurrent use.
type Client struct {
	token      string
	apiURL     string
	apiVersion string
	limit      int
	maxRetries int
	httpClient *http.Client
	log        zerolog.Logger

	mu     sync.Mutex
	window []time.Time

	// Injection points for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a Client from cfg, applying defaults for unset fields.
func New(cfg Config) *Client {
	c := &Client{
		token:      cfg.Token,
		apiURL:     cfg.APIURL,
		apiVersion: cfg.APIVersion,
		limit:      cfg.RateLimitPerMinute,
		maxRetries: cfg.MaxRetries,
		httpClient: cfg.HTTPClient,
		log:        cfg.Logger,
		now:        time.Now,
		sleep:      sleepCtx,
	}
	if c.apiURL == "" {
		c.apiURL = DefaultAPIURL
	}
	if c.apiVersion == "" {
		c.apiVersion = DefaultAPIVersion
	}
	if c.limit <= 0 {
		c.limit = DefaultRateLimitPerMinute
	}
	if c.maxRetries <= 0 {
		c.maxRetries = DefaultMaxRetries
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

// Query executes one GraphQL query or mutation. It blocks while the local
// rate budget is exhausted, then classifies the response:
//
//   - HTTP 429 -> *RateLimitError (Retry-After header, default 30s)
//   - other non-2xx -> *APIError with status and body
//   - GraphQL errors with a negative complexity budget -> *RateLimitError
//   - other GraphQL errors -> *APIError with the joined messages
//   - missing data -> *APIError
//
// On success it returns the raw "data" payload.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	if err := c.waitForSlot(ctx); err != nil {
		return nil, err
	}

	body := map[string]any{"query": query}
	if len(variables) > 0 {
		body["variables"] = variables
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)
	req.Header.Set("API-Version", c.apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling monday api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		reset := int(defaultRetryWait / time.Second)
		if n, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			reset = n
		}
		return nil, &RateLimitError{ResetInSeconds: reset}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}

	var gr graphQLResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(gr.Errors) > 0 {
		if gr.Complexity != nil && gr.Complexity.After < 0 {
			return nil, &RateLimitError{ResetInSeconds: gr.Complexity.ResetInSeconds}
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    joinErrorMessages(gr.Errors),
			Errors:     gr.Errors,
			Complexity: gr.Complexity,
		}
	}

	if len(gr.Data) == 0 || string(gr.Data) == "null" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "no data returned"}
	}

	return gr.Data, nil
}

// QueryWithRetry runs Query and retries rate-limit errors, sleeping until
// the reported reset (capped at 60s) between attempts. Other errors and
// context cancellation abort immediately. At most maxRetries+1 attempts;
// the last RateLimitError is returned when the budget never recovers.
func (c *Client) QueryWithRetry(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		data, err := c.Query(ctx, query, variables)
		if err == nil {
			return data, nil
		}

		var rle *RateLimitError
		if !errors.As(err, &rle) || attempt == c.maxRetries {
			return nil, err
		}
		lastErr = err

		wait := time.Duration(rle.ResetInSeconds) * time.Second
		if wait > maxRetryWait {
			wait = maxRetryWait
		}
		c.log.Warn().
			Int("attempt", attempt+1).
			Dur("wait", wait).
			Msg("rate limited, backing off before retry")
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// Me fetches the authenticated user. Used as a startup token probe.
func (c *Client) Me(ctx context.Context) (*User, error) {
	data, err := c.Query(ctx, `query { me { id name email } }`, nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Me User `json:"me"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding me: %w", err)
	}
	return &resp.Me, nil
}

// waitForSlot blocks until issuing a request keeps the trailing-minute
// count within the budget, then records the request timestamp. The wait
// target is when the oldest in-window timestamp ages out, plus a small
// margin so it has actually left the window on wake.
func (c *Client) waitForSlot(ctx context.Context) error {
	for {
		c.mu.Lock()
		now := c.now()
		windowStart := now.Add(-rateLimitWindow)

		kept := c.window[:0]
		for _, ts := range c.window {
			if ts.After(windowStart) {
				kept = append(kept, ts)
			}
		}
		c.window = kept

		if len(c.window) < c.limit {
			c.window = append(c.window, now)
			c.mu.Unlock()
			return nil
		}

		wait := c.window[0].Sub(windowStart) + rateLimitMargin
		c.mu.Unlock()

		c.log.Debug().Dur("wait", wait).Msg("request budget exhausted, waiting for window")
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
