package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openclaw/monday-mcp/internal/config"
)

// apiStub is a fake monday.com endpoint recording every query it receives.
type apiStub struct {
	mu      sync.Mutex
	queries []string
	respond func(query string) string
}

func (a *apiStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var query string
		json.Unmarshal(body["query"], &query)

		a.mu.Lock()
		a.queries = append(a.queries, query)
		a.mu.Unlock()

		w.Write([]byte(a.respond(query)))
	}
}

func (a *apiStub) sawQuery(sub string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, q := range a.queries {
		if strings.Contains(q, sub) {
			return true
		}
	}
	return false
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Token:  "test-token",
		APIURL: apiURL,
		Notifications: config.Notifications{
			IntervalSeconds: 60,
			FetchLimit:      25,
			StatePath:       filepath.Join(dir, "state.json"),
		},
		Sessions: config.Sessions{DataDir: filepath.Join(dir, "sessions")},
		Contacts: config.Contacts{ConfigPath: filepath.Join(dir, "contacts.json")},
	}
}

func TestNewProbesTokenAtStartup(t *testing.T) {
	stub := &apiStub{respond: func(string) string {
		return `{"data":{"me":{"id":"10","name":"Alice","email":"alice@acme.test"}}}`
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	s, cleanup, err := New(context.Background(), testConfig(t, srv.URL), zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	if s == nil {
		t.Fatal("New returned nil server")
	}
	if !stub.sawQuery("me {") {
		t.Error("no me query issued at startup")
	}
}

func TestNewFailsFastOnRejectedToken(t *testing.T) {
	stub := &apiStub{respond: func(string) string {
		return `{"errors":[{"message":"Not Authenticated"}]}`
	}}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	_, cleanup, err := New(context.Background(), testConfig(t, srv.URL), zerolog.Nop())
	if err == nil {
		t.Fatal("New accepted a rejected token")
	}
	if !strings.Contains(err.Error(), "validating API token") {
		t.Errorf("error = %v, want token validation failure", err)
	}
	cleanup() // must be safe after failure
}

func TestNewToleratesUnreachableAPI(t *testing.T) {
	// A transient network failure at startup must not kill the server;
	// only an explicit API rejection does.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	s, cleanup, err := New(context.Background(), testConfig(t, srv.URL), zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()
	if s == nil {
		t.Fatal("New returned nil server")
	}
}
