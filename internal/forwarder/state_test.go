package forwarder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSeenSetFIFOEviction(t *testing.T) {
	s := newSeenSet()
	for i := 0; i < 600; i++ {
		s.Add(fmt.Sprintf("id-%d", i))
	}

	if s.Len() != maxSeenIDs {
		t.Fatalf("Len = %d, want %d", s.Len(), maxSeenIDs)
	}
	// The 100 oldest-inserted are gone, the rest survive.
	for i := 0; i < 100; i++ {
		if s.Has(fmt.Sprintf("id-%d", i)) {
			t.Errorf("id-%d still present, want evicted", i)
		}
	}
	for i := 100; i < 600; i++ {
		if !s.Has(fmt.Sprintf("id-%d", i)) {
			t.Errorf("id-%d missing, want present", i)
		}
	}
}

func TestSeenSetAddIsIdempotent(t *testing.T) {
	s := newSeenSet()
	s.Add("a")
	s.Add("a")
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	f := stateFile{path: path}

	s := newSeenSet()
	s.Add("100")
	s.Add("200")
	if err := f.save(s, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := f.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Has("100") || !loaded.Has("200") || loaded.Len() != 2 {
		t.Errorf("loaded = %v", loaded.IDs())
	}

	// The on-disk shape is part of the contract.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var st persistedState
	if err := json.Unmarshal(raw, &st); err != nil {
		t.Fatalf("state file not valid JSON: %v", err)
	}
	if st.LastPollTime != "2024-06-01T12:00:00Z" {
		t.Errorf("lastPollTime = %q", st.LastPollTime)
	}
}

func TestLoadMissingFile(t *testing.T) {
	f := stateFile{path: filepath.Join(t.TempDir(), "absent.json")}
	s, err := f.load()
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestLoadCorruptFileYieldsEmptySet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := stateFile{path: path}.load()
	if err == nil {
		t.Error("load corrupt file returned nil error, want logged error")
	}
	if s == nil || s.Len() != 0 {
		t.Errorf("seen set = %v, want empty", s)
	}
}
