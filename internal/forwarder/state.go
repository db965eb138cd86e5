package forwarder

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// maxSeenIDs caps the dedup set. When exceeded, the oldest-inserted IDs
// are evicted first.
const maxSeenIDs = 500

// seenSet tracks surfaced update IDs in insertion order so eviction is
// FIFO. Not safe for concurrent use; the Forwarder serializes access.
type seenSet struct {
	order []string
	index map[string]struct{}
}

func newSeenSet() *seenSet {
	return &seenSet{index: make(map[string]struct{})}
}

func (s *seenSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Add inserts id and evicts the oldest entries while over the cap.
func (s *seenSet) Add(id string) {
	if s.Has(id) {
		return
	}
	s.order = append(s.order, id)
	s.index[id] = struct{}{}

	for len(s.order) > maxSeenIDs {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.index, oldest)
	}
}

func (s *seenSet) Len() int {
	return len(s.order)
}

func (s *seenSet) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

type persistedState struct {
	SeenIDs      []string `json:"seenIds"`
	LastPollTime string   `json:"lastPollTime"`
}

// stateFile persists the seen-set as JSON at a fixed path.
type stateFile struct {
	path string
}

// load reads the persisted seen-set. A missing or corrupt file yields an
// empty set and a non-nil error the caller may log; startup never fails
// on bad state.
func (f stateFile) load() (*seenSet, error) {
	s := newSeenSet()

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("reading state file: %w", err)
	}

	var st persistedState
	if err := json.Unmarshal(raw, &st); err != nil {
		return s, fmt.Errorf("parsing state file: %w", err)
	}
	for _, id := range st.SeenIDs {
		s.Add(id)
	}
	return s, nil
}

// save writes the seen-set atomically: temp file in the same directory,
// then rename. Parent directories are created as needed.
func (f stateFile) save(s *seenSet, now time.Time) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	raw, err := json.MarshalIndent(persistedState{
		SeenIDs:      s.IDs(),
		LastPollTime: now.UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing state file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
