// Package contacts keeps a contact allowlist synchronized both ways
// between a JSON config file and a monday.com board.
package contacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Allowlist is the on-disk contact configuration.
type Allowlist struct {
	AllowedNumbers []string `json:"allowedNumbers"`
	BlockedNumbers []string `json:"blockedNumbers"`
	PendingNumbers []string `json:"pendingNumbers"`
	AutoApprove    bool     `json:"autoApprove"`
}

// Total returns the number of tracked contacts.
func (a *Allowlist) Total() int {
	return len(a.AllowedNumbers) + len(a.BlockedNumbers) + len(a.PendingNumbers)
}

type configFile struct {
	path string
}

// load reads the allowlist; a missing file yields an empty allowlist.
func (c configFile) load() (*Allowlist, error) {
	raw, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return &Allowlist{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading allowlist config: %w", err)
	}

	var list Allowlist
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parsing allowlist config: %w", err)
	}
	return &list, nil
}

// save writes the allowlist atomically via a temp file rename.
func (c configFile) save(list *Allowlist) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding allowlist: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".allowlist-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing allowlist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing allowlist config: %w", err)
	}
	return nil
}
