// Package store implements the node's local key-value store: a concurrent
// mapping from identifier to (original key?, value) with no versioning and
// no persistence across restarts.
package store

import (
	"fmt"
	"sync"

	"github.com/shadowmesh/dhtnode/internal/dht"
)

// Entry is a stored value together with the original key that hashed to it,
// when known. Entries arriving via STORE/VALUE wire messages never carry
// the original key — the key's plaintext is not transmitted — so
// OriginalKey is empty for those.
type Entry struct {
	OriginalKey string
	Value       string
	HasOriginal bool
}

// Store is a concurrent map from dht.UID to Entry. Every method call
// observes a consistent snapshot; later writes to the same UID overwrite
// earlier ones with no conflict detection.
type Store struct {
	mu      sync.Mutex
	entries map[dht.UID]Entry
}

// New creates an empty Store.
func New() *Store {
	return &Store{entries: make(map[dht.UID]Entry)}
}

// PutWithKey overwrite-inserts value under id, recording originalKey.
func (s *Store) PutWithKey(id dht.UID, originalKey, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = Entry{OriginalKey: originalKey, Value: value, HasOriginal: true}
}

// Put overwrite-inserts value under id with no original key recorded — used
// for entries learned from peers (STORE/VALUE) or cached remote lookups.
func (s *Store) Put(id dht.UID, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = Entry{Value: value}
}

// Get returns the value stored under id, if any.
func (s *Store) Get(id dht.UID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return "", false
	}
	return e.Value, true
}

// GetOriginalKey returns the original key recorded for id, if any.
func (s *Store) GetOriginalKey(id dht.UID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || !e.HasOriginal {
		return "", false
	}
	return e.OriginalKey, true
}

// Contains reports whether id has a stored entry.
func (s *Store) Contains(id dht.UID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}

// AllEntries returns a snapshot of the full map, for the replicator.
func (s *Store) AllEntries() map[dht.UID]Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[dht.UID]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Format renders a human-readable dump for the CLI `.kvstore` command.
// Entries with no recorded original key are shown as "(unknown)" — see
// SPEC_FULL.md's open-question decision on this display choice.
func (s *Store) Format() string {
	all := s.AllEntries()
	if len(all) == 0 {
		return "(key-value store is empty)\n"
	}
	out := ""
	for id, e := range all {
		key := "(unknown)"
		if e.HasOriginal {
			key = e.OriginalKey
		}
		out += fmt.Sprintf("%s  key=%s  value=%s\n", id, key, e.Value)
	}
	return out
}

// wireRecord is the JSON shape of one entry in the diagnostics-only
// serialization format: {"data": [{"key": UID, "value": V}, ...]}.
type wireRecord struct {
	Key   dht.UID `json:"key"`
	Value string  `json:"value"`
}
