package store

import (
	"encoding/json"
	"fmt"

	"github.com/shadowmesh/dhtnode/internal/dht"
)

// diagnosticsDump is the on-the-wire shape used only for diagnostics
// (never transmitted as part of the DHT protocol itself).
type diagnosticsDump struct {
	Data []wireRecord `json:"data"`
}

// Serialize renders the store as {"data": [{"key": UID, "value": V}, ...]}.
// This format exists for diagnostics only and is never sent over the wire.
func (s *Store) Serialize() ([]byte, error) {
	all := s.AllEntries()
	dump := diagnosticsDump{Data: make([]wireRecord, 0, len(all))}
	for id, e := range all {
		dump.Data = append(dump.Data, wireRecord{Key: id, Value: e.Value})
	}
	out, err := json.Marshal(dump)
	if err != nil {
		return nil, fmt.Errorf("store: serialize: %w", err)
	}
	return out, nil
}

// Deserialize replaces the store's contents with the records in data,
// which must be in the Serialize format. Original keys are not recorded —
// the diagnostics format does not carry them.
func (s *Store) Deserialize(data []byte) error {
	var dump diagnosticsDump
	if err := json.Unmarshal(data, &dump); err != nil {
		return fmt.Errorf("store: deserialize: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[dht.UID]Entry, len(dump.Data))
	for _, rec := range dump.Data {
		s.entries[rec.Key] = Entry{Value: rec.Value}
	}
	return nil
}
