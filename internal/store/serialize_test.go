package store

import (
	"testing"

	"github.com/shadowmesh/dhtnode/internal/dht"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	s := New()
	uid := dht.KeyUID("k")
	s.PutWithKey(uid, "k", "v")

	data, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize() error: %v", err)
	}

	restored := New()
	if err := restored.Deserialize(data); err != nil {
		t.Fatalf("Deserialize() error: %v", err)
	}

	value, ok := restored.Get(uid)
	if !ok || value != "v" {
		t.Fatalf("restored Get() = (%q, %v), want (\"v\", true)", value, ok)
	}
	if _, ok := restored.GetOriginalKey(uid); ok {
		t.Fatalf("Deserialize() should not restore original keys")
	}
}

func TestDeserializeMalformed(t *testing.T) {
	s := New()
	if err := s.Deserialize([]byte("not json")); err == nil {
		t.Fatalf("Deserialize() of malformed data returned nil error")
	}
}
