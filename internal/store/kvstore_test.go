package store

import (
	"strings"
	"testing"

	"github.com/shadowmesh/dhtnode/internal/dht"
)

func TestPutWithKeyAndGet(t *testing.T) {
	s := New()
	uid := dht.KeyUID("hello")
	s.PutWithKey(uid, "hello", "world")

	value, ok := s.Get(uid)
	if !ok || value != "world" {
		t.Fatalf("Get() = (%q, %v), want (\"world\", true)", value, ok)
	}

	key, ok := s.GetOriginalKey(uid)
	if !ok || key != "hello" {
		t.Fatalf("GetOriginalKey() = (%q, %v), want (\"hello\", true)", key, ok)
	}
}

func TestPutHasNoOriginalKey(t *testing.T) {
	s := New()
	uid := dht.KeyUID("learned-remotely")
	s.Put(uid, "some-value")

	if _, ok := s.GetOriginalKey(uid); ok {
		t.Fatalf("GetOriginalKey() reported a key for a Put() entry")
	}
	if !s.Contains(uid) {
		t.Fatalf("Contains() = false after Put()")
	}
}

func TestGetMiss(t *testing.T) {
	s := New()
	if _, ok := s.Get(dht.KeyUID("absent")); ok {
		t.Fatalf("Get() on empty store returned ok=true")
	}
}

func TestFormatShowsUnknownForMissingOriginalKey(t *testing.T) {
	s := New()
	uid := dht.KeyUID("no-original")
	s.Put(uid, "v")

	out := s.Format()
	if !strings.Contains(out, "(unknown)") {
		t.Fatalf("Format() = %q, want it to contain \"(unknown)\"", out)
	}
}

func TestAllEntriesSnapshotIsIndependent(t *testing.T) {
	s := New()
	s.PutWithKey(dht.KeyUID("k"), "k", "v")

	snapshot := s.AllEntries()
	s.Put(dht.KeyUID("k2"), "v2")

	if len(snapshot) != 1 {
		t.Fatalf("mutating the store after AllEntries() changed the snapshot")
	}
}
