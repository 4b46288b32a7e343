package dht

import "testing"

func mustHost(t *testing.T, addr string, port uint16, uid UID) Host {
	t.Helper()
	h, err := NewHost(addr, port, uid)
	if err != nil {
		t.Fatalf("NewHost(%s, %d, %s) error: %v", addr, port, uid, err)
	}
	return h
}

func TestBucketAddWithinCapacity(t *testing.T) {
	b := newBucket()
	h1 := mustHost(t, "1.1.1.1", 1, KeyUID("a"))
	h2 := mustHost(t, "2.2.2.2", 2, KeyUID("b"))
	b.add(h1)
	b.add(h2)

	all := b.all()
	if len(all) != 2 {
		t.Fatalf("len(all()) = %d, want 2", len(all))
	}
	if all[0].UID != h1.UID || all[1].UID != h2.UID {
		t.Fatalf("insertion order not preserved: %+v", all)
	}
}

func TestBucketAddReplacesInPlace(t *testing.T) {
	b := newBucket()
	h1 := mustHost(t, "1.1.1.1", 1, KeyUID("a"))
	h2 := mustHost(t, "2.2.2.2", 2, KeyUID("b"))
	b.add(h1)
	b.add(h2)

	updated := mustHost(t, "9.9.9.9", 9, h1.UID)
	b.add(updated)

	all := b.all()
	if len(all) != 2 {
		t.Fatalf("len(all()) = %d, want 2 after replace", len(all))
	}
	if all[0].Address != "9.9.9.9" {
		t.Fatalf("replace did not preserve position 0: %+v", all)
	}
}

func TestBucketFIFOEviction(t *testing.T) {
	b := newBucket()
	h1 := mustHost(t, "1.1.1.1", 1, KeyUID("a"))
	h2 := mustHost(t, "2.2.2.2", 2, KeyUID("b"))
	h3 := mustHost(t, "3.3.3.3", 3, KeyUID("c"))
	h4 := mustHost(t, "4.4.4.4", 4, KeyUID("d"))

	b.add(h1)
	b.add(h2)
	b.add(h3)
	b.add(h4) // bucket was full at K=3; h1 (oldest) must be evicted

	all := b.all()
	if len(all) != K {
		t.Fatalf("len(all()) = %d, want %d", len(all), K)
	}
	for _, h := range all {
		if h.UID == h1.UID {
			t.Fatalf("oldest host was not evicted: %+v", all)
		}
	}
	if all[len(all)-1].UID != h4.UID {
		t.Fatalf("newest host not at tail: %+v", all)
	}
}

func TestBucketRemove(t *testing.T) {
	b := newBucket()
	h1 := mustHost(t, "1.1.1.1", 1, KeyUID("a"))
	b.add(h1)

	if !b.remove(h1.UID) {
		t.Fatalf("remove() = false, want true")
	}
	if len(b.all()) != 0 {
		t.Fatalf("bucket not empty after remove")
	}
	if b.remove(h1.UID) {
		t.Fatalf("remove() of absent uid = true, want false")
	}
}
