package dht

import (
	"math/big"
	"testing"
)

func TestRoutingTableAddAndAllHosts(t *testing.T) {
	local := KeyUID("local")
	rt := NewRoutingTable(local)

	peer := mustHost(t, "1.2.3.4", 9000, KeyUID("peer"))
	rt.AddHost(peer)

	all := rt.AllHosts()
	if len(all) != 1 || all[0].UID != peer.UID {
		t.Fatalf("AllHosts() = %+v, want [%+v]", all, peer)
	}
}

func TestRoutingTableAddSelfIsNoop(t *testing.T) {
	local := KeyUID("local")
	rt := NewRoutingTable(local)

	self := mustHost(t, "1.1.1.1", 1, local)
	rt.AddHost(self)

	if len(rt.AllHosts()) != 0 {
		t.Fatalf("adding self should be a no-op, got %+v", rt.AllHosts())
	}
}

func TestRoutingTableRemoveHost(t *testing.T) {
	local := KeyUID("local")
	rt := NewRoutingTable(local)

	peer := mustHost(t, "1.2.3.4", 9000, KeyUID("peer"))
	rt.AddHost(peer)
	rt.RemoveHost(peer.UID)

	if len(rt.AllHosts()) != 0 {
		t.Fatalf("host not removed, routing table = %+v", rt.AllHosts())
	}
}

func TestRoutingTableKClosestOrdering(t *testing.T) {
	local := KeyUID("local")
	rt := NewRoutingTable(local)

	var peers []Host
	for i := 0; i < 10; i++ {
		p := mustHost(t, "10.0.0.1", uint16(9000+i), KeyUID(string(rune('a'+i))))
		peers = append(peers, p)
		rt.AddHost(p)
	}

	target := KeyUID("lookup-target")
	targetRaw, err := target.Decode()
	if err != nil {
		t.Fatalf("target.Decode() error: %v", err)
	}

	closest := rt.KClosest(target, 3)
	if len(closest) != 3 {
		t.Fatalf("KClosest() returned %d hosts, want 3", len(closest))
	}

	var prevDist *big.Int
	for _, h := range closest {
		raw, err := h.UID.Decode()
		if err != nil {
			t.Fatalf("Decode() error: %v", err)
		}
		dist := XORDistance(raw, targetRaw)
		if prevDist != nil && dist.Cmp(prevDist) < 0 {
			t.Fatalf("KClosest() not sorted by non-decreasing distance")
		}
		prevDist = dist
	}
}

func TestRoutingTableKClosestCapsAtAvailable(t *testing.T) {
	local := KeyUID("local")
	rt := NewRoutingTable(local)
	rt.AddHost(mustHost(t, "1.1.1.1", 1, KeyUID("only-one")))

	closest := rt.KClosest(KeyUID("target"), 5)
	if len(closest) != 1 {
		t.Fatalf("KClosest() = %d hosts, want 1", len(closest))
	}
}

func TestRoutingTableFormatRoutesEmpty(t *testing.T) {
	rt := NewRoutingTable(KeyUID("local"))
	if got := rt.FormatRoutes(); got == "" {
		t.Fatalf("FormatRoutes() on empty table returned empty string")
	}
}
