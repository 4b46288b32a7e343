package node

import (
	"testing"

	"github.com/shadowmesh/dhtnode/internal/dht"
)

func TestPingOneEvictsUnreachablePeer(t *testing.T) {
	a := startNode(t, "127.0.0.1", 19401, "", 0)
	waitForListener(a)

	unreachable := mustTestHost(t, "127.0.0.1", 19999, dht.KeyUID("unreachable"))
	a.routing.AddHost(unreachable)
	if len(a.routing.AllHosts()) != 1 {
		t.Fatalf("setup failed: routing table does not contain the test peer")
	}

	a.pingOne(unreachable)

	for _, h := range a.routing.AllHosts() {
		if h.UID == unreachable.UID {
			t.Fatalf("pingOne() did not evict an unreachable peer")
		}
	}
}

func mustTestHost(t *testing.T, addr string, port uint16, uid dht.UID) dht.Host {
	t.Helper()
	h, err := dht.NewHost(addr, port, uid)
	if err != nil {
		t.Fatalf("dht.NewHost() error: %v", err)
	}
	return h
}
