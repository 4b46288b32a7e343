package node

import (
	"testing"
	"time"

	"github.com/shadowmesh/dhtnode/internal/logging"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.New("test", logging.ERROR, "")
	if err != nil {
		t.Fatalf("logging.New() error: %v", err)
	}
	return log
}

func startNode(t *testing.T, addr string, port uint16, bootAddr string, bootPort uint16) *Node {
	t.Helper()
	n, err := New(Config{
		ListenAddr: addr,
		ListenPort: port,
		BootAddr:   bootAddr,
		BootPort:   bootPort,
	}, testLogger(t), nil, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	go func() {
		_ = n.Serve()
	}()
	return n
}

func waitForListener(n *Node) {
	for i := 0; i < 100; i++ {
		if n.listener != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBootstrapAndPutGetAcrossTwoNodes(t *testing.T) {
	a := startNode(t, "127.0.0.1", 19301, "", 0)
	waitForListener(a)

	b := startNode(t, "127.0.0.1", 19302, "127.0.0.1", 19301)
	waitForListener(b)
	b.Bootstrap()

	if err := b.Put("hello", "world"); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	// b.Put replicates to its k-closest peers, which includes a after
	// bootstrap learned it.
	time.Sleep(50 * time.Millisecond)

	value, ok := a.Get("hello")
	if !ok {
		t.Fatalf("Get() on a = not found, want \"world\" (replicated via STORE)")
	}
	if value != "world" {
		t.Fatalf("Get() on a = %q, want \"world\"", value)
	}
}

func TestGetMissReturnsFalse(t *testing.T) {
	a := startNode(t, "127.0.0.1", 19303, "", 0)
	waitForListener(a)

	if _, ok := a.Get("never-stored"); ok {
		t.Fatalf("Get() of never-stored key returned ok=true")
	}
}

func TestLearnOnContactPopulatesRoutingTable(t *testing.T) {
	a := startNode(t, "127.0.0.1", 19304, "", 0)
	waitForListener(a)

	b := startNode(t, "127.0.0.1", 19305, "127.0.0.1", 19304)
	waitForListener(b)
	b.Bootstrap()

	if len(a.RoutingTable().AllHosts()) == 0 {
		t.Fatalf("a's routing table is empty after b's bootstrap FINDNODE")
	}
}
