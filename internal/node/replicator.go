package node

import (
	"time"

	"github.com/shadowmesh/dhtnode/internal/dht"
	"github.com/shadowmesh/dhtnode/internal/protocol"
)

// RunReplicator implements §4.9: a periodic re-publish sweep, first firing
// ReplicateInterval after startup and rescheduling ReplicateInterval after
// the prior run completes.
func (n *Node) RunReplicator() {
	for {
		time.Sleep(ReplicateInterval)
		n.replicateSweep()
	}
}

func (n *Node) replicateSweep() {
	entries := n.kv.AllEntries()
	if len(entries) == 0 {
		return
	}

	for uid, entry := range entries {
		peers := n.routing.KClosest(uid, dht.K)
		msg := protocol.NewStore(n.source(), uid, entry.Value)
		for _, peer := range peers {
			if err := send(peer, msg, 0); err != nil {
				n.logReplicator.Debugf("replicate to %s failed (swallowed): %v", peer.UID, err)
			}
		}
	}
}
