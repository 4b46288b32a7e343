package node

import (
	"time"

	"github.com/shadowmesh/dhtnode/internal/dht"
	"github.com/shadowmesh/dhtnode/internal/protocol"
)

// RunPinger implements §4.8: a periodic liveness sweep, first firing
// PingInterval after startup and rescheduling itself PingInterval after the
// prior run completes — not at fixed wall-clock ticks.
func (n *Node) RunPinger() {
	for {
		time.Sleep(PingInterval)
		n.pingSweep()
	}
}

func (n *Node) pingSweep() {
	hosts := n.routing.AllHosts()
	seen := make(map[dht.UID]bool, len(hosts))

	for _, host := range hosts {
		if seen[host.UID] {
			continue
		}
		seen[host.UID] = true
		n.pingOne(host)
	}
}

func (n *Node) pingOne(host dht.Host) {
	msg := protocol.NewPing(n.source())
	reply, err := roundTrip(host, msg, PingConnectTimeout, PingReadTimeout)
	if err != nil {
		n.logPinger.Warnf("ping to %s failed, evicting: %v", host.UID, err)
		n.routing.RemoveHost(host.UID)
		n.notify("routing.evicted", map[string]interface{}{"uid": string(host.UID)})
		return
	}
	if reply.Type != protocol.TypePong {
		n.logPinger.Warnf("ping to %s got unexpected reply %q, evicting", host.UID, reply.Type)
		n.routing.RemoveHost(host.UID)
		n.notify("routing.evicted", map[string]interface{}{"uid": string(host.UID)})
	}
}
