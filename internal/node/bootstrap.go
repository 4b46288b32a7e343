package node

import (
	"github.com/shadowmesh/dhtnode/internal/dht"
	"github.com/shadowmesh/dhtnode/internal/protocol"
)

// Bootstrap implements §4.7: a single FINDNODE against the configured boot
// peer, seeding the routing table with anything it returns. Errors are
// logged and never prevent the node from starting.
func (n *Node) Bootstrap() {
	if !n.cfg.hasBootstrap() {
		return
	}

	bootUID := dht.NodeUID(n.cfg.BootAddr, n.cfg.BootPort)
	bootHost, err := dht.NewHost(n.cfg.BootAddr, n.cfg.BootPort, bootUID)
	if err != nil {
		n.logBootstrap.Errorf("invalid bootstrap host: %v", err)
		return
	}
	n.routing.AddHost(bootHost)

	msg := protocol.NewFindNode(n.source(), n.local.UID)
	reply, err := roundTrip(bootHost, msg, 0, 0)
	if err != nil {
		n.logBootstrap.Errorf("bootstrap findnode to %s failed: %v", bootHost.UID, err)
		return
	}
	if reply.Type != protocol.TypeNodeList {
		n.logBootstrap.Warnf("bootstrap peer replied with unexpected type %q", reply.Type)
		return
	}
	n.routing.AddHosts(reply.ToHosts())
	n.logBootstrap.Infof("bootstrap complete, learned %d hosts", len(reply.Hosts))
}

func (c Config) hasBootstrap() bool {
	return c.BootAddr != "" && c.BootPort > 0
}
