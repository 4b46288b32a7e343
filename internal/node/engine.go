package node

import (
	"fmt"

	"github.com/shadowmesh/dhtnode/internal/dht"
	"github.com/shadowmesh/dhtnode/internal/protocol"
)

// Put implements §4.6's put(key, value): local store, then best-effort STORE
// fan-out to the k closest known peers. Per-peer failures are logged and do
// not abort the remaining sends.
func (n *Node) Put(key, value string) error {
	if key == "" {
		err := fmt.Errorf("node: put: empty key")
		n.logEngine.Errorf("%v", err)
		return err
	}

	uid := dht.KeyUID(key)
	n.kv.PutWithKey(uid, key, value)
	n.notify("kv.put", map[string]interface{}{"uid": string(uid)})

	peers := n.routing.KClosest(uid, dht.K)
	msg := protocol.NewStore(n.source(), uid, value)
	for _, peer := range peers {
		if err := send(peer, msg, 0); err != nil {
			n.logEngine.Warnf("store to %s failed: %v", peer.UID, err)
		}
	}
	return nil
}

// Get implements §4.6's get(key): local hit first, then the optional remote
// cache, then a single round of FINDVALUE against the k closest peers in
// order, folding any NODELIST replies into the routing table along the way.
func (n *Node) Get(key string) (string, bool) {
	uid := dht.KeyUID(key)

	if value, ok := n.kv.Get(uid); ok {
		return value, true
	}

	if n.cache != nil {
		if value, ok := n.cache.Get(uid); ok {
			n.kv.Put(uid, value)
			n.notify("kv.cache_hit", map[string]interface{}{"uid": string(uid)})
			return value, true
		}
	}

	peers := n.routing.KClosest(uid, dht.K)
	msg := protocol.NewFindValue(n.source(), uid)
	for _, peer := range peers {
		reply, err := roundTrip(peer, msg, 0, 0)
		if err != nil {
			n.logEngine.Warnf("findvalue to %s failed: %v", peer.UID, err)
			continue
		}
		switch reply.Type {
		case protocol.TypeValue:
			n.kv.Put(uid, reply.Value)
			if n.cache != nil {
				n.cache.Put(uid, reply.Value)
			}
			n.notify("kv.remote_hit", map[string]interface{}{"uid": string(uid), "peer": string(peer.UID)})
			return reply.Value, true
		case protocol.TypeNodeList:
			n.routing.AddHosts(reply.ToHosts())
		default:
			n.logEngine.Warnf("unexpected reply type %q from %s", reply.Type, peer.UID)
		}
	}
	return "", false
}
