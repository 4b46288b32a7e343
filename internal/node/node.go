// Package node wires the identifier math, routing table, KV store, and
// wire protocol into the running DHT node: the inbound service loop, the
// outbound put/get engine, the bootstrap join procedure, and the pinger
// and replicator background loops.
package node

import (
	"net"
	"time"

	"github.com/shadowmesh/dhtnode/internal/dht"
	"github.com/shadowmesh/dhtnode/internal/logging"
	"github.com/shadowmesh/dhtnode/internal/protocol"
	"github.com/shadowmesh/dhtnode/internal/store"
)

// Build-time constants fixed by the specification.
const (
	PingInterval        = 20 * time.Second
	ReplicateInterval   = 60 * time.Second
	PingConnectTimeout  = 10 * time.Second
	PingReadTimeout     = 10 * time.Second
)

// RemoteCache is the optional read-through cache consulted after a local
// miss and before the peer round, and written after a remote VALUE hit. It
// is never the system of record.
type RemoteCache interface {
	Get(id dht.UID) (string, bool)
	Put(id dht.UID, value string)
}

// Observer receives a best-effort notification for routing-table and
// KV-store mutations and pinger evictions. Implementations must not block.
type Observer interface {
	Notify(event string, fields map[string]interface{})
}

// Config holds the node's runtime parameters, independent of how they were
// sourced (file, flags, defaults).
type Config struct {
	ListenAddr             string
	ListenPort             uint16
	BootAddr               string
	BootPort               uint16
	MaxInFlightConnections int
}

// Node is the running DHT node: its own identity, routing table, KV store,
// and the dependencies its background loops use.
type Node struct {
	local   dht.Host
	routing *dht.RoutingTable
	kv      *store.Store

	cfg Config

	logService    *logging.Logger
	logEngine     *logging.Logger
	logPinger     *logging.Logger
	logReplicator *logging.Logger
	logBootstrap  *logging.Logger

	cache    RemoteCache
	observer Observer

	connSem chan struct{} // nil when unbounded

	listener net.Listener
}

// New constructs a Node from cfg. It does not start any background loop or
// bind a listener — call Bootstrap/Serve/RunPinger/RunReplicator to do
// that.
func New(cfg Config, log *logging.Logger, cache RemoteCache, observer Observer) (*Node, error) {
	uid := dht.NodeUID(cfg.ListenAddr, cfg.ListenPort)
	local, err := dht.NewHost(cfg.ListenAddr, cfg.ListenPort, uid)
	if err != nil {
		return nil, err
	}

	n := &Node{
		local:         local,
		routing:       dht.NewRoutingTable(uid),
		kv:            store.New(),
		cfg:           cfg,
		logService:    log.WithFields(logging.Fields{"component": "service"}),
		logEngine:     log.WithFields(logging.Fields{"component": "engine"}),
		logPinger:     log.WithFields(logging.Fields{"component": "pinger"}),
		logReplicator: log.WithFields(logging.Fields{"component": "replicator"}),
		logBootstrap:  log.WithFields(logging.Fields{"component": "bootstrap"}),
		cache:         cache,
		observer:      observer,
	}
	if cfg.MaxInFlightConnections > 0 {
		n.connSem = make(chan struct{}, cfg.MaxInFlightConnections)
	}
	return n, nil
}

// LocalUID returns the node's own identifier.
func (n *Node) LocalUID() dht.UID {
	return n.local.UID
}

// RoutingTable exposes the node's routing table, e.g. for CLI `.showroutes`
// or warm-start snapshotting.
func (n *Node) RoutingTable() *dht.RoutingTable {
	return n.routing
}

// Store exposes the node's KV store, e.g. for CLI `.kvstore`.
func (n *Node) Store() *store.Store {
	return n.kv
}

func (n *Node) source() protocol.Source {
	return protocol.Source{Address: n.local.Address, Port: n.local.Port}
}

func (n *Node) notify(event string, fields map[string]interface{}) {
	if n.observer != nil {
		n.observer.Notify(event, fields)
	}
}

// learn folds a message's sender into the routing table — the sole
// mechanism for populating the routing table outside bootstrap and
// NODELIST folding.
func (n *Node) learn(msg *protocol.Message) {
	host, err := msg.SourceHost()
	if err != nil {
		return
	}
	n.routing.AddHost(host)
	n.notify("routing.learned", map[string]interface{}{"uid": string(host.UID), "addr": host.Address, "port": host.Port})
}
