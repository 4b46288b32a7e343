package node

import (
	"errors"
	"fmt"
	"net"

	"github.com/shadowmesh/dhtnode/internal/dht"
	"github.com/shadowmesh/dhtnode/internal/protocol"
)

// Serve binds the listener on the node's configured address/port and
// accepts connections until the process is killed; accept errors are
// logged and retried unless the listener itself is gone. This method
// blocks; run it in its own goroutine.
func (n *Node) Serve() error {
	addr := fmt.Sprintf("%s:%d", n.cfg.ListenAddr, n.cfg.ListenPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		n.logService.Errorf("failed to bind listener on %s: %v", addr, err)
		return fmt.Errorf("node: listen %s: %w", addr, err)
	}
	n.listener = listener
	n.logService.Infof("listening on %s (uid=%s)", addr, n.local.UID)

	for {
		conn, err := listener.Accept()
		if err != nil {
			n.logService.Errorf("accept failed: %v", err)
			if isUnrecoverable(err) {
				return fmt.Errorf("node: listener unrecoverable: %w", err)
			}
			continue
		}
		go n.handleConn(conn)
	}
}

func isUnrecoverable(err error) bool {
	return errors.Is(err, net.ErrClosed)
}

// handleConn services one inbound connection end-to-end: read, decode,
// learn the sender, dispatch, optionally reply, close.
func (n *Node) handleConn(conn net.Conn) {
	defer conn.Close()

	if n.connSem != nil {
		n.connSem <- struct{}{}
		defer func() { <-n.connSem }()
	}

	raw, err := protocol.ReadFull(conn)
	if err != nil {
		n.logService.Debugf("dropping connection from %s: %v", conn.RemoteAddr(), err)
		return
	}

	msg, err := protocol.Decode(raw)
	if err != nil {
		n.logService.Errorf("malformed message from %s: %v", conn.RemoteAddr(), err)
		return
	}

	n.learn(msg)

	reply := n.dispatch(msg)
	if reply == nil {
		return
	}
	if err := protocol.WriteAndHalfClose(conn, reply); err != nil {
		n.logService.Errorf("failed to write reply to %s: %v", conn.RemoteAddr(), err)
	}
}

// dispatch implements §4.5 step 5: per-type handling, returning the reply
// to send (nil for message types that produce no reply).
func (n *Node) dispatch(msg *protocol.Message) *protocol.Message {
	switch msg.Type {
	case protocol.TypeFindNode:
		target := dht.UID(msg.TargetUID)
		closest := n.routing.KClosest(target, dht.K)
		return protocol.NewNodeList(n.source(), closest)

	case protocol.TypeFindVal:
		target := dht.UID(msg.TargetUID)
		if value, ok := n.kv.Get(target); ok {
			return protocol.NewValue(n.source(), target, value)
		}
		closest := n.routing.KClosest(target, dht.K)
		return protocol.NewNodeList(n.source(), closest)

	case protocol.TypeStore:
		n.kv.Put(dht.UID(msg.Key), msg.Value) // no original key on inbound STORE
		n.notify("kv.stored", map[string]interface{}{"uid": msg.Key})
		return nil

	case protocol.TypePing:
		return protocol.NewPong(n.source())

	case protocol.TypeNodeList:
		n.routing.AddHosts(msg.ToHosts())
		return nil

	case protocol.TypeValue:
		if msg.Value != "" {
			n.kv.Put(dht.UID(msg.Key), msg.Value)
			n.notify("kv.stored", map[string]interface{}{"uid": msg.Key})
		}
		return nil

	default:
		// Decode already restricts Type to the uniform accepted set; an
		// unknown type here would be a programmer error elsewhere.
		n.logService.Errorf("dispatch: unhandled message type %q", msg.Type)
		return nil
	}
}
