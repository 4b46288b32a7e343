package node

import (
	"fmt"
	"net"
	"time"

	"github.com/shadowmesh/dhtnode/internal/dht"
	"github.com/shadowmesh/dhtnode/internal/protocol"
)

// roundTrip dials host, sends msg, half-closes, and reads whatever comes
// back before the peer closes its end. An empty or undecodable reply is
// returned as an error, so a nil error always comes with a non-nil reply.
func roundTrip(host dht.Host, msg *protocol.Message, connectTimeout, readTimeout time.Duration) (*protocol.Message, error) {
	addr := fmt.Sprintf("%s:%d", host.Address, host.Port)
	conn, err := net.DialTimeout("tcp", addr, connectTimeout)
	if err != nil {
		return nil, fmt.Errorf("node: dial %s: %w", addr, err)
	}
	defer conn.Close()

	if err := protocol.WriteAndHalfClose(conn, msg); err != nil {
		return nil, err
	}

	if readTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
	}
	raw, err := protocol.ReadFull(conn)
	if err != nil {
		return nil, err
	}
	reply, err := protocol.Decode(raw)
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// send dials host, writes msg, and closes — no half-close wait, no read.
// For the STORE fan-out in Put and the replicator, where no reply is ever
// sent back and blocking on one would just wait out the peer's own close.
func send(host dht.Host, msg *protocol.Message, connectTimeout time.Duration) error {
	addr := fmt.Sprintf("%s:%d", host.Address, host.Port)
	conn, err := net.DialTimeout("tcp", addr, connectTimeout)
	if err != nil {
		return fmt.Errorf("node: dial %s: %w", addr, err)
	}
	defer conn.Close()

	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("node: write: %w", err)
	}
	return nil
}
