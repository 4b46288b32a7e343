package protocol

import (
	"bytes"
	"fmt"
	"io"
	"net"
)

// halfCloser is satisfied by net.TCPConn and lets the writer half-close its
// send side after writing a message, without giving up the ability to read
// a response on the same connection.
type halfCloser interface {
	CloseWrite() error
}

// WriteAndHalfClose serializes msg, writes it to conn, and half-closes the
// connection's send side so the peer sees end-of-stream after the object.
// If conn does not support half-close (not a *net.TCPConn), the send side
// is left open — this is the protocol's only per-connection request/reply
// framing: one JSON object per connection, no length prefix.
func WriteAndHalfClose(conn net.Conn, msg *Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("protocol: write: %w", err)
	}
	if hc, ok := conn.(halfCloser); ok {
		if err := hc.CloseWrite(); err != nil {
			return fmt.Errorf("protocol: half-close: %w", err)
		}
	}
	return nil
}

// ReadFull reads the full request/response buffer from conn until
// end-of-stream, trims surrounding whitespace, and returns an error if the
// result is empty.
func ReadFull(conn net.Conn) ([]byte, error) {
	data, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("protocol: read: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("protocol: empty buffer")
	}
	return data, nil
}
