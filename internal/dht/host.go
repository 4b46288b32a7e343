package dht

import (
	"encoding/base64"
	"errors"
)

// Host is a peer record: address, port, and identifier. Hosts are owned by
// the routing table and passed by value over the wire.
type Host struct {
	Address string
	Port    uint16
	UID     UID
}

// ErrEmptyAddress and ErrEmptyUID are returned by NewHost on missing fields.
var (
	ErrEmptyAddress = errors.New("dht: host address must not be empty")
	ErrEmptyUID     = errors.New("dht: host uid must not be empty")
)

// NewHost constructs a Host, validating address/uid non-emptiness. If the
// supplied uid fails to decode as valid base64 UID bytes, it is re-encoded
// as base64(utf8(uid)) — an input-hygiene concession for CLI/config-supplied
// identifiers. Internally derived UIDs (from NodeUID/KeyUID) always decode
// cleanly and never hit this path.
func NewHost(address string, port uint16, uid UID) (Host, error) {
	if address == "" {
		return Host{}, ErrEmptyAddress
	}
	if uid == "" {
		return Host{}, ErrEmptyUID
	}
	if !uid.Valid() {
		uid = UID(base64.StdEncoding.EncodeToString([]byte(uid)))
	}
	return Host{Address: address, Port: port, UID: uid}, nil
}
