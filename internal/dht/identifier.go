// Package dht implements the identifier math, k-bucket routing table, and
// Host record at the core of the node's Kademlia-style overlay.
package dht

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math/big"
)

// UIDSize is the length in bytes of a decoded identifier (a SHA-1 digest).
const UIDSize = sha1.Size

// PrefixBits is the width of the identifier space in bits.
const PrefixBits = UIDSize * 8

// ErrInvalidUID is returned when a base64 string does not decode to exactly
// UIDSize bytes.
var ErrInvalidUID = errors.New("dht: identifier does not decode to 20 bytes")

// UID is the base64 encoding of a 20-byte SHA-1 digest, as carried on the
// wire and stored in routing/KV state.
type UID string

// NodeUID derives the identifier of a node from its listen address and port:
// base64(SHA1(utf8(addr) || big-endian-int32(port))).
func NodeUID(addr string, port uint16) UID {
	h := sha1.New()
	h.Write([]byte(addr))
	var portBytes [4]byte
	binary.BigEndian.PutUint32(portBytes[:], uint32(port))
	h.Write(portBytes[:])
	return UID(base64.StdEncoding.EncodeToString(h.Sum(nil)))
}

// KeyUID derives the identifier of a stored key: base64(SHA1(utf8(key))).
func KeyUID(key string) UID {
	sum := sha1.Sum([]byte(key))
	return UID(base64.StdEncoding.EncodeToString(sum[:]))
}

// Decode converts a UID to its raw 20-byte form. It returns ErrInvalidUID if
// the base64 payload is malformed or not exactly UIDSize bytes.
func (u UID) Decode() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(string(u))
	if err != nil {
		return nil, ErrInvalidUID
	}
	if len(raw) != UIDSize {
		return nil, ErrInvalidUID
	}
	return raw, nil
}

// Valid reports whether u decodes to exactly UIDSize bytes.
func (u UID) Valid() bool {
	_, err := u.Decode()
	return err == nil
}

// SharedPrefixBits returns the count of leading bits that are equal between
// a and b. Identical byte slices return PrefixBits. Panics if len(a) !=
// len(b) — callers in this package always pass two UIDSize slices.
func SharedPrefixBits(a, b []byte) int {
	if len(a) != len(b) {
		panic("dht: SharedPrefixBits operands have differing lengths")
	}
	bits := 0
	for i := range a {
		x := a[i] ^ b[i]
		if x == 0 {
			bits += 8
			continue
		}
		for mask := byte(0x80); mask != 0; mask >>= 1 {
			if x&mask != 0 {
				return bits
			}
			bits++
		}
	}
	return bits
}

// XORDistance returns the 160-bit XOR of a and b as an unsigned big integer,
// used only for proximity ordering.
func XORDistance(a, b []byte) *big.Int {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return new(big.Int).SetBytes(out)
}

// BucketIndex returns the bucket that peer belongs in relative to local, or
// -1 when the two UIDs are identical, fail to decode, or decode to
// differing lengths — any of which mean "do not insert".
func BucketIndex(local, peer UID) int {
	localRaw, err := local.Decode()
	if err != nil {
		return -1
	}
	peerRaw, err := peer.Decode()
	if err != nil {
		return -1
	}
	if len(localRaw) != len(peerRaw) {
		return -1
	}
	bits := SharedPrefixBits(localRaw, peerRaw)
	if bits >= PrefixBits {
		return -1
	}
	return bits
}
