package dht

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
)

// RoutingTable is the fixed array of PrefixBits buckets, indexed by shared
// prefix length with the local UID. All public operations are serialized
// with a single mutex and never hold that lock across network I/O — callers
// take a snapshot (k_closest, all_hosts) before doing any I/O of their own.
type RoutingTable struct {
	mu      sync.Mutex
	local   UID
	buckets [PrefixBits]*bucket
}

// NewRoutingTable creates a routing table for the given local identifier,
// with all buckets empty.
func NewRoutingTable(local UID) *RoutingTable {
	rt := &RoutingTable{local: local}
	for i := range rt.buckets {
		rt.buckets[i] = newBucket()
	}
	return rt
}

// AddHost inserts or refreshes host in its bucket. If BucketIndex returns -1
// (self, undecodable, or mismatched lengths) the call is a silent no-op.
func (rt *RoutingTable) AddHost(host Host) {
	i := BucketIndex(rt.local, host.UID)
	if i < 0 {
		return
	}
	if i >= PrefixBits {
		panic(fmt.Sprintf("dht: bucket index %d out of range", i))
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.buckets[i].add(host)
}

// AddHosts adds every host in hosts via AddHost. Safe to call with a nil or
// empty slice.
func (rt *RoutingTable) AddHosts(hosts []Host) {
	for _, h := range hosts {
		rt.AddHost(h)
	}
}

// RemoveHost deletes the Host with the given uid from whichever bucket it
// lives in. No-op if the uid is not present or does not map to a valid
// bucket.
func (rt *RoutingTable) RemoveHost(uid UID) {
	i := BucketIndex(rt.local, uid)
	if i < 0 || i >= PrefixBits {
		return
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.buckets[i].remove(uid)
}

// AllHosts returns a flat snapshot of every Host across every bucket.
func (rt *RoutingTable) AllHosts() []Host {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	var out []Host
	for _, b := range rt.buckets {
		out = append(out, b.all()...)
	}
	return out
}

// KClosest returns up to n Hosts ordered by non-decreasing XOR distance to
// target, gathered across every bucket (not a per-bucket walk — the local
// UID is never stored, so the closest candidates to a target that falls in
// an empty bucket may live in neighboring buckets). Ties are broken by
// encounter order via a stable sort.
func (rt *RoutingTable) KClosest(target UID, n int) []Host {
	targetRaw, err := target.Decode()
	if err != nil {
		return nil
	}
	type ranked struct {
		host     Host
		distance *big.Int
		valid    bool
	}
	all := rt.AllHosts()
	entries := make([]ranked, len(all))
	for i, h := range all {
		raw, err := h.UID.Decode()
		entries[i] = ranked{host: h}
		if err == nil {
			entries[i].distance = XORDistance(raw, targetRaw)
			entries[i].valid = true
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].valid {
			return false
		}
		if !entries[j].valid {
			return true
		}
		return entries[i].distance.Cmp(entries[j].distance) < 0
	})
	if n > len(entries) {
		n = len(entries)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Host, n)
	for i := 0; i < n; i++ {
		out[i] = entries[i].host
	}
	return out
}

// FormatRoutes renders a human-readable dump of every non-empty bucket and
// its hosts, for the CLI `.showroutes` command.
func (rt *RoutingTable) FormatRoutes() string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	var sb strings.Builder
	any := false
	for i, b := range rt.buckets {
		hosts := b.all()
		if len(hosts) == 0 {
			continue
		}
		any = true
		fmt.Fprintf(&sb, "bucket %d:\n", i)
		for _, h := range hosts {
			fmt.Fprintf(&sb, "  %s (%s:%d)\n", h.UID, h.Address, h.Port)
		}
	}
	if !any {
		return "(routing table is empty)\n"
	}
	return sb.String()
}

// Local returns the routing table's own node UID.
func (rt *RoutingTable) Local() UID {
	return rt.local
}
