package dht

// K is the replication/width factor: the maximum number of Hosts held in a
// single bucket.
const K = 3

// bucket is an ordered sequence of up to K Hosts, oldest at position 0,
// freshest at the end. Every Host in a bucket shares the same
// prefix-bit-length with the local UID — the bucket's own index enforces
// that invariant from the routing table side.
type bucket struct {
	hosts []Host
}

func newBucket() *bucket {
	return &bucket{hosts: make([]Host, 0, K)}
}

// add inserts or replaces host, preserving FIFO eviction order: an existing
// uid is replaced in place (its slot/position is preserved); a new uid is
// appended if there is room, otherwise it evicts position 0.
func (b *bucket) add(host Host) {
	for i, h := range b.hosts {
		if h.UID == host.UID {
			b.hosts[i] = host
			return
		}
	}
	if len(b.hosts) < K {
		b.hosts = append(b.hosts, host)
		return
	}
	b.hosts = append(b.hosts[1:], host)
}

// remove deletes the Host with the given uid, if present, and reports
// whether anything was removed.
func (b *bucket) remove(uid UID) bool {
	for i, h := range b.hosts {
		if h.UID == uid {
			b.hosts = append(b.hosts[:i], b.hosts[i+1:]...)
			return true
		}
	}
	return false
}

// all returns a copy of the bucket's current hosts, oldest first.
func (b *bucket) all() []Host {
	out := make([]Host, len(b.hosts))
	copy(out, b.hosts)
	return out
}
