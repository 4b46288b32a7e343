package protocol

import "github.com/shadowmesh/dhtnode/internal/dht"

// Source identifies the originator of an outbound message.
type Source struct {
	Address string
	Port    uint16
}

func envelope(t Type, src Source) Message {
	return Message{Type: t, SourceAddress: src.Address, SourcePort: int(src.Port)}
}

// NewPing builds a PING message.
func NewPing(src Source) *Message {
	m := envelope(TypePing, src)
	return &m
}

// NewPong builds a PONG message.
func NewPong(src Source) *Message {
	m := envelope(TypePong, src)
	return &m
}

// NewFindNode builds a FINDNODE request for target.
func NewFindNode(src Source, target dht.UID) *Message {
	m := envelope(TypeFindNode, src)
	m.TargetUID = string(target)
	return &m
}

// NewFindValue builds a FINDVALUE request for target.
func NewFindValue(src Source, target dht.UID) *Message {
	m := envelope(TypeFindVal, src)
	m.TargetUID = string(target)
	return &m
}

// NewStore builds a STORE message placing value at key.
func NewStore(src Source, key dht.UID, value string) *Message {
	m := envelope(TypeStore, src)
	m.Key = string(key)
	m.Value = value
	return &m
}

// NewNodeList builds a NODELIST reply carrying hosts.
func NewNodeList(src Source, hosts []dht.Host) *Message {
	m := envelope(TypeNodeList, src)
	m.Hosts = toWireHosts(hosts)
	return &m
}

// NewValue builds a VALUE reply carrying the stored value at key.
func NewValue(src Source, key dht.UID, value string) *Message {
	m := envelope(TypeValue, src)
	m.Key = string(key)
	m.Value = value
	return &m
}

func toWireHosts(hosts []dht.Host) []HostWire {
	out := make([]HostWire, len(hosts))
	for i, h := range hosts {
		out[i] = HostWire{Addr: h.Address, Port: int(h.Port), UID: string(h.UID)}
	}
	return out
}

// ToHosts converts the message's wire hosts to dht.Host values, skipping
// (and not failing on) any entry that fails Host validation.
func (m *Message) ToHosts() []dht.Host {
	out := make([]dht.Host, 0, len(m.Hosts))
	for _, w := range m.Hosts {
		h, err := dht.NewHost(w.Addr, uint16(w.Port), dht.UID(w.UID))
		if err != nil {
			continue
		}
		out = append(out, h)
	}
	return out
}

// SourceHost derives the Host record for the message's originator, using
// the node-UID formula over its source-address/source-port.
func (m *Message) SourceHost() (dht.Host, error) {
	uid := dht.NodeUID(m.SourceAddress, uint16(m.SourcePort))
	return dht.NewHost(m.SourceAddress, uint16(m.SourcePort), uid)
}
