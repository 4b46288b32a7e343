package protocol

import (
	"testing"

	"github.com/shadowmesh/dhtnode/internal/dht"
)

func src() Source {
	return Source{Address: "127.0.0.1", Port: 9000}
}

func TestEncodeDecodeRoundTripEachType(t *testing.T) {
	cases := []*Message{
		NewPing(src()),
		NewPong(src()),
		NewFindNode(src(), dht.KeyUID("a")),
		NewFindValue(src(), dht.KeyUID("a")),
		NewStore(src(), dht.KeyUID("a"), "value"),
		NewNodeList(src(), nil),
		NewValue(src(), dht.KeyUID("a"), "value"),
	}

	for _, msg := range cases {
		raw, err := Encode(msg)
		if err != nil {
			t.Fatalf("Encode(%v) error: %v", msg.Type, err)
		}
		decoded, err := Decode(raw)
		if err != nil {
			t.Fatalf("Decode(%v) error: %v", msg.Type, err)
		}
		if decoded.Type != msg.Type {
			t.Fatalf("round trip type = %v, want %v", decoded.Type, msg.Type)
		}
	}
}

func TestDecodeRejectsMissingType(t *testing.T) {
	_, err := Decode([]byte(`{"source-address":"1.1.1.1","source-port":1}`))
	if err == nil {
		t.Fatalf("Decode() of message with no type returned nil error")
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"BOGUS","source-address":"1.1.1.1","source-port":1}`))
	if err == nil {
		t.Fatalf("Decode() of unknown type returned nil error")
	}
}

func TestDecodeRejectsMissingSourceFields(t *testing.T) {
	_, err := Decode([]byte(`{"type":"PING"}`))
	if err == nil {
		t.Fatalf("Decode() of message missing source-address/source-port returned nil error")
	}
}

func TestDecodeRejectsExtraField(t *testing.T) {
	_, err := Decode([]byte(`{"type":"PING","source-address":"1.1.1.1","source-port":1,"key":"x"}`))
	if err == nil {
		t.Fatalf("Decode() of PING with unexpected field returned nil error")
	}
}

func TestDecodeRejectsMissingTypeSpecificField(t *testing.T) {
	_, err := Decode([]byte(`{"type":"STORE","source-address":"1.1.1.1","source-port":1,"key":"x"}`))
	if err == nil {
		t.Fatalf("Decode() of STORE missing \"value\" returned nil error")
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	if err == nil {
		t.Fatalf("Decode() of malformed JSON returned nil error")
	}
}

func TestSourceHostDerivesUID(t *testing.T) {
	msg := NewPing(Source{Address: "10.0.0.5", Port: 9000})
	host, err := msg.SourceHost()
	if err != nil {
		t.Fatalf("SourceHost() error: %v", err)
	}
	want := dht.NodeUID("10.0.0.5", 9000)
	if host.UID != want {
		t.Fatalf("SourceHost().UID = %s, want %s", host.UID, want)
	}
}

func TestToHostsSkipsInvalidEntries(t *testing.T) {
	msg := NewNodeList(src(), nil)
	msg.Hosts = []HostWire{
		{Addr: "", Port: 1, UID: "x"}, // empty address: invalid
		{Addr: "1.2.3.4", Port: 9000, UID: string(dht.KeyUID("valid"))},
	}
	hosts := msg.ToHosts()
	if len(hosts) != 1 {
		t.Fatalf("ToHosts() = %d hosts, want 1 (invalid entry skipped)", len(hosts))
	}
}
