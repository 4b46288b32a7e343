// Package protocol implements the five-message wire protocol: JSON objects
// framed one-per-TCP-connection, with a common envelope identifying the
// sender and a tagged variant over the message's purpose.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Type is the discriminant carried in every message's "type" field.
type Type string

const (
	TypePing     Type = "PING"
	TypePong     Type = "PONG"
	TypeFindNode Type = "FINDNODE"
	TypeFindVal  Type = "FINDVALUE"
	TypeStore    Type = "STORE"
	TypeNodeList Type = "NODELIST"
	TypeValue    Type = "VALUE"
)

// validTypes is the uniform accepted set across all seven variants — see
// SPEC_FULL.md's open-question decision resolving the teacher source's
// PING/PONG special-casing.
var validTypes = map[Type]bool{
	TypePing:     true,
	TypePong:     true,
	TypeFindNode: true,
	TypeFindVal:  true,
	TypeStore:    true,
	TypeNodeList: true,
	TypeValue:    true,
}

// HostWire is the wire shape of a routing peer inside a NODELIST payload.
type HostWire struct {
	Addr string `json:"addr"`
	Port int    `json:"port"`
	UID  string `json:"uid"`
}

// Message is the sum type over every wire message shape. Only the
// type-specific fields that fieldSet lists for a given Type are populated
// (none for PING/PONG, two for STORE/VALUE); Decode validates them based on
// the Type discriminant.
type Message struct {
	Type Type `json:"type"`

	SourceAddress string `json:"source-address"`
	SourcePort    int    `json:"source-port"`

	TargetUID string `json:"target-uid,omitempty"`
	Key       string `json:"key,omitempty"`
	Value     string `json:"value,omitempty"`

	Hosts []HostWire `json:"hosts,omitempty"`
}

// fieldSet enumerates exactly the JSON keys a raw message is permitted to
// contain for a given Type, beyond the common envelope.
var fieldSet = map[Type]map[string]bool{
	TypePing:     {},
	TypePong:     {},
	TypeFindNode: {"target-uid": true},
	TypeFindVal:  {"target-uid": true},
	TypeStore:    {"key": true, "value": true},
	TypeNodeList: {"hosts": true},
	TypeValue:    {"key": true, "value": true},
}

var commonFields = map[string]bool{
	"type":           true,
	"source-address": true,
	"source-port":    true,
}

// Decode parses raw JSON into a Message, validating that "type" is present
// and in the uniform accepted set, and that the object contains exactly the
// fields listed for that type — no extras, no omissions.
func Decode(raw []byte) (*Message, error) {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("protocol: malformed JSON: %w", err)
	}

	rawType, ok := generic["type"]
	if !ok {
		return nil, fmt.Errorf("protocol: message missing \"type\" field")
	}
	var t Type
	if err := json.Unmarshal(rawType, &t); err != nil {
		return nil, fmt.Errorf("protocol: \"type\" is not a string: %w", err)
	}
	if !validTypes[t] {
		return nil, fmt.Errorf("protocol: unrecognized message type %q", t)
	}

	for _, field := range []string{"source-address", "source-port"} {
		if _, present := generic[field]; !present {
			return nil, fmt.Errorf("protocol: message missing required field %q", field)
		}
	}

	allowed := fieldSet[t]
	for field := range generic {
		if commonFields[field] {
			continue
		}
		if !allowed[field] {
			return nil, fmt.Errorf("protocol: %s message has unexpected field %q", t, field)
		}
	}
	for field := range allowed {
		if _, present := generic[field]; !present {
			return nil, fmt.Errorf("protocol: %s message missing required field %q", t, field)
		}
	}

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("protocol: %s message has malformed fields: %w", t, err)
	}
	return &msg, nil
}

// Encode serializes msg to its JSON wire form, emitting exactly the fields
// fieldSet lists for msg.Type (plus the common envelope) regardless of
// whether a type-specific field holds its zero value — an empty STORE value
// or an empty NODELIST host list must still round-trip through Decode,
// which requires its type's fields to be present.
func Encode(msg *Message) ([]byte, error) {
	out := map[string]interface{}{
		"type":           msg.Type,
		"source-address": msg.SourceAddress,
		"source-port":    msg.SourcePort,
	}
	for field := range fieldSet[msg.Type] {
		switch field {
		case "target-uid":
			out[field] = msg.TargetUID
		case "key":
			out[field] = msg.Key
		case "value":
			out[field] = msg.Value
		case "hosts":
			hosts := msg.Hosts
			if hosts == nil {
				hosts = []HostWire{}
			}
			out[field] = hosts
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode: %w", err)
	}
	return data, nil
}
