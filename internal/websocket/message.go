package websocket

import (
	"encoding/json"
	"fmt"
)

// ConnectionType defines the type of WebSocket connection.
type ConnectionType int

const (
	// ConnectionTypeHTML is for clients that consume HTML fragments (htmx).
	ConnectionTypeHTML ConnectionType = iota
	// ConnectionTypeData is for clients that consume JSON.
	ConnectionTypeData
)

func (t ConnectionType) String() string {
	switch t {
	case ConnectionTypeHTML:
		return "html"
	case ConnectionTypeData:
		return "data"
	default:
		return fmt.Sprintf("ConnectionType(%d)", int(t))
	}
}

// MarshalText encodes the type by name.
func (t ConnectionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name.
func (t *ConnectionType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "html":
		*t = ConnectionTypeHTML
	case "data":
		*t = ConnectionTypeData
	default:
		return fmt.Errorf("unknown connection type %q", b)
	}
	return nil
}

// Message is the envelope pushed to data clients.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// NewDataMessage encodes a typed envelope for data clients.
func NewDataMessage(msgType string, payload interface{}) ([]byte, error) {
	return json.Marshal(Message{Type: msgType, Payload: payload})
}

// clientMessage is the part of an inbound frame the bridge looks at. The full
// frame is forwarded untouched.
type clientMessage struct {
	Action string `json:"action"`
}
