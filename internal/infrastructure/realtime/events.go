package realtime

import "encoding/json"

// Event names shared with the backend and with lifecycle subscribers.
const (
	EventConnect      = "connect"
	EventDisconnect   = "disconnect"
	EventConnectError = "connect_error"
	EventError        = "error"
	EventSendMessage  = "sendMessage"
)

// Frame is the wire shape of one realtime event in either direction.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Handler receives one event payload. Handlers for transport events run on
// the connection's read goroutine, so delivery order is the transport's order.
type Handler func(payload json.RawMessage)
