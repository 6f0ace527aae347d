// Package streaming defines the JSON messages exchanged over the radar WebSocket.
package streaming

import (
	"encoding/json"
	"fmt"

	"github.com/nadelab/radar/pkg/core"
)

// Server to client message types.
const (
	TypeLayout   = "layout"
	TypeSelected = "selected"
	TypeError    = "error"
)

// Client to server message types handled by the service itself. All other
// types are radar input commands.
const (
	TypeSetMap  = "set_map"
	TypeRefresh = "refresh"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrorMessage reports a rejected client message.
type ErrorMessage struct {
	For   string `json:"for"`
	Error string `json:"error"`
}

// SetMapPayload switches the radar to another map.
type SetMapPayload struct {
	Map string `json:"map"`
}

// SelectedMessage is pushed when the user picks a lineup on the radar.
type SelectedMessage = core.SelectionEvent

// Encode wraps v in an envelope of the given type.
func Encode(typ string, v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", typ, err)
	}
	return json.Marshal(Envelope{Type: typ, Payload: payload})
}

// Decode parses an envelope.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("malformed envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("malformed envelope: missing type")
	}
	return env, nil
}
