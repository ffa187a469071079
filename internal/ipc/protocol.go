package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Methods understood by the server. Any other method is accepted, logged as
// unknown and echoed.
const (
	MethodWindowInfo = "window-info"
	MethodRefresh    = "refresh"
	MethodPing       = "ping"
)

// DefaultSocketPath is where the server listens unless configured otherwise.
const DefaultSocketPath = "/tmp/wayice"

// DefaultMaxFrameBytes bounds a single request frame, newline excluded.
const DefaultMaxFrameBytes = 64 * 1024

// Message is one request: a method name and an opaque JSON value.
type Message struct {
	Method string          `json:"method"`
	Data   json.RawMessage `json:"data"`
}

var errMissingMethod = errors.New("missing method")

// ParseMessage decodes a single frame. The frame must hold exactly one JSON
// object with a string "method"; a missing "data" decodes as null.
func ParseMessage(frame []byte) (*Message, error) {
	var raw struct {
		Method *string         `json:"method"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(frame, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if raw.Method == nil {
		return nil, fmt.Errorf("failed to parse message: %w", errMissingMethod)
	}
	data := raw.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return &Message{Method: *raw.Method, Data: data}, nil
}

// Marshal encodes the message as a single-line frame without the newline.
func (m *Message) Marshal() ([]byte, error) {
	out := *m
	if len(out.Data) == 0 {
		out.Data = json.RawMessage("null")
	}
	return json.Marshal(out)
}

// NewMessage builds a message whose data is the JSON encoding of v.
func NewMessage(method string, v any) (*Message, error) {
	if v == nil {
		return &Message{Method: method, Data: json.RawMessage("null")}, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return nil, fmt.Errorf("invalid JSON data for %s", method)
		}
		return &Message{Method: method, Data: raw}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message data: %w", err)
	}
	return &Message{Method: method, Data: data}, nil
}
