package gateway

import "encoding/json"

// FrameType identifies the kind of frame sent over the feed connection.
type FrameType string

const (
	FrameTypeHello FrameType = "hello"
	FrameTypeEvent FrameType = "event"
)

// Frame is the envelope pushed to feed observers. Event frames carry a
// marshalled domain.Event.
type Frame struct {
	Type    FrameType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
