package domain

import (
	"context"
	"encoding/json"
	"time"
)

// EventType identifies the kind of event being published.
type EventType string

const (
	EventPublishStarted   EventType = "publish.started"
	EventPublishProgress  EventType = "publish.progress"
	EventPublishCompleted EventType = "publish.completed"
	EventPublishFailed    EventType = "publish.failed"

	EventCredentialVerified EventType = "credential.verified"
	EventEnvSaved           EventType = "env.saved"
)

// Event is the envelope published on the event bus.
// Payload carries the wire form of a ProvisioningEvent for publish.* events.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	RunID     string          `json:"run_id,omitempty"`
	Seq       int             `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewRunEvent wraps a provisioning event for the bus. The bus type is derived
// from the event: terminal events map to completed/failed, the rest to progress.
func NewRunEvent(runID string, seq int, ev ProvisioningEvent, now time.Time) (Event, error) {
	payload, err := MarshalEvent(ev)
	if err != nil {
		return Event{}, err
	}
	typ := EventPublishProgress
	switch ev.(type) {
	case CreatingRepo:
		typ = EventPublishStarted
	case Done:
		typ = EventPublishCompleted
	case Failed:
		typ = EventPublishFailed
	}
	return Event{Type: typ, Timestamp: now, RunID: runID, Seq: seq, Payload: payload}, nil
}

// EventHandler is a callback invoked when an event is received.
type EventHandler func(ctx context.Context, event Event)

// EventBus provides a publish/subscribe mechanism for domain events.
type EventBus interface {
	// Publish sends an event to all matching subscribers.
	Publish(ctx context.Context, event Event)
	// Subscribe registers a handler for a specific event type.
	// Returns an unsubscribe function.
	Subscribe(eventType EventType, handler EventHandler) func()
	// SubscribeAll registers a handler that receives every event.
	// Returns an unsubscribe function.
	SubscribeAll(handler EventHandler) func()
	// Close drains in-flight handlers and prevents new publishes.
	Close()
}
