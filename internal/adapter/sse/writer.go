// Package sse carries provisioning events over text/event-stream, one
// `data: <json>` frame per event.
package sse

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"launchpad/internal/domain"
)

// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush.
var ErrStreamingUnsupported = errors.New("streaming not supported")

// Writer frames events onto an HTTP response. After the first failed write the
// client is assumed gone and later events are dropped silently.
type Writer struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	err     error
}

// NewWriter sets the event-stream headers and commits a 200 status.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &Writer{w: w, flusher: flusher}, nil
}

// Send writes one frame and flushes it.
func (s *Writer) Send(ev domain.ProvisioningEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	data, err := domain.MarshalEvent(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		s.err = fmt.Errorf("write event: %w", err)
		return s.err
	}
	s.flusher.Flush()
	return nil
}

// Err returns the write failure that disconnected the stream, if any.
func (s *Writer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
