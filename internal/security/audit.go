package security

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"launchpad/internal/domain"
	"launchpad/internal/infra/tracer"
)

// FileAuditLogger implements domain.AuditLogger by writing JSONL to a file.
type FileAuditLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileAuditLogger creates an audit logger that appends to the given path.
// The file is created with 0600 permissions if it does not exist.
func NewFileAuditLogger(path string) (*FileAuditLogger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &FileAuditLogger{file: f}, nil
}

// Log writes an audit event as a single JSON line.
func (a *FileAuditLogger) Log(ctx context.Context, event domain.AuditEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}

	// Mirror onto the active span, if any.
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		attrs := make([]attribute.KeyValue, 0, len(event.Detail)+1)
		attrs = append(attrs, tracer.StringAttr("audit.outcome", event.Outcome))
		for k, v := range event.Detail {
			attrs = append(attrs, tracer.StringAttr("audit."+k, v))
		}
		span.AddEvent("audit."+string(event.Type), trace.WithAttributes(attrs...))
	}
	return nil
}

// Close flushes and closes the audit log file.
func (a *FileAuditLogger) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}

// RecordBus writes an audit entry for every provisioning action seen on bus.
// Progress events are not audited. It returns the unsubscribe function.
func RecordBus(bus domain.EventBus, audit domain.AuditLogger, logger *slog.Logger) func() {
	return bus.SubscribeAll(func(ctx context.Context, ev domain.Event) {
		entry, ok := auditEntry(ev)
		if !ok {
			return
		}
		if err := audit.Log(ctx, entry); err != nil {
			logger.Warn("audit write failed", "type", entry.Type, "error", err)
		}
	})
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// auditEntry maps a bus event onto an audit record.
func auditEntry(ev domain.Event) (domain.AuditEvent, bool) {
	entry := domain.AuditEvent{Timestamp: ev.Timestamp.UTC(), RunID: ev.RunID}

	switch ev.Type {
	case domain.EventCredentialVerified:
		var p struct {
			Kind    string `json:"kind"`
			Success bool   `json:"success"`
		}
		if json.Unmarshal(ev.Payload, &p) != nil {
			return entry, false
		}
		entry.Type = domain.AuditCredentialCheck
		entry.Outcome = outcome(p.Success)
		entry.Detail = map[string]string{"kind": p.Kind}

	case domain.EventEnvSaved:
		var p struct {
			Keys int `json:"keys"`
		}
		if json.Unmarshal(ev.Payload, &p) != nil {
			return entry, false
		}
		entry.Type = domain.AuditEnvWrite
		entry.Outcome = outcome(true)
		entry.Detail = map[string]string{"keys": strconv.Itoa(p.Keys)}

	case domain.EventPublishStarted:
		entry.Type = domain.AuditPublishStart

	case domain.EventPublishCompleted, domain.EventPublishFailed:
		pe, err := domain.UnmarshalEvent(ev.Payload)
		if err != nil {
			return entry, false
		}
		entry.Type = domain.AuditPublishEnd
		switch e := pe.(type) {
		case domain.Done:
			entry.Outcome = outcome(true)
			entry.Detail = map[string]string{"repo": e.Owner + "/" + e.RepoName}
		case domain.Failed:
			entry.Outcome = outcome(false)
			entry.Detail = map[string]string{"error": e.Error}
		default:
			return entry, false
		}

	default:
		return entry, false
	}
	return entry, true
}
