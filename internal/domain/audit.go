package domain

import (
	"context"
	"time"
)

// AuditEventType classifies audit log entries.
type AuditEventType string

const (
	AuditCredentialCheck AuditEventType = "credential_check"
	AuditEnvWrite        AuditEventType = "env_write"
	AuditPublishStart    AuditEventType = "publish_start"
	AuditPublishEnd      AuditEventType = "publish_end"
)

// AuditEvent represents a single auditable action. Detail never carries
// secret values, only names and outcomes.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	Type      AuditEventType    `json:"type"`
	RunID     string            `json:"run_id,omitempty"`
	Outcome   string            `json:"outcome,omitempty"`
	Detail    map[string]string `json:"detail,omitempty"`
}

// AuditLogger writes audit events to a persistent log.
type AuditLogger interface {
	Log(ctx context.Context, event AuditEvent) error
	Close() error
}
