// Package credential checks auth and database provider keys before they are
// saved or deployed.
package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"launchpad/internal/domain"
	"launchpad/internal/infra/metrics"
	"launchpad/internal/infra/tracer"
)

// Kind selects which provider a credential set belongs to.
type Kind string

const (
	KindAuth     Kind = "auth"
	KindDatabase Kind = "database"
	kindTable    Kind = "table" // metric label only
)

// ProfilesTable is the table the application needs before it can run.
const ProfilesTable = "profiles"

// Credentials holds the keys of one provider. URL is used by the database only.
type Credentials struct {
	URL            string
	PublishableKey string
	SecretKey      string
}

// Result is the verdict of Verify. Error is user-facing.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// TableResult is the verdict of VerifyTable. A missing table is not an error.
type TableResult struct {
	Exists bool   `json:"exists"`
	Error  string `json:"error,omitempty"`
}

// Validator probes providers with user-supplied keys. It never retries.
type Validator struct {
	auth    domain.AuthProbe
	db      domain.DatabaseProbe
	bus     domain.EventBus // optional
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewValidator creates a validator. bus and collector may be nil.
func NewValidator(auth domain.AuthProbe, db domain.DatabaseProbe, bus domain.EventBus, collector *metrics.Collector, logger *slog.Logger) *Validator {
	return &Validator{auth: auth, db: db, bus: bus, metrics: collector, logger: logger}
}

// Verify checks creds against the provider for kind.
func (v *Validator) Verify(ctx context.Context, kind Kind, creds Credentials) Result {
	ctx, span := tracer.StartSpan(ctx, "credential.verify")
	span.SetAttributes(tracer.StringAttr("credential.kind", string(kind)))
	defer span.End()

	var res Result
	switch kind {
	case KindAuth:
		res = v.verifyAuth(ctx, creds)
	case KindDatabase:
		res = v.verifyDatabase(ctx, creds)
	default:
		res = fail(fmt.Sprintf("unknown credential kind %q", kind))
	}

	span.SetAttributes(tracer.BoolAttr("credential.success", res.Success))
	if res.Success {
		tracer.SetOK(span)
	}
	v.record(ctx, kind, res.Success)
	v.logger.Info("credential verified", "kind", kind, "success", res.Success, "reason", res.Error)
	return res
}

func fail(msg string) Result { return Result{Error: msg} }

func (v *Validator) verifyAuth(ctx context.Context, creds Credentials) Result {
	if creds.PublishableKey == "" || creds.SecretKey == "" {
		return fail("Both keys required")
	}
	if !strings.HasPrefix(creds.PublishableKey, "pk_") {
		return fail("Publishable key must start with pk_")
	}
	if !strings.HasPrefix(creds.SecretKey, "sk_") {
		return fail("Secret key must start with sk_")
	}

	status, err := v.auth.ListUsers(ctx, creds.SecretKey)
	switch {
	case err != nil:
		return fail(transportMessage(err, "Could not reach Clerk. Check your connection and try again."))
	case status >= 200 && status < 300:
		return Result{Success: true}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fail("Invalid secret key. Please double-check it.")
	default:
		return fail(fmt.Sprintf("Clerk API returned status %d", status))
	}
}

func (v *Validator) verifyDatabase(ctx context.Context, creds Credentials) Result {
	if creds.URL == "" || creds.PublishableKey == "" || creds.SecretKey == "" {
		return fail("URL, publishable key, and secret key are all required")
	}
	if !validProjectURL(creds.URL) {
		return fail("Invalid Supabase URL format")
	}
	if err := v.db.FetchSession(ctx, creds.URL, creds.SecretKey); err != nil {
		return fail(transportMessage(err, "Could not connect to Supabase. Check your Project URL."))
	}
	if err := v.db.FetchSession(ctx, creds.URL, creds.PublishableKey); err != nil {
		return fail(transportMessage(err, "Could not connect with the publishable key. Check your keys."))
	}
	return Result{Success: true}
}

// VerifyTable reports whether the profiles table exists in the project.
func (v *Validator) VerifyTable(ctx context.Context, projectURL, secretKey string) TableResult {
	ctx, span := tracer.StartSpan(ctx, "credential.verify_table")
	defer span.End()

	res := v.verifyTable(ctx, projectURL, secretKey)
	span.SetAttributes(tracer.BoolAttr("table.exists", res.Exists))
	if res.Error == "" {
		tracer.SetOK(span)
	}
	v.record(ctx, kindTable, res.Exists)
	v.logger.Info("profiles table checked", "exists", res.Exists, "reason", res.Error)
	return res
}

func (v *Validator) verifyTable(ctx context.Context, projectURL, secretKey string) TableResult {
	if projectURL == "" || secretKey == "" {
		return TableResult{Error: "URL and secret key are required"}
	}
	if !validProjectURL(projectURL) {
		return TableResult{Error: "Invalid Supabase URL format"}
	}

	ans, err := v.db.SelectNone(ctx, projectURL, secretKey, ProfilesTable)
	if err != nil {
		return TableResult{Error: transportMessage(err, "Failed to verify database")}
	}
	switch {
	case ans.OK():
		return TableResult{Exists: true}
	case tableMissing(ans):
		return TableResult{}
	case ans.Message != "":
		return TableResult{Error: ans.Message}
	default:
		return TableResult{Error: fmt.Sprintf("Supabase returned status %d", ans.Status)}
	}
}

// tableMissing recognizes both the Postgres undefined-table code and the REST
// layer's schema-cache miss.
func tableMissing(ans domain.TableAnswer) bool {
	switch ans.Code {
	case "42P01", "PGRST205":
		return true
	}
	return strings.Contains(ans.Message, "does not exist") ||
		strings.Contains(ans.Message, "Could not find the table")
}

func validProjectURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// transportMessage keeps a circuit-open explanation and otherwise falls back to
// the step's connectivity message.
func transportMessage(err error, fallback string) string {
	if errors.Is(err, domain.ErrCircuitOpen) {
		return domain.UserMessage(err)
	}
	return fallback
}

func (v *Validator) record(ctx context.Context, kind Kind, ok bool) {
	if v.metrics != nil {
		v.metrics.RecordVerification(string(kind), ok)
	}
	if v.bus == nil {
		return
	}
	payload, _ := json.Marshal(map[string]any{"kind": kind, "success": ok})
	v.bus.Publish(ctx, domain.Event{
		Type:      domain.EventCredentialVerified,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
