package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/kaptinlin/jsonschema"

	"launchpad/internal/adapter/sse"
	"launchpad/internal/domain"
	"launchpad/internal/infra/metrics"
	"launchpad/internal/infra/middleware"
	"launchpad/internal/usecase/credential"
	"launchpad/internal/usecase/publish"
)

// SkipCookie marks a browser that chose to preview the site before setup.
const SkipCookie = "setup-skipped"

const msgAlreadyConfigured = "App is already configured"

// CredentialVerifier probes provider credentials.
type CredentialVerifier interface {
	Verify(ctx context.Context, kind credential.Kind, creds credential.Credentials) credential.Result
	VerifyTable(ctx context.Context, projectURL, secretKey string) credential.TableResult
}

// RepoPublisher runs a publish and reports every event through emit.
type RepoPublisher interface {
	Publish(ctx context.Context, req publish.Request, emit func(domain.ProvisioningEvent)) domain.ProvisioningEvent
}

// EnvWriter merges variables into the local env file.
type EnvWriter interface {
	Write(vars map[string]string) error
}

// ConfigGate reports whether the app already has its credentials.
type ConfigGate interface {
	Configured() bool
}

// SetupDeps holds the collaborators of the setup endpoints.
type SetupDeps struct {
	Validator CredentialVerifier
	Publisher RepoPublisher
	Env       EnvWriter
	Gate      ConfigGate
	Bus       domain.EventBus // may be nil
	Collector *metrics.Collector
	Logger    *slog.Logger
}

// RegisterSetupHandlers mounts the provisioning endpoints. mws wrap every
// setup route; the first is the outermost.
func RegisterSetupHandlers(s *Server, deps SetupDeps, mws ...middleware.Middleware) {
	h := &setupHandlers{deps: deps}
	route := func(pattern string, fn http.HandlerFunc) {
		s.RegisterHTTPRoute(pattern, middleware.Chain(fn, mws...))
	}

	route("POST /setup/push-to-github", h.gated(h.push))
	route("POST /setup/test-clerk", h.gated(h.testAuth))
	route("POST /setup/test-supabase", h.gated(h.testDatabase))
	route("POST /setup/verify-database", h.gated(h.verifyTable))
	route("POST /setup/save-env", h.gated(h.saveEnv))
	route("POST /setup/skip", h.skip)
	route("GET /setup/sql", h.sql)
}

type setupHandlers struct {
	deps SetupDeps
}

// gated refuses the request once the app is configured. The gate is
// re-evaluated on every request.
func (h *setupHandlers) gated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.deps.Gate.Configured() {
			h.deps.Collector.RecordGateRejection()
			h.deps.Logger.Info("setup request refused, app configured", "path", r.URL.Path)
			writeJSON(w, http.StatusForbidden, errorBody{Error: msgAlreadyConfigured})
			return
		}
		next(w, r)
	}
}

type pushBody struct {
	GitHubToken string `json:"githubToken"`
	RepoName    string `json:"repoName"`
	IsPrivate   *bool  `json:"isPrivate"`
}

func (h *setupHandlers) push(w http.ResponseWriter, r *http.Request) {
	var body pushBody
	if err := decodeBody(r, pushSchema, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: domain.UserMessage(err)})
		return
	}
	private := true
	if body.IsPrivate != nil {
		private = *body.IsPrivate
	}

	stream, err := sse.NewWriter(w)
	if err != nil {
		h.deps.Logger.Error("push: event stream unavailable", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Streaming is not supported"})
		return
	}

	// The run outlives the request: a client that disconnects mid-upload
	// still ends up with a complete repository.
	ctx := context.WithoutCancel(r.Context())
	terminal := h.deps.Publisher.Publish(ctx, publish.Request{
		Token:    body.GitHubToken,
		RepoName: body.RepoName,
		Private:  private,
	}, func(ev domain.ProvisioningEvent) {
		stream.Send(ev)
	})

	if err := stream.Err(); err != nil {
		h.deps.Logger.Info("push: client left before the run finished",
			"repo", body.RepoName, "final_step", terminal.Step(), "error", err)
	}
}

type credentialBody struct {
	URL            string `json:"url"`
	PublishableKey string `json:"publishableKey"`
	SecretKey      string `json:"secretKey"`
}

func (b credentialBody) credentials() credential.Credentials {
	return credential.Credentials{URL: b.URL, PublishableKey: b.PublishableKey, SecretKey: b.SecretKey}
}

func (h *setupHandlers) testAuth(w http.ResponseWriter, r *http.Request) {
	h.verify(w, r, authSchema, credential.KindAuth)
}

func (h *setupHandlers) testDatabase(w http.ResponseWriter, r *http.Request) {
	h.verify(w, r, databaseSchema, credential.KindDatabase)
}

func (h *setupHandlers) verify(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, kind credential.Kind) {
	var body credentialBody
	if err := decodeBody(r, schema, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: domain.UserMessage(err)})
		return
	}
	res := h.deps.Validator.Verify(r.Context(), kind, body.credentials())
	if !res.Success {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: res.Error})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *setupHandlers) verifyTable(w http.ResponseWriter, r *http.Request) {
	var body credentialBody
	if err := decodeBody(r, databaseSchema, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: domain.UserMessage(err)})
		return
	}
	res := h.deps.Validator.VerifyTable(r.Context(), body.URL, body.SecretKey)
	if res.Error != "" {
		writeJSON(w, http.StatusInternalServerError, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type envBody struct {
	EnvVars map[string]string `json:"envVars"`
}

func (h *setupHandlers) saveEnv(w http.ResponseWriter, r *http.Request) {
	var body envBody
	if err := decodeBody(r, envSchema, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: domain.UserMessage(err)})
		return
	}
	if err := h.deps.Env.Write(body.EnvVars); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		h.deps.Logger.Warn("save env failed", "error", err)
		writeJSON(w, status, errorBody{Error: domain.UserMessage(err)})
		return
	}

	h.deps.Logger.Info("env file updated", "keys", len(body.EnvVars))
	if h.deps.Bus != nil {
		payload, _ := json.Marshal(map[string]int{"keys": len(body.EnvVars)})
		h.deps.Bus.Publish(r.Context(), domain.Event{
			Type:      domain.EventEnvSaved,
			Timestamp: time.Now(),
			Payload:   payload,
		})
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *setupHandlers) skip(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SkipCookie,
		Value:    "1",
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *setupHandlers) sql(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(credential.ProfilesTableSQL))
}
