package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateServer(cfg, ve)
	validateProviders(cfg, ve)
	validateHTTP(cfg, ve)
	validatePublish(cfg, ve)
	validateRateLimit(cfg, ve)
	validateGateway(cfg, ve)
	validateObservability(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateServer(cfg *Config, ve *ValidationError) {
	if _, _, err := net.SplitHostPort(cfg.Server.Addr); err != nil {
		ve.Add("server.addr %q is not host:port", cfg.Server.Addr)
	}
	if cfg.Server.ProjectRoot == "" {
		ve.Add("server.project_root must not be empty")
	}
	if cfg.Server.EnvFile == "" {
		ve.Add("server.env_file must not be empty")
	}
	if cfg.Server.BackendURL != "" && !isHTTPURL(cfg.Server.BackendURL) {
		ve.Add("server.backend_url %q must be an http(s) URL", cfg.Server.BackendURL)
	}
}

func validateProviders(cfg *Config, ve *ValidationError) {
	for name, u := range map[string]string{
		"providers.github_url": cfg.Providers.GitHubURL,
		"providers.clerk_url":  cfg.Providers.ClerkURL,
		"providers.vercel_url": cfg.Providers.VercelURL,
	} {
		if !isHTTPURL(u) {
			ve.Add("%s %q must be an http(s) URL", name, u)
		}
	}
}

func validateHTTP(cfg *Config, ve *ValidationError) {
	if cfg.HTTP.Timeout <= 0 {
		ve.Add("http.timeout must be > 0")
	}
	if cfg.CircuitBreaker.Enabled {
		if cfg.CircuitBreaker.MaxFailures == 0 {
			ve.Add("circuit_breaker.max_failures must be > 0 when enabled")
		}
		if cfg.CircuitBreaker.Timeout <= 0 {
			ve.Add("circuit_breaker.timeout must be > 0 when enabled")
		}
	}
}

func validatePublish(cfg *Config, ve *ValidationError) {
	p := cfg.Publish
	if p.PollAttempts <= 0 {
		ve.Add("publish.poll_attempts must be > 0")
	}
	if p.PollInterval <= 0 {
		ve.Add("publish.poll_interval must be > 0")
	}
	if p.MaxFileSize <= 0 {
		ve.Add("publish.max_file_size must be > 0")
	}
	if p.UploadRPS < 0 {
		ve.Add("publish.upload_rps must be >= 0")
	}
	if p.Branch == "" {
		ve.Add("publish.branch must not be empty")
	}
	for _, name := range p.Ignore {
		if strings.ContainsRune(name, '/') {
			ve.Add("publish.ignore entry %q must be a bare name, not a path", name)
		}
	}
}

func validateRateLimit(cfg *Config, ve *ValidationError) {
	if !cfg.RateLimit.Enabled {
		return
	}
	if cfg.RateLimit.RequestsPerMin <= 0 {
		ve.Add("rate_limit.requests_per_min must be > 0 when enabled")
	}
	if cfg.RateLimit.Burst <= 0 {
		ve.Add("rate_limit.burst must be > 0 when enabled")
	}
}

func validateGateway(cfg *Config, ve *ValidationError) {
	if !cfg.Gateway.FeedEnabled {
		return
	}
	if len(cfg.Gateway.Tokens) == 0 {
		ve.Add("gateway.tokens must not be empty when feed_enabled is true")
	}
	for i, tok := range cfg.Gateway.Tokens {
		if tok.Token == "" {
			ve.Add("gateway.tokens[%d].token must not be empty", i)
		}
	}
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

func validateObservability(cfg *Config, ve *ValidationError) {
	if !validLogLevels[strings.ToLower(cfg.Logger.Level)] {
		ve.Add("logger.level %q is not one of debug, info, warn, error", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "text", "json", "":
	default:
		ve.Add("logger.format %q must be text or json", cfg.Logger.Format)
	}
	if cfg.Tracer.Enabled {
		switch cfg.Tracer.Exporter {
		case "stdout", "noop", "":
		default:
			ve.Add("tracer.exporter %q is not supported", cfg.Tracer.Exporter)
		}
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		ve.Add("metrics.path %q must start with /", cfg.Metrics.Path)
	}
	if cfg.Audit.Enabled && cfg.Audit.Path == "" {
		ve.Add("audit.path must not be empty when audit is enabled")
	}
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
