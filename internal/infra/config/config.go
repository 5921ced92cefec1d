package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Providers      ProvidersConfig      `yaml:"providers"`
	HTTP           HTTPConfig           `yaml:"http"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	Publish        PublishConfig        `yaml:"publish"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	Gateway        GatewayConfig        `yaml:"gateway"`
	Logger         LoggerConfig         `yaml:"logger"`
	Tracer         TracerConfig         `yaml:"tracer"`
	Metrics        MetricsConfig        `yaml:"metrics"`
	Audit          AuditConfig          `yaml:"audit"`
}

// ServerConfig holds the setup backend settings.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	ProjectRoot string `yaml:"project_root"` // tree published to the git host
	EnvFile     string `yaml:"env_file"`     // relative paths resolve against ProjectRoot
	// BackendURL is where the wizard and CLI reach the setup backend.
	BackendURL string `yaml:"backend_url"`
}

// ProvidersConfig holds the base URLs of the external control-plane APIs.
type ProvidersConfig struct {
	GitHubURL string `yaml:"github_url"`
	ClerkURL  string `yaml:"clerk_url"`
	VercelURL string `yaml:"vercel_url"`
}

// HTTPConfig holds outbound HTTP client settings.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Pool    PoolConfig    `yaml:"pool"`
	// BlockPrivateNetworks refuses user-supplied project URLs that resolve to
	// loopback, link-local or private addresses.
	BlockPrivateNetworks bool `yaml:"block_private_networks"`
}

// PoolConfig holds HTTP connection pool settings.
type PoolConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `yaml:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout"`
}

// CircuitBreakerConfig holds circuit breaker settings for the host clients.
type CircuitBreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// PublishConfig tunes the repository publisher.
type PublishConfig struct {
	PollAttempts int           `yaml:"poll_attempts"`
	PollInterval time.Duration `yaml:"poll_interval"`
	MaxFileSize  int64         `yaml:"max_file_size"`
	UploadRPS    float64       `yaml:"upload_rps"` // 0 disables pacing
	Ignore       []string      `yaml:"ignore"`
	Branch       string        `yaml:"branch"`

	// Exclude lists launchpad's own files (config, audit log, env file) that
	// must never be published. Filled in by the caller, not from YAML.
	Exclude []string `yaml:"-"`
}

// RateLimitConfig holds per-client limits for the setup endpoints.
type RateLimitConfig struct {
	Enabled        bool     `yaml:"enabled"`
	RequestsPerMin int      `yaml:"requests_per_min"`
	Burst          int      `yaml:"burst"`
	TrustedProxies []string `yaml:"trusted_proxies,omitempty"`
}

// GatewayConfig holds the progress feed settings.
type GatewayConfig struct {
	FeedEnabled bool          `yaml:"feed_enabled"`
	Tokens      []TokenConfig `yaml:"tokens,omitempty"`
}

// TokenConfig holds a single observer token.
type TokenConfig struct {
	Token string `yaml:"token"`
	Name  string `yaml:"name"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// AuditConfig controls the JSONL trail of provisioning actions.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultIgnore lists the names never published: dependency caches, build
// output, version-control metadata and environment files.
var DefaultIgnore = []string{
	"node_modules",
	".next",
	".git",
	".env",
	".env.local",
	"dist",
	".turbo",
	".vercel",
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        "127.0.0.1:8787",
			ProjectRoot: ".",
			EnvFile:     ".env.local",
			BackendURL:  "http://127.0.0.1:8787",
		},
		Providers: ProvidersConfig{
			GitHubURL: "https://api.github.com",
			ClerkURL:  "https://api.clerk.com",
			VercelURL: "https://api.vercel.com",
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
			Pool: PoolConfig{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 5,
				MaxConnsPerHost:     10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:     true,
			MaxFailures: 5,
			Timeout:     30 * time.Second,
			Interval:    60 * time.Second,
		},
		Publish: PublishConfig{
			PollAttempts: 15,
			PollInterval: 2 * time.Second,
			MaxFileSize:  1_000_000,
			UploadRPS:    10,
			Ignore:       append([]string(nil), DefaultIgnore...),
			Branch:       "main",
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 120,
			Burst:          20,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Exporter: "noop",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Audit: AuditConfig{
			Path: "launchpad-audit.jsonl",
		},
	}
}

// EnvFilePath resolves the env file against the project root.
func (c *Config) EnvFilePath() string {
	if filepath.IsAbs(c.Server.EnvFile) {
		return c.Server.EnvFile
	}
	return filepath.Join(c.Server.ProjectRoot, c.Server.EnvFile)
}

// Load reads a YAML config file, applies env var overrides, and decrypts secrets.
// A missing file is not an error: defaults plus env overrides are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if err := validatePermissions(absPath); err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if passphrase := os.Getenv("LAUNCHPAD_CONFIG_KEY"); passphrase != "" {
		if err := decryptSecrets(cfg, passphrase); err != nil {
			return nil, fmt.Errorf("decrypt secrets: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps LAUNCHPAD_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LAUNCHPAD_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LAUNCHPAD_PROJECT_ROOT"); v != "" {
		cfg.Server.ProjectRoot = v
	}
	if v := os.Getenv("LAUNCHPAD_ENV_FILE"); v != "" {
		cfg.Server.EnvFile = v
	}
	if v := os.Getenv("LAUNCHPAD_BACKEND_URL"); v != "" {
		cfg.Server.BackendURL = v
	}
	if v := os.Getenv("LAUNCHPAD_GITHUB_URL"); v != "" {
		cfg.Providers.GitHubURL = v
	}
	if v := os.Getenv("LAUNCHPAD_CLERK_URL"); v != "" {
		cfg.Providers.ClerkURL = v
	}
	if v := os.Getenv("LAUNCHPAD_VERCEL_URL"); v != "" {
		cfg.Providers.VercelURL = v
	}
	if v := os.Getenv("LAUNCHPAD_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Timeout = d
		}
	}
	if v := os.Getenv("LAUNCHPAD_PUBLISH_UPLOAD_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Publish.UploadRPS = f
		}
	}
	if v := os.Getenv("LAUNCHPAD_PUBLISH_IGNORE"); v != "" {
		cfg.Publish.Ignore = append(cfg.Publish.Ignore, splitAndTrim(v, ",")...)
	}
	if v := os.Getenv("LAUNCHPAD_RATE_LIMIT_ENABLED"); v != "" {
		cfg.RateLimit.Enabled = v == "true"
	}
	if v := os.Getenv("LAUNCHPAD_GATEWAY_TOKEN"); v != "" {
		cfg.Gateway.FeedEnabled = true
		cfg.Gateway.Tokens = append(cfg.Gateway.Tokens, TokenConfig{Token: v, Name: "env"})
	}
	if v := os.Getenv("LAUNCHPAD_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("LAUNCHPAD_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("LAUNCHPAD_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("LAUNCHPAD_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
	if v := os.Getenv("LAUNCHPAD_AUDIT_PATH"); v != "" {
		cfg.Audit.Enabled = true
		cfg.Audit.Path = v
	}
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validatePermissions checks the config file has restrictive permissions.
func validatePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	mode := info.Mode().Perm()
	// Allow 0600 and 0644 (readable by others but not writable)
	if mode&0o077 > 0o044 {
		return fmt.Errorf("config file %s has insecure permissions %o (want 0600 or 0644)", path, mode)
	}
	return nil
}
