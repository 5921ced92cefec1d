package main

import (
	"bytes"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"launchpad/internal/domain"
	"launchpad/internal/infra/config"
)

func writeTestFile(t *testing.T, path, content string) error {
	t.Helper()
	return os.WriteFile(path, []byte(content), 0600)
}

func projectConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Server.ProjectRoot = t.TempDir()
	return cfg
}

func TestCheckConfigFile_NotFound(t *testing.T) {
	fn := checkConfigFile("/nonexistent/path/launchpad.yaml", nil)
	result := fn(nil)
	if result.Status != StatusWarn {
		t.Errorf("expected WARN for missing config, got %s", result.Status)
	}
}

func TestCheckConfigFile_LoadError(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "launchpad.yaml")
	if err := writeTestFile(t, cfgPath, "server: {{"); err != nil {
		t.Fatal(err)
	}

	fn := checkConfigFile(cfgPath, &config.ValidationError{Errors: []string{"bad yaml"}})
	result := fn(nil)
	if result.Status != StatusFail {
		t.Errorf("expected FAIL for load error, got %s", result.Status)
	}
	if result.Fix == "" {
		t.Error("expected fix suggestion for load error")
	}
}

func TestCheckConfigFile_Valid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "launchpad.yaml")
	if err := writeTestFile(t, cfgPath, "server:\n  addr: 127.0.0.1:8787\n"); err != nil {
		t.Fatal(err)
	}

	result := checkConfigFile(cfgPath, nil)(nil)
	if result.Status != StatusPass {
		t.Errorf("expected PASS for valid config, got %s: %s", result.Status, result.Message)
	}
}

func TestCheckProjectRoot(t *testing.T) {
	cfg := projectConfig(t)
	if result := checkProjectRoot(cfg); result.Status != StatusWarn {
		t.Errorf("expected WARN without package.json, got %s", result.Status)
	}

	if err := writeTestFile(t, filepath.Join(cfg.Server.ProjectRoot, "package.json"), "{}"); err != nil {
		t.Fatal(err)
	}
	if result := checkProjectRoot(cfg); result.Status != StatusPass {
		t.Errorf("expected PASS, got %s: %s", result.Status, result.Message)
	}

	cfg.Server.ProjectRoot = filepath.Join(cfg.Server.ProjectRoot, "missing")
	if result := checkProjectRoot(cfg); result.Status != StatusFail {
		t.Errorf("expected FAIL for missing root, got %s", result.Status)
	}
}

func TestCheckEnvFile(t *testing.T) {
	for _, key := range domain.ConfiguredKeys {
		t.Setenv(key, "")
	}
	cfg := projectConfig(t)

	result := checkEnvFile(cfg)
	if result.Status != StatusWarn {
		t.Errorf("expected WARN for missing env file, got %s", result.Status)
	}

	var b strings.Builder
	for _, key := range domain.ConfiguredKeys {
		b.WriteString(key + "=value\n")
	}
	if err := writeTestFile(t, cfg.EnvFilePath(), b.String()); err != nil {
		t.Fatal(err)
	}
	result = checkEnvFile(cfg)
	if result.Status != StatusPass {
		t.Errorf("expected PASS for complete env file, got %s: %s", result.Status, result.Message)
	}
}

func TestCheckEnvFilePermissions(t *testing.T) {
	cfg := projectConfig(t)
	if result := checkEnvFilePermissions(cfg); result.Status != StatusPass {
		t.Errorf("expected PASS for missing file, got %s", result.Status)
	}

	if err := os.WriteFile(cfg.EnvFilePath(), []byte("A=1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(cfg.EnvFilePath(), 0644); err != nil {
		t.Fatal(err)
	}
	result := checkEnvFilePermissions(cfg)
	if result.Status != StatusWarn {
		t.Errorf("expected WARN for 0644, got %s", result.Status)
	}
	if !strings.Contains(result.Fix, "chmod 600") {
		t.Errorf("unexpected fix: %q", result.Fix)
	}
}

func TestCheckBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"service":{"name":"launchpad","version":"1.2.3","uptime_seconds":7},"configured":false}`))
	}))
	defer srv.Close()

	cfg := projectConfig(t)
	cfg.Server.BackendURL = srv.URL + "/"
	result := checkBackend(cfg)
	if result.Status != StatusPass {
		t.Fatalf("expected PASS, got %s: %s", result.Status, result.Message)
	}
	if !strings.Contains(result.Message, "1.2.3") {
		t.Errorf("expected version in message, got %q", result.Message)
	}
}

func TestCheckBackend_Down(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	cfg := projectConfig(t)
	cfg.Server.BackendURL = "http://" + addr
	result := checkBackend(cfg)
	if result.Status != StatusWarn {
		t.Errorf("expected WARN for unreachable backend, got %s", result.Status)
	}
	if result.Fix == "" {
		t.Error("expected fix suggestion")
	}
}

func TestCheckProviderHosts(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := projectConfig(t)
	cfg.Providers.GitHubURL = srv.URL
	cfg.Providers.VercelURL = srv.URL
	cfg.Providers.ClerkURL = srv.URL
	if result := checkProviderHosts(cfg); result.Status != StatusPass {
		t.Errorf("expected PASS, got %s: %s", result.Status, result.Message)
	}

	cfg.Providers.ClerkURL = "://bad"
	result := checkProviderHosts(cfg)
	if result.Status != StatusFail {
		t.Errorf("expected FAIL, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "clerk") {
		t.Errorf("expected clerk to be reported, got %q", result.Message)
	}
}

func TestHostPort(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://api.github.com", "api.github.com:443"},
		{"http://localhost", "localhost:80"},
		{"http://127.0.0.1:9000/v1", "127.0.0.1:9000"},
	}
	for _, tt := range tests {
		got, err := hostPort(tt.in)
		if err != nil {
			t.Fatalf("hostPort(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("hostPort(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status CheckStatus
		want   string
	}{
		{StatusPass, "[PASS]"},
		{StatusWarn, "[WARN]"},
		{StatusFail, "[FAIL]"},
		{"UNKNOWN", "[????]"},
	}
	for _, tt := range tests {
		if got := statusIcon(tt.status); got != tt.want {
			t.Errorf("statusIcon(%s) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestRunDoctorReportsFailures(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "launchpad.yaml")
	if err := writeTestFile(t, cfgPath, "server:\n  project_root: /nonexistent/launchpad-root\n"); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := runDoctor(&out, cfgPath)
	if err == nil {
		t.Fatal("expected error for missing project root")
	}
	if !strings.Contains(out.String(), "[FAIL] Project root") {
		t.Errorf("expected project root failure in output:\n%s", out.String())
	}
}
