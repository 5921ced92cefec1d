package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"launchpad/internal/adapter/envfile"
	"launchpad/internal/adapter/gateway"
	"launchpad/internal/infra/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the project, env file, backend and provider connectivity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDoctor(cmd.OutOrStdout(), cfgFile)
	},
}

// CheckStatus represents the result of a health check.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusWarn CheckStatus = "WARN"
	StatusFail CheckStatus = "FAIL"
)

// CheckResult holds the outcome of a single health check.
type CheckResult struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string // optional fix suggestion
}

// Check is a named health check function.
type Check struct {
	Name string
	Fn   func(cfg *config.Config) CheckResult
}

const doctorTimeout = 5 * time.Second

// runDoctor executes all health checks and reports results.
func runDoctor(out io.Writer, cfgPath string) error {
	// Most checks still run on defaults when the file is broken.
	cfg, cfgErr := config.Load(cfgPath)
	if cfg == nil {
		cfg = config.Defaults()
	}

	checks := []Check{
		{Name: "Config file", Fn: checkConfigFile(cfgPath, cfgErr)},
		{Name: "Project root", Fn: checkProjectRoot},
		{Name: "Env file", Fn: checkEnvFile},
		{Name: "Env file permissions", Fn: checkEnvFilePermissions},
		{Name: "Setup backend", Fn: checkBackend},
		{Name: "Provider hosts", Fn: checkProviderHosts},
		{Name: "Node.js", Fn: checkNode},
	}

	fmt.Fprintln(out, "launchpad doctor")
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out)

	var pass, warn, fail int
	for _, check := range checks {
		result := check.Fn(cfg)
		result.Name = check.Name

		fmt.Fprintf(out, "  %s %s: %s\n", statusIcon(result.Status), result.Name, result.Message)
		if result.Fix != "" {
			fmt.Fprintf(out, "      Fix: %s\n", result.Fix)
		}

		switch result.Status {
		case StatusPass:
			pass++
		case StatusWarn:
			warn++
		case StatusFail:
			fail++
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("-", 50))
	fmt.Fprintf(out, "Results: %d passed, %d warnings, %d failed\n", pass, warn, fail)

	if fail > 0 {
		fmt.Fprintln(out, "\nFix the FAIL issues above before running the wizard.")
		return fmt.Errorf("%d check(s) failed", fail)
	}
	if warn > 0 {
		fmt.Fprintln(out, "\nSetup should work, but consider addressing the warnings.")
	} else {
		fmt.Fprintln(out, "\nAll checks passed!")
	}
	return nil
}

func statusIcon(s CheckStatus) string {
	switch s {
	case StatusPass:
		return "[PASS]"
	case StatusWarn:
		return "[WARN]"
	case StatusFail:
		return "[FAIL]"
	default:
		return "[????]"
	}
}

// checkConfigFile returns a check that verifies the config file parses. A
// missing file only warns: defaults and LAUNCHPAD_* variables are enough.
func checkConfigFile(cfgPath string, cfgErr error) func(*config.Config) CheckResult {
	return func(_ *config.Config) CheckResult {
		if cfgErr != nil {
			return CheckResult{
				Status:  StatusFail,
				Message: fmt.Sprintf("config error: %v", cfgErr),
				Fix:     fmt.Sprintf("Check %s syntax and permissions (0600)", cfgPath),
			}
		}
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusWarn,
				Message: fmt.Sprintf("no config file at %s, using defaults", cfgPath),
			}
		}
		return CheckResult{
			Status:  StatusPass,
			Message: fmt.Sprintf("config loaded from %s", cfgPath),
		}
	}
}

// checkProjectRoot verifies the tree that gets published exists.
func checkProjectRoot(cfg *config.Config) CheckResult {
	root, _ := filepath.Abs(cfg.Server.ProjectRoot)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("project root %s is not a directory", root),
			Fix:     "Set server.project_root or run launchpad from the project directory",
		}
	}
	if _, err := os.Stat(filepath.Join(root, "package.json")); err != nil {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s has no package.json", root),
			Fix:     "Make sure server.project_root points at the starter kit",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: root,
	}
}

// checkEnvFile reports whether the wizard has already stored the credentials.
func checkEnvFile(cfg *config.Config) CheckResult {
	store := envfile.NewStore(cfg.EnvFilePath())
	vars, err := store.Read()
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: err.Error(),
			Fix:     fmt.Sprintf("Fix or remove %s", store.Path()),
		}
	}
	lookup := func(k string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return vars[k]
	}
	if !envfile.Configured(lookup) {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s is missing credentials (%d keys present)", store.Path(), len(vars)),
			Fix:     "Run 'launchpad wizard'",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("app is configured (%s)", store.Path()),
	}
}

// checkEnvFilePermissions warns when the env file is readable by others.
func checkEnvFilePermissions(cfg *config.Config) CheckResult {
	path := cfg.EnvFilePath()
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusPass,
				Message: "env file does not exist yet",
			}
		}
		return CheckResult{Status: StatusWarn, Message: err.Error()}
	}
	if perm := info.Mode().Perm(); perm&fs.FileMode(0o077) != 0 {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s has mode %o", path, perm),
			Fix:     fmt.Sprintf("chmod 600 %s", path),
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: "env file is private",
	}
}

// checkBackend queries the status endpoint of the setup backend.
func checkBackend(cfg *config.Config) CheckResult {
	ctx, cancel := context.WithTimeout(context.Background(), doctorTimeout)
	defer cancel()

	endpoint := strings.TrimRight(cfg.Server.BackendURL, "/") + "/api/v1/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return CheckResult{Status: StatusFail, Message: err.Error()}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("backend not reachable at %s", cfg.Server.BackendURL),
			Fix:     "Start it with 'launchpad serve' before running the wizard",
		}
	}
	defer resp.Body.Close()

	var status gateway.StatusResponse
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&status) != nil {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("unexpected answer from %s (HTTP %d)", endpoint, resp.StatusCode),
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("backend %s up %ds, configured=%t", status.Service.Version, status.Service.UptimeSeconds, status.Configured),
	}
}

// checkProviderHosts opens a TCP connection to every upstream host.
func checkProviderHosts(cfg *config.Config) CheckResult {
	targets := map[string]string{
		"github": cfg.Providers.GitHubURL,
		"vercel": cfg.Providers.VercelURL,
		"clerk":  cfg.Providers.ClerkURL,
	}

	ctx, cancel := context.WithTimeout(context.Background(), doctorTimeout)
	defer cancel()

	var d net.Dialer
	var down []string
	for _, name := range []string{"github", "vercel", "clerk"} {
		addr, err := hostPort(targets[name])
		if err != nil {
			down = append(down, name)
			continue
		}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			down = append(down, name)
			continue
		}
		conn.Close()
	}

	if len(down) > 0 {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("cannot reach: %s", strings.Join(down, ", ")),
			Fix:     "Check your network connection, proxy and firewall settings",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: "GitHub, Vercel and Clerk are reachable",
	}
}

func hostPort(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Port() != "" {
		return u.Host, nil
	}
	if u.Scheme == "http" {
		return net.JoinHostPort(u.Hostname(), "80"), nil
	}
	return net.JoinHostPort(u.Hostname(), "443"), nil
}

// checkNode looks for the runtime the starter kit is built with.
func checkNode(_ *config.Config) CheckResult {
	if _, err := exec.LookPath("node"); err != nil {
		return CheckResult{
			Status:  StatusWarn,
			Message: "node not found in PATH",
			Fix:     "Install Node.js to run the site locally (deploying does not need it)",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: "node found",
	}
}
