package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"launchpad/internal/adapter/github"
	"launchpad/internal/adapter/httpclient"
	"launchpad/internal/adapter/setupclient"
	"launchpad/internal/adapter/vercel"
	"launchpad/internal/domain"
	"launchpad/internal/infra/config"
	"launchpad/internal/infra/logger"
	"launchpad/internal/infra/metrics"
	"launchpad/internal/security"
)

// app bundles what every command needs: config, logger and the shared
// outbound HTTP stack.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	closeLog  func() error
	client    *http.Client
	collector *metrics.Collector
}

// loadApp reads the config and builds the logger. logOutput, when set,
// replaces the configured output (the wizard cannot log to the terminal it
// draws on).
func loadApp(logOutput string) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	if logOutput != "" {
		cfg.Logger.Output = logOutput
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return &app{
		cfg:       cfg,
		logger:    log,
		closeLog:  closeLog,
		client:    httpclient.New(cfg.HTTP),
		collector: metrics.NewCollector(),
	}, nil
}

func (a *app) Close() {
	if a.closeLog != nil {
		a.closeLog()
	}
}

// doer returns a breaker-guarded request executor for one upstream host.
func (a *app) doer(host string) *httpclient.Doer {
	return httpclient.NewDoer(host, a.client, httpclient.NewBreaker(host, a.cfg.CircuitBreaker, a.logger))
}

// projectDoer serves requests to user-supplied project URLs. With
// http.block_private_networks set it refuses private addresses.
func (a *app) projectDoer(host string) *httpclient.Doer {
	client := a.client
	if a.cfg.HTTP.BlockPrivateNetworks {
		guarded := *a.client
		guarded.Transport = security.GuardTransport(httpclient.NewPooledTransport(a.cfg.HTTP.Pool))
		client = &guarded
	}
	return httpclient.NewDoer(host, client, httpclient.NewBreaker(host, a.cfg.CircuitBreaker, a.logger))
}

// publishConfig returns the publish settings with launchpad's own files
// excluded from the walk.
func (a *app) publishConfig() config.PublishConfig {
	pc := a.cfg.Publish
	pc.Exclude = append(slices.Clone(pc.Exclude), cfgFile, a.cfg.Audit.Path, a.cfg.EnvFilePath())
	return pc
}

func (a *app) gitHosts() domain.GitHostFactory {
	return github.Factory(a.cfg.Providers.GitHubURL, a.doer("github"))
}

func (a *app) deployHosts() domain.DeployHostFactory {
	return vercel.Factory(a.cfg.Providers.VercelURL, a.doer("vercel"))
}

func (a *app) backend() *setupclient.Client {
	return setupclient.New(a.cfg.Server.BackendURL, a.client)
}
