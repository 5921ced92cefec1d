package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"launchpad/internal/adapter/envfile"
	"launchpad/internal/adapter/gateway"
	"launchpad/internal/adapter/provider"
	"launchpad/internal/infra/middleware"
	"launchpad/internal/infra/tracer"
	"launchpad/internal/security"
	"launchpad/internal/usecase/credential"
	"launchpad/internal/usecase/eventbus"
	"launchpad/internal/usecase/publish"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the setup backend in the project directory",
	Long: `Serve the /setup endpoints the wizard talks to.

The env file is loaded into the environment at startup. When it already
holds every required key the provisioning endpoints answer 403; credentials
saved while the server runs take effect on the next start.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp("")
	if err != nil {
		return err
	}
	defer a.Close()
	if serveAddr != "" {
		a.cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.Setup(ctx, a.cfg.Tracer)
	if err != nil {
		return err
	}
	defer shutdownTracer(context.Background())

	// The audit file is closed after the bus has drained.
	var audit *security.FileAuditLogger
	if a.cfg.Audit.Enabled {
		audit, err = security.NewFileAuditLogger(a.cfg.Audit.Path)
		if err != nil {
			return err
		}
		defer audit.Close()
	}

	bus := eventbus.New(a.logger)
	defer bus.Close()
	if audit != nil {
		security.RecordBus(bus, audit, a.logger)
	}

	store := envfile.NewStore(a.cfg.EnvFilePath())
	if err := store.Load(); err != nil {
		return err
	}
	gate := envfile.NewGate()

	validator := credential.NewValidator(
		provider.NewClerk(a.cfg.Providers.ClerkURL, a.doer("clerk")),
		provider.NewSupabase(a.projectDoer("supabase")),
		bus, a.collector, a.logger,
	)
	publisher := publish.NewPublisher(a.gitHosts(), a.cfg.Server.ProjectRoot, a.publishConfig(), bus, a.collector, a.logger)

	var auth gateway.Authenticator
	if a.cfg.Gateway.FeedEnabled {
		auth = gateway.NewStaticTokenAuth(a.cfg.Gateway.Tokens)
	}
	srv := gateway.NewServer(bus, auth, a.cfg.Server.Addr, a.logger)

	mws := []middleware.Middleware{middleware.SecurityHeaders}
	if a.cfg.RateLimit.Enabled {
		mws = append(mws, middleware.RateLimit(ctx, a.cfg.RateLimit))
	}
	gateway.RegisterSetupHandlers(srv, gateway.SetupDeps{
		Validator: validator,
		Publisher: publisher,
		Env:       store,
		Gate:      gate,
		Bus:       bus,
		Collector: a.collector,
		Logger:    a.logger,
	}, mws...)

	status := gateway.StatusDeps{
		Gate:    gate,
		Runs:    gateway.NewRunCounters(bus),
		Version: version,
	}
	if a.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			a.collector,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		status.Gatherer = reg
		status.MetricsPath = a.cfg.Metrics.Path
	}
	gateway.RegisterStatusHandlers(srv, status)

	a.logger.Info("setup backend starting",
		"addr", a.cfg.Server.Addr,
		"project_root", a.cfg.Server.ProjectRoot,
		"env_file", store.Path(),
		"configured", gate.Configured(),
	)
	return srv.Start(ctx)
}
