// Package deploy imports a published repository on the deployment host, sets
// its environment and starts a production build.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"launchpad/internal/domain"
	"launchpad/internal/infra/metrics"
	"launchpad/internal/infra/tracer"
)

const (
	msgImportFailed = "Failed to import repo on Vercel. Make sure your Vercel account is connected to GitHub."
	deployRef       = "main"
)

// Request describes a first deployment of a freshly published repository.
type Request struct {
	Token    string
	Owner    string
	RepoName string
	EnvVars  map[string]string
}

// SyncRequest updates variables on an existing project and redeploys it.
type SyncRequest struct {
	Token     string
	ProjectID string
	EnvVars   map[string]string
}

// Result describes the outcome. EnvFailures lists variables that could not be
// set; they never abort the deployment.
type Result struct {
	URL         string
	ProjectID   string
	EnvFailures []string
}

// Trigger runs deployments with the operator's token. It is meant to run on
// the operator's machine so the token never reaches the setup backend.
type Trigger struct {
	hosts   domain.DeployHostFactory
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewTrigger creates a trigger. collector may be nil.
func NewTrigger(hosts domain.DeployHostFactory, collector *metrics.Collector, logger *slog.Logger) *Trigger {
	return &Trigger{hosts: hosts, metrics: collector, logger: logger}
}

// Deploy imports owner/repo as a project, creates every variable and starts a
// production deployment of main. Only a failed import is an error; a failed
// deployment call still yields the project's default URL.
func (t *Trigger) Deploy(ctx context.Context, req Request) (res Result, err error) {
	ctx, span := tracer.StartSpan(ctx, "deploy.trigger")
	span.SetAttributes(tracer.StringAttr("deploy.repo", req.Owner+"/"+req.RepoName))
	defer func() {
		tracer.Finish(span, err)
		t.record(err)
	}()

	if req.Token == "" || req.Owner == "" || req.RepoName == "" {
		return Result{}, domain.NewDomainError("Trigger.Deploy", domain.ErrInvalidInput, "Vercel token and repository are required")
	}
	host := t.hosts(req.Token)

	project, err := host.ImportProject(ctx, req.RepoName, req.Owner+"/"+req.RepoName)
	if err != nil {
		return Result{}, domain.NewDomainError("Trigger.Deploy", err, importMessage(err))
	}
	res.ProjectID = project.ID
	span.SetAttributes(tracer.StringAttr("deploy.project_id", project.ID))

	for _, key := range slices.Sorted(maps.Keys(req.EnvVars)) {
		if err := host.CreateEnv(ctx, project.ID, key, req.EnvVars[key]); err != nil {
			t.logger.Warn("env var not set", "project", project.ID, "key", key, "error", err)
			res.EnvFailures = append(res.EnvFailures, key)
		}
	}

	fallback := "https://" + req.RepoName + ".vercel.app"
	dep, err := host.CreateDeployment(ctx, domain.DeploymentRequest{
		Name:      req.RepoName,
		ProjectID: project.ID,
		RepoID:    project.RepoID,
		Ref:       deployRef,
	})
	if err != nil {
		t.logger.Warn("deployment not started, using default domain", "project", project.ID, "error", err)
		res.URL = fallback
		return res, nil
	}
	res.URL = deploymentURL(dep, req.RepoName+".vercel.app")
	t.logger.Info("deployment started", "project", project.ID, "url", res.URL, "env_failures", len(res.EnvFailures))
	return res, nil
}

// SyncEnv upserts variables on an existing project and redeploys its latest
// deployment. Any variable failure aborts before the redeploy.
func (t *Trigger) SyncEnv(ctx context.Context, req SyncRequest) (res Result, err error) {
	ctx, span := tracer.StartSpan(ctx, "deploy.sync_env")
	span.SetAttributes(tracer.StringAttr("deploy.project_id", req.ProjectID))
	defer func() {
		tracer.Finish(span, err)
		t.record(err)
	}()

	if req.Token == "" || req.ProjectID == "" || len(req.EnvVars) == 0 {
		return Result{}, domain.NewDomainError("Trigger.SyncEnv", domain.ErrInvalidInput, "vercelToken, projectId, and envVars are required")
	}
	host := t.hosts(req.Token)
	res.ProjectID = req.ProjectID

	existing, err := host.ListEnv(ctx, req.ProjectID)
	if err != nil {
		msg := fmt.Sprintf("Failed to fetch project. Status: %d. Check your token and project ID.", domain.StatusCode(err))
		var de *domain.DomainError
		if errors.As(err, &de) && de.Detail != "" && !strings.HasPrefix(de.Detail, "Vercel API error") {
			msg = de.Detail
		}
		return res, domain.NewDomainError("Trigger.SyncEnv", err, msg)
	}
	ids := make(map[string]string, len(existing))
	for _, e := range existing {
		ids[e.Key] = e.ID
	}

	var failures []string
	for _, key := range slices.Sorted(maps.Keys(req.EnvVars)) {
		if id, ok := ids[key]; ok {
			if err := host.UpdateEnv(ctx, req.ProjectID, id, req.EnvVars[key]); err != nil {
				failures = append(failures, fmt.Sprintf("Failed to update %s: %d", key, domain.StatusCode(err)))
				res.EnvFailures = append(res.EnvFailures, key)
			}
			continue
		}
		if err := host.CreateEnv(ctx, req.ProjectID, key, req.EnvVars[key]); err != nil {
			failures = append(failures, fmt.Sprintf("Failed to create %s: %d", key, domain.StatusCode(err)))
			res.EnvFailures = append(res.EnvFailures, key)
		}
	}
	if len(failures) > 0 {
		return res, domain.NewDomainError("Trigger.SyncEnv", domain.ErrProviderError,
			"Some env vars failed to set: "+strings.Join(failures, ", "))
	}

	latest, err := host.LatestDeployment(ctx, req.ProjectID)
	if err != nil {
		t.logger.Info("no deployment to rebuild", "project", req.ProjectID, "error", err)
		return res, nil
	}
	dep, err := host.CreateDeployment(ctx, domain.DeploymentRequest{Name: latest.Name, RedeployOf: latest.ID})
	if err != nil {
		t.logger.Warn("redeploy not started", "project", req.ProjectID, "error", err)
		return res, nil
	}
	res.URL = deploymentURL(dep, "")
	return res, nil
}

// deploymentURL prefers the generated URL, then the first alias, then fallback.
func deploymentURL(d domain.Deployment, fallback string) string {
	host := d.URL
	if host == "" && len(d.Alias) > 0 {
		host = d.Alias[0]
	}
	if host == "" {
		host = fallback
	}
	if host == "" {
		return ""
	}
	return "https://" + host
}

func importMessage(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) && de.Detail != "" && !strings.HasPrefix(de.Detail, "Vercel API error") {
		return de.Detail
	}
	return msgImportFailed
}

func (t *Trigger) record(err error) {
	if t.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(domain.ErrorCodeOf(err))
	}
	t.metrics.RecordDeploy(outcome)
}
