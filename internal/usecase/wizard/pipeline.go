package wizard

import (
	"context"
	"errors"
	"log/slog"

	"launchpad/internal/domain"
	"launchpad/internal/usecase/deploy"
	"launchpad/internal/usecase/publish"
)

const (
	msgNotReady      = "Fill in every field before deploying."
	msgPublishFailed = "Failed to push to GitHub."
	msgDeployFailed  = "Failed to deploy to Vercel. Try again."
)

// EnvSaver persists the collected variables into the local env file.
type EnvSaver interface {
	SaveEnv(ctx context.Context, vars map[string]string) error
}

// RepoPublisher streams a publish run and returns its terminal event. A
// non-nil error means the stream itself broke.
type RepoPublisher interface {
	Publish(ctx context.Context, req publish.Request, onEvent func(domain.ProvisioningEvent)) (domain.ProvisioningEvent, error)
}

// Deployer imports a repository on the deployment host and deploys it.
type Deployer interface {
	Deploy(ctx context.Context, req deploy.Request) (deploy.Result, error)
}

// Deps are the collaborators of RunPipeline.
type Deps struct {
	Env       EnvSaver
	Publisher RepoPublisher
	Deployer  Deployer
	Logger    *slog.Logger
}

// PipelineInput is everything the final step needs.
type PipelineInput struct {
	Session domain.SetupSession
	Form    DeployInput
	Private bool
	// Repo is the result of an earlier successful push in this session.
	// RunPipeline reuses it instead of publishing again when Form.Published is set.
	Repo domain.Done
}

// PipelineResult reports how far the pipeline got.
type PipelineResult struct {
	Repo      domain.Done
	Published bool
	Deploy    deploy.Result
	Deployed  bool
}

// RunPipeline saves the env file, publishes the project (unless it is already
// published or an existing repository was chosen) and deploys it. The env file
// write is best effort. The session is never modified, so a failure leaves
// every verified flag as it was.
func RunPipeline(ctx context.Context, in PipelineInput, deps Deps, onEvent func(domain.ProvisioningEvent)) (PipelineResult, error) {
	var res PipelineResult
	if !ReadyToDeploy(in.Form) {
		return res, domain.NewDomainError("Wizard.RunPipeline", domain.ErrInvalidInput, msgNotReady)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	vars := in.Session.EnvVars()

	if deps.Env != nil {
		if err := deps.Env.SaveEnv(ctx, vars); err != nil {
			logger.Warn("env file not written, continuing", "error", err)
		}
	}

	switch {
	case in.Form.Mode == RepoExisting:
		owner, repo, _ := SplitRepo(in.Form.ExistingRepo)
		res.Repo = domain.Done{
			RepoURL:  "https://github.com/" + owner + "/" + repo,
			Owner:    owner,
			RepoName: repo,
		}
	case in.Form.Published:
		res.Repo = in.Repo
		res.Published = true
	default:
		repo, err := publishRepo(ctx, in, deps.Publisher, onEvent)
		if err != nil {
			return res, err
		}
		res.Repo = repo
		res.Published = true
	}

	out, err := deps.Deployer.Deploy(ctx, deploy.Request{
		Token:    in.Form.VercelToken,
		Owner:    res.Repo.Owner,
		RepoName: res.Repo.RepoName,
		EnvVars:  vars,
	})
	if err != nil {
		return res, domain.NewDomainError("Wizard.RunPipeline", errors.Join(domain.ErrProviderError, err), deployMessage(err))
	}
	res.Deploy = out
	res.Deployed = true
	return res, nil
}

func publishRepo(ctx context.Context, in PipelineInput, p RepoPublisher, onEvent func(domain.ProvisioningEvent)) (domain.Done, error) {
	if onEvent == nil {
		onEvent = func(domain.ProvisioningEvent) {}
	}
	terminal, err := p.Publish(ctx, publish.Request{
		Token:    in.Form.GitHubToken,
		RepoName: in.Form.RepoName,
		Private:  in.Private,
	}, onEvent)
	if err != nil {
		return domain.Done{}, domain.WrapOp("Wizard.publish", err)
	}
	switch ev := terminal.(type) {
	case domain.Done:
		if ev.RepoName == "" {
			ev.RepoName = in.Form.RepoName
		}
		return ev, nil
	case domain.Failed:
		msg := ev.Error
		if msg == "" {
			msg = msgPublishFailed
		}
		return domain.Done{}, domain.NewDomainError("Wizard.publish", domain.ErrProviderError, msg)
	default:
		return domain.Done{}, domain.NewDomainError("Wizard.publish", domain.ErrConnectionLost, msgPublishFailed)
	}
}

func deployMessage(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) && de.Detail != "" {
		return de.Detail
	}
	return msgDeployFailed
}
