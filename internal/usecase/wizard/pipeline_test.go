package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/domain"
	"launchpad/internal/usecase/deploy"
	"launchpad/internal/usecase/publish"
)

type stubEnv struct {
	err  error
	vars map[string]string
}

func (s *stubEnv) SaveEnv(_ context.Context, vars map[string]string) error {
	s.vars = vars
	return s.err
}

type stubPublisher struct {
	events   []domain.ProvisioningEvent
	err      error
	requests []publish.Request
}

func (s *stubPublisher) Publish(_ context.Context, req publish.Request, onEvent func(domain.ProvisioningEvent)) (domain.ProvisioningEvent, error) {
	s.requests = append(s.requests, req)
	var last domain.ProvisioningEvent
	for _, ev := range s.events {
		onEvent(ev)
		last = ev
	}
	if s.err != nil {
		return nil, s.err
	}
	return last, nil
}

type stubDeployer struct {
	res      deploy.Result
	err      error
	requests []deploy.Request
}

func (s *stubDeployer) Deploy(_ context.Context, req deploy.Request) (deploy.Result, error) {
	s.requests = append(s.requests, req)
	return s.res, s.err
}

func pipelineInput() PipelineInput {
	return PipelineInput{
		Session: domain.SetupSession{
			AuthPublishableKey: "pk_test_x",
			AuthSecretKey:      "sk_test_x",
			DBURL:              "https://x.supabase.co",
			DBPublishableKey:   "sb_publishable_x",
			DBSecretKey:        "sb_secret_x",
			AuthVerified:       true,
			DBVerified:         true,
			TableVerified:      true,
		},
		Form: DeployInput{
			Mode:        RepoNew,
			GitHubToken: "ghp_0123456789",
			RepoName:    "site",
			VercelToken: "vercel_0123456789",
			NameState:   NameAvailable,
		},
		Private: true,
	}
}

func TestRunPipelineNewRepo(t *testing.T) {
	env := &stubEnv{}
	pub := &stubPublisher{events: []domain.ProvisioningEvent{
		domain.CreatingRepo{},
		domain.Finalizing{},
		domain.Done{RepoURL: "https://github.com/octo/site", Owner: "octo", RepoName: "site"},
	}}
	dep := &stubDeployer{res: deploy.Result{URL: "https://site.vercel.app", ProjectID: "prj_1"}}

	var got []domain.Step
	res, err := RunPipeline(context.Background(), pipelineInput(), Deps{Env: env, Publisher: pub, Deployer: dep},
		func(ev domain.ProvisioningEvent) { got = append(got, ev.Step()) })
	require.NoError(t, err)

	assert.Equal(t, []domain.Step{domain.StepCreatingRepo, domain.StepFinalizing, domain.StepDone}, got)
	assert.Equal(t, "sk_test_x", env.vars[domain.EnvClerkSecretKey])
	require.Len(t, pub.requests, 1)
	assert.Equal(t, publish.Request{Token: "ghp_0123456789", RepoName: "site", Private: true}, pub.requests[0])

	require.Len(t, dep.requests, 1)
	assert.Equal(t, "octo", dep.requests[0].Owner)
	assert.Equal(t, "site", dep.requests[0].RepoName)
	assert.Equal(t, "vercel_0123456789", dep.requests[0].Token)
	assert.Equal(t, "/sign-in", dep.requests[0].EnvVars[domain.EnvClerkSignInURL])

	assert.True(t, res.Published)
	assert.True(t, res.Deployed)
	assert.Equal(t, "https://site.vercel.app", res.Deploy.URL)
}

func TestRunPipelineEnvSaveIsBestEffort(t *testing.T) {
	pub := &stubPublisher{events: []domain.ProvisioningEvent{domain.Done{Owner: "octo", RepoName: "site"}}}
	dep := &stubDeployer{}

	_, err := RunPipeline(context.Background(), pipelineInput(),
		Deps{Env: &stubEnv{err: errors.New("read-only fs")}, Publisher: pub, Deployer: dep}, nil)
	require.NoError(t, err)
	assert.Len(t, dep.requests, 1)
}

func TestRunPipelinePublishFailed(t *testing.T) {
	tests := []struct {
		name string
		pub  *stubPublisher
		want string
	}{
		{
			name: "error event",
			pub:  &stubPublisher{events: []domain.ProvisioningEvent{domain.CreatingRepo{}, domain.Failed{Error: "Bad things"}}},
			want: "Bad things",
		},
		{
			name: "error event without text",
			pub:  &stubPublisher{events: []domain.ProvisioningEvent{domain.Failed{}}},
			want: msgPublishFailed,
		},
		{
			name: "stream broke",
			pub:  &stubPublisher{err: domain.NewDomainError("setupclient.Publish", domain.ErrConnectionLost, "Connection lost. Please try again.")},
			want: "Connection lost. Please try again.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dep := &stubDeployer{}
			in := pipelineInput()
			res, err := RunPipeline(context.Background(), in, Deps{Publisher: tt.pub, Deployer: dep}, nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, domain.UserMessage(err))
			assert.Empty(t, dep.requests, "no deploy after a failed push")
			assert.False(t, res.Published)
			assert.True(t, in.Session.AuthVerified && in.Session.DBVerified && in.Session.TableVerified)
		})
	}
}

func TestRunPipelineSkipsPublishWhenAlreadyDone(t *testing.T) {
	pub := &stubPublisher{}
	dep := &stubDeployer{}
	in := pipelineInput()
	in.Form.Published = true
	in.Form.NameState = NameTaken
	in.Repo = domain.Done{RepoURL: "https://github.com/octo/site", Owner: "octo", RepoName: "site"}

	res, err := RunPipeline(context.Background(), in, Deps{Publisher: pub, Deployer: dep}, nil)
	require.NoError(t, err)
	assert.Empty(t, pub.requests)
	assert.Equal(t, "octo", dep.requests[0].Owner)
	assert.Equal(t, in.Repo, res.Repo)
}

func TestRunPipelineExistingRepo(t *testing.T) {
	pub := &stubPublisher{}
	dep := &stubDeployer{}
	in := pipelineInput()
	in.Form.Mode = RepoExisting
	in.Form.ExistingRepo = " acme/landing "

	res, err := RunPipeline(context.Background(), in, Deps{Publisher: pub, Deployer: dep}, nil)
	require.NoError(t, err)
	assert.Empty(t, pub.requests)
	assert.Equal(t, "https://github.com/acme/landing", res.Repo.RepoURL)
	assert.Equal(t, "acme", dep.requests[0].Owner)
	assert.Equal(t, "landing", dep.requests[0].RepoName)
	assert.False(t, res.Published)
}

func TestRunPipelineDeployFailed(t *testing.T) {
	pub := &stubPublisher{events: []domain.ProvisioningEvent{domain.Done{Owner: "octo", RepoName: "site"}}}

	t.Run("host detail", func(t *testing.T) {
		dep := &stubDeployer{err: domain.NewDomainError("Trigger.Deploy", domain.ErrProviderError, "Project name taken")}
		res, err := RunPipeline(context.Background(), pipelineInput(), Deps{Publisher: pub, Deployer: dep}, nil)
		require.Error(t, err)
		assert.Equal(t, "Project name taken", domain.UserMessage(err))
		assert.True(t, res.Published)
		assert.False(t, res.Deployed)
	})

	t.Run("unexpected", func(t *testing.T) {
		dep := &stubDeployer{err: context.DeadlineExceeded}
		_, err := RunPipeline(context.Background(), pipelineInput(), Deps{Publisher: pub, Deployer: dep}, nil)
		require.Error(t, err)
		assert.Equal(t, msgDeployFailed, domain.UserMessage(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestRunPipelineNotReady(t *testing.T) {
	in := pipelineInput()
	in.Form.VercelToken = ""
	_, err := RunPipeline(context.Background(), in, Deps{Publisher: &stubPublisher{}, Deployer: &stubDeployer{}}, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
