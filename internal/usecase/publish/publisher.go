// Package publish pushes the local project to a fresh repository on the
// source-control host as a single commit, reporting progress as it goes.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"launchpad/internal/domain"
	"launchpad/internal/infra/config"
	"launchpad/internal/infra/metrics"
	"launchpad/internal/infra/poll"
	"launchpad/internal/infra/tracer"
)

const (
	commitMessage = "Initial commit from setup wizard"
	// reuseCommitLimit is the most commits an existing repository may have
	// and still be overwritten: the host's auto-init commit plus one.
	reuseCommitLimit = 2
	defaultBranch    = "main"
)

const (
	msgRequired       = "GitHub token and repository name are required"
	msgBadCredentials = "Invalid GitHub token. Make sure you followed the token creation steps above."
	msgTooSlow        = "GitHub is taking too long to initialize the repository. Please try again."
	msgNoFiles        = "No files found to push"
	msgFallback       = "Failed to push to GitHub"
)

// Request holds the user input of one publish run.
type Request struct {
	Token    string
	RepoName string
	Private  bool
}

// Publisher runs publish flows. One Publisher serves many concurrent runs;
// nothing stops two runs targeting the same repository.
type Publisher struct {
	hosts   domain.GitHostFactory
	root    string
	cfg     config.PublishConfig
	walker  Walker
	bus     domain.EventBus // optional
	metrics *metrics.Collector
	logger  *slog.Logger
	now     func() time.Time
}

// NewPublisher creates a publisher for the project at root. bus and collector may be nil.
func NewPublisher(hosts domain.GitHostFactory, root string, cfg config.PublishConfig, bus domain.EventBus, collector *metrics.Collector, logger *slog.Logger) *Publisher {
	if cfg.Branch == "" {
		cfg.Branch = defaultBranch
	}
	return &Publisher{
		hosts: hosts,
		root:  root,
		cfg:   cfg,
		walker: Walker{
			Ignore:      cfg.Ignore,
			Exclude:     excludedPaths(root, cfg.Exclude),
			MaxFileSize: cfg.MaxFileSize,
			Logger:      logger,
		},
		bus:     bus,
		metrics: collector,
		logger:  logger,
		now:     time.Now,
	}
}

// Publish runs one flow, calling emit for every progress event in order. It
// returns the terminal event, which is always the last one emitted: Done on
// success, Failed with a user-facing message otherwise.
func (p *Publisher) Publish(ctx context.Context, req Request, emit func(domain.ProvisioningEvent)) domain.ProvisioningEvent {
	runID := p.newRunID()
	out := &emitter{runID: runID, emit: emit, bus: p.bus, now: p.now, logger: p.logger}

	if req.Token == "" || req.RepoName == "" {
		ev := domain.Failed{Error: msgRequired}
		out.send(ctx, ev)
		return ev
	}

	ctx, span := tracer.StartSpan(ctx, "publish.run")
	span.SetAttributes(
		tracer.StringAttr("publish.run_id", runID),
		tracer.StringAttr("publish.repo", req.RepoName),
		tracer.BoolAttr("publish.private", req.Private),
	)
	finish := func(string) {}
	if p.metrics != nil {
		finish = p.metrics.PublishStarted()
	}
	p.logger.Info("publish started", "run_id", runID, "repo", req.RepoName)

	done, err := p.run(ctx, span, p.hosts(req.Token), req, out)
	tracer.Finish(span, err)

	if err != nil {
		finish(string(domain.ErrorCodeOf(err)))
		p.logger.Warn("publish failed", "run_id", runID, "repo", req.RepoName, "error", err)
		ev := domain.Failed{Error: userMessage(err)}
		out.send(ctx, ev)
		return ev
	}
	finish("success")
	p.logger.Info("publish completed", "run_id", runID, "repo", done.RepoURL)
	out.send(ctx, done)
	return done
}

func (p *Publisher) run(ctx context.Context, span trace.Span, host domain.GitHost, req Request, out *emitter) (domain.Done, error) {
	owner, err := host.AuthenticatedUser(ctx)
	if err != nil {
		return domain.Done{}, err
	}
	span.SetAttributes(tracer.StringAttr("publish.owner", owner))

	out.send(ctx, domain.CreatingRepo{})
	repo, err := host.CreateRepository(ctx, req.RepoName, req.Private)
	if errors.Is(err, domain.ErrRepoExists) {
		repo, err = p.reuse(ctx, host, owner, req.RepoName)
	}
	if err != nil {
		return domain.Done{}, err
	}

	out.send(ctx, domain.WaitingForRepo{})
	head, err := p.awaitReady(ctx, host, owner, req.RepoName)
	if err != nil {
		return domain.Done{}, err
	}

	files, err := p.walker.Walk(p.root)
	if err != nil {
		return domain.Done{}, err
	}
	if len(files) == 0 {
		return domain.Done{}, domain.NewDomainError("Publisher.Publish", domain.ErrInvalidInput, msgNoFiles)
	}
	span.SetAttributes(tracer.IntAttr("publish.files", len(files)))
	out.send(ctx, domain.ReadingFiles{Total: len(files)})

	tree, err := p.upload(ctx, host, owner, req.RepoName, files, out)
	if err != nil {
		return domain.Done{}, err
	}

	out.send(ctx, domain.Finalizing{})
	if err := p.commit(ctx, host, owner, req.RepoName, head, tree); err != nil {
		return domain.Done{}, err
	}
	return domain.Done{RepoURL: repo.HTMLURL, Owner: owner, RepoName: req.RepoName}, nil
}

// reuse accepts an existing repository only while it holds no real code. A
// failed commit listing means the repository is empty.
func (p *Publisher) reuse(ctx context.Context, host domain.GitHost, owner, name string) (domain.RemoteRepository, error) {
	repo, err := host.GetRepository(ctx, owner, name)
	if err != nil {
		return domain.RemoteRepository{}, domain.NewDomainError("Publisher.reuse", domain.ErrNameConflict,
			fmt.Sprintf("Repository %q already exists. Choose a different name.", name))
	}
	n, err := host.CountCommits(ctx, owner, name, reuseCommitLimit+1)
	if err != nil {
		p.logger.Debug("commit listing failed, treating repository as empty", "repo", repo.FullName(), "error", err)
		return repo, nil
	}
	if n > reuseCommitLimit {
		return domain.RemoteRepository{}, domain.NewDomainError("Publisher.reuse", domain.ErrNameConflict,
			fmt.Sprintf("Repository %q already exists and contains code. Choose a different name.", name))
	}
	return repo, nil
}

func (p *Publisher) awaitReady(ctx context.Context, host domain.GitHost, owner, name string) (string, error) {
	policy := poll.Policy{
		MaxAttempts: p.cfg.PollAttempts,
		Interval:    p.cfg.PollInterval,
		TimeoutErr:  domain.NewDomainError("Publisher.awaitReady", domain.ErrHostTimeout, msgTooSlow),
		OnRetry: func(attempt int, err error) {
			p.logger.Debug("repository not ready", "repo", owner+"/"+name, "attempt", attempt, "error", err)
		},
	}
	return poll.Until(ctx, policy, func(ctx context.Context, _ int) (string, bool, error) {
		sha, err := host.BranchHead(ctx, owner, name, p.cfg.Branch)
		return sha, err == nil && sha != "", err
	})
}

// upload creates one blob per file, strictly in order, pacing calls so a large
// tree stays under the host's secondary rate limit.
func (p *Publisher) upload(ctx context.Context, host domain.GitHost, owner, name string, files []domain.FileEntry, out *emitter) ([]domain.TreeEntry, error) {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if p.cfg.UploadRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(p.cfg.UploadRPS), 1)
	}

	tree := make([]domain.TreeEntry, 0, len(files))
	for i, f := range files {
		out.send(ctx, domain.Uploading{Current: i + 1, Total: len(files), File: f.Path})
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		sha, err := host.CreateBlob(ctx, owner, name, f.Content)
		if err != nil {
			return nil, err
		}
		if p.metrics != nil {
			p.metrics.RecordBlob()
		}
		tree = append(tree, domain.TreeEntry{Path: f.Path, Mode: "100644", Type: "blob", SHA: sha})
	}
	return tree, nil
}

func (p *Publisher) commit(ctx context.Context, host domain.GitHost, owner, name, parent string, entries []domain.TreeEntry) error {
	tree, err := host.CreateTree(ctx, owner, name, entries)
	if err != nil {
		return err
	}
	sha, err := host.CreateCommit(ctx, owner, name, commitMessage, tree, []string{parent})
	if err != nil {
		return err
	}
	return host.UpdateRef(ctx, owner, name, "heads/"+p.cfg.Branch, sha, true)
}

func (p *Publisher) newRunID() string {
	t := p.now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// userMessage turns a run failure into the text shown to the user.
func userMessage(err error) string {
	var de *domain.DomainError
	if !errors.As(err, &de) || de.Detail == "" {
		return msgFallback
	}
	if strings.Contains(de.Detail, "Bad credentials") {
		return msgBadCredentials
	}
	return de.Detail
}

// emitter forwards events to the caller and the bus, dropping anything after
// the first terminal event.
type emitter struct {
	mu       sync.Mutex
	runID    string
	seq      int
	finished bool
	emit     func(domain.ProvisioningEvent)
	bus      domain.EventBus
	now      func() time.Time
	logger   *slog.Logger
}

func (e *emitter) send(ctx context.Context, ev domain.ProvisioningEvent) {
	e.mu.Lock()
	if e.finished {
		e.mu.Unlock()
		return
	}
	e.finished = ev.Terminal()
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	if e.emit != nil {
		e.emit(ev)
	}
	if e.bus == nil {
		return
	}
	busEvent, err := domain.NewRunEvent(e.runID, seq, ev, e.now())
	if err != nil {
		e.logger.Warn("encode run event", "run_id", e.runID, "error", err)
		return
	}
	e.bus.Publish(ctx, busEvent)
}
