package domain

import (
	"context"
	"fmt"
)

// ErrRepoExists is returned by a GitHost when repository creation fails because
// the name is already taken on the account.
var ErrRepoExists = fmt.Errorf("repository already exists")

// RemoteRepository is a repository owned by the source-control host.
type RemoteRepository struct {
	Owner   string
	Name    string
	HTMLURL string
}

// FullName returns "owner/name".
func (r RemoteRepository) FullName() string {
	return r.Owner + "/" + r.Name
}

// FileEntry is one file of the local project tree, ready for upload.
type FileEntry struct {
	Path    string // slash-separated, relative to the project root
	Content string // base64
}

// TreeEntry references an uploaded blob at a path.
type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

// GitHost is a source-control host API bound to one access token.
type GitHost interface {
	// AuthenticatedUser returns the login of the token's owner.
	AuthenticatedUser(ctx context.Context) (string, error)
	// CreateRepository creates an auto-initialized repository on the user's account.
	// Returns ErrRepoExists when the name is taken.
	CreateRepository(ctx context.Context, name string, private bool) (RemoteRepository, error)
	GetRepository(ctx context.Context, owner, name string) (RemoteRepository, error)
	// CountCommits returns the number of commits on the default branch, capped at limit.
	CountCommits(ctx context.Context, owner, name string, limit int) (int, error)
	// BranchHead returns the commit SHA at the tip of branch.
	BranchHead(ctx context.Context, owner, name, branch string) (string, error)
	CreateBlob(ctx context.Context, owner, name, base64Content string) (string, error)
	CreateTree(ctx context.Context, owner, name string, entries []TreeEntry) (string, error)
	CreateCommit(ctx context.Context, owner, name, message, tree string, parents []string) (string, error)
	UpdateRef(ctx context.Context, owner, name, ref, sha string, force bool) error
}

// GitHostFactory binds a GitHost to a user-supplied token.
type GitHostFactory func(token string) GitHost

// EnvTargets are the deployment environments every variable is scoped to.
var EnvTargets = []string{"production", "preview", "development"}

// RemoteProject is a project owned by the deployment host.
type RemoteProject struct {
	ID     string
	Name   string
	RepoID int64
}

// RemoteEnvVar is an environment variable stored on a RemoteProject.
type RemoteEnvVar struct {
	ID    string
	Key   string
	Value string
}

// Deployment is a deployment record on the deployment host.
type Deployment struct {
	ID    string
	Name  string
	URL   string
	Alias []string
}

// DeploymentRequest describes a new production deployment.
type DeploymentRequest struct {
	Name      string
	ProjectID string
	RepoID    int64
	Ref       string
	// RedeployOf, when set, redeploys an existing deployment instead of a git ref.
	RedeployOf string
}

// DeployHost is a deployment host API bound to one access token.
type DeployHost interface {
	// ImportProject creates a project linked to the git repository "owner/name".
	ImportProject(ctx context.Context, name, gitRepo string) (RemoteProject, error)
	ListEnv(ctx context.Context, projectID string) ([]RemoteEnvVar, error)
	CreateEnv(ctx context.Context, projectID, key, value string) error
	UpdateEnv(ctx context.Context, projectID, envID, value string) error
	CreateDeployment(ctx context.Context, req DeploymentRequest) (Deployment, error)
	// LatestDeployment returns the most recent deployment, or ErrNotFound.
	LatestDeployment(ctx context.Context, projectID string) (Deployment, error)
}

// DeployHostFactory binds a DeployHost to a user-supplied token.
type DeployHostFactory func(token string) DeployHost
