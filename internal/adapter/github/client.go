// Package github implements domain.GitHost over the GitHub REST API v3.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"launchpad/internal/adapter/httpclient"
	"launchpad/internal/domain"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
)

// Client is a GitHub API client bound to one token.
type Client struct {
	baseURL string
	token   string
	doer    *httpclient.Doer
}

// NewClient creates a client. An empty baseURL means api.github.com.
func NewClient(baseURL, token string, doer *httpclient.Doer) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		doer:    doer,
	}
}

// Factory returns a domain.GitHostFactory sharing doer across tokens.
func Factory(baseURL string, doer *httpclient.Doer) domain.GitHostFactory {
	return func(token string) domain.GitHost {
		return NewClient(baseURL, token, doer)
	}
}

// apiError is GitHub's error body.
type apiError struct {
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"errors"`
}

func (c *Client) call(ctx context.Context, op, method, path string, body, out any) error {
	resp, err := c.doer.Do(ctx, httpclient.Request{
		Method: method,
		URL:    c.baseURL + path,
		Header: map[string]string{
			"Authorization":        "Bearer " + c.token,
			"Accept":               "application/vnd.github+json",
			"X-GitHub-Api-Version": apiVersion,
		},
		Body: body,
	})
	if err != nil {
		return domain.WrapOp(op, err)
	}
	if !resp.OK() {
		return statusError(op, resp)
	}
	if out == nil {
		return nil
	}
	return domain.WrapOp(op, resp.Decode(out))
}

// statusError keeps GitHub's own message as the user-facing detail, falling back
// to "GitHub API error: <status>".
func statusError(op string, resp *httpclient.Response) error {
	var ae apiError
	_ = resp.Decode(&ae)
	detail := ae.Message
	if detail == "" {
		detail = fmt.Sprintf("GitHub API error: %d", resp.Status)
	}
	if resp.Status == http.StatusUnprocessableEntity && nameTaken(ae) {
		return domain.NewDomainError(op, domain.ErrRepoExists, detail)
	}
	return httpclient.StatusError(op, resp.Status, detail)
}

func nameTaken(ae apiError) bool {
	if strings.Contains(ae.Message, "name already exists") {
		return true
	}
	for _, e := range ae.Errors {
		if strings.Contains(e.Message, "name already exists") {
			return true
		}
	}
	return false
}

func repoPath(owner, name string) string {
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(name)
}

type repoJSON struct {
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
	Owner   struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func (r repoJSON) toDomain() domain.RemoteRepository {
	return domain.RemoteRepository{Owner: r.Owner.Login, Name: r.Name, HTMLURL: r.HTMLURL}
}

// AuthenticatedUser implements domain.GitHost.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	var user struct {
		Login string `json:"login"`
	}
	if err := c.call(ctx, "github.AuthenticatedUser", http.MethodGet, "/user", nil, &user); err != nil {
		return "", err
	}
	return user.Login, nil
}

// CreateRepository implements domain.GitHost.
func (c *Client) CreateRepository(ctx context.Context, name string, private bool) (domain.RemoteRepository, error) {
	body := map[string]any{
		"name":      name,
		"private":   private,
		"auto_init": true,
	}
	var repo repoJSON
	if err := c.call(ctx, "github.CreateRepository", http.MethodPost, "/user/repos", body, &repo); err != nil {
		return domain.RemoteRepository{}, err
	}
	return repo.toDomain(), nil
}

// GetRepository implements domain.GitHost. A missing repository is domain.ErrNotFound.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (domain.RemoteRepository, error) {
	var repo repoJSON
	if err := c.call(ctx, "github.GetRepository", http.MethodGet, repoPath(owner, name), nil, &repo); err != nil {
		return domain.RemoteRepository{}, err
	}
	return repo.toDomain(), nil
}

// CountCommits implements domain.GitHost. An empty repository answers 409,
// which surfaces as an error.
func (c *Client) CountCommits(ctx context.Context, owner, name string, limit int) (int, error) {
	var commits []struct {
		SHA string `json:"sha"`
	}
	path := fmt.Sprintf("%s/commits?per_page=%d", repoPath(owner, name), limit)
	if err := c.call(ctx, "github.CountCommits", http.MethodGet, path, nil, &commits); err != nil {
		return 0, err
	}
	return len(commits), nil
}

// BranchHead implements domain.GitHost. A branch without a commit is domain.ErrNotFound.
func (c *Client) BranchHead(ctx context.Context, owner, name, branch string) (string, error) {
	var b struct {
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
	}
	path := repoPath(owner, name) + "/branches/" + url.PathEscape(branch)
	if err := c.call(ctx, "github.BranchHead", http.MethodGet, path, nil, &b); err != nil {
		return "", err
	}
	if b.Commit.SHA == "" {
		return "", domain.NewDomainError("github.BranchHead", domain.ErrNotFound, "branch has no commit yet")
	}
	return b.Commit.SHA, nil
}

type shaJSON struct {
	SHA string `json:"sha"`
}

// CreateBlob implements domain.GitHost.
func (c *Client) CreateBlob(ctx context.Context, owner, name, base64Content string) (string, error) {
	body := map[string]string{"content": base64Content, "encoding": "base64"}
	var out shaJSON
	if err := c.call(ctx, "github.CreateBlob", http.MethodPost, repoPath(owner, name)+"/git/blobs", body, &out); err != nil {
		return "", err
	}
	return out.SHA, nil
}

// CreateTree implements domain.GitHost. The tree has no base, so it replaces
// the repository content entirely.
func (c *Client) CreateTree(ctx context.Context, owner, name string, entries []domain.TreeEntry) (string, error) {
	body := map[string]any{"tree": entries}
	var out shaJSON
	if err := c.call(ctx, "github.CreateTree", http.MethodPost, repoPath(owner, name)+"/git/trees", body, &out); err != nil {
		return "", err
	}
	return out.SHA, nil
}

// CreateCommit implements domain.GitHost.
func (c *Client) CreateCommit(ctx context.Context, owner, name, message, tree string, parents []string) (string, error) {
	body := map[string]any{"message": message, "tree": tree, "parents": parents}
	var out shaJSON
	if err := c.call(ctx, "github.CreateCommit", http.MethodPost, repoPath(owner, name)+"/git/commits", body, &out); err != nil {
		return "", err
	}
	return out.SHA, nil
}

// UpdateRef implements domain.GitHost. ref is relative to refs/, e.g. "heads/main".
func (c *Client) UpdateRef(ctx context.Context, owner, name, ref, sha string, force bool) error {
	body := map[string]any{"sha": sha, "force": force}
	return c.call(ctx, "github.UpdateRef", http.MethodPatch, repoPath(owner, name)+"/git/refs/"+ref, body, nil)
}

var _ domain.GitHost = (*Client)(nil)
