// Package vercel implements domain.DeployHost over the Vercel REST API.
package vercel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"launchpad/internal/adapter/httpclient"
	"launchpad/internal/domain"
)

const defaultBaseURL = "https://api.vercel.com"

// Client is a Vercel API client bound to one token.
type Client struct {
	baseURL string
	token   string
	doer    *httpclient.Doer
}

// NewClient creates a client. An empty baseURL means api.vercel.com.
func NewClient(baseURL, token string, doer *httpclient.Doer) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, doer: doer}
}

// Factory returns a domain.DeployHostFactory sharing doer across tokens.
func Factory(baseURL string, doer *httpclient.Doer) domain.DeployHostFactory {
	return func(token string) domain.DeployHost {
		return NewClient(baseURL, token, doer)
	}
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) call(ctx context.Context, op, method, path string, body, out any) error {
	resp, err := c.doer.Do(ctx, httpclient.Request{
		Method: method,
		URL:    c.baseURL + path,
		Header: map[string]string{"Authorization": "Bearer " + c.token},
		Body:   body,
	})
	if err != nil {
		return domain.WrapOp(op, err)
	}
	if !resp.OK() {
		var ae apiError
		_ = resp.Decode(&ae)
		detail := ae.Error.Message
		if detail == "" {
			detail = fmt.Sprintf("Vercel API error: %d", resp.Status)
		}
		return httpclient.StatusError(op, resp.Status, detail)
	}
	if out == nil {
		return nil
	}
	return domain.WrapOp(op, resp.Decode(out))
}

func projectPath(version, projectID string) string {
	return "/" + version + "/projects/" + url.PathEscape(projectID)
}

// ImportProject implements domain.DeployHost.
func (c *Client) ImportProject(ctx context.Context, name, gitRepo string) (domain.RemoteProject, error) {
	body := map[string]any{
		"name":      name,
		"framework": "nextjs",
		"gitRepository": map[string]string{
			"type": "github",
			"repo": gitRepo,
		},
	}
	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Link struct {
			RepoID int64 `json:"repoId"`
		} `json:"link"`
	}
	if err := c.call(ctx, "vercel.ImportProject", http.MethodPost, "/v10/projects", body, &out); err != nil {
		return domain.RemoteProject{}, err
	}
	return domain.RemoteProject{ID: out.ID, Name: out.Name, RepoID: out.Link.RepoID}, nil
}

// ListEnv implements domain.DeployHost.
func (c *Client) ListEnv(ctx context.Context, projectID string) ([]domain.RemoteEnvVar, error) {
	var out struct {
		Envs []struct {
			ID    string `json:"id"`
			Key   string `json:"key"`
			Value string `json:"value"`
		} `json:"envs"`
	}
	if err := c.call(ctx, "vercel.ListEnv", http.MethodGet, projectPath("v9", projectID)+"/env", nil, &out); err != nil {
		return nil, err
	}
	vars := make([]domain.RemoteEnvVar, 0, len(out.Envs))
	for _, e := range out.Envs {
		vars = append(vars, domain.RemoteEnvVar{ID: e.ID, Key: e.Key, Value: e.Value})
	}
	return vars, nil
}

// CreateEnv implements domain.DeployHost. Values are stored encrypted and
// scoped to every environment.
func (c *Client) CreateEnv(ctx context.Context, projectID, key, value string) error {
	body := map[string]any{
		"key":    key,
		"value":  value,
		"type":   "encrypted",
		"target": domain.EnvTargets,
	}
	return c.call(ctx, "vercel.CreateEnv", http.MethodPost, projectPath("v10", projectID)+"/env", body, nil)
}

// UpdateEnv implements domain.DeployHost.
func (c *Client) UpdateEnv(ctx context.Context, projectID, envID, value string) error {
	body := map[string]any{
		"value":  value,
		"type":   "encrypted",
		"target": domain.EnvTargets,
	}
	path := projectPath("v9", projectID) + "/env/" + url.PathEscape(envID)
	return c.call(ctx, "vercel.UpdateEnv", http.MethodPatch, path, body, nil)
}

type deploymentJSON struct {
	ID    string   `json:"id"`
	UID   string   `json:"uid"`
	Name  string   `json:"name"`
	URL   string   `json:"url"`
	Alias []string `json:"alias"`
}

func (d deploymentJSON) toDomain() domain.Deployment {
	id := d.ID
	if id == "" {
		id = d.UID
	}
	return domain.Deployment{ID: id, Name: d.Name, URL: d.URL, Alias: d.Alias}
}

// CreateDeployment implements domain.DeployHost. With RedeployOf set the
// existing deployment is rebuilt; otherwise the git ref is deployed.
func (c *Client) CreateDeployment(ctx context.Context, req domain.DeploymentRequest) (domain.Deployment, error) {
	var body map[string]any
	if req.RedeployOf != "" {
		body = map[string]any{
			"name":         req.Name,
			"deploymentId": req.RedeployOf,
			"meta":         map[string]string{"action": "redeploy"},
			"target":       "production",
		}
	} else {
		body = map[string]any{
			"name":    req.Name,
			"project": req.ProjectID,
			"target":  "production",
			"gitSource": map[string]any{
				"type":   "github",
				"repoId": req.RepoID,
				"ref":    req.Ref,
			},
		}
	}
	var out deploymentJSON
	if err := c.call(ctx, "vercel.CreateDeployment", http.MethodPost, "/v13/deployments", body, &out); err != nil {
		return domain.Deployment{}, err
	}
	return out.toDomain(), nil
}

// LatestDeployment implements domain.DeployHost.
func (c *Client) LatestDeployment(ctx context.Context, projectID string) (domain.Deployment, error) {
	var out struct {
		Deployments []deploymentJSON `json:"deployments"`
	}
	path := "/v6/deployments?projectId=" + url.QueryEscape(projectID) + "&limit=1"
	if err := c.call(ctx, "vercel.LatestDeployment", http.MethodGet, path, nil, &out); err != nil {
		return domain.Deployment{}, err
	}
	if len(out.Deployments) == 0 {
		return domain.Deployment{}, domain.NewDomainError("vercel.LatestDeployment", domain.ErrNotFound, "No deployment found for this project.")
	}
	return out.Deployments[0].toDomain(), nil
}

var _ domain.DeployHost = (*Client)(nil)
