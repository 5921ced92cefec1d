package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/adapter/httpclient"
	"launchpad/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "ghp_test", httpclient.NewDoer("GitHub", srv.Client(), nil))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestAuthenticatedUserHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))
		writeJSON(w, http.StatusOK, map[string]string{"login": "octo"})
	})

	login, err := c.AuthenticatedUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octo", login)
}

func TestBadCredentialsKeepsHostMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
	})

	_, err := c.AuthenticatedUser(context.Background())
	require.ErrorIs(t, err, domain.ErrAuthInvalid)
	assert.Equal(t, "Bad credentials", domain.UserMessage(err))
}

func TestStatusFallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.AuthenticatedUser(context.Background())
	require.ErrorIs(t, err, domain.ErrProviderError)
	assert.Equal(t, "GitHub API error: 502", domain.UserMessage(err))
}

func TestCreateRepository(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/repos", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"demo","private":true,"auto_init":true}`, string(body))
		writeJSON(w, http.StatusCreated, map[string]any{
			"name":     "demo",
			"html_url": "https://github.com/octo/demo",
			"owner":    map[string]string{"login": "octo"},
		})
	})

	repo, err := c.CreateRepository(context.Background(), "demo", true)
	require.NoError(t, err)
	assert.Equal(t, domain.RemoteRepository{Owner: "octo", Name: "demo", HTMLURL: "https://github.com/octo/demo"}, repo)
	assert.Equal(t, "octo/demo", repo.FullName())
}

func TestCreateRepositoryNameTaken(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"top level message", map[string]any{"message": "name already exists on this account"}},
		{"nested errors", map[string]any{
			"message": "Repository creation failed.",
			"errors":  []map[string]string{{"message": "name already exists on this account", "code": "custom"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnprocessableEntity, tt.body)
			})
			_, err := c.CreateRepository(context.Background(), "demo", false)
			require.ErrorIs(t, err, domain.ErrRepoExists)
		})
	}
}

func TestGetRepositoryNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/demo", r.URL.Path)
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})

	_, err := c.GetRepository(context.Background(), "octo", "demo")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCountCommits(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/demo/commits", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("per_page"))
		writeJSON(w, http.StatusOK, []map[string]string{{"sha": "a"}, {"sha": "b"}})
	})

	n, err := c.CountCommits(context.Background(), "octo", "demo", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCountCommitsEmptyRepository(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Git Repository is empty."})
	})

	_, err := c.CountCommits(context.Background(), "octo", "demo", 3)
	require.Error(t, err)
}

func TestBranchHead(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/demo/branches/main", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{"commit": map[string]string{"sha": "abc123"}})
	})

	sha, err := c.BranchHead(context.Background(), "octo", "demo", "main")
	require.NoError(t, err)
	assert.Equal(t, "abc123", sha)
}

func TestBranchHeadWithoutCommit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	_, err := c.BranchHead(context.Background(), "octo", "demo", "main")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGitDataCalls(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		switch r.URL.Path {
		case "/repos/octo/demo/git/blobs":
			assert.JSONEq(t, `{"content":"aGk=","encoding":"base64"}`, string(body))
			writeJSON(w, http.StatusCreated, map[string]string{"sha": "blob1"})
		case "/repos/octo/demo/git/trees":
			assert.JSONEq(t, `{"tree":[{"path":"a.txt","mode":"100644","type":"blob","sha":"blob1"}]}`, string(body))
			writeJSON(w, http.StatusCreated, map[string]string{"sha": "tree1"})
		case "/repos/octo/demo/git/commits":
			assert.JSONEq(t, `{"message":"msg","tree":"tree1","parents":["head"]}`, string(body))
			writeJSON(w, http.StatusCreated, map[string]string{"sha": "commit1"})
		case "/repos/octo/demo/git/refs/heads/main":
			assert.JSONEq(t, `{"sha":"commit1","force":true}`, string(body))
			writeJSON(w, http.StatusOK, map[string]any{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	blob, err := c.CreateBlob(ctx, "octo", "demo", "aGk=")
	require.NoError(t, err)
	tree, err := c.CreateTree(ctx, "octo", "demo", []domain.TreeEntry{{Path: "a.txt", Mode: "100644", Type: "blob", SHA: blob}})
	require.NoError(t, err)
	commit, err := c.CreateCommit(ctx, "octo", "demo", "msg", tree, []string{"head"})
	require.NoError(t, err)
	require.NoError(t, c.UpdateRef(ctx, "octo", "demo", "heads/main", commit, true))

	assert.Equal(t, []string{
		"POST /repos/octo/demo/git/blobs",
		"POST /repos/octo/demo/git/trees",
		"POST /repos/octo/demo/git/commits",
		"PATCH /repos/octo/demo/git/refs/heads/main",
	}, seen)
}

func TestFactory(t *testing.T) {
	f := Factory("", httpclient.NewDoer("GitHub", http.DefaultClient, nil))
	c, ok := f("tok").(*Client)
	require.True(t, ok)
	assert.Equal(t, defaultBaseURL, c.baseURL)
	assert.Equal(t, "tok", c.token)
}
