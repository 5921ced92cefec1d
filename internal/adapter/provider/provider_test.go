package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/adapter/httpclient"
	"launchpad/internal/domain"
)

func newDoer(srv *httptest.Server) *httpclient.Doer {
	return httpclient.NewDoer("test", srv.Client(), nil)
}

func TestClerkListUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/users", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		if r.Header.Get("Authorization") != "Bearer sk_good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	c := NewClerk(srv.URL, newDoer(srv))

	status, err := c.ListUsers(context.Background(), "sk_good")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	status, err = c.ListUsers(context.Background(), "sk_bad")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestClerkTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewClerk(srv.URL, newDoer(srv))
	srv.Close()

	_, err := c.ListUsers(context.Background(), "sk_x")
	require.Error(t, err)
}

func TestSupabaseFetchSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "key1", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer key1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewSupabase(newDoer(srv)).FetchSession(context.Background(), srv.URL+"/", "key1")
	assert.NoError(t, err)
}

func TestSupabaseSelectNone(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   domain.TableAnswer
	}{
		{"exists", http.StatusOK, []any{}, domain.TableAnswer{Status: 200}},
		{"missing", http.StatusNotFound, map[string]string{"code": "PGRST205", "message": "Could not find the table 'public.profiles' in the schema cache"},
			domain.TableAnswer{Status: 404, Code: "PGRST205", Message: "Could not find the table 'public.profiles' in the schema cache"}},
		{"undecodable", http.StatusInternalServerError, "oops", domain.TableAnswer{Status: 500}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
				assert.Equal(t, "id", r.URL.Query().Get("select"))
				assert.Equal(t, "0", r.URL.Query().Get("limit"))
				w.WriteHeader(tt.status)
				if s, ok := tt.body.(string); ok {
					w.Write([]byte(s))
					return
				}
				json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			got, err := NewSupabase(newDoer(srv)).SelectNone(context.Background(), srv.URL, "sk", "profiles")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.status == http.StatusOK, got.OK())
		})
	}
}
