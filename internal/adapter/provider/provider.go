// Package provider probes the auth and database providers with user-supplied
// keys. Probes report what the provider answered; deciding whether that answer
// means the credentials are good is left to the caller.
package provider

import (
	"context"
	"net/http"
	"strings"

	"launchpad/internal/adapter/httpclient"
	"launchpad/internal/domain"
)

const defaultClerkURL = "https://api.clerk.com"

// Clerk probes the Clerk backend API.
type Clerk struct {
	baseURL string
	doer    *httpclient.Doer
}

// NewClerk creates a Clerk probe. An empty baseURL means api.clerk.com.
func NewClerk(baseURL string, doer *httpclient.Doer) *Clerk {
	if baseURL == "" {
		baseURL = defaultClerkURL
	}
	return &Clerk{baseURL: strings.TrimRight(baseURL, "/"), doer: doer}
}

// ListUsers lists at most one user with secretKey and returns the HTTP status.
// err is set only when no answer was received.
func (c *Clerk) ListUsers(ctx context.Context, secretKey string) (int, error) {
	resp, err := c.doer.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/v1/users?limit=1",
		Header: map[string]string{"Authorization": "Bearer " + secretKey},
	})
	if err != nil {
		return 0, err
	}
	return resp.Status, nil
}

// Supabase probes a Supabase project. The project URL is per call because
// every user brings their own.
type Supabase struct {
	doer *httpclient.Doer
}

// NewSupabase creates a Supabase probe.
func NewSupabase(doer *httpclient.Doer) *Supabase {
	return &Supabase{doer: doer}
}

func supabaseHeaders(key string) map[string]string {
	return map[string]string{
		"apikey":        key,
		"Authorization": "Bearer " + key,
	}
}

// FetchSession asks the auth service for the current user with key. Any HTTP
// answer, including 401, proves the project is reachable; only a transport
// failure is returned as an error.
func (s *Supabase) FetchSession(ctx context.Context, projectURL, key string) error {
	_, err := s.doer.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    strings.TrimRight(projectURL, "/") + "/auth/v1/user",
		Header: supabaseHeaders(key),
	})
	return err
}

// SelectNone runs `select id limit 0` on table with secretKey, which bypasses
// row-level security.
func (s *Supabase) SelectNone(ctx context.Context, projectURL, secretKey, table string) (domain.TableAnswer, error) {
	resp, err := s.doer.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    strings.TrimRight(projectURL, "/") + "/rest/v1/" + table + "?select=id&limit=0",
		Header: supabaseHeaders(secretKey),
	})
	if err != nil {
		return domain.TableAnswer{}, err
	}
	ans := domain.TableAnswer{Status: resp.Status}
	if !resp.OK() {
		var body struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if resp.Decode(&body) == nil {
			ans.Code = body.Code
			ans.Message = body.Message
		}
	}
	return ans, nil
}

var (
	_ domain.AuthProbe     = (*Clerk)(nil)
	_ domain.DatabaseProbe = (*Supabase)(nil)
)
