// Package setupclient talks to the setup backend on behalf of the TUI and CLI.
package setupclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"launchpad/internal/adapter/httpclient"
	"launchpad/internal/adapter/sse"
	"launchpad/internal/domain"
	"launchpad/internal/usecase/credential"
	"launchpad/internal/usecase/publish"
)

// Client-side messages shown when the backend answer is missing or unusable.
const (
	MsgConnectFailed   = "Failed to connect. Try again."
	MsgStreamFailed    = "Failed to connect. Please try again."
	MsgAuthRejected    = "Invalid keys. Double-check them."
	MsgDBRejected      = "Could not connect. Double-check your keys."
	MsgVerifyFailed    = "Failed to verify. Try again."
	MsgTableMissing    = "Profiles table not found. Run the SQL first, then verify again."
	msgSaveEnvRejected = "Failed to save env file"
)

// Client calls the setup endpoints of one backend.
type Client struct {
	baseURL string
	doer    *httpclient.Doer
	stream  *http.Client
}

// New creates a client for the backend at baseURL. Streaming calls reuse the
// transport of client without its overall timeout.
func New(baseURL string, client *http.Client) *Client {
	stream := *client
	stream.Timeout = 0
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    httpclient.NewDoer("setup backend", client, nil),
		stream:  &stream,
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) (int, error) {
	resp, err := c.doer.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + path,
		Body:   body,
	})
	if err != nil {
		return 0, err
	}
	if out != nil {
		if err := resp.Decode(out); err != nil {
			return resp.Status, err
		}
	}
	return resp.Status, nil
}

// TestAuth checks the auth provider key pair.
func (c *Client) TestAuth(ctx context.Context, publishableKey, secretKey string) credential.Result {
	var res credential.Result
	_, err := c.post(ctx, "/setup/test-clerk", map[string]string{
		"publishableKey": publishableKey,
		"secretKey":      secretKey,
	}, &res)
	return verdict(res, err, MsgAuthRejected)
}

// TestDatabase checks the database provider credentials.
func (c *Client) TestDatabase(ctx context.Context, creds credential.Credentials) credential.Result {
	var res credential.Result
	_, err := c.post(ctx, "/setup/test-supabase", map[string]string{
		"url":            creds.URL,
		"publishableKey": creds.PublishableKey,
		"secretKey":      creds.SecretKey,
	}, &res)
	return verdict(res, err, MsgDBRejected)
}

func verdict(res credential.Result, err error, rejected string) credential.Result {
	switch {
	case err != nil:
		return credential.Result{Error: MsgConnectFailed}
	case res.Success:
		return credential.Result{Success: true}
	case res.Error == "":
		return credential.Result{Error: rejected}
	default:
		return res
	}
}

// VerifyTable checks that the profiles table exists. Anything but a positive
// answer carries a message for the user.
func (c *Client) VerifyTable(ctx context.Context, projectURL, secretKey string) credential.TableResult {
	var res credential.TableResult
	_, err := c.post(ctx, "/setup/verify-database", map[string]string{
		"url":       projectURL,
		"secretKey": secretKey,
	}, &res)
	switch {
	case err != nil:
		return credential.TableResult{Error: MsgVerifyFailed}
	case res.Exists:
		return credential.TableResult{Exists: true}
	default:
		return credential.TableResult{Error: MsgTableMissing}
	}
}

// SaveEnv writes vars into the backend's env file.
func (c *Client) SaveEnv(ctx context.Context, vars map[string]string) error {
	var res struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	status, err := c.post(ctx, "/setup/save-env", map[string]any{"envVars": vars}, &res)
	if err != nil {
		return domain.NewDomainError("setupclient.SaveEnv", domain.ErrConnectionLost, MsgConnectFailed)
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = msgSaveEnvRejected
		}
		return httpclient.StatusError("setupclient.SaveEnv", status, msg)
	}
	return nil
}

// Skip asks the backend for the preview cookie.
func (c *Client) Skip(ctx context.Context) error {
	status, err := c.post(ctx, "/setup/skip", nil, nil)
	if err != nil {
		return domain.NewDomainError("setupclient.Skip", domain.ErrConnectionLost, MsgConnectFailed)
	}
	if status != http.StatusOK {
		return httpclient.StatusError("setupclient.Skip", status, fmt.Sprintf("skip failed with status %d", status))
	}
	return nil
}

// SQL fetches the profiles table script.
func (c *Client) SQL(ctx context.Context) (string, error) {
	resp, err := c.doer.Do(ctx, httpclient.Request{Method: http.MethodGet, URL: c.baseURL + "/setup/sql"})
	if err != nil {
		return "", domain.NewDomainError("setupclient.SQL", domain.ErrConnectionLost, MsgConnectFailed)
	}
	if !resp.OK() {
		return "", httpclient.StatusError("setupclient.SQL", resp.Status, fmt.Sprintf("SQL template unavailable (status %d)", resp.Status))
	}
	return string(resp.Body), nil
}

// Publish starts a publish run and decodes its event stream, calling onEvent
// for every event including the terminal one. A refusal before the stream
// starts is reported as a Failed event. The error is non-nil only when the
// backend could not be reached or the stream broke.
func (c *Client) Publish(ctx context.Context, req publish.Request, onEvent func(domain.ProvisioningEvent)) (domain.ProvisioningEvent, error) {
	if onEvent == nil {
		onEvent = func(domain.ProvisioningEvent) {}
	}
	payload, err := json.Marshal(map[string]any{
		"githubToken": req.Token,
		"repoName":    req.RepoName,
		"isPrivate":   req.Private,
	})
	if err != nil {
		return nil, fmt.Errorf("encode publish request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/setup/push-to-github", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create publish request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(httpReq)
	if err != nil {
		return nil, domain.NewDomainError("setupclient.Publish", fmt.Errorf("%w: %w", domain.ErrConnectionLost, err), MsgStreamFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(data, &body) != nil || body.Error == "" {
			body.Error = fmt.Sprintf("Setup backend returned status %d", resp.StatusCode)
		}
		failed := domain.Failed{Error: body.Error}
		onEvent(failed)
		return failed, nil
	}

	return sse.Decode(ctx, resp.Body, onEvent)
}
