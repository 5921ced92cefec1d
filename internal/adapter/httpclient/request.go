package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"launchpad/internal/domain"
)

// maxResponseBody caps how much of a host answer is read.
const maxResponseBody = 4 * 1024 * 1024

// Request is one outbound JSON call.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   any // marshalled as JSON when non-nil
}

// Response is a fully read host answer.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Decode unmarshals the body into out.
func (r *Response) Decode(out any) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Doer executes JSON requests against one host through an optional breaker.
type Doer struct {
	host    string
	client  *http.Client
	breaker *Breaker
}

// NewDoer binds client and breaker to a host name used in messages.
func NewDoer(host string, client *http.Client, breaker *Breaker) *Doer {
	return &Doer{host: host, client: client, breaker: breaker}
}

// Host returns the display name of the host.
func (d *Doer) Host() string { return d.host }

// Do sends req and reads the answer. Any HTTP status is returned as a Response;
// only transport failures and an open breaker produce an error.
func (d *Doer) Do(ctx context.Context, req Request) (*Response, error) {
	return d.breaker.execute(d.host, func() (*Response, error) {
		return do(ctx, d.client, req)
	})
}

func do(ctx context.Context, client *http.Client, req Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Body: respBody}, nil
}

// StatusSentinel maps an HTTP status to the domain category it belongs to.
func StatusSentinel(status int) error {
	switch {
	case status == http.StatusTooManyRequests:
		return domain.ErrRateLimit
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.ErrAuthInvalid
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return domain.ErrInvalidInput
	default:
		return domain.ErrProviderError
	}
}

// StatusError builds the DomainError for a non-2xx answer. detail is the text a
// user should see; it usually comes from the host's own error message.
func StatusError(op string, status int, detail string) error {
	return domain.NewDomainError(op, &domain.HostStatusError{Code: status, Err: StatusSentinel(status)}, detail)
}
