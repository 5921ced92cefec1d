package middleware

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/infra/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(w, httptest.NewRequest("POST", "/setup/test-clerk", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_HSTSWithTLS(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.TLS = &tls.ConnectionState{}
	w := httptest.NewRecorder()
	SecurityHeaders(okHandler).ServeHTTP(w, req)

	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	Chain(okHandler, mk("outer"), mk("inner")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func serve(h http.Handler, remote string) int {
	req := httptest.NewRequest("POST", "/setup/test-clerk", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := RateLimit(ctx, config.RateLimitConfig{RequestsPerMin: 1, Burst: 2})(okHandler)

	assert.Equal(t, http.StatusOK, serve(h, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, serve(h, "10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, serve(h, "10.0.0.1:1002"))

	// Another client has its own bucket.
	assert.Equal(t, http.StatusOK, serve(h, "10.0.0.2:1000"))
}

func TestRateLimit_JSONBody(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := RateLimit(ctx, config.RateLimitConfig{RequestsPerMin: 1, Burst: 1})(okHandler)

	require.Equal(t, http.StatusOK, serve(h, "10.0.0.1:1"))

	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "10.0.0.1:2"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		xff     string
		xri     string
		proxies []string
		want    string
	}{
		{"direct", "192.168.1.5:4000", "", "", nil, "192.168.1.5"},
		{"ipv6", "[::1]:4000", "", "", nil, "::1"},
		{"spoofed xff ignored", "192.168.1.5:4000", "1.2.3.4", "", nil, "192.168.1.5"},
		{"trusted xff", "10.0.0.1:80", "1.2.3.4, 10.0.0.1", "", []string{"10.0.0.1"}, "1.2.3.4"},
		{"trusted real ip", "10.0.0.1:80", "", "5.6.7.8", []string{"10.0.0.1"}, "5.6.7.8"},
		{"trusted no headers", "10.0.0.1:80", "", "", []string{"10.0.0.1"}, "10.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, clientIP(req, tt.proxies))
		})
	}
}
