package security

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"launchpad/internal/domain"
)

func TestIsPrivateIP(t *testing.T) {
	privateIPs := []string{
		"10.0.0.1",
		"10.255.255.255",
		"172.16.0.1",
		"172.31.255.255",
		"192.168.0.1",
		"192.168.255.255",
		"127.0.0.1",
		"127.255.255.255",
		"169.254.169.254",
		"100.64.0.1",
		"0.0.0.0",
		"::1",
		"fe80::1",
	}

	for _, ip := range privateIPs {
		parsed := net.ParseIP(ip)
		if parsed == nil {
			t.Fatalf("failed to parse %q", ip)
		}
		if !IsPrivateIP(parsed) {
			t.Errorf("IsPrivateIP(%s) = false, want true", ip)
		}
	}
}

func TestIsPublicIP(t *testing.T) {
	publicIPs := []string{
		"8.8.8.8",
		"1.1.1.1",
		"104.18.38.12",
		"2606:4700::6812:260c",
	}

	for _, ip := range publicIPs {
		parsed := net.ParseIP(ip)
		if parsed == nil {
			t.Fatalf("failed to parse %q", ip)
		}
		if IsPrivateIP(parsed) {
			t.Errorf("IsPrivateIP(%s) = true, want false", ip)
		}
	}
}

type staticResolver map[string][]string

func (r staticResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	var out []net.IPAddr
	for _, s := range r[host] {
		out = append(out, net.IPAddr{IP: net.ParseIP(s)})
	}
	return out, nil
}

func TestGuardedDialerRejectsMixedAnswer(t *testing.T) {
	g := &GuardedDialer{
		Resolver: staticResolver{"rebind.test": {"8.8.8.8", "127.0.0.1"}},
		Dialer:   &net.Dialer{},
	}
	_, err := g.DialContext(context.Background(), "tcp", "rebind.test:443")
	if !errors.Is(err, domain.ErrBlockedAddress) {
		t.Fatalf("expected ErrBlockedAddress, got %v", err)
	}
}

func TestGuardedDialerNoAddresses(t *testing.T) {
	g := &GuardedDialer{Resolver: staticResolver{}, Dialer: &net.Dialer{}}
	_, err := g.DialContext(context.Background(), "tcp", "nowhere.test:443")
	if err == nil {
		t.Fatal("expected error for empty answer")
	}
	if errors.Is(err, domain.ErrBlockedAddress) {
		t.Error("an empty answer is a lookup failure, not a blocked address")
	}
}

func TestGuardTransportBlocksLoopback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Transport: GuardTransport(http.DefaultTransport.(*http.Transport))}
	_, err := client.Get(srv.URL)
	if !errors.Is(err, domain.ErrBlockedAddress) {
		t.Fatalf("expected ErrBlockedAddress, got %v", err)
	}
}
