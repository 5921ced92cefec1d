// Package security holds the guards the setup backend applies to
// user-supplied input and the audit trail of provisioning actions.
package security

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"launchpad/internal/domain"
)

// privateRanges lists the loopback, link-local and private CIDR blocks.
var privateRanges = []string{
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"100.64.0.0/10",
	"0.0.0.0/8",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
}

var parsedRanges []*net.IPNet

func init() {
	for _, cidr := range privateRanges {
		_, ipnet, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR %q: %v", cidr, err))
		}
		parsedRanges = append(parsedRanges, ipnet)
	}
}

// IsPrivateIP checks if an IP falls within any private/reserved range.
func IsPrivateIP(ip net.IP) bool {
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	for _, ipnet := range parsedRanges {
		if ipnet.Contains(ip) {
			return true
		}
	}
	return false
}

// Resolver looks up the addresses of a host.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// GuardedDialer resolves once, rejects the connection if any address is
// private, and dials the first address it validated. Checking at dial time
// keeps a rebinding DNS answer from slipping past an earlier URL check.
type GuardedDialer struct {
	Resolver Resolver
	Dialer   *net.Dialer
}

// NewGuardedDialer uses the default resolver.
func NewGuardedDialer() *GuardedDialer {
	return &GuardedDialer{
		Resolver: net.DefaultResolver,
		Dialer: &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		},
	}
}

// DialContext has the signature of http.Transport.DialContext.
func (g *GuardedDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	ips, err := g.Resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", host, err)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("resolve %s: no addresses", host)
	}
	for _, ip := range ips {
		if IsPrivateIP(ip.IP) {
			return nil, domain.NewDomainError("GuardedDialer.Dial", domain.ErrBlockedAddress,
				fmt.Sprintf("%s resolves to private address %s", host, ip.IP))
		}
	}

	return g.Dialer.DialContext(ctx, network, net.JoinHostPort(ips[0].IP.String(), port))
}

// GuardTransport returns a clone of base whose connections go through a
// GuardedDialer. Proxies are disabled so the dialed address is the checked one.
func GuardTransport(base *http.Transport) *http.Transport {
	t := base.Clone()
	t.Proxy = nil
	t.DialContext = NewGuardedDialer().DialContext
	return t
}
