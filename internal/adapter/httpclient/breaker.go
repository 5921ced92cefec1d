package httpclient

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"launchpad/internal/domain"
	"launchpad/internal/infra/config"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// errServerStatus marks a 5xx answer inside the breaker so it counts as a failure.
// It never escapes Do.
var errServerStatus = errors.New("server error status")

// Breaker short-circuits calls to a host that keeps failing. Only transport
// errors and 5xx answers count against it; a 4xx is the caller's problem and
// says nothing about the host's health.
type Breaker struct {
	cb *gobreaker.CircuitBreaker[*Response]
}

// NewBreaker returns a breaker named after the host, or nil when disabled.
// A nil *Breaker passes every call straight through.
func NewBreaker(host string, cfg config.CircuitBreakerConfig, logger *slog.Logger) *Breaker {
	if !cfg.Enabled {
		return nil
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultCBInterval
	}

	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        "host:" + host,
		MaxRequests: 1, // one probe while half-open
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})
	return &Breaker{cb: cb}
}

func (b *Breaker) execute(host string, fn func() (*Response, error)) (*Response, error) {
	if b == nil {
		return fn()
	}
	var resp *Response
	_, err := b.cb.Execute(func() (*Response, error) {
		r, err := fn()
		if err != nil {
			return nil, err
		}
		resp = r
		if r.Status >= 500 {
			return r, errServerStatus
		}
		return r, nil
	})
	switch {
	case errors.Is(err, errServerStatus):
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, domain.NewDomainError("httpclient.Do", domain.ErrCircuitOpen,
			host+" is failing repeatedly. Please wait a moment and try again.")
	case err != nil:
		return nil, err
	}
	return resp, nil
}

// State returns the current breaker state for monitoring.
func (b *Breaker) State() gobreaker.State {
	if b == nil {
		return gobreaker.StateClosed
	}
	return b.cb.State()
}
