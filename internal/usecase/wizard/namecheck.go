package wizard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"launchpad/internal/domain"
)

// NameState is the availability of the requested repository name.
type NameState string

const (
	NameIdle      NameState = "idle"
	NameChecking  NameState = "checking"
	NameAvailable NameState = "available"
	NameTaken     NameState = "taken"
	NameError     NameState = "error"
)

// NameCheckDebounce is the quiet period before a lookup is issued.
const NameCheckDebounce = 500 * time.Millisecond

const (
	minNameLen  = 2
	minTokenLen = 10
)

// Timer is the handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock schedules the debounced lookup. Tests inject a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// NameChecker tracks whether a repository name is free on the user's account.
// Every Update restarts the debounce; a lookup that finishes after a newer
// Update is discarded.
type NameChecker struct {
	hosts    domain.GitHostFactory
	clock    Clock
	timeout  time.Duration
	onChange func(NameState)
	logger   *slog.Logger

	mu    sync.Mutex
	gen   uint64
	state NameState
	timer Timer
}

// NameCheckerOption configures a NameChecker.
type NameCheckerOption func(*NameChecker)

// WithClock replaces the wall clock.
func WithClock(c Clock) NameCheckerOption {
	return func(n *NameChecker) { n.clock = c }
}

// WithLookupTimeout bounds a single lookup. Defaults to 10s.
func WithLookupTimeout(d time.Duration) NameCheckerOption {
	return func(n *NameChecker) { n.timeout = d }
}

// NewNameChecker creates a checker. onChange, if non-nil, is called after
// every state transition, from whichever goroutine caused it.
func NewNameChecker(hosts domain.GitHostFactory, onChange func(NameState), logger *slog.Logger, opts ...NameCheckerOption) *NameChecker {
	n := &NameChecker{
		hosts:    hosts,
		clock:    realClock{},
		timeout:  10 * time.Second,
		onChange: onChange,
		logger:   logger,
		state:    NameIdle,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// State returns the current availability.
func (n *NameChecker) State() NameState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Update restarts the check for (owner, name) using token. When the inputs are
// too short or the owner is unknown the state drops back to idle.
func (n *NameChecker) Update(owner, name, token string) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	if owner == "" || utf8.RuneCountInString(name) < minNameLen || utf8.RuneCountInString(token) < minTokenLen {
		changed := n.setLocked(NameIdle)
		n.mu.Unlock()
		n.notify(changed, NameIdle)
		return
	}
	changed := n.setLocked(NameChecking)
	n.timer = n.clock.AfterFunc(NameCheckDebounce, func() {
		n.lookup(gen, owner, name, token)
	})
	n.mu.Unlock()
	n.notify(changed, NameChecking)
}

// Reset cancels any pending lookup and returns to idle.
func (n *NameChecker) Reset() {
	n.mu.Lock()
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	changed := n.setLocked(NameIdle)
	n.mu.Unlock()
	n.notify(changed, NameIdle)
}

func (n *NameChecker) lookup(gen uint64, owner, name, token string) {
	if !n.current(gen) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	_, err := n.hosts(token).GetRepository(ctx, owner, name)
	next := NameTaken
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		next = NameAvailable
	default:
		next = NameError
		n.logger.Debug("repository name lookup failed", "owner", owner, "name", name, "error", err)
	}

	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		return
	}
	n.timer = nil
	changed := n.setLocked(next)
	n.mu.Unlock()
	n.notify(changed, next)
}

func (n *NameChecker) current(gen uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return gen == n.gen
}

// setLocked must be called with mu held. It reports whether the state changed.
func (n *NameChecker) setLocked(s NameState) bool {
	if n.state == s {
		return false
	}
	n.state = s
	return true
}

func (n *NameChecker) notify(changed bool, s NameState) {
	if changed && n.onChange != nil {
		n.onChange(s)
	}
}

// LookupOwner returns the login behind token, or "" when the token is too
// short or the host rejects it.
func LookupOwner(ctx context.Context, hosts domain.GitHostFactory, token string) string {
	if utf8.RuneCountInString(token) < minTokenLen {
		return ""
	}
	login, err := hosts(token).AuthenticatedUser(ctx)
	if err != nil {
		return ""
	}
	return login
}
