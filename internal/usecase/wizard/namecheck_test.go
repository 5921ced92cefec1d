package wizard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"launchpad/internal/domain"
)

// manualClock fires scheduled funcs only when the test says so.
type manualClock struct {
	mu      sync.Mutex
	pending []*manualTimer
	delays  []time.Duration
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{f: f}
	c.pending = append(c.pending, t)
	c.delays = append(c.delays, d)
	return t
}

// fireAll runs every timer that was not stopped, in scheduling order.
func (c *manualClock) fireAll() {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, t := range pending {
		if !t.stopped {
			t.f()
		}
	}
}

// repoLookup is a GitHost that only answers user and repository lookups.
type repoLookup struct {
	domain.GitHost
	mu      sync.Mutex
	login   string
	userErr error
	repos   map[string]bool
	getErr  error
	gets    []string
	// beforeAnswer runs inside GetRepository, used to race a newer Update.
	beforeAnswer func()
}

func (r *repoLookup) AuthenticatedUser(context.Context) (string, error) {
	return r.login, r.userErr
}

func (r *repoLookup) GetRepository(_ context.Context, owner, name string) (domain.RemoteRepository, error) {
	r.mu.Lock()
	r.gets = append(r.gets, owner+"/"+name)
	hook := r.beforeAnswer
	r.beforeAnswer = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	if r.getErr != nil {
		return domain.RemoteRepository{}, r.getErr
	}
	if r.repos[owner+"/"+name] {
		return domain.RemoteRepository{Owner: owner, Name: name}, nil
	}
	return domain.RemoteRepository{}, domain.NewDomainError("github.GetRepository", domain.ErrNotFound, "Not Found")
}

func (r *repoLookup) factory(string) domain.GitHost { return r }

func newChecker(t *testing.T, host *repoLookup) (*NameChecker, *manualClock, *[]NameState) {
	t.Helper()
	clock := &manualClock{}
	var mu sync.Mutex
	var seen []NameState
	n := NewNameChecker(host.factory, func(s NameState) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	}, slog.New(slog.NewTextHandler(io.Discard, nil)), WithClock(clock))
	return n, clock, &seen
}

const token = "ghp_0123456789"

func TestNameCheckerAvailable(t *testing.T) {
	host := &repoLookup{repos: map[string]bool{}}
	n, clock, seen := newChecker(t, host)

	n.Update("octo", "fresh", token)
	assert.Equal(t, NameChecking, n.State())
	assert.Empty(t, host.gets, "lookup waits for the debounce")
	require.Len(t, clock.delays, 1)
	assert.Equal(t, NameCheckDebounce, clock.delays[0])

	clock.fireAll()
	assert.Equal(t, NameAvailable, n.State())
	assert.Equal(t, []string{"octo/fresh"}, host.gets)
	assert.Equal(t, []NameState{NameChecking, NameAvailable}, *seen)
}

func TestNameCheckerTaken(t *testing.T) {
	host := &repoLookup{repos: map[string]bool{"octo/site": true}}
	n, clock, _ := newChecker(t, host)

	n.Update("octo", "site", token)
	clock.fireAll()
	assert.Equal(t, NameTaken, n.State())
}

func TestNameCheckerHostError(t *testing.T) {
	host := &repoLookup{getErr: errors.New("dial tcp: refused")}
	n, clock, _ := newChecker(t, host)

	n.Update("octo", "site", token)
	clock.fireAll()
	assert.Equal(t, NameError, n.State())
}

func TestNameCheckerDebounceRestarts(t *testing.T) {
	host := &repoLookup{repos: map[string]bool{}}
	n, clock, _ := newChecker(t, host)

	n.Update("octo", "s", token)
	n.Update("octo", "si", token)
	n.Update("octo", "sit", token)
	n.Update("octo", "site", token)
	clock.fireAll()

	assert.Equal(t, []string{"octo/site"}, host.gets, "only the last name is looked up")
	assert.Equal(t, NameAvailable, n.State())
}

func TestNameCheckerPreconditions(t *testing.T) {
	tests := []struct {
		name               string
		owner, repo, token string
	}{
		{"no owner", "", "site", token},
		{"short name", "octo", "s", token},
		{"short token", "octo", "site", "ghp_1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &repoLookup{repos: map[string]bool{}}
			n, clock, _ := newChecker(t, host)

			n.Update("octo", "site", token)
			require.Equal(t, NameChecking, n.State())

			n.Update(tt.owner, tt.repo, tt.token)
			assert.Equal(t, NameIdle, n.State())
			clock.fireAll()
			assert.Empty(t, host.gets)
			assert.Equal(t, NameIdle, n.State())
		})
	}
}

func TestNameCheckerDiscardsStaleResult(t *testing.T) {
	host := &repoLookup{repos: map[string]bool{"octo/old": true}}
	n, clock, _ := newChecker(t, host)

	n.Update("octo", "old", token)
	// A new keystroke lands while the first lookup is in flight.
	host.beforeAnswer = func() { n.Update("octo", "new", token) }
	clock.fireAll()

	assert.Equal(t, NameChecking, n.State(), "the stale 'taken' answer is dropped")

	clock.fireAll()
	assert.Equal(t, NameAvailable, n.State())
	assert.Equal(t, []string{"octo/old", "octo/new"}, host.gets)
}

func TestNameCheckerReset(t *testing.T) {
	host := &repoLookup{repos: map[string]bool{}}
	n, clock, _ := newChecker(t, host)

	n.Update("octo", "site", token)
	n.Reset()
	clock.fireAll()
	assert.Equal(t, NameIdle, n.State())
	assert.Empty(t, host.gets)
}

func TestLookupOwner(t *testing.T) {
	host := &repoLookup{login: "octo"}
	ctx := context.Background()

	assert.Equal(t, "octo", LookupOwner(ctx, host.factory, token))
	assert.Equal(t, "", LookupOwner(ctx, host.factory, "short"))

	host.userErr = domain.ErrAuthInvalid
	assert.Equal(t, "", LookupOwner(ctx, host.factory, token))
}
