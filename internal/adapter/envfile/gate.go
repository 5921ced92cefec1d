package envfile

import (
	"os"

	"launchpad/internal/domain"
)

// Gate decides whether the app is configured, which closes every provisioning
// endpoint. It reads the process environment on each call; the env file only
// reaches it through Store.Load at startup, so a save during a setup session
// leaves the gate open until the next restart.
type Gate struct {
	getenv func(string) string
}

// NewGate creates a gate over the process environment.
func NewGate() *Gate {
	return &Gate{getenv: os.Getenv}
}

// Configured reports whether every key in domain.ConfiguredKeys is non-empty in
// the process environment.
func (g *Gate) Configured() bool {
	return Configured(g.getenv)
}

// Configured reports whether lookup returns a non-empty value for every key
// in domain.ConfiguredKeys.
func Configured(lookup func(string) string) bool {
	for _, key := range domain.ConfiguredKeys {
		if lookup(key) == "" {
			return false
		}
	}
	return true
}
