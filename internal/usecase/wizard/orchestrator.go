// Package wizard holds the client-side state machines of the setup wizard: step
// navigation over a SetupSession, deploy readiness, repository name
// availability and the final publish-then-deploy pipeline.
package wizard

import (
	"fmt"

	"launchpad/internal/domain"
)

// Orchestrator moves a SetupSession through the wizard steps. Forward
// navigation is gated on the current step's verified flag; backward
// navigation is always allowed and never touches the flags.
//
// An Orchestrator is not safe for concurrent use; the TUI drives it from its
// update loop only.
type Orchestrator struct {
	session domain.SetupSession
	current domain.WizardStep
}

// NewOrchestrator starts a wizard at the Auth step with an empty session.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{current: domain.StepAuth}
}

// Current returns the active step.
func (o *Orchestrator) Current() domain.WizardStep { return o.current }

// Session returns a copy of the session.
func (o *Orchestrator) Session() domain.SetupSession { return o.session }

// Next advances one step. It fails with ErrStepNotVerified when the current
// step has not been verified, and with ErrInvalidInput on the last step.
func (o *Orchestrator) Next() error {
	if o.current >= domain.WizardStepCount-1 {
		return domain.NewDomainError("Wizard.Next", domain.ErrInvalidInput, "Already at the last step")
	}
	if !o.session.Verified(o.current) {
		return domain.NewDomainError("Wizard.Next", domain.ErrStepNotVerified,
			fmt.Sprintf("Verify the %s step before continuing", o.current))
	}
	o.current++
	return nil
}

// Back moves one step back. It reports false on the first step.
func (o *Orchestrator) Back() bool {
	if o.current == domain.StepAuth {
		return false
	}
	o.current--
	return true
}

// GoTo jumps to an earlier step.
func (o *Orchestrator) GoTo(step domain.WizardStep) error {
	if step < domain.StepAuth || step >= o.current {
		return domain.NewDomainError("Wizard.GoTo", domain.ErrInvalidInput,
			fmt.Sprintf("Cannot jump to %s from %s", step, o.current))
	}
	o.current = step
	return nil
}

// MarkVerified sets the exit flag of step. Deploy has no flag.
func (o *Orchestrator) MarkVerified(step domain.WizardStep, ok bool) {
	switch step {
	case domain.StepAuth:
		o.session.AuthVerified = ok
	case domain.StepDatabase:
		o.session.DBVerified = ok
	case domain.StepConnect:
		o.session.TableVerified = ok
	}
}

// SetAuthKeys stores the auth provider keys. A changed key invalidates the
// Auth step.
func (o *Orchestrator) SetAuthKeys(publishableKey, secretKey string) {
	if publishableKey == o.session.AuthPublishableKey && secretKey == o.session.AuthSecretKey {
		return
	}
	o.session.AuthPublishableKey = publishableKey
	o.session.AuthSecretKey = secretKey
	o.session.AuthVerified = false
}

// SetDatabase stores the database provider credentials. Any change
// invalidates both the Database and the Connect step, since the table check
// runs against these credentials.
func (o *Orchestrator) SetDatabase(url, publishableKey, secretKey string) {
	s := &o.session
	if url == s.DBURL && publishableKey == s.DBPublishableKey && secretKey == s.DBSecretKey {
		return
	}
	s.DBURL = url
	s.DBPublishableKey = publishableKey
	s.DBSecretKey = secretKey
	s.DBVerified = false
	s.TableVerified = false
}
