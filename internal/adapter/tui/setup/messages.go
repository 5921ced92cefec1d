// Package setup implements the Bubble Tea front end of the setup wizard.
package setup

import (
	"launchpad/internal/domain"
	"launchpad/internal/usecase/wizard"
)

// VerifyResultMsg carries the verdict of a credential check for step.
type VerifyResultMsg struct {
	Step    domain.WizardStep
	Success bool
	Err     string
	// Fingerprint of the values that were checked; a stale verdict is ignored.
	Fingerprint string
}

// SQLLoadedMsg carries the profiles table script.
type SQLLoadedMsg struct {
	SQL string
	Err error
}

// OwnerMsg carries the login behind a GitHub token.
type OwnerMsg struct {
	Token string
	Owner string
}

// NameStateMsg reports a name availability transition.
type NameStateMsg struct {
	State wizard.NameState
}

// PublishEventMsg is one event of a running publish.
type PublishEventMsg struct {
	Event domain.ProvisioningEvent
}

// PipelineDoneMsg ends a deploy attempt.
type PipelineDoneMsg struct {
	Result wizard.PipelineResult
	Err    error
}
