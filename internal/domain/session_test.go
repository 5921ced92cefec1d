package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupSessionVerified(t *testing.T) {
	s := SetupSession{AuthVerified: true, TableVerified: true}

	assert.True(t, s.Verified(StepAuth))
	assert.False(t, s.Verified(StepDatabase))
	assert.True(t, s.Verified(StepConnect))
	assert.False(t, s.Verified(StepDeploy))
}

func TestSetupSessionEnvVars(t *testing.T) {
	s := SetupSession{
		AuthPublishableKey: "pk_test_x",
		AuthSecretKey:      "sk_test_y",
		DBURL:              "https://abc.supabase.co",
		DBPublishableKey:   "sb_publishable_z",
		DBSecretKey:        "sb_secret_w",
	}
	vars := s.EnvVars()

	assert.Equal(t, "pk_test_x", vars[EnvClerkPublishableKey])
	assert.Equal(t, "/sign-in", vars[EnvClerkSignInURL])
	assert.Equal(t, "/sign-up", vars[EnvClerkSignUpURL])
	assert.Equal(t, "sb_secret_w", vars[EnvSupabaseSecretKey])
	for _, k := range ConfiguredKeys {
		assert.NotEmpty(t, vars[k], k)
	}
}

func TestWizardStepString(t *testing.T) {
	assert.Equal(t, "Connect", StepConnect.String())
	assert.Equal(t, "Unknown", WizardStepCount.String())
}
