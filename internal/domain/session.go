package domain

// WizardStep is a stage of the setup wizard.
type WizardStep int

const (
	StepAuth WizardStep = iota
	StepDatabase
	StepConnect
	StepDeploy
	WizardStepCount // sentinel
)

func (s WizardStep) String() string {
	switch s {
	case StepAuth:
		return "Auth"
	case StepDatabase:
		return "Database"
	case StepConnect:
		return "Connect"
	case StepDeploy:
		return "Deploy"
	default:
		return "Unknown"
	}
}

// SetupSession is the client-held state of one wizard run. It is never persisted.
type SetupSession struct {
	AuthPublishableKey string
	AuthSecretKey      string
	DBURL              string
	DBPublishableKey   string
	DBSecretKey        string

	AuthVerified  bool
	DBVerified    bool
	TableVerified bool
}

// Verified reports the exit flag of step. Deploy has none and always reports false.
func (s SetupSession) Verified(step WizardStep) bool {
	switch step {
	case StepAuth:
		return s.AuthVerified
	case StepDatabase:
		return s.DBVerified
	case StepConnect:
		return s.TableVerified
	default:
		return false
	}
}

// Well-known environment keys written by the wizard.
const (
	EnvClerkPublishableKey    = "NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY"
	EnvClerkSecretKey         = "CLERK_SECRET_KEY"
	EnvClerkSignInURL         = "NEXT_PUBLIC_CLERK_SIGN_IN_URL"
	EnvClerkSignUpURL         = "NEXT_PUBLIC_CLERK_SIGN_UP_URL"
	EnvSupabaseURL            = "NEXT_PUBLIC_SUPABASE_URL"
	EnvSupabasePublishableKey = "NEXT_PUBLIC_SUPABASE_PUBLISHABLE_DEFAULT_KEY"
	EnvSupabaseSecretKey      = "SUPABASE_SECRET_DEFAULT_KEY"
)

// ConfiguredKeys must all be non-empty for the app to count as configured.
var ConfiguredKeys = []string{
	EnvClerkPublishableKey,
	EnvClerkSecretKey,
	EnvSupabaseURL,
	EnvSupabasePublishableKey,
}

// EnvVars returns the variables the application needs at runtime.
func (s SetupSession) EnvVars() map[string]string {
	return map[string]string{
		EnvClerkPublishableKey:    s.AuthPublishableKey,
		EnvClerkSecretKey:         s.AuthSecretKey,
		EnvClerkSignInURL:         "/sign-in",
		EnvClerkSignUpURL:         "/sign-up",
		EnvSupabaseURL:            s.DBURL,
		EnvSupabasePublishableKey: s.DBPublishableKey,
		EnvSupabaseSecretKey:      s.DBSecretKey,
	}
}
