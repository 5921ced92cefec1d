package setup

import "launchpad/internal/domain"

// Phase is a screen of the wizard. The first four mirror the wizard steps.
type Phase int

const (
	PhaseAuth     = Phase(domain.StepAuth)
	PhaseDatabase = Phase(domain.StepDatabase)
	PhaseConnect  = Phase(domain.StepConnect)
	PhaseDeploy   = Phase(domain.StepDeploy)
	PhaseComplete = Phase(domain.WizardStepCount)
)

// Step returns the wizard step shown by p.
func (p Phase) Step() domain.WizardStep { return domain.WizardStep(p) }

// PhaseInfo describes a phase for the step indicator.
type PhaseInfo struct {
	Name  string
	Title string
	Intro string
}

// AllPhases returns display info for each step phase.
func AllPhases() []PhaseInfo {
	return []PhaseInfo{
		{
			Name:  domain.StepAuth.String(),
			Title: "Connect Clerk",
			Intro: "Paste the API keys from the Clerk dashboard (Configure > API keys).",
		},
		{
			Name:  domain.StepDatabase.String(),
			Title: "Connect Supabase",
			Intro: "Paste the project URL and API keys from Supabase (Project Settings > API).",
		},
		{
			Name:  domain.StepConnect.String(),
			Title: "Create the profiles table",
			Intro: "Run this SQL in the Supabase SQL editor, then verify.",
		},
		{
			Name:  domain.StepDeploy.String(),
			Title: "Publish and deploy",
			Intro: "Push the project to GitHub and deploy it on Vercel.",
		},
	}
}

// connectDoc wraps the SQL template in the markdown shown on the Connect phase.
func connectDoc(sql string) string {
	return "1. Open **SQL Editor** in your Supabase project.\n" +
		"2. Paste the script below and press **Run**.\n" +
		"3. Come back here and press **Enter** to verify.\n\n" +
		"```sql\n" + sql + "\n```\n"
}
