package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"launchpad/internal/adapter/tui/setup"
	"launchpad/internal/adapter/tui/theme"
	"launchpad/internal/usecase/deploy"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Walk through the four setup steps interactively",
	RunE:  runWizard,
}

func runWizard(_ *cobra.Command, _ []string) error {
	a, err := loadApp(filepath.Join(os.TempDir(), "launchpad-wizard.log"))
	if err != nil {
		return err
	}
	defer a.Close()

	theme.InitSymbols()

	model := setup.NewWizardModel(setup.Deps{
		Backend:    a.backend(),
		Deployer:   deploy.NewTrigger(a.deployHosts(), a.collector, a.logger),
		GitHosts:   a.gitHosts(),
		BackendURL: a.cfg.Server.BackendURL,
		Logger:     a.logger,
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	wm, ok := final.(setup.WizardModel)
	if !ok || wm.Cancelled() {
		fmt.Println("Setup cancelled. Run 'launchpad wizard' to start again.")
		return nil
	}
	res := wm.Result()
	if res.Published {
		fmt.Printf("Repository: %s\n", res.Repo.RepoURL)
	}
	if res.Deployed {
		fmt.Printf("Site:       %s\n", res.Deploy.URL)
		if res.Deploy.ProjectID != "" {
			fmt.Printf("Project:    %s\n", res.Deploy.ProjectID)
		}
		if len(res.Deploy.EnvFailures) > 0 {
			fmt.Printf("\nSome variables were not set: %v\n", res.Deploy.EnvFailures)
			fmt.Printf("Fix them with: launchpad redeploy --project %s\n", res.Deploy.ProjectID)
		}
	}
	return nil
}
