package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"launchpad/internal/adapter/envfile"
	"launchpad/internal/domain"
	"launchpad/internal/usecase/deploy"
	"launchpad/internal/usecase/wizard"
)

var (
	deployToken   string
	deployRepo    string
	deployProject string
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Import a GitHub repository on Vercel and deploy it",
	Long: `Import owner/repo as a Vercel project, set the variables from the local
env file and start a production deployment.`,
	RunE: runDeploy,
}

var redeployCmd = &cobra.Command{
	Use:   "redeploy",
	Short: "Push the local env file to an existing Vercel project and redeploy",
	RunE:  runRedeploy,
}

func init() {
	deployCmd.Flags().StringVar(&deployToken, "token", os.Getenv("VERCEL_TOKEN"), "Vercel access token (default $VERCEL_TOKEN)")
	deployCmd.Flags().StringVar(&deployRepo, "repo", "", "GitHub repository as owner/repo")
	deployCmd.MarkFlagRequired("repo")

	redeployCmd.Flags().StringVar(&deployToken, "token", os.Getenv("VERCEL_TOKEN"), "Vercel access token (default $VERCEL_TOKEN)")
	redeployCmd.Flags().StringVar(&deployProject, "project", "", "Vercel project ID")
	redeployCmd.MarkFlagRequired("project")
}

func runDeploy(cmd *cobra.Command, _ []string) error {
	owner, repo, ok := wizard.SplitRepo(deployRepo)
	if !ok {
		return fmt.Errorf("--repo must look like owner/repo, got %q", deployRepo)
	}
	if deployToken == "" {
		return errors.New("a Vercel token is required (--token or $VERCEL_TOKEN)")
	}

	a, err := loadApp("")
	if err != nil {
		return err
	}
	defer a.Close()

	vars, err := projectEnv(a.cfg.EnvFilePath())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := deploy.NewTrigger(a.deployHosts(), a.collector, a.logger).Deploy(ctx, deploy.Request{
		Token:    deployToken,
		Owner:    owner,
		RepoName: repo,
		EnvVars:  vars,
	})
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	printDeployResult(cmd.OutOrStdout(), res)
	return nil
}

func runRedeploy(cmd *cobra.Command, _ []string) error {
	if deployToken == "" {
		return errors.New("a Vercel token is required (--token or $VERCEL_TOKEN)")
	}

	a, err := loadApp("")
	if err != nil {
		return err
	}
	defer a.Close()

	vars, err := projectEnv(a.cfg.EnvFilePath())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := deploy.NewTrigger(a.deployHosts(), a.collector, a.logger).SyncEnv(ctx, deploy.SyncRequest{
		Token:     deployToken,
		ProjectID: deployProject,
		EnvVars:   vars,
	})
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}
	printDeployResult(cmd.OutOrStdout(), res)
	return nil
}

// projectEnv reads the runtime variables from the env file. Every configured
// key must be present.
func projectEnv(path string) (map[string]string, error) {
	vars, err := envfile.NewStore(path).Read()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for key := range (domain.SetupSession{}).EnvVars() {
		if v := vars[key]; v != "" {
			out[key] = v
		}
	}
	for _, key := range domain.ConfiguredKeys {
		if out[key] == "" {
			return nil, fmt.Errorf("%s is missing from %s; run 'launchpad wizard' first", key, path)
		}
	}
	return out, nil
}

func printDeployResult(w io.Writer, res deploy.Result) {
	fmt.Fprintf(w, "Deployment started: %s\n", res.URL)
	if res.ProjectID != "" {
		fmt.Fprintf(w, "Project: %s\n", res.ProjectID)
	}
	for _, key := range res.EnvFailures {
		fmt.Fprintf(w, "  could not set %s\n", key)
	}
}
