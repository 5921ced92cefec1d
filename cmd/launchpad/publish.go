package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"launchpad/internal/domain"
	"launchpad/internal/usecase/publish"
	"launchpad/internal/usecase/wizard"
)

var (
	publishToken   string
	publishName    string
	publishPrivate bool
	publishLocal   bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Push the project to a new GitHub repository without the wizard",
	Long: `Publish the project tree as a single commit on a new GitHub repository.

By default the push runs on the setup backend and its progress is streamed
back. With --local the push runs in this process against server.project_root.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishToken, "token", os.Getenv("GITHUB_TOKEN"), "GitHub personal access token (default $GITHUB_TOKEN)")
	publishCmd.Flags().StringVar(&publishName, "name", wizard.DefaultRepoName, "repository name")
	publishCmd.Flags().BoolVar(&publishPrivate, "private", true, "create a private repository")
	publishCmd.Flags().BoolVar(&publishLocal, "local", false, "run the push in-process instead of on the setup backend")
}

func runPublish(cmd *cobra.Command, _ []string) error {
	a, err := loadApp("")
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := publish.Request{Token: publishToken, RepoName: publishName, Private: publishPrivate}
	printer := &eventPrinter{out: cmd.OutOrStdout()}

	var last domain.ProvisioningEvent
	if publishLocal {
		p := publish.NewPublisher(a.gitHosts(), a.cfg.Server.ProjectRoot, a.publishConfig(), nil, a.collector, a.logger)
		last = p.Publish(ctx, req, printer.print)
	} else {
		last, err = a.backend().Publish(ctx, req, printer.print)
		if err != nil {
			return err
		}
	}

	switch ev := last.(type) {
	case domain.Done:
		fmt.Fprintf(cmd.OutOrStdout(), "\nPublished %s/%s\n%s\n", ev.Owner, ev.RepoName, ev.RepoURL)
		return nil
	case domain.Failed:
		return errors.New(ev.Error)
	default:
		return errors.New("publish ended without a result")
	}
}

// eventPrinter renders provisioning events as one line each.
type eventPrinter struct {
	out io.Writer
	pct int
}

func (p *eventPrinter) print(ev domain.ProvisioningEvent) {
	p.pct = domain.Progress(ev, p.pct)
	if line := describeEvent(ev); line != "" {
		fmt.Fprintf(p.out, "[%3d%%] %s\n", p.pct, line)
	}
}

func describeEvent(ev domain.ProvisioningEvent) string {
	switch e := ev.(type) {
	case domain.CreatingRepo:
		return "Creating repository..."
	case domain.WaitingForRepo:
		return "Initializing repository..."
	case domain.ReadingFiles:
		return fmt.Sprintf("Reading files... (%d)", e.Total)
	case domain.Uploading:
		return fmt.Sprintf("Uploading files... %d / %d %s", e.Current, e.Total, e.File)
	case domain.Finalizing:
		return "Finalizing..."
	case domain.Done:
		return "Done!"
	case domain.Failed:
		return "Failed: " + e.Error
	default:
		return ""
	}
}
