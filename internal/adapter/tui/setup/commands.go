package setup

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"launchpad/internal/domain"
	"launchpad/internal/usecase/credential"
	"launchpad/internal/usecase/wizard"
)

// verifyTimeout bounds a single credential check.
const verifyTimeout = 30 * time.Second

// Backend is the setup backend as seen by the wizard.
type Backend interface {
	TestAuth(ctx context.Context, publishableKey, secretKey string) credential.Result
	TestDatabase(ctx context.Context, creds credential.Credentials) credential.Result
	VerifyTable(ctx context.Context, projectURL, secretKey string) credential.TableResult
	SQL(ctx context.Context) (string, error)
	wizard.EnvSaver
	wizard.RepoPublisher
}

func testAuthCmd(b Backend, pk, sk, fp string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()
		res := b.TestAuth(ctx, pk, sk)
		return VerifyResultMsg{Step: domain.StepAuth, Success: res.Success, Err: res.Error, Fingerprint: fp}
	}
}

func testDatabaseCmd(b Backend, creds credential.Credentials, fp string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()
		res := b.TestDatabase(ctx, creds)
		return VerifyResultMsg{Step: domain.StepDatabase, Success: res.Success, Err: res.Error, Fingerprint: fp}
	}
}

func verifyTableCmd(b Backend, url, sk, fp string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()
		res := b.VerifyTable(ctx, url, sk)
		return VerifyResultMsg{Step: domain.StepConnect, Success: res.Exists, Err: res.Error, Fingerprint: fp}
	}
}

func loadSQLCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()
		sql, err := b.SQL(ctx)
		return SQLLoadedMsg{SQL: sql, Err: err}
	}
}

func lookupOwnerCmd(hosts domain.GitHostFactory, token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()
		return OwnerMsg{Token: token, Owner: wizard.LookupOwner(ctx, hosts, token)}
	}
}

// waitForMsg delivers the next message sent on ch. Commands that report more
// than once (the name checker, a running pipeline) are read this way.
func waitForMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// runPipelineCmd starts the pipeline and streams its events on a fresh channel.
func runPipelineCmd(ctx context.Context, in wizard.PipelineInput, deps wizard.Deps) (tea.Cmd, <-chan tea.Msg) {
	ch := make(chan tea.Msg, 64)
	start := func() tea.Msg {
		go func() {
			defer close(ch)
			send := func(msg tea.Msg) {
				select {
				case ch <- msg:
				case <-ctx.Done():
				}
			}
			res, err := wizard.RunPipeline(ctx, in, deps, func(ev domain.ProvisioningEvent) {
				send(PublishEventMsg{Event: ev})
			})
			send(PipelineDoneMsg{Result: res, Err: err})
		}()
		return nil
	}
	return tea.Batch(start, waitForMsg(ch)), ch
}
