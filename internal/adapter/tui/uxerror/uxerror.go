// Package uxerror turns provisioning errors into a heading, the message the
// user should read and a few recovery hints.
package uxerror

import (
	"errors"
	"fmt"
	"strings"

	"launchpad/internal/adapter/tui/theme"
	"launchpad/internal/domain"
)

// FriendlyError is a user-facing error with suggestions for recovery.
type FriendlyError struct {
	Title   string   // short heading, e.g. "Connection Lost"
	Message string   // what went wrong, in the host's or backend's words
	Hints   []string // actionable recovery suggestions
	Raw     string   // original error text (for debug logs)
}

// Render formats the error for the wizard and the CLI.
func (fe FriendlyError) Render() string {
	var sb strings.Builder
	sb.WriteString(fe.Title)
	if fe.Message != "" {
		sb.WriteString("\n  ")
		sb.WriteString(fe.Message)
	}
	if len(fe.Hints) > 0 {
		sb.WriteString("\n  Suggestions:")
		for _, h := range fe.Hints {
			sb.WriteString(fmt.Sprintf("\n    %s %s", theme.SymbolBullet, h))
		}
	}
	return sb.String()
}

type errorPattern struct {
	match func(err error) bool
	title string
	hints []string
}

// Sentinels first so errors.Is sees through the DomainError wrapping; the
// string patterns catch transport errors that never became a DomainError.
var patterns = []errorPattern{
	{
		match: is(domain.ErrAlreadyConfigured),
		title: "Already Configured",
		hints: []string{"The app already has its keys; edit the env file to change them"},
	},
	{
		match: is(domain.ErrNameConflict),
		title: "Repository Name Taken",
		hints: []string{"Pick another repository name", "Or deploy the existing repository as owner/repo"},
	},
	{
		match: is(domain.ErrAuthInvalid),
		title: "Credentials Rejected",
		hints: []string{"Check that the token has not expired", "GitHub tokens need the repo scope"},
	},
	{
		match: is(domain.ErrHostTimeout),
		title: "Repository Not Ready",
		hints: []string{"GitHub can take a moment to initialize new repositories", "Try again in a minute"},
	},
	{
		match: is(domain.ErrRateLimit),
		title: "Rate Limited",
		hints: []string{"Wait a moment before retrying"},
	},
	{
		match: is(domain.ErrCircuitOpen),
		title: "Host Unavailable",
		hints: []string{"The host failed several times in a row", "Wait a minute before retrying"},
	},
	{
		match: is(domain.ErrConnectionLost),
		title: "Connection Lost",
		hints: []string{"Check that the setup backend is still running", "Try again"},
	},
	{
		match: is(domain.ErrStepNotVerified),
		title: "Step Not Verified",
		hints: []string{"Verify the current step before continuing"},
	},
	{
		match: containsAny("connection refused", "dial tcp", "no such host"),
		title: "Connection Failed",
		hints: []string{"Check your internet connection", "Check the backend URL"},
	},
	{
		match: containsAny("deadline exceeded", "timeout"),
		title: "Request Timed Out",
		hints: []string{"Check your network connection", "Increase http.timeout in config"},
	},
}

// Humanize converts err into a FriendlyError. The message is the DomainError
// detail when there is one.
func Humanize(err error) FriendlyError {
	if err == nil {
		return FriendlyError{Title: "Unknown Error", Raw: "nil"}
	}

	msg := domain.UserMessage(err)
	for _, p := range patterns {
		if p.match(err) {
			return FriendlyError{Title: p.title, Message: msg, Hints: p.hints, Raw: err.Error()}
		}
	}

	return FriendlyError{
		Title:   "Something Went Wrong",
		Message: msg,
		Hints:   []string{"Try again", "Run with --log-level debug for more details"},
		Raw:     err.Error(),
	}
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

// containsAny matches when the error text contains any of substrs, case-insensitively.
func containsAny(substrs ...string) func(error) bool {
	return func(err error) bool {
		lower := strings.ToLower(err.Error())
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}
