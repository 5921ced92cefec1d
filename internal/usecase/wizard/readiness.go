package wizard

import (
	"strings"
	"unicode/utf8"
)

// RepoMode selects between publishing a fresh repository and deploying one
// that already exists on the git host.
type RepoMode int

const (
	RepoNew RepoMode = iota
	RepoExisting
)

// DefaultRepoName is prefilled in the deploy form.
const DefaultRepoName = "my-site"

// DeployInput is the state of the deploy form.
type DeployInput struct {
	Mode         RepoMode
	GitHubToken  string
	RepoName     string
	ExistingRepo string // "owner/repo", RepoExisting only
	VercelToken  string
	NameState    NameState
	// Published is set once the repository push has completed in this session.
	Published bool
}

// ReadyToDeploy reports whether the deploy action may start.
func ReadyToDeploy(in DeployInput) bool {
	if utf8.RuneCountInString(in.VercelToken) <= 10 {
		return false
	}
	if in.Mode == RepoExisting {
		_, _, ok := SplitRepo(in.ExistingRepo)
		return ok
	}
	return utf8.RuneCountInString(in.GitHubToken) > 10 &&
		utf8.RuneCountInString(in.RepoName) > 1 &&
		(in.NameState != NameTaken || in.Published)
}

// SplitRepo parses "owner/repo". Surrounding blanks are ignored.
func SplitRepo(full string) (owner, repo string, ok bool) {
	parts := strings.Split(strings.TrimSpace(full), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
