package publish

import (
	"context"
	"fmt"
	"sync"

	"launchpad/internal/domain"
)

// fakeHost is an in-memory GitHost. Zero values describe a healthy host with
// a fresh, immediately ready repository.
type fakeHost struct {
	mu sync.Mutex

	login       string
	userErr     error
	createErr   error
	getErr      error
	commits     int
	commitsErr  error
	notReadyFor int // BranchHead fails this many times before answering
	blobErrAt   int // 1-based blob index that fails; 0 never

	branchCalls int
	blobs       []string
	tree        []domain.TreeEntry
	commitMsg   string
	parents     []string
	refUpdate   string
	calls       []string
}

func (f *fakeHost) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeHost) AuthenticatedUser(context.Context) (string, error) {
	f.record("user")
	if f.userErr != nil {
		return "", f.userErr
	}
	if f.login == "" {
		return "octo", nil
	}
	return f.login, nil
}

func (f *fakeHost) CreateRepository(_ context.Context, name string, _ bool) (domain.RemoteRepository, error) {
	f.record("create")
	if f.createErr != nil {
		return domain.RemoteRepository{}, f.createErr
	}
	return domain.RemoteRepository{Owner: "octo", Name: name, HTMLURL: "https://github.com/octo/" + name}, nil
}

func (f *fakeHost) GetRepository(_ context.Context, owner, name string) (domain.RemoteRepository, error) {
	f.record("get")
	if f.getErr != nil {
		return domain.RemoteRepository{}, f.getErr
	}
	return domain.RemoteRepository{Owner: owner, Name: name, HTMLURL: "https://github.com/" + owner + "/" + name}, nil
}

func (f *fakeHost) CountCommits(_ context.Context, _, _ string, limit int) (int, error) {
	f.record(fmt.Sprintf("commits:%d", limit))
	if f.commitsErr != nil {
		return 0, f.commitsErr
	}
	return min(f.commits, limit), nil
}

func (f *fakeHost) BranchHead(_ context.Context, _, _, branch string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.branchCalls++
	if f.branchCalls <= f.notReadyFor {
		return "", domain.NewDomainError("fake.BranchHead", domain.ErrNotFound, "Branch not found")
	}
	return "head-" + branch, nil
}

func (f *fakeHost) CreateBlob(_ context.Context, _, _, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blobErrAt == len(f.blobs)+1 {
		return "", domain.NewDomainError("fake.CreateBlob", domain.ErrRateLimit, "You have exceeded a secondary rate limit.")
	}
	f.blobs = append(f.blobs, content)
	return fmt.Sprintf("blob%d", len(f.blobs)), nil
}

func (f *fakeHost) CreateTree(_ context.Context, _, _ string, entries []domain.TreeEntry) (string, error) {
	f.record("tree")
	f.tree = entries
	return "tree1", nil
}

func (f *fakeHost) CreateCommit(_ context.Context, _, _, message, tree string, parents []string) (string, error) {
	f.record("commit:" + tree)
	f.commitMsg = message
	f.parents = parents
	return "commit1", nil
}

func (f *fakeHost) UpdateRef(_ context.Context, _, _, ref, sha string, force bool) error {
	f.record("ref")
	f.refUpdate = fmt.Sprintf("%s=%s force=%t", ref, sha, force)
	return nil
}
