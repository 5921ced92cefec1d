package domain

import (
	"encoding/json"
	"fmt"
)

// Step names a stage of a repository publish run. The string form is the wire tag.
type Step string

const (
	StepCreatingRepo   Step = "creating_repo"
	StepWaitingForRepo Step = "waiting_for_repo"
	StepReadingFiles   Step = "reading_files"
	StepUploading      Step = "uploading"
	StepFinalizing     Step = "finalizing"
	StepDone           Step = "done"
	StepError          Step = "error"
)

// ProvisioningEvent is one progress notification of a publish run.
// The set of implementations is closed; use a type switch to inspect it.
type ProvisioningEvent interface {
	Step() Step
	// Terminal reports whether no further events follow this one.
	Terminal() bool
	provisioningEvent()
}

// CreatingRepo is emitted once the actor is known and repository creation starts.
type CreatingRepo struct{}

// WaitingForRepo is emitted before polling the default branch for readiness.
type WaitingForRepo struct{}

// ReadingFiles is emitted once the project tree has been enumerated.
type ReadingFiles struct {
	Total int
}

// Uploading is emitted once per file, before its blob is created. Current is 1-based.
type Uploading struct {
	Current int
	Total   int
	File    string
}

// Finalizing is emitted before the tree, commit and ref update.
type Finalizing struct{}

// Done is the successful terminal event.
type Done struct {
	RepoURL  string
	Owner    string
	RepoName string
}

// Failed is the unsuccessful terminal event. Error is user-facing text.
type Failed struct {
	Error string
}

func (CreatingRepo) Step() Step   { return StepCreatingRepo }
func (WaitingForRepo) Step() Step { return StepWaitingForRepo }
func (ReadingFiles) Step() Step   { return StepReadingFiles }
func (Uploading) Step() Step      { return StepUploading }
func (Finalizing) Step() Step     { return StepFinalizing }
func (Done) Step() Step           { return StepDone }
func (Failed) Step() Step         { return StepError }

func (CreatingRepo) Terminal() bool   { return false }
func (WaitingForRepo) Terminal() bool { return false }
func (ReadingFiles) Terminal() bool   { return false }
func (Uploading) Terminal() bool      { return false }
func (Finalizing) Terminal() bool     { return false }
func (Done) Terminal() bool           { return true }
func (Failed) Terminal() bool         { return true }

func (CreatingRepo) provisioningEvent()   {}
func (WaitingForRepo) provisioningEvent() {}
func (ReadingFiles) provisioningEvent()   {}
func (Uploading) provisioningEvent()      {}
func (Finalizing) provisioningEvent()     {}
func (Done) provisioningEvent()           {}
func (Failed) provisioningEvent()         {}

// Progress maps an event to a completion percentage. A Failed event has no
// percentage of its own, so the previous value is returned unchanged.
func Progress(ev ProvisioningEvent, previous int) int {
	switch e := ev.(type) {
	case CreatingRepo:
		return 5
	case WaitingForRepo:
		return 10
	case ReadingFiles:
		return 15
	case Uploading:
		if e.Total <= 0 {
			return 15
		}
		return 15 + e.Current*75/e.Total
	case Finalizing:
		return 95
	case Done:
		return 100
	default:
		return previous
	}
}

// wireEvent is the flattened, string-tagged form sent over the event stream.
type wireEvent struct {
	Step     Step   `json:"step"`
	Total    *int   `json:"total,omitempty"`
	Current  *int   `json:"current,omitempty"`
	File     string `json:"file,omitempty"`
	RepoURL  string `json:"repoUrl,omitempty"`
	Owner    string `json:"owner,omitempty"`
	RepoName string `json:"repoName,omitempty"`
	Error    string `json:"error,omitempty"`
}

// MarshalEvent encodes ev in its wire form, e.g. {"step":"uploading","current":1,"total":3,"file":"a.go"}.
func MarshalEvent(ev ProvisioningEvent) ([]byte, error) {
	w := wireEvent{Step: ev.Step()}
	switch e := ev.(type) {
	case ReadingFiles:
		w.Total = &e.Total
	case Uploading:
		w.Current = &e.Current
		w.Total = &e.Total
		w.File = e.File
	case Done:
		w.RepoURL = e.RepoURL
		w.Owner = e.Owner
		w.RepoName = e.RepoName
	case Failed:
		w.Error = e.Error
	}
	return json.Marshal(w)
}

// UnmarshalEvent decodes the wire form produced by MarshalEvent.
func UnmarshalEvent(data []byte) (ProvisioningEvent, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode provisioning event: %w", err)
	}
	deref := func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	}
	switch w.Step {
	case StepCreatingRepo:
		return CreatingRepo{}, nil
	case StepWaitingForRepo:
		return WaitingForRepo{}, nil
	case StepReadingFiles:
		return ReadingFiles{Total: deref(w.Total)}, nil
	case StepUploading:
		return Uploading{Current: deref(w.Current), Total: deref(w.Total), File: w.File}, nil
	case StepFinalizing:
		return Finalizing{}, nil
	case StepDone:
		return Done{RepoURL: w.RepoURL, Owner: w.Owner, RepoName: w.RepoName}, nil
	case StepError:
		return Failed{Error: w.Error}, nil
	default:
		return nil, fmt.Errorf("decode provisioning event: unknown step %q", w.Step)
	}
}
