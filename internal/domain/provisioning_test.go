package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalEventWireForm(t *testing.T) {
	tests := []struct {
		ev   ProvisioningEvent
		want string
	}{
		{CreatingRepo{}, `{"step":"creating_repo"}`},
		{ReadingFiles{Total: 0}, `{"step":"reading_files","total":0}`},
		{Uploading{Current: 1, Total: 3, File: "app/page.tsx"}, `{"step":"uploading","total":3,"current":1,"file":"app/page.tsx"}`},
		{Done{RepoURL: "https://github.com/o/r", Owner: "o", RepoName: "r"}, `{"step":"done","repoUrl":"https://github.com/o/r","owner":"o","repoName":"r"}`},
		{Failed{Error: "No files found to push"}, `{"step":"error","error":"No files found to push"}`},
	}
	for _, tt := range tests {
		t.Run(string(tt.ev.Step()), func(t *testing.T) {
			data, err := MarshalEvent(tt.ev)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			back, err := UnmarshalEvent(data)
			require.NoError(t, err)
			assert.Equal(t, tt.ev, back)
		})
	}
}

func TestUnmarshalEventUnknownStep(t *testing.T) {
	_, err := UnmarshalEvent([]byte(`{"step":"teleporting"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleporting")
}

func TestTerminal(t *testing.T) {
	assert.True(t, Done{}.Terminal())
	assert.True(t, Failed{}.Terminal())
	assert.False(t, Uploading{}.Terminal())
	assert.False(t, Finalizing{}.Terminal())
}

func TestProgressMonotonicOverSuccessfulRun(t *testing.T) {
	run := []ProvisioningEvent{
		CreatingRepo{},
		WaitingForRepo{},
		ReadingFiles{Total: 4},
	}
	for i := 1; i <= 4; i++ {
		run = append(run, Uploading{Current: i, Total: 4, File: "f"})
	}
	run = append(run, Finalizing{}, Done{})

	pct := 0
	for _, ev := range run {
		next := Progress(ev, pct)
		assert.GreaterOrEqual(t, next, pct, "progress regressed at %s", ev.Step())
		pct = next
	}
	assert.Equal(t, 100, pct)
}

func TestProgressUploadMapping(t *testing.T) {
	assert.Equal(t, 15+75/2, Progress(Uploading{Current: 1, Total: 2}, 0))
	assert.Equal(t, 90, Progress(Uploading{Current: 2, Total: 2}, 0))
	assert.Equal(t, 42, Progress(Failed{Error: "x"}, 42))
}

func TestNewRunEventTypes(t *testing.T) {
	now := time.Unix(0, 0)

	ev, err := NewRunEvent("run-1", 1, CreatingRepo{}, now)
	require.NoError(t, err)
	assert.Equal(t, EventPublishStarted, ev.Type)

	ev, err = NewRunEvent("run-1", 2, Uploading{Current: 1, Total: 1, File: "a"}, now)
	require.NoError(t, err)
	assert.Equal(t, EventPublishProgress, ev.Type)
	assert.Equal(t, 2, ev.Seq)

	ev, err = NewRunEvent("run-1", 3, Failed{Error: "x"}, now)
	require.NoError(t, err)
	assert.Equal(t, EventPublishFailed, ev.Type)
	assert.JSONEq(t, `{"step":"error","error":"x"}`, string(ev.Payload))
}
