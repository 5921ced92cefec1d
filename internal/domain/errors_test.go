package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorFormat(t *testing.T) {
	err := NewDomainError("Publisher.Publish", ErrNameConflict, `Repository "demo" already exists.`)
	want := `Publisher.Publish: Repository "demo" already exists.: repository name conflict`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorFormatNoDetail(t *testing.T) {
	err := NewDomainError("Wizard.Next", ErrStepNotVerified, "")
	want := "Wizard.Next: step not verified"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	err := NewDomainError("Publisher.awaitReady", ErrHostTimeout, "too slow")
	if !errors.Is(err, ErrHostTimeout) {
		t.Error("errors.Is should match ErrHostTimeout")
	}
}

func TestWrapOpNil(t *testing.T) {
	assert.NoError(t, WrapOp("op", nil))
}

func TestUserMessage(t *testing.T) {
	inner := NewDomainError("Validator.Verify", ErrInvalidInput, "Both keys required")
	wrapped := WrapOp("gateway.testClerk", inner)

	assert.Equal(t, "Both keys required", UserMessage(wrapped))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
	assert.Equal(t, "", UserMessage(nil))
}

func TestErrorCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, CodeUnknown},
		{"sentinel", ErrRateLimit, CodeRateLimit},
		{"domain error", NewDomainError("op", ErrNameConflict, "taken"), CodeNameConflict},
		{"wrapped", fmt.Errorf("outer: %w", ErrHostTimeout), CodeHostTimeout},
		{"observer auth", ErrObserverAuthFailed, CodeAuthInvalid},
		{"plain", errors.New("x"), CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ErrorCodeOf(tt.err))
		})
	}
}

func TestStatusCode(t *testing.T) {
	err := NewDomainError("op", &HostStatusError{Code: 404, Err: ErrNotFound}, "missing")
	assert.Equal(t, 404, StatusCode(fmt.Errorf("wrap: %w", err)))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "not found: status 404", (&HostStatusError{Code: 404, Err: ErrNotFound}).Error())
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}
