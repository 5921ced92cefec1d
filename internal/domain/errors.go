package domain

import (
	"errors"
	"fmt"
)

// Category sentinels. Every failure surfaced by the provisioning pipeline wraps
// exactly one of these so callers can branch with errors.Is.
var (
	ErrNotFound          = fmt.Errorf("not found")
	ErrInvalidInput      = fmt.Errorf("invalid input")
	ErrAuthInvalid       = fmt.Errorf("authentication failed")
	ErrRateLimit         = fmt.Errorf("rate limit exceeded")
	ErrProviderError     = fmt.Errorf("provider error")
	ErrNameConflict      = fmt.Errorf("repository name conflict")
	ErrHostTimeout       = fmt.Errorf("host did not become ready")
	ErrConnectionLost    = fmt.Errorf("connection lost")
	ErrAlreadyConfigured = fmt.Errorf("app is already configured")
	ErrStepNotVerified   = fmt.Errorf("step not verified")
	ErrCircuitOpen       = fmt.Errorf("circuit breaker open")
	ErrBlockedAddress    = fmt.Errorf("address not allowed")
)

// ErrObserverAuthFailed is returned when a progress-feed observer presents an unknown token.
var ErrObserverAuthFailed = fmt.Errorf("observer: %w", ErrAuthInvalid)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "Publisher.Publish")
	Err    error  // underlying sentinel or wrapped error
	Detail string // user-facing message, shown verbatim in the wizard
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// UserMessage returns the text a human should see for err: the Detail of the
// outermost DomainError in the chain, or err.Error() when there is none.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) && de.Detail != "" {
		return de.Detail
	}
	return err.Error()
}

// HostStatusError records the HTTP status a remote host answered with. It
// unwraps to the category sentinel for that status.
type HostStatusError struct {
	Code int
	Err  error
}

func (e *HostStatusError) Error() string {
	return fmt.Sprintf("%s: status %d", e.Err, e.Code)
}

func (e *HostStatusError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *HostStatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// ErrorCode is a machine-parseable error category used for metric labels and logs.
type ErrorCode string

const (
	CodeUnknown           ErrorCode = "UNKNOWN"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeInvalidInput      ErrorCode = "INVALID_INPUT"
	CodeAuthInvalid       ErrorCode = "AUTH_INVALID"
	CodeRateLimit         ErrorCode = "RATE_LIMIT"
	CodeProviderError     ErrorCode = "PROVIDER_ERROR"
	CodeNameConflict      ErrorCode = "NAME_CONFLICT"
	CodeHostTimeout       ErrorCode = "HOST_TIMEOUT"
	CodeConnectionLost    ErrorCode = "CONNECTION_LOST"
	CodeAlreadyConfigured ErrorCode = "ALREADY_CONFIGURED"
	CodeStepNotVerified   ErrorCode = "STEP_NOT_VERIFIED"
	CodeCircuitOpen       ErrorCode = "CIRCUIT_OPEN"
	CodeBlockedAddress    ErrorCode = "BLOCKED_ADDRESS"
)

// errorCodes is ordered: more specific sentinels come first so that a chain
// wrapping several of them reports the innermost category a caller cares about.
var errorCodes = []struct {
	err  error
	code ErrorCode
}{
	{ErrNameConflict, CodeNameConflict},
	{ErrHostTimeout, CodeHostTimeout},
	{ErrConnectionLost, CodeConnectionLost},
	{ErrAlreadyConfigured, CodeAlreadyConfigured},
	{ErrStepNotVerified, CodeStepNotVerified},
	{ErrCircuitOpen, CodeCircuitOpen},
	{ErrBlockedAddress, CodeBlockedAddress},
	{ErrAuthInvalid, CodeAuthInvalid},
	{ErrRateLimit, CodeRateLimit},
	{ErrNotFound, CodeNotFound},
	{ErrInvalidInput, CodeInvalidInput},
	{ErrProviderError, CodeProviderError},
}

// ErrorCodeOf returns the ErrorCode for err, walking the wrap chain.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeUnknown
}
