package domain

import "context"

// AuthProbe checks an auth-provider secret key against the provider's API.
type AuthProbe interface {
	// ListUsers returns the HTTP status of a minimal user listing. err is set
	// only when no answer was received.
	ListUsers(ctx context.Context, secretKey string) (int, error)
}

// TableAnswer is the database REST layer's answer to a zero-row select.
type TableAnswer struct {
	Status  int
	Code    string
	Message string
}

// OK reports a 2xx answer.
func (a TableAnswer) OK() bool { return a.Status >= 200 && a.Status < 300 }

// DatabaseProbe checks a database-provider project.
type DatabaseProbe interface {
	// FetchSession reaches the auth service with key. Only a transport failure is an error.
	FetchSession(ctx context.Context, projectURL, key string) error
	// SelectNone selects zero rows from table with the secret key.
	SelectNone(ctx context.Context, projectURL, secretKey, table string) (TableAnswer, error)
}
