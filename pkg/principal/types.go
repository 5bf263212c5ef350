// Package principal defines the principal record and the resolver contract
// between the middleware and the user store that owns it. The middleware
// reads a principal once per request by the subject extracted from a
// validated token; it never mutates the store.
package principal

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no principal exists for a subject.
	ErrNotFound = errors.New("principal not found")
	// ErrBadCredentials is returned when the secret does not match.
	ErrBadCredentials = errors.New("bad credentials")
)

// Principal is the system-of-record view of an identity: current enabled
// flag and current role set. Owned and mutated exclusively by the store.
type Principal struct {
	Subject  string   `json:"subject"`
	Username string   `json:"username"`
	Enabled  bool     `json:"enabled"`
	Roles    []string `json:"roles"`
}

// Resolver returns the current principal record for a subject identifier.
// Implementations may block on a data store; they must honor ctx.
type Resolver interface {
	Resolve(ctx context.Context, subject string) (*Principal, error)
}

// CredentialVerifier is the login-boundary contract: it checks a secret
// against the store's salted hash and returns the principal on success.
// Callers must collapse ErrNotFound and ErrBadCredentials into one generic
// failure so clients cannot probe which identifiers exist.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, username, password string) (*Principal, error)
}
