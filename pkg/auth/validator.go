package auth

import (
	"context"
	"errors"
	"time"
)

// RevocationChecker answers whether a token ID has been revoked before its
// natural expiry. Implemented by pkg/revocation; nil means the pure
// stateless design with no denylist.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Validator checks presented tokens and normalizes every failure into a
// typed outcome. It never returns an error: the next stage inspects the
// Result exactly once and decides what to do.
type Validator struct {
	codec      *Codec
	revocation RevocationChecker
	now        func() time.Time
}

// NewValidator creates a validator. revocation may be nil.
func NewValidator(codec *Codec, revocation RevocationChecker) *Validator {
	return &Validator{
		codec:      codec,
		revocation: revocation,
		now:        time.Now,
	}
}

// WithClock overrides the validator's clock. Test hook.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate classifies a presented token.
//
// Ordering is a correctness invariant: the signature is verified before
// the expiry claim is ever read, so a forged-but-unexpired token is
// rejected at the signature step and a client-supplied expiry can never
// skip signature verification. A token that is both forged and expired
// reports OutcomeBadSignature, never OutcomeExpired.
func (v *Validator) Validate(ctx context.Context, tokenString string) Result {
	if tokenString == "" {
		return Result{Outcome: OutcomeMissing}
	}

	claims, err := v.codec.Decode(tokenString)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadSignature):
			return Result{Outcome: OutcomeBadSignature}
		default:
			return Result{Outcome: OutcomeMalformed}
		}
	}

	// Expiry strictly after signature verification.
	if !v.now().Before(claims.ExpiresAt) {
		return Result{Outcome: OutcomeExpired}
	}

	if v.revocation != nil && claims.ID != "" {
		revoked, err := v.revocation.IsRevoked(ctx, claims.ID)
		if err != nil || revoked {
			// A denylist lookup failure fails closed: the request is
			// treated as unauthenticated rather than trusting a token we
			// could not clear.
			return Result{Outcome: OutcomeRevoked}
		}
	}

	return Result{Outcome: OutcomeValid, Claims: claims}
}
