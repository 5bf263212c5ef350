package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Issuer builds claim sets for verified principals and signs them. It has
// no side effects beyond reading the clock and the signing key.
type Issuer struct {
	codec *Codec
	ttl   time.Duration
	now   func() time.Time
}

// NewIssuer creates an issuer. ttl must be positive.
func NewIssuer(codec *Codec, ttl time.Duration) (*Issuer, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("token TTL must be positive, got %v", ttl)
	}
	if !codec.keys.CanSign() {
		return nil, ErrNoSigningKey
	}
	return &Issuer{
		codec: codec,
		ttl:   ttl,
		now:   time.Now,
	}, nil
}

// WithClock overrides the issuer's clock. Test hook.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue produces a signed bearer token for an already-verified principal.
// The caller is responsible for credential verification; this begins at
// "produce a token".
func (i *Issuer) Issue(subject string, roles []string) (string, Claims, error) {
	if subject == "" {
		return "", Claims{}, fmt.Errorf("subject must not be empty")
	}

	now := i.now().Truncate(time.Second)
	claims := Claims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(i.ttl),
		Roles:     roles,
	}

	token, err := i.codec.Encode(claims)
	if err != nil {
		return "", Claims{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, claims, nil
}
