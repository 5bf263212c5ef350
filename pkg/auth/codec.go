package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec errors. Decode never partially trusts a token: on any error the
// returned claims are zero.
var (
	// ErrMalformed means the token is not a structurally valid JWT or is
	// missing a required claim.
	ErrMalformed = errors.New("malformed token")
	// ErrBadSignature means the signature does not verify, or the token's
	// algorithm differs from the configured one.
	ErrBadSignature = errors.New("bad token signature")
	// ErrNoSigningKey means the key provider holds verification material
	// only and cannot encode.
	ErrNoSigningKey = errors.New("no signing key configured")
)

// wireClaims is the JWT payload shape. Registered claim names follow RFC
// 7519; roles ride along as a private claim.
type wireClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Codec encodes and decodes signed tokens. It is stateless and safe for
// concurrent use: all key material lives in the immutable KeyProvider.
type Codec struct {
	keys   *KeyProvider
	parser *jwt.Parser
}

// NewCodec creates a codec bound to the provider's algorithm. Tokens whose
// header names any other algorithm fail decoding with ErrBadSignature,
// which closes off algorithm-substitution attacks.
func NewCodec(keys *KeyProvider) *Codec {
	return &Codec{
		keys: keys,
		// Expiry is checked by the Validator after signature verification,
		// not during parsing, so the ordering guarantee is explicit.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{keys.Algorithm()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Encode serializes and signs a claim set. Deterministic for identical
// claims and key.
func (c *Codec) Encode(claims Claims) (string, error) {
	if !c.keys.CanSign() {
		return "", ErrNoSigningKey
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("claims subject must not be empty")
	}
	if !claims.ExpiresAt.After(claims.IssuedAt) {
		return "", fmt.Errorf("claims expiry %v is not after issuance %v", claims.ExpiresAt, claims.IssuedAt)
	}

	token := jwt.NewWithClaims(c.keys.method, &wireClaims{
		Roles: claims.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			ID:        claims.ID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})

	signed, err := token.SignedString(c.keys.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode parses a token, verifies its signature against the configured
// key, and returns the embedded claim set. It does NOT check expiry; the
// Validator owns that, strictly after this call succeeds.
func (c *Codec) Decode(tokenString string) (Claims, error) {
	var wc wireClaims
	_, err := c.parser.ParseWithClaims(tokenString, &wc, func(token *jwt.Token) (interface{}, error) {
		return c.keys.verifyKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return Claims{}, fmt.Errorf("%w: %v", ErrBadSignature, err)
		default:
			return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	// Signature verified; now require the claims this system depends on.
	if wc.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing sub claim", ErrMalformed)
	}
	if wc.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: missing exp claim", ErrMalformed)
	}

	claims := Claims{
		Subject:   wc.Subject,
		ID:        wc.ID,
		ExpiresAt: wc.ExpiresAt.Time,
		Roles:     wc.Roles,
	}
	if wc.IssuedAt != nil {
		claims.IssuedAt = wc.IssuedAt.Time
	}
	// Normalize to second precision so decode(encode(c)) round-trips the
	// wire representation exactly.
	claims.IssuedAt = claims.IssuedAt.Truncate(time.Second)
	claims.ExpiresAt = claims.ExpiresAt.Truncate(time.Second)
	return claims, nil
}
