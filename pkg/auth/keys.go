package auth

import (
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// placeholderSecrets are values that show up in sample configs and must
// never be accepted as a real signing secret.
var placeholderSecrets = map[string]bool{
	"changeme": true,
	"secret":   true,
	"password": true,
	"default":  true,
}

// minSecretLength is the minimum HMAC secret length in bytes. Anything
// shorter is trivially brute-forceable.
const minSecretLength = 32

// KeyProvider holds the signing algorithm and key material. It is built
// once at startup and never mutated; absence of a usable key is a fatal
// configuration error, not a per-request condition.
type KeyProvider struct {
	method     jwt.SigningMethod
	signingKey interface{}
	verifyKey  interface{}
}

// NewHMACKeyProvider creates a provider for the HS256/HS384/HS512 family.
func NewHMACKeyProvider(algorithm string, secret []byte) (*KeyProvider, error) {
	switch algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported HMAC algorithm %q", algorithm)
	}

	if len(secret) == 0 {
		return nil, fmt.Errorf("signing secret is required")
	}
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("signing secret must be at least %d bytes, got %d", minSecretLength, len(secret))
	}
	if placeholderSecrets[strings.ToLower(string(secret))] {
		return nil, fmt.Errorf("signing secret is a well-known placeholder value")
	}

	return &KeyProvider{
		method:     jwt.GetSigningMethod(algorithm),
		signingKey: secret,
		verifyKey:  secret,
	}, nil
}

// NewRSAKeyProvider creates a provider for RS256 from PEM-encoded keys.
// The private key may be omitted for verification-only deployments; such
// a provider cannot issue tokens.
func NewRSAKeyProvider(privateKeyPEM, publicKeyPEM []byte) (*KeyProvider, error) {
	if len(publicKeyPEM) == 0 {
		return nil, fmt.Errorf("RSA public key is required")
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}

	var privateKey *rsa.PrivateKey
	if len(privateKeyPEM) > 0 {
		privateKey, err = jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
		}
	}

	kp := &KeyProvider{
		method:    jwt.SigningMethodRS256,
		verifyKey: publicKey,
	}
	if privateKey != nil {
		kp.signingKey = privateKey
	}
	return kp, nil
}

// Algorithm returns the configured signing algorithm name.
func (kp *KeyProvider) Algorithm() string {
	return kp.method.Alg()
}

// CanSign reports whether this provider holds signing material.
func (kp *KeyProvider) CanSign() bool {
	return kp.signingKey != nil
}
