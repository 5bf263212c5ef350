package auth

import "time"

// TokenType is the scheme clients use when presenting a token.
const TokenType = "Bearer"

// Claims is the closed claim set embedded in every issued token.
// A claim set is immutable once encoded; a "changed" token is a new token.
type Claims struct {
	// Subject is the principal identifier. Never empty on an issued token.
	Subject string
	// ID is the unique token identifier (jti), used by the optional
	// revocation denylist.
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// Roles are the principal's roles at issuance time. They are a hint
	// only: authorization re-resolves current roles from the principal
	// store on every request.
	Roles []string
}

// Outcome classifies the result of validating a presented token.
type Outcome int

const (
	// OutcomeValid means the token is well-formed, correctly signed,
	// unexpired and not revoked.
	OutcomeValid Outcome = iota
	// OutcomeMissing means no credential was presented (empty token,
	// absent header, or wrong scheme).
	OutcomeMissing
	// OutcomeMalformed means the token is not structurally a JWT.
	OutcomeMalformed
	// OutcomeBadSignature means the signature does not verify against the
	// configured key, or the algorithm differs from the configured one.
	OutcomeBadSignature
	// OutcomeExpired means the signature verified but the token is past
	// its expiry.
	OutcomeExpired
	// OutcomeRevoked means the signature verified and the token is
	// unexpired, but its jti is on the revocation denylist.
	OutcomeRevoked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeMissing:
		return "missing_credential"
	case OutcomeMalformed:
		return "malformed_token"
	case OutcomeBadSignature:
		return "bad_signature"
	case OutcomeExpired:
		return "expired_token"
	case OutcomeRevoked:
		return "revoked_token"
	default:
		return "unknown"
	}
}

// Result is the validator's verdict on a presented token. Claims is
// populated only when Outcome is OutcomeValid.
type Result struct {
	Outcome Outcome
	Claims  Claims
}

// Valid reports whether the token passed every check.
func (r Result) Valid() bool {
	return r.Outcome == OutcomeValid
}
