// Package auth provides stateless signed-token issuance and validation for Gatehouse.
//
// # Overview
//
// This package implements the cryptographic trust boundary of the middleware:
// a process-wide immutable KeyProvider, a pure Codec that encodes and decodes
// signed JWT claim sets, an Issuer that mints bearer tokens for verified
// principals, and a Validator that normalizes every failure into a typed
// outcome. Tokens are self-contained; nothing is stored server-side.
//
// # Key Components
//
// KeyProvider: signing algorithm plus key material, loaded once at startup
//
//	keys, err := auth.NewHMACKeyProvider("HS256", secret)
//	// err is fatal: a missing or placeholder secret aborts startup,
//	// never degrades to an insecure mode.
//
// Codec: pure encode/decode, algorithm pinned
//
//	codec := auth.NewCodec(keys)
//	token, err := codec.Encode(claims)
//	claims, err := codec.Decode(token) // ErrMalformed | ErrBadSignature
//
// Issuer: claim-set construction at login
//
//	issuer, _ := auth.NewIssuer(codec, time.Hour)
//	token, claims, err := issuer.Issue("alice", []string{"USER"})
//	// iat = now, exp = now + ttl, jti = random UUID
//
// Validator: one tag per failure kind, inspected exactly once downstream
//
//	validator := auth.NewValidator(codec, nil)
//	result := validator.Validate(ctx, token)
//	// result.Outcome: Valid | Missing | Malformed | BadSignature |
//	//                 Expired | Revoked
//
// # Validation Ordering
//
// The signature is always verified before the expiry claim is read. A token
// that is both forged and expired reports a bad signature, and a
// client-supplied expiry can never short-circuit signature verification.
//
// Token roles are an issuance-time hint only: request authorization uses the
// principal store's current roles (see pkg/principal and pkg/middleware).
package auth
