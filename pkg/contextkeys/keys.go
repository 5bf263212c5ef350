// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// SecurityContextKey contains *security.Context
	// Set by: middleware.Authenticator (pkg/middleware/authenticate.go)
	// Required by: middleware.Authorizer, all protected handlers
	// Type: *security.Context
	SecurityContextKey Key = "security_context"

	// RequestIDKey contains request ID string (UUID)
	// Set by: httputil.RequestIDMiddleware
	// Used by: Logger, diagnostics
	// Type: string
	RequestIDKey Key = "request_id"

	// BearerTokenKey contains the raw bearer token presented on the request,
	// present only when a credential was supplied (valid or not).
	// Set by: middleware.Authenticator
	// Used by: logout handler (revocation), diagnostics
	// Type: string
	BearerTokenKey Key = "bearer_token"
)

// WithSecurityContext adds the request's security context to the context
func WithSecurityContext(ctx context.Context, sc interface{}) context.Context {
	return context.WithValue(ctx, SecurityContextKey, sc)
}

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithBearerToken adds the presented bearer token to the context
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, BearerTokenKey, token)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetBearerToken retrieves the presented bearer token from context
func GetBearerToken(ctx context.Context) string {
	if token, ok := ctx.Value(BearerTokenKey).(string); ok {
		return token
	}
	return ""
}
