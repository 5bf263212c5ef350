// Package middleware wires the authentication and authorization stages into
// net/http handler chains.
//
// The two stages are deliberately independent. The Authenticator runs first
// and only answers "who are you": it extracts the bearer credential,
// validates it, resolves the current principal record, and populates the
// request-scoped security context. It never rejects a request; any failure
// leaves the context anonymous. The Authorizer runs second and only answers
// "are you allowed": it asks the policy engine for a decision and converts
// denials into 401 (no usable credential) or 403 (authenticated but
// insufficient) responses.
//
// Typical assembly, outermost first:
//
//	chain := httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(logger),
//		httputil.RecoveryMiddleware(logger),
//		metrics.Middleware,
//		authenticator.Handler,
//		authorizer.Handler,
//	)
//	http.ListenAndServe(addr, chain(router))
package middleware
