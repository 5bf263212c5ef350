package middleware

import (
	"net/http"

	"github.com/gatehouse-auth/gatehouse/pkg/httputil"
	"github.com/gatehouse-auth/gatehouse/pkg/policy"
	"github.com/gatehouse-auth/gatehouse/pkg/security"
)

// Authorizer gates requests on the policy engine's decision. It is the
// only stage that rejects: anonymous denials map to 401, insufficient-role
// denials to 403, and the protected handler is never invoked on deny.
type Authorizer struct {
	engine   *policy.Engine
	decision func(kind string)
}

// NewAuthorizer creates the authorization stage.
func NewAuthorizer(engine *policy.Engine) *Authorizer {
	return &Authorizer{
		engine:   engine,
		decision: func(string) {},
	}
}

// WithDecisionCounter registers a callback invoked with each decision
// kind, typically a Prometheus counter increment.
func (a *Authorizer) WithDecisionCounter(fn func(kind string)) *Authorizer {
	if fn != nil {
		a.decision = fn
	}
	return a
}

// Handler wraps next with the authorization stage.
func (a *Authorizer) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc := security.FromContext(r.Context())

		d := a.engine.Decide(sc, r.URL.Path)
		a.decision(d.String())

		switch d {
		case policy.Allow:
			next.ServeHTTP(w, r)
		case policy.DenyAnonymous:
			httputil.WriteUnauthorized(w, "authentication required")
		default:
			httputil.WriteForbidden(w, "insufficient permissions")
		}
	})
}
