package middleware

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gatehouse-auth/gatehouse/pkg/auth"
	"github.com/gatehouse-auth/gatehouse/pkg/contextkeys"
	"github.com/gatehouse-auth/gatehouse/pkg/principal"
	"github.com/gatehouse-auth/gatehouse/pkg/security"
)

// bearerPrefix is matched case-sensitively: "bearer x" or "Token x" are not
// credentials this stage understands and count as missing.
const bearerPrefix = "Bearer "

// Authenticator is the request authentication stage. It runs once per
// inbound request, populates the security context, and never rejects:
// every failure leaves the request anonymous and rejection is deferred to
// the Authorizer. That separation keeps "who are you" and "are you
// allowed" independently testable.
type Authenticator struct {
	validator *auth.Validator
	resolver  principal.Resolver
	logger    *logrus.Logger
	outcome   func(kind string)
}

// NewAuthenticator creates the authentication stage.
func NewAuthenticator(validator *auth.Validator, resolver principal.Resolver, logger *logrus.Logger) *Authenticator {
	return &Authenticator{
		validator: validator,
		resolver:  resolver,
		logger:    logger,
		outcome:   func(string) {},
	}
}

// WithOutcomeCounter registers a callback invoked with each authentication
// outcome kind, typically a Prometheus counter increment.
func (a *Authenticator) WithOutcomeCounter(fn func(kind string)) *Authenticator {
	if fn != nil {
		a.outcome = fn
	}
	return a
}

// Handler wraps next with the authentication stage.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, supplied := extractBearer(r)
		if supplied {
			// Kept for the logout path, which revokes the presented token.
			ctx = contextkeys.WithBearerToken(ctx, token)
		}

		sc := a.authenticate(r, token)
		ctx = security.WithContext(ctx, sc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticate validates the credential and resolves the principal,
// converting every failure into the anonymous context. Failure kinds are
// logged for operability but never surfaced to the client.
func (a *Authenticator) authenticate(r *http.Request, token string) *security.Context {
	result := a.validator.Validate(r.Context(), token)
	if !result.Valid() {
		a.outcome(result.Outcome.String())
		if result.Outcome != auth.OutcomeMissing {
			a.logger.WithFields(logrus.Fields{
				"reason":     result.Outcome.String(),
				"request_id": contextkeys.GetRequestID(r.Context()),
			}).Debug("authentication failed")
		}
		return security.Anonymous()
	}

	// The token's embedded roles are an issuance-time hint only: the
	// authority set always comes from the store's current record, so role
	// changes take effect without re-issuing tokens.
	p, err := a.resolver.Resolve(r.Context(), result.Claims.Subject)
	if err != nil || !p.Enabled {
		// Unknown and disabled principals are deliberately
		// indistinguishable from each other and from anonymous requests.
		a.outcome("unknown_or_disabled_principal")
		a.logger.WithFields(logrus.Fields{
			"reason":     "unknown_or_disabled_principal",
			"request_id": contextkeys.GetRequestID(r.Context()),
		}).Debug("authentication failed")
		return security.Anonymous()
	}

	a.outcome(result.Outcome.String())
	return security.New(p, p.Roles)
}

// extractBearer pulls the token out of the Authorization header. The
// second return reports whether any credential was presented at all.
func extractBearer(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
