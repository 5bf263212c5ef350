package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/gatehouse-auth/gatehouse/pkg/auth"
	"github.com/gatehouse-auth/gatehouse/pkg/contextkeys"
	"github.com/gatehouse-auth/gatehouse/pkg/httputil"
	"github.com/gatehouse-auth/gatehouse/pkg/principal"
	"github.com/gatehouse-auth/gatehouse/pkg/revocation"
	"github.com/gatehouse-auth/gatehouse/pkg/security"
)

// AuthHandlers implements the login boundary and the token-holder
// endpoints (whoami, logout).
type AuthHandlers struct {
	issuer      *auth.Issuer
	codec       *auth.Codec
	credentials principal.CredentialVerifier
	denylist    *revocation.Denylist
	logger      *logrus.Logger
	issued      func()
	revoked     func()
}

// NewAuthHandlers creates the auth handler set. denylist may be nil; the
// logout route is only registered when it is present.
func NewAuthHandlers(issuer *auth.Issuer, codec *auth.Codec, credentials principal.CredentialVerifier, denylist *revocation.Denylist, logger *logrus.Logger) *AuthHandlers {
	return &AuthHandlers{
		issuer:      issuer,
		codec:       codec,
		credentials: credentials,
		denylist:    denylist,
		logger:      logger,
		issued:      func() {},
		revoked:     func() {},
	}
}

// WithCounters registers issuance/revocation callbacks, typically
// Prometheus counter increments.
func (h *AuthHandlers) WithCounters(issued, revoked func()) *AuthHandlers {
	if issued != nil {
		h.issued = issued
	}
	if revoked != nil {
		h.revoked = revoked
	}
	return h
}

// RegisterRoutes registers authentication routes
func (h *AuthHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/login", h.login).Methods("POST")
	router.HandleFunc("/auth/whoami", h.whoami).Methods("GET")
	if h.denylist != nil {
		router.HandleFunc("/auth/logout", h.logout).Methods("POST")
	}
}

// loginResponse is the login boundary's success shape.
type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	Subject   string    `json:"subject"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expires_at"`
}

// login handles POST /auth/login. Bad credentials always produce the same
// generic response: whether the identifier or the secret was wrong is
// never revealed.
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Username, "username") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Password, "password") {
		return
	}

	p, err := h.credentials.VerifyCredentials(r.Context(), req.Username, req.Password)
	if err != nil || !p.Enabled {
		h.logger.WithField("username", req.Username).Debug("login failed")
		httputil.WriteUnauthorized(w, "invalid credentials")
		return
	}

	token, claims, err := h.issuer.Issue(p.Subject, p.Roles)
	if err != nil {
		h.logger.WithError(err).Error("token issuance failed")
		httputil.WriteInternalError(w, err)
		return
	}

	h.issued()
	httputil.WriteSuccess(w, loginResponse{
		Token:     token,
		TokenType: auth.TokenType,
		Subject:   claims.Subject,
		Roles:     p.Roles,
		ExpiresAt: claims.ExpiresAt,
	})
}

// whoami handles GET /auth/whoami. It reads the resolved principal from
// the security context, never from a client-supplied header. The route is
// expected to sit behind an any-authenticated rule; the anonymous check is
// a backstop for misconfigured rule tables.
func (h *AuthHandlers) whoami(w http.ResponseWriter, r *http.Request) {
	sc := security.FromContext(r.Context())
	if !sc.Authenticated() {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"subject":     sc.Subject(),
		"username":    sc.Principal().Username,
		"authorities": sc.Authorities(),
	})
}

// logout handles POST /auth/logout by denylisting the presented token's
// jti until its natural expiry.
func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	sc := security.FromContext(r.Context())
	if !sc.Authenticated() {
		httputil.WriteUnauthorized(w, "authentication required")
		return
	}

	// The authentication stage already verified this token's signature;
	// decode recovers the jti and expiry for the denylist entry.
	token := contextkeys.GetBearerToken(r.Context())
	claims, err := h.codec.Decode(token)
	if err != nil || claims.ID == "" {
		httputil.WriteBadRequest(w, "token cannot be revoked")
		return
	}

	if err := h.denylist.Revoke(r.Context(), claims.ID, claims.ExpiresAt); err != nil {
		h.logger.WithError(err).Error("revocation failed")
		httputil.WriteInternalError(w, err)
		return
	}

	h.revoked()
	httputil.WriteNoContent(w)
}
