package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/gatehouse-auth/gatehouse/pkg/httputil"
	"github.com/gatehouse-auth/gatehouse/pkg/middleware"
	"github.com/gatehouse-auth/gatehouse/pkg/observability"
)

// Server assembles the router and the middleware pipeline. Business
// handlers register through RegisterRoutes and sit behind the full chain;
// the rule table decides which of them need which role.
type Server struct {
	router        *mux.Router
	authenticator *middleware.Authenticator
	authorizer    *middleware.Authorizer
	logger        *logrus.Logger
	metrics       *observability.Metrics
}

// NewServer creates a server with the standard middleware chain.
func NewServer(authHandlers *AuthHandlers, authenticator *middleware.Authenticator, authorizer *middleware.Authorizer, logger *logrus.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		router:        mux.NewRouter(),
		authenticator: authenticator,
		authorizer:    authorizer,
		logger:        logger,
		metrics:       metrics,
	}

	authHandlers.RegisterRoutes(s.router)
	s.router.HandleFunc("/healthz", s.healthz).Methods("GET")

	return s
}

// healthz is the liveness probe; the rule table should mark it public.
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]string{"status": "ok"})
}

// RouteRegistrar is an interface for types that can register routes
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// RegisterRoutes registers routes from a RouteRegistrar
func (s *Server) RegisterRoutes(registrar RouteRegistrar) {
	registrar.RegisterRoutes(s.router)
}

// HandleFunc registers a single protected handler.
func (s *Server) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) *mux.Route {
	return s.router.HandleFunc(pattern, handler)
}

// Handler returns the fully wired http.Handler: request ID, logging,
// recovery and metrics outermost, then authenticate, then authorize, then
// the router. Authentication runs before authorization on every request.
func (s *Server) Handler() http.Handler {
	chain := httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger),
		httputil.RecoveryMiddleware(s.logger),
		s.metrics.Middleware,
		s.authenticator.Handler,
		s.authorizer.Handler,
	)
	return chain(s.router)
}
