package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gatehouse-auth/gatehouse/pkg/api"
	"github.com/gatehouse-auth/gatehouse/pkg/auth"
	"github.com/gatehouse-auth/gatehouse/pkg/config"
	"github.com/gatehouse-auth/gatehouse/pkg/middleware"
	"github.com/gatehouse-auth/gatehouse/pkg/observability"
	"github.com/gatehouse-auth/gatehouse/pkg/policy"
	"github.com/gatehouse-auth/gatehouse/pkg/principal"
	"github.com/gatehouse-auth/gatehouse/pkg/revocation"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, os.Stdout)

	// Signing key. Absence or a placeholder secret aborts startup; the
	// process never degrades to an insecure mode.
	keys, err := buildKeyProvider(cfg)
	if err != nil {
		logger.Fatalf("failed to build signing key provider: %v", err)
	}

	codec := auth.NewCodec(keys)
	issuer, err := auth.NewIssuer(codec, cfg.Signing.TokenTTL)
	if err != nil {
		logger.Fatalf("failed to build token issuer: %v", err)
	}

	// Optional revocation denylist.
	var denylist *revocation.Denylist
	if cfg.RevocationEnabled() {
		denylist, err = revocation.New(cfg.Principal.RedisURL)
		if err != nil {
			logger.Fatalf("failed to connect revocation denylist: %v", err)
		}
		defer denylist.Close()
		logger.Info("token revocation denylist enabled")
	}

	var revocationChecker auth.RevocationChecker
	if denylist != nil {
		revocationChecker = denylist
	}
	validator := auth.NewValidator(codec, revocationChecker)

	// Principal store.
	store, credentials, err := buildPrincipalStore(cfg)
	if err != nil {
		logger.Fatalf("failed to build principal store: %v", err)
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	var resolver principal.Resolver = store
	if cfg.Principal.CacheSize > 0 {
		resolver = principal.NewCachingResolver(store, cfg.Principal.CacheSize, cfg.Principal.CacheTTL, cfg.Signing.TokenTTL).
			WithMetrics(metrics.PrincipalCacheHitsTotal.Inc, metrics.PrincipalCacheMissesTotal.Inc)
	}

	// Route rules, loaded once; read-only at request time.
	table, err := policy.LoadTable(cfg.RulesFile)
	if err != nil {
		logger.Fatalf("failed to load route rules: %v", err)
	}
	logger.WithField("rules", table.Len()).Info("route rule table loaded")

	authenticator := middleware.NewAuthenticator(validator, resolver, logger).
		WithOutcomeCounter(func(kind string) {
			metrics.AuthOutcomesTotal.WithLabelValues(kind).Inc()
		})
	authorizer := middleware.NewAuthorizer(policy.NewEngine(table)).
		WithDecisionCounter(func(kind string) {
			metrics.AuthzDecisionsTotal.WithLabelValues(kind).Inc()
		})

	authHandlers := api.NewAuthHandlers(issuer, codec, credentials, denylist, logger).
		WithCounters(metrics.TokensIssuedTotal.Inc, metrics.TokensRevokedTotal.Inc)

	server := api.NewServer(authHandlers, authenticator, authorizer, logger, metrics)

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	healthMux.Handle("/metrics", metrics.Handler())
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", apiServer.Addr).Info("starting gatehouse server")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("starting metrics server")
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		healthServer.Shutdown(shutdownCtx)
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalf("server error: %v", err)
	}
	logger.Info("shutdown complete")
}

// buildKeyProvider constructs the process-wide signing key from config.
func buildKeyProvider(cfg *config.Config) (*auth.KeyProvider, error) {
	if cfg.Signing.Algorithm == "RS256" {
		var privatePEM []byte
		var err error
		if cfg.Signing.RSAPrivateKeyFile != "" {
			privatePEM, err = os.ReadFile(cfg.Signing.RSAPrivateKeyFile)
			if err != nil {
				return nil, err
			}
		}
		publicPEM, err := os.ReadFile(cfg.Signing.RSAPublicKeyFile)
		if err != nil {
			return nil, err
		}
		return auth.NewRSAKeyProvider(privatePEM, publicPEM)
	}
	return auth.NewHMACKeyProvider(cfg.Signing.Algorithm, []byte(cfg.Signing.Secret))
}

// buildPrincipalStore constructs the configured user-store collaborator.
func buildPrincipalStore(cfg *config.Config) (principal.Resolver, principal.CredentialVerifier, error) {
	switch cfg.Principal.Store {
	case "postgres":
		db, err := sql.Open("postgres", cfg.Principal.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			return nil, nil, err
		}
		store := principal.NewPostgresStore(db)
		return store, store, nil
	default:
		store, err := principal.LoadMemoryStore(cfg.Principal.UsersFile)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	}
}
