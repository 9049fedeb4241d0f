package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/narrate/narrate/internal/api"
	"github.com/narrate/narrate/internal/auth"
	"github.com/narrate/narrate/internal/config"
	"github.com/narrate/narrate/internal/factory"
	"github.com/narrate/narrate/internal/health"
	"github.com/narrate/narrate/internal/logger"
	"github.com/narrate/narrate/internal/services"
	"github.com/narrate/narrate/internal/summary"
)

func main() {
	// Optional db-driver flag override (postgres | sqlite)
	dbDriver := flag.String("db-driver", "", "Override NARRATE_DB_DRIVER (postgres, sqlite)")
	flag.Parse()

	log := logger.New("narrate-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *dbDriver != "" {
		cfg.DBDriver = *dbDriver
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid db-driver override")
		}
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Str("provider", cfg.Provider).
		Int("http_port", cfg.HTTPPort).
		Msg("Narrate service starting…")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// -------- Storage layer -----------------
	st, storePing, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Store unavailable")
	}

	// -------- Generative provider -----------
	prov := factory.NewProvider(ctx, cfg, log)

	// -------- Health monitor ----------------
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second
	var checkers []health.HealthChecker
	if storePing != nil {
		checkers = append(checkers, health.NewPingChecker("store", storePing, log))
	}
	if provPing, ok := prov.(health.HealthPinger); ok {
		checkers = append(checkers, health.NewPingChecker("provider", provPing, log))
	}
	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	for _, c := range checkers {
		go c.Start(ctx, interval)
	}
	go svcHealth.Start(ctx, interval)

	// -------- Sessions ----------------------
	var authorizer auth.Authorizer
	var issuer api.TokenIssuer
	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			log.Fatal().Msg("NARRATE_JWT_SECRET is required in production")
		}
		log.Warn().Msg("No JWT secret configured; using local dev authorizer")
		authorizer = auth.NewMockAuthorizer()
		issuer = localDevIssuer{}
	} else {
		jwtAuth := auth.NewJWTAuthorizer([]byte(cfg.JWTSecret), cfg.TokenTTL())
		authorizer = jwtAuth
		issuer = jwtAuth
	}

	// -------- Router & Server ---------------
	pipeline := summary.NewPipeline(st.Entries(), prov, log)
	router := api.NewRouter(api.Deps{
		Users:    services.NewUserService(st),
		Entries:  services.NewEntryService(st),
		Pipeline: pipeline,
		Policy: api.SummaryPolicy{
			MaxAttempts: cfg.SummaryMaxAttempts,
			RetryDelay:  cfg.SummaryRetryDelay(),
			CacheTTL:    cfg.EligibilityCacheTTL(),
		},
		Authorizer: authorizer,
		Issuer:     issuer,
		IsHealthy:  svcHealth.IsHealthy,
		StorePing:  storePing,
		Log:        log,
	})

	// The summary endpoint can legitimately hold a request for several
	// provider attempts; the write timeout has to cover the full budget.
	writeTimeout := cfg.ProviderTimeout()*time.Duration(cfg.SummaryMaxAttempts) +
		cfg.SummaryRetryDelay()*time.Duration(cfg.SummaryMaxAttempts) + 15*time.Second

	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	stop()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// localDevIssuer hands out the fixed dev token recognized by MockAuthorizer.
type localDevIssuer struct{}

func (localDevIssuer) IssueToken(string) (string, error) { return auth.LocalDevToken, nil }
