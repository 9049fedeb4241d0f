package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/narrate/narrate/internal/api/recovery"
	"github.com/narrate/narrate/internal/auth"
	"github.com/narrate/narrate/internal/health"
	"github.com/narrate/narrate/internal/services"
)

// Deps carries everything the router needs; cmd/narrate-service builds it
// from config and the factories.
type Deps struct {
	Users      *services.UserService
	Entries    *services.EntryService
	Pipeline   SummaryPipeline
	Policy     SummaryPolicy
	Authorizer auth.Authorizer
	Issuer     TokenIssuer
	IsHealthy  func() bool
	StorePing  health.HealthPinger
	Log        zerolog.Logger
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()

	router.Use(recovery.Middleware)

	authHandler := NewAuthHandler(d.Users, d.Issuer)
	summaryHandler := NewSummaryHandler(d.Pipeline, d.Policy, d.Log)
	entryHandler := NewEntryHandler(d.Entries, summaryHandler.InvalidateEligibility)
	healthHandler := NewHealthHandler(d.IsHealthy, d.StorePing)

	// Health endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStorageHealth).Methods("GET")

	// Auth endpoints (no bearer token required)
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Authenticated endpoints
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(AuthMiddleware(d.Authorizer))
	authed.HandleFunc("/entries", entryHandler.CreateEntry).Methods("POST")
	authed.HandleFunc("/entries", entryHandler.ListEntries).Methods("GET")
	authed.HandleFunc("/entries/{entryId}", entryHandler.DeleteEntry).Methods("DELETE")
	authed.HandleFunc("/summary/eligibility", summaryHandler.CheckEligibility).Methods("GET")
	authed.HandleFunc("/summary", summaryHandler.GenerateSummary).Methods("POST")

	return router
}
