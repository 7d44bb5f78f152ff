package rest

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lexmatter/infrastructure/di"
	"lexmatter/interfaces/http/rest/handlers"
	"lexmatter/interfaces/http/rest/middleware"
	legacy "lexmatter/interfaces/http/rest/v1"
	pkgerrors "lexmatter/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(versionMiddleware)

	if rt.container.Config.EnableTracing {
		router.Use(middleware.Tracing(rt.container.Tracer))
	}

	if rt.container.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.lexmatter.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health and metrics
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.container.Config.EnableMetrics {
		router.Handle("/metrics", promhttp.HandlerFor(rt.container.Collector.Registry(), promhttp.HandlerOpts{}))
	}

	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.container.Config.IsDevelopment())

	matterHandler := handlers.NewMatterHandler(
		rt.container.Handlers.CreateMatter,
		rt.container.Handlers.UpdateMatter,
		rt.container.CommandBus,
		rt.container.QueryBus,
		errorHandler,
		rt.logger,
	)
	documentHandler := handlers.NewDocumentHandler(
		rt.container.Handlers.CreateDocument,
		rt.container.Handlers.RenameDocument,
		rt.container.Handlers.CheckInDoc,
		rt.container.CommandBus,
		rt.container.QueryBus,
		errorHandler,
		rt.logger,
	)
	transferHandler := handlers.NewTransferHandler(rt.container.Handlers.Transfer, errorHandler, rt.container.Metrics, rt.logger)
	auditHandler := handlers.NewAuditHandler(rt.container.QueryBus, errorHandler, rt.logger)

	// API v1 routes (current)
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.container.JWTValidator, rt.logger))
		r.Use(middleware.DistributedRateLimit(rt.container.RateLimiter, rt.logger))
		r.Use(middleware.RecordUser(rt.container.UserRepo, rt.logger))

		r.Route("/matters", func(r chi.Router) {
			r.Post("/", matterHandler.CreateMatter)
			r.Get("/", matterHandler.ListMatters)
			r.Get("/{matterID}", matterHandler.GetMatter)
			r.Put("/{matterID}", matterHandler.UpdateMatter)
			r.Delete("/{matterID}", matterHandler.DeleteMatter)
			r.Post("/{matterID}/archive", matterHandler.ArchiveMatter)
			r.Post("/{matterID}/unarchive", matterHandler.UnarchiveMatter)
			r.Post("/{matterID}/restore", matterHandler.RestoreMatter)
			r.Get("/{matterID}/audit", auditHandler.MatterAudit)
			r.Get("/{matterID}/transfers", auditHandler.MatterTransfers)

			r.Post("/{matterID}/documents", documentHandler.CreateDocument)
			r.Get("/{matterID}/documents", documentHandler.ListDocuments)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/{documentID}", documentHandler.GetDocument)
			r.Delete("/{documentID}", documentHandler.DeleteDocument)
			r.Put("/{documentID}", documentHandler.RenameDocument)
			// Alias kept for clients that still use the v0 path shape.
			r.Put("/{documentID}/name", documentHandler.RenameDocument)
			r.Post("/{documentID}/restore", documentHandler.RestoreDocument)
			r.Post("/{documentID}/checkout", documentHandler.CheckOutDocument)
			r.Delete("/{documentID}/checkout", documentHandler.CancelCheckOut)
			r.Post("/{documentID}/checkin", documentHandler.CheckInDocument)
			r.Get("/{documentID}/revisions", documentHandler.ListRevisions)
			r.Get("/{documentID}/audit", auditHandler.DocumentAudit)
			r.Get("/{documentID}/transfers", auditHandler.DocumentTransfers)
		})

		r.Post("/transfers", transferHandler.Transfer)
	})

	// Legacy v0 API kept for clients that predate the v1 surface
	router.Mount("/api/v0", legacy.NewRouter(
		matterHandler,
		documentHandler,
		transferHandler,
		auditHandler,
		rt.container.JWTValidator,
		rt.logger,
	))

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version := "v1"
		if strings.Contains(r.URL.Path, "/api/v0") {
			version = "v0"
		}

		w.Header().Set("X-API-Version", version)
		w.Header().Set("X-API-Latest", "v1")
		w.Header().Set("X-API-Deprecated", "false")

		if version == "v0" {
			w.Header().Set("X-API-Deprecated", "true")
			w.Header().Set("X-API-Sunset-Date", "2026-12-01")
		}

		next.ServeHTTP(w, r)
	})
}
