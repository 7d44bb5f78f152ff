// Package v1 keeps the original flat API surface alive for clients that
// have not migrated to the chi-routed v1 endpoints.
package v1

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"lexmatter/interfaces/http/rest/handlers"
	"lexmatter/interfaces/http/rest/middleware"
	"lexmatter/pkg/auth"
)

// NewRouter creates the legacy v0 API router
func NewRouter(
	matterHandler *handlers.MatterHandler,
	documentHandler *handlers.DocumentHandler,
	transferHandler *handlers.TransferHandler,
	auditHandler *handlers.AuditHandler,
	validator *auth.JWTValidator,
	logger *zap.Logger,
) *mux.Router {
	router := mux.NewRouter()
	v0 := router.PathPrefix("/api/v0").Subrouter()

	v0.Use(mux.MiddlewareFunc(middleware.Authenticate(validator, logger)))
	v0.Use(versionHeaders)

	// Matter endpoints
	v0.HandleFunc("/matters", matterHandler.CreateMatter).Methods("POST")
	v0.HandleFunc("/matters", matterHandler.ListMatters).Methods("GET")
	v0.HandleFunc("/matters/{matterID}", matterHandler.GetMatter).Methods("GET")
	v0.HandleFunc("/matters/{matterID}", matterHandler.UpdateMatter).Methods("PUT")
	v0.HandleFunc("/matters/{matterID}", matterHandler.DeleteMatter).Methods("DELETE")
	v0.HandleFunc("/matters/{matterID}/archive", matterHandler.ArchiveMatter).Methods("POST")
	v0.HandleFunc("/matters/{matterID}/unarchive", matterHandler.UnarchiveMatter).Methods("POST")
	v0.HandleFunc("/matters/{matterID}/restore", matterHandler.RestoreMatter).Methods("POST")
	v0.HandleFunc("/matters/{matterID}/audit", auditHandler.MatterAudit).Methods("GET")
	v0.HandleFunc("/matters/{matterID}/transfers", auditHandler.MatterTransfers).Methods("GET")

	// Document endpoints
	v0.HandleFunc("/matters/{matterID}/documents", documentHandler.CreateDocument).Methods("POST")
	v0.HandleFunc("/matters/{matterID}/documents", documentHandler.ListDocuments).Methods("GET")
	v0.HandleFunc("/documents/{documentID}", documentHandler.GetDocument).Methods("GET")
	v0.HandleFunc("/documents/{documentID}", documentHandler.DeleteDocument).Methods("DELETE")
	v0.HandleFunc("/documents/{documentID}/name", documentHandler.RenameDocument).Methods("PUT")
	v0.HandleFunc("/documents/{documentID}/restore", documentHandler.RestoreDocument).Methods("POST")
	v0.HandleFunc("/documents/{documentID}/checkout", documentHandler.CheckOutDocument).Methods("POST")
	v0.HandleFunc("/documents/{documentID}/checkout", documentHandler.CancelCheckOut).Methods("DELETE")
	v0.HandleFunc("/documents/{documentID}/checkin", documentHandler.CheckInDocument).Methods("POST")
	v0.HandleFunc("/documents/{documentID}/revisions", documentHandler.ListRevisions).Methods("GET")
	v0.HandleFunc("/documents/{documentID}/audit", auditHandler.DocumentAudit).Methods("GET")
	v0.HandleFunc("/documents/{documentID}/transfers", auditHandler.DocumentTransfers).Methods("GET")

	// Transfer endpoint
	v0.HandleFunc("/transfers", transferHandler.Transfer).Methods("POST")

	// Health check
	v0.HandleFunc("/health", healthCheck).Methods("GET")

	return router
}

// versionHeaders adds API version headers to responses
func versionHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", "v0")
		w.Header().Set("X-API-Deprecated", "true")
		next.ServeHTTP(w, r)
	})
}

// healthCheck provides a health check endpoint
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","version":"v0"}`))
}
