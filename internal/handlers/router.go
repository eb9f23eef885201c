package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/construbase/invoicepipe/internal/buildinfo"
	"github.com/construbase/invoicepipe/internal/database"
	"github.com/construbase/invoicepipe/internal/middleware"
	"github.com/construbase/invoicepipe/internal/pipeline"
)

// Router wraps the mux router with its collaborators
type Router struct {
	*mux.Router
	db           *database.DB
	orchestrator *pipeline.Orchestrator
}

// NewRouter creates the HTTP router with all routes
func NewRouter(db *database.DB, orchestrator *pipeline.Orchestrator, jwtSecret string) *Router {
	r := &Router{
		Router:       mux.NewRouter(),
		db:           db,
		orchestrator: orchestrator,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Webhook routes (protected when a secret is configured)
	webhook := r.PathPrefix("/webhook").Subrouter()
	webhook.Use(middleware.AuthMiddleware(jwtSecret))
	webhook.HandleFunc("/process-drive-file", r.processDriveFile).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "invoicepipe",
		"version": buildinfo.Version,
	})
}

// getStatus reports database connectivity and build details
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	status := "connected"
	sqlDB, err := r.db.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		status = "unavailable"
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":   "running",
		"database": status,
		"commit":   buildinfo.CommitHash,
		"started":  buildinfo.StartTime,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
