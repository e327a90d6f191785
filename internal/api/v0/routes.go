// Package v0 provides the REST handlers of the decoration front door.
package v0

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Girbilcannon/DecoToolsHelper/internal/api/common"
	"github.com/Girbilcannon/DecoToolsHelper/internal/logger"
	"github.com/Girbilcannon/DecoToolsHelper/internal/service"
	"github.com/Girbilcannon/DecoToolsHelper/internal/versions"
)

// Routes defines the decoration routes with dependency injection
type Routes struct {
	service service.DecorationService
}

// NewRoutes creates a new Routes instance with the provided service
func NewRoutes(svc service.DecorationService) *Routes {
	return &Routes{
		service: svc,
	}
}

// Router creates the router mounted at /decorations
func Router(svc service.DecorationService) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()
	r.Get("/", routes.getDatabase)
	r.Get("/lookup", routes.lookupDecoration)
	r.Post("/rebuild", routes.rebuild)

	return r
}

// HealthRouter creates a router for health check endpoints
func HealthRouter(svc service.DecorationService) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()
	r.Get("/health", healthHandler)
	r.Get("/readiness", routes.readiness)
	r.Get("/version", versionHandler)
	r.Get("/status", routes.buildStatus)

	return r
}

// getDatabase handles GET /decorations
func (rr *Routes) getDatabase(w http.ResponseWriter, r *http.Request) {
	db, err := rr.service.GetDatabase(r.Context())
	if errors.Is(err, service.ErrNotReady) {
		common.WriteNotReady(w)
		return
	}
	if err != nil {
		logger.Errorf("Failed to get decoration database: %v", err)
		common.WriteErrorResponse(w, "Failed to get decoration database", http.StatusInternalServerError)
		return
	}

	common.WriteJSONResponse(w, db, http.StatusOK)
}

// lookupDecoration handles GET /decorations/lookup?name=
func (rr *Routes) lookupDecoration(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		common.WriteErrorResponse(w, "name query parameter is required", http.StatusBadRequest)
		return
	}

	entry, err := rr.service.LookupDecoration(r.Context(), name)
	switch {
	case errors.Is(err, service.ErrNotReady):
		common.WriteNotReady(w)
	case errors.Is(err, service.ErrDecorationNotFound):
		common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
	case err != nil:
		logger.Errorf("Failed to look up decoration %q: %v", name, err)
		common.WriteErrorResponse(w, "Failed to look up decoration", http.StatusInternalServerError)
	default:
		common.WriteJSONResponse(w, entry, http.StatusOK)
	}
}

// rebuild handles POST /decorations/rebuild. The build runs in the background.
func (rr *Routes) rebuild(w http.ResponseWriter, r *http.Request) {
	err := rr.service.TriggerRebuild(r.Context())
	switch {
	case errors.Is(err, service.ErrRebuildInProgress):
		common.WriteErrorResponse(w, err.Error(), http.StatusConflict)
	case err != nil:
		logger.Errorf("Failed to trigger rebuild: %v", err)
		common.WriteErrorResponse(w, "Failed to trigger rebuild", http.StatusInternalServerError)
	default:
		common.WriteJSONResponse(w, map[string]string{"status": "accepted"}, http.StatusAccepted)
	}
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readiness reports 200 once a decoration database can be served
func (rr *Routes) readiness(w http.ResponseWriter, r *http.Request) {
	if err := rr.service.CheckReadiness(r.Context()); err != nil {
		if !errors.Is(err, service.ErrNotReady) {
			logger.Warnf("Readiness check failed: %v", err)
		}
		common.WriteNotReady(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

// versionHandler handles version information requests
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}

// buildStatus handles GET /status
func (rr *Routes) buildStatus(w http.ResponseWriter, r *http.Request) {
	st, err := rr.service.GetBuildStatus(r.Context())
	if err != nil {
		logger.Errorf("Failed to load build status: %v", err)
		common.WriteErrorResponse(w, "Failed to load build status", http.StatusInternalServerError)
		return
	}
	common.WriteJSONResponse(w, st, http.StatusOK)
}
