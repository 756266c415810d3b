package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"apptrack/internal/models"
	"apptrack/internal/scheduler"
	"apptrack/internal/storage"
	"apptrack/internal/version"

	"github.com/gorilla/mux"
)

// OnDemandChecker runs a single update check outside the periodic schedule.
// *scheduler.Scheduler satisfies this.
type OnDemandChecker interface {
	CheckNow(ctx context.Context, packageName string) (*models.InstalledApp, models.CheckResult, error)
}

// Handlers contains HTTP handlers for the apptrack API
type Handlers struct {
	store   storage.Store
	checker OnDemandChecker
	version *version.Info
}

// NewHandlers creates a new handlers instance
func NewHandlers(store storage.Store, checker OnDemandChecker, info *version.Info) *Handlers {
	return &Handlers{
		store:   store,
		checker: checker,
		version: info,
	}
}

// ListApps handles app list requests
// GET /api/v1/apps?sort={alphabetical|update|system_update}
func (h *Handlers) ListApps(w http.ResponseWriter, r *http.Request) {
	apps, err := h.store.Apps(r.Context())
	if err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to list apps")
		return
	}

	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = models.SortAlphabetical
	}
	models.SortApps(apps, sort)

	response := models.ListAppsResponse{
		Apps:       make([]models.AppResponse, 0, len(apps)),
		TotalCount: len(apps),
	}
	for _, app := range apps {
		response.Apps = append(response.Apps, models.NewAppResponse(app))
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// GetApp handles single app requests
// GET /api/v1/apps/{package_name}
func (h *Handlers) GetApp(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	packageName := vars["package_name"]

	app, err := h.store.GetApp(r.Context(), packageName)
	if err != nil {
		if errors.Is(err, storage.ErrAppNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, models.ErrorCodeAppNotFound,
				fmt.Sprintf("Package %q is not tracked", packageName))
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to load app")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.NewAppResponse(app))
}

// RegisterApp handles app registration requests
// POST /api/v1/apps
func (h *Handlers) RegisterApp(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterAppRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body")
		return
	}

	if err := req.Validate(); err != nil {
		h.writeErrorResponse(w, http.StatusUnprocessableEntity, models.ErrorCodeValidation, err.Error())
		return
	}

	app := models.NewInstalledApp(req.PackageName, req.Version, req.DisplayName, req.SystemApp)
	if err := h.store.SaveApp(r.Context(), app); err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to save app")
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, models.NewAppResponse(app))
}

// DeleteApp handles app removal requests
// DELETE /api/v1/apps/{package_name}
func (h *Handlers) DeleteApp(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	packageName := vars["package_name"]

	if err := h.store.DeleteApp(r.Context(), packageName); err != nil {
		if errors.Is(err, storage.ErrAppNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, models.ErrorCodeAppNotFound,
				fmt.Sprintf("Package %q is not tracked", packageName))
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to delete app")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CheckApp triggers an immediate update check for one package
// POST /api/v1/apps/{package_name}/check
func (h *Handlers) CheckApp(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	packageName := vars["package_name"]

	app, result, err := h.checker.CheckNow(r.Context(), packageName)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAppNotFound):
			h.writeErrorResponse(w, http.StatusNotFound, models.ErrorCodeAppNotFound,
				fmt.Sprintf("Package %q is not tracked", packageName))
		case errors.Is(err, scheduler.ErrCheckInProgress):
			h.writeErrorResponse(w, http.StatusConflict, models.ErrorCodeCheckInProgress,
				fmt.Sprintf("A check for %q is already running", packageName))
		default:
			h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Check failed")
		}
		return
	}

	response := models.CheckResponse{
		App:    models.NewAppResponse(app),
		Result: result,
	}
	h.writeJSONResponse(w, http.StatusOK, response)
}

// Version reports build information
// GET /api/v1/version
func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, h.version)
}

// HealthCheck handles health check requests
// GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := models.NewHealthCheckResponse(models.StatusHealthy)
	if h.version != nil {
		response.Version = h.version.Version
	}

	if _, err := h.store.Apps(r.Context()); err != nil {
		response.Status = models.StatusDegraded
		response.AddComponent("storage", models.StatusUnhealthy, err.Error())
	} else {
		response.AddComponent("storage", models.StatusHealthy, "Storage is operational")
	}
	response.AddComponent("api", models.StatusHealthy, "API is operational")

	status := http.StatusOK
	if response.Status != models.StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	h.writeJSONResponse(w, status, response)
}

// writeJSONResponse writes a JSON response
func (h *Handlers) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written, nothing more to send.
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

// writeErrorResponse writes an error response
func (h *Handlers) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	errorResp := models.NewErrorResponse(message, errorCode)
	h.writeJSONResponse(w, statusCode, errorResp)
}
