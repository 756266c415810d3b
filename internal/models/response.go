package models

import (
	"fmt"
	"strings"
	"time"
)

// RegisterAppRequest is the payload for adding a package to the tracked set.
type RegisterAppRequest struct {
	PackageName string `json:"package_name"`
	DisplayName string `json:"display_name,omitempty"`
	Version     string `json:"version"`
	SystemApp   bool   `json:"system_app,omitempty"`
}

// Validate checks the request fields.
func (r *RegisterAppRequest) Validate() error {
	if strings.TrimSpace(r.PackageName) == "" {
		return fmt.Errorf("package_name is required")
	}
	if strings.ContainsAny(r.PackageName, " /") {
		return fmt.Errorf("package_name must not contain spaces or slashes")
	}
	if strings.TrimSpace(r.Version) == "" {
		return fmt.Errorf("version is required")
	}
	return nil
}

// AppResponse is the wire representation of a tracked application.
type AppResponse struct {
	PackageName     string     `json:"package_name"`
	DisplayName     string     `json:"display_name,omitempty"`
	Version         string     `json:"version"`
	LatestVersion   string     `json:"latest_version,omitempty"`
	FatalError      bool       `json:"fatal_error"`
	LastCheck       *time.Time `json:"last_check,omitempty"`
	SystemApp       bool       `json:"system_app"`
	UpdateAvailable bool       `json:"update_available"`
}

// NewAppResponse builds the wire representation for an app record.
func NewAppResponse(app *InstalledApp) AppResponse {
	return AppResponse{
		PackageName:     app.PackageName,
		DisplayName:     app.DisplayName,
		Version:         app.Version,
		LatestVersion:   app.LatestVersion,
		FatalError:      app.FatalError,
		LastCheck:       app.LastCheck,
		SystemApp:       app.SystemApp,
		UpdateAvailable: app.IsUpdateAvailable(),
	}
}

// ListAppsResponse is the payload for the app list endpoint.
type ListAppsResponse struct {
	Apps       []AppResponse `json:"apps"`
	TotalCount int           `json:"total_count"`
}

// CheckResponse is the payload returned by an on-demand check.
type CheckResponse struct {
	App    AppResponse `json:"app"`
	Result CheckResult `json:"result"`
}

// ErrorResponse is the standard error payload for all endpoints.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewErrorResponse creates an error response with the current timestamp.
func NewErrorResponse(message string, code string) *ErrorResponse {
	return &ErrorResponse{
		Error:     "error",
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UTC(),
	}
}

// HealthCheckResponse reports overall service health.
type HealthCheckResponse struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// ComponentHealth reports the health of a single subsystem.
type ComponentHealth struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewHealthCheckResponse creates a health response with the current timestamp.
func NewHealthCheckResponse(status string) *HealthCheckResponse {
	return &HealthCheckResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

// AddComponent records the health of a named subsystem.
func (h *HealthCheckResponse) AddComponent(name, status, message string) {
	if h.Components == nil {
		h.Components = make(map[string]ComponentHealth)
	}
	h.Components[name] = ComponentHealth{
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// Health status constants.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

// Machine-readable error codes.
const (
	ErrorCodeNotFound        = "NOT_FOUND"         // 404: Resource doesn't exist
	ErrorCodeAppNotFound     = "APP_NOT_FOUND"     // 404: Package isn't tracked
	ErrorCodeBadRequest      = "BAD_REQUEST"       // 400: Invalid request format
	ErrorCodeInvalidRequest  = "INVALID_REQUEST"   // 400: Invalid request data
	ErrorCodeValidation      = "VALIDATION_ERROR"  // 422: Input validation failed
	ErrorCodeInternalError   = "INTERNAL_ERROR"    // 500: Server-side error
	ErrorCodeConflict        = "CONFLICT"          // 409: Resource conflict
	ErrorCodeCheckInProgress = "CHECK_IN_PROGRESS" // 409: Check already running
)
