package http

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/task-analytics/internal/core/ports"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db        ports.HealthChecker
	cache     ports.HealthChecker
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler. cache may be nil when the
// reference cache is disabled.
func NewHealthHandler(db, cache ports.HealthChecker, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cache:     cache,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Version   string           `json:"version,omitempty"`
	Uptime    string           `json:"uptime,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
}

// Check represents an individual health check result
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

var noStore = map[string]string{"Cache-Control": "no-store"}

// HandleLiveness handles liveness probe requests (is the service running?)
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	WriteJSONWithHeaders(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, noStore)
}

// HandleReadiness handles readiness probe requests (can the service accept traffic?)
// Only the database gates readiness; the cache is optional.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, dbHealthy := h.runChecks(ctx)
	status, code := "healthy", http.StatusOK
	if !dbHealthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	WriteJSONWithHeaders(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
	}, noStore)
}

// HandleHealth handles detailed health check requests (for monitoring/debugging)
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, dbHealthy := h.runChecks(ctx)
	status, code := "healthy", http.StatusOK
	for _, c := range checks {
		if c.Status != "healthy" && c.Status != "disabled" {
			status = "degraded"
		}
	}
	if !dbHealthy {
		code = http.StatusServiceUnavailable
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := struct {
		HealthResponse
		Memory struct {
			Alloc      uint64 `json:"alloc_bytes"`
			TotalAlloc uint64 `json:"total_alloc_bytes"`
			Sys        uint64 `json:"sys_bytes"`
			NumGC      uint32 `json:"num_gc"`
		} `json:"memory"`
		Goroutines int `json:"goroutines"`
	}{
		HealthResponse: HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   h.version,
			Uptime:    time.Since(h.startTime).Round(time.Second).String(),
			Checks:    checks,
		},
		Goroutines: runtime.NumGoroutine(),
	}
	response.Memory.Alloc = memStats.Alloc
	response.Memory.TotalAlloc = memStats.TotalAlloc
	response.Memory.Sys = memStats.Sys
	response.Memory.NumGC = memStats.NumGC

	WriteJSONWithHeaders(w, code, response, noStore)
}

func (h *HealthHandler) runChecks(ctx context.Context) (map[string]Check, bool) {
	checks := map[string]Check{
		"database": ping(ctx, h.db, "Database not configured"),
	}
	if h.cache != nil {
		checks["cache"] = ping(ctx, h.cache, "")
	} else {
		checks["cache"] = Check{Status: "disabled"}
	}
	return checks, checks["database"].Status == "healthy"
}

func ping(ctx context.Context, dep ports.HealthChecker, missing string) Check {
	if dep == nil {
		return Check{Status: "unhealthy", Message: missing}
	}

	start := time.Now()
	err := dep.Ping(ctx)
	latency := time.Since(start)
	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: "healthy", Latency: latency.String()}
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}
