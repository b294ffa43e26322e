package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// storePinger defines the minimal interface for state store health checks.
type storePinger interface {
	Ping(ctx context.Context) error
}

// indexStatus reports the reading index load state.
type indexStatus interface {
	Ready() bool
	Len() int
	Err() error
}

// Component statuses.
const (
	statusOK       = "ok"
	statusDown     = "down"
	statusLoading  = "loading"
	statusDegraded = "degraded"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	store   storePinger
	index   indexStatus
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(store storePinger, index indexStatus, version string) *HealthHandler {
	return &HealthHandler{store: store, index: index, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Entries *int   `json:"entries,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    statusOK,
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. Pings the state store: 200 if OK, 503 if not.
// The reading index is not required: annotation works (with empty readings)
// while it loads or after it failed.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    statusDown,
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    statusOK,
		Timestamp: time.Now(),
	})
}

// Health is the full health check: store ping with latency, reading index
// state and version. A failed index load degrades the status but keeps 200.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus)
	overallStatus := statusOK

	start := time.Now()
	err := h.store.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		components["store"] = CompStatus{Status: statusDown}
		overallStatus = statusDown
	} else {
		components["store"] = CompStatus{
			Status:  statusOK,
			Latency: latency.String(),
		}
	}

	index := h.indexComponent()
	components["reading_index"] = index
	if index.Status == statusDegraded && overallStatus == statusOK {
		overallStatus = statusDegraded
	}

	status := http.StatusOK
	if overallStatus == statusDown {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) indexComponent() CompStatus {
	if !h.index.Ready() {
		return CompStatus{Status: statusLoading}
	}
	entries := h.index.Len()
	if err := h.index.Err(); err != nil {
		return CompStatus{Status: statusDegraded, Entries: &entries, Error: err.Error()}
	}
	return CompStatus{Status: statusOK, Entries: &entries}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
