package rest

import (
	"context"
	"net/http"
	"time"
)

const pingTimeout = 3 * time.Second

// pinger is satisfied by every stats backend.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness, readiness and health probes.
type HealthHandler struct {
	storage pinger
	driver  string
	version string
	now     func() time.Time
}

// NewHealthHandler creates a HealthHandler. driver names the storage backend
// in the /health component list.
func NewHealthHandler(storage pinger, driver, version string) *HealthHandler {
	return &HealthHandler{storage: storage, driver: driver, version: version, now: time.Now}
}

// HealthResponse is the JSON body of every probe.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of one dependency.
type CompStatus struct {
	Status  string `json:"status"`
	Driver  string `json:"driver,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Live always answers 200.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: h.now()})
}

// Ready answers 200 when the storage backend responds, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	comp := h.check(r.Context())
	status := http.StatusOK
	if comp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: comp.Status, Timestamp: h.now()})
}

// Health is Ready plus version and per-component latency.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	comp := h.check(r.Context())
	status := http.StatusOK
	if comp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status:     comp.Status,
		Version:    h.version,
		Components: map[string]CompStatus{"storage": comp},
		Timestamp:  h.now(),
	})
}

func (h *HealthHandler) check(ctx context.Context) CompStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := h.now()
	if err := h.storage.Ping(ctx); err != nil {
		return CompStatus{Status: "down", Driver: h.driver}
	}
	return CompStatus{Status: "ok", Driver: h.driver, Latency: h.now().Sub(start).String()}
}
