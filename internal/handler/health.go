package handler

import (
	"net/http"
	"time"

	"tradehub-api/internal/cache"
	"tradehub-api/internal/repository"
	"tradehub-api/pkg/response"
)

// StartTime tracks when the server started for uptime calculation
var StartTime = time.Now()

// HealthHandler reports liveness and readiness.
type HealthHandler struct {
	store repository.Store
	cache cache.Cache
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(store repository.Store, c cache.Cache) *HealthHandler {
	return &HealthHandler{store: store, cache: c}
}

// StatusResponse is the public liveness body.
type StatusResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Status handles GET /api/status (public liveness).
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.OK(w, StatusResponse{
		Status: "online",
		Uptime: time.Since(StartTime).Round(time.Second).String(),
	})
}

// Check represents an individual readiness check.
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ReadyResponse is the readiness body.
type ReadyResponse struct {
	Ready     bool      `json:"ready"`
	Timestamp time.Time `json:"timestamp"`
	Checks    []Check   `json:"checks"`
}

// Ready handles GET /healthz: verifies the store and session cache.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{Ready: true, Timestamp: time.Now().UTC()}

	check := func(name string, err error) {
		c := Check{Name: name, Status: "ok"}
		if err != nil {
			c.Status = "unavailable"
			resp.Ready = false
		}
		resp.Checks = append(resp.Checks, c)
	}

	check("store", h.store.Ping(r.Context()))
	check("cache", h.cache.Ping(r.Context()))

	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, resp)
}
