package api

import (
	"net/http"

	"github.com/okian/touchline/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler reports liveness along with the current session id.
type HealthHandler struct {
	session interface{ ID() string }
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(session interface{ ID() string }) *HealthHandler {
	return &HealthHandler{session: session}
}

type healthResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

// HandleHealth handles GET /healthz.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", SessionID: h.session.ID()})
}

// MetricsHandler serves the custom Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
