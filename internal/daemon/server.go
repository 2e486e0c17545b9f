package daemon

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHandler serves /metrics from reg and /health from health.
func NewHandler(reg *prometheus.Registry, health *HealthChecker) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := health.Check()
		w.Header().Set("Content-Type", "application/json")
		if !status.IsHealthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(status)
	})
	return mux
}

// NewServer wraps NewHandler in an http.Server listening on addr.
func NewServer(addr string, reg *prometheus.Registry, health *HealthChecker) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewHandler(reg, health),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
