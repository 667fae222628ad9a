// internal/status/server.go
package status

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer exposes /metrics from g and /healthz from t.
// The caller owns ListenAndServe and Shutdown.
func NewServer(addr string, g prometheus.Gatherer, t *Tracker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", HealthHandler(t))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type healthBody struct {
	Health              string `json:"health"`
	LastError           string `json:"last_error"`
	SecondsInError      uint16 `json:"seconds_in_error"`
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
	LastSuccess         string `json:"last_success,omitempty"`
}

// HealthHandler answers 200 unless the last cycle failed, then 503.
func HealthHandler(t *Tracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := t.Snapshot()

		body := healthBody{
			Health:              healthName(s.Health),
			LastError:           ErrorName(s.LastErrorCode),
			SecondsInError:      s.SecondsInError,
			ConsecutiveFailures: s.ConsecutiveFailures,
		}
		if !s.LastSuccess.IsZero() {
			body.LastSuccess = s.LastSuccess.UTC().Format(time.RFC3339)
		}

		w.Header().Set("Content-Type", "application/json")
		if s.Health == HealthError {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(body)
	})
}

func healthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	default:
		return "unknown"
	}
}
