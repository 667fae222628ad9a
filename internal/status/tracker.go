// internal/status/tracker.go
package status

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Tracker folds cycle outcomes into a Snapshot and mirrors it to Prometheus.
// Observe is called by the poll loop; Snapshot may be read from any goroutine.
// A nil *Tracker ignores all calls.
type Tracker struct {
	mu         sync.Mutex
	snap       Snapshot
	errorSince time.Time

	cycles      *prometheus.CounterVec
	health      prometheus.Gauge
	lastError   prometheus.Gauge
	failures    prometheus.Gauge
	lastSuccess prometheus.Gauge
	duration    prometheus.Histogram
}

// NewTracker registers the status metrics on reg.
func NewTracker(reg prometheus.Registerer, device string) (*Tracker, error) {
	labels := prometheus.Labels{"device": device}

	t := &Tracker{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "plc_telemetry_cycles_total",
			Help:        "Poll cycles by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		health: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "plc_telemetry_health",
			Help:        "Device health code (0 unknown, 1 ok, 2 error).",
			ConstLabels: labels,
		}),
		lastError: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "plc_telemetry_last_error_code",
			Help:        "Error code of the last cycle, 0 when healthy.",
			ConstLabels: labels,
		}),
		failures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "plc_telemetry_consecutive_failures",
			Help:        "Failed cycles since the last published record.",
			ConstLabels: labels,
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "plc_telemetry_last_success_timestamp_seconds",
			Help:        "Unix time of the last published record.",
			ConstLabels: labels,
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "plc_telemetry_cycle_duration_seconds",
			Help:        "Wall time of one acquire/decode/publish cycle.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	for _, c := range []prometheus.Collector{t.cycles, t.health, t.lastError, t.failures, t.lastSuccess, t.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	t.snap.Health = HealthUnknown
	return t, nil
}

// Observe records one cycle that started at `at`, took d, and ended with code.
func (t *Tracker) Observe(at time.Time, d time.Duration, code uint16) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cycles.WithLabelValues(ErrorName(code)).Inc()
	t.duration.Observe(d.Seconds())

	if code == ErrorNone {
		// Recovery / OK
		t.snap.Health = HealthOK
		t.snap.LastErrorCode = ErrorNone
		t.snap.SecondsInError = 0
		t.snap.ConsecutiveFailures = 0
		t.snap.LastSuccess = at
		t.errorSince = time.Time{}
	} else {
		if t.snap.Health != HealthError {
			t.errorSince = at
		}
		t.snap.Health = HealthError
		t.snap.LastErrorCode = code
		t.snap.ConsecutiveFailures++

		secs := at.Sub(t.errorSince) / time.Second
		if secs > SecondsInErrorMax {
			secs = SecondsInErrorMax
		}
		t.snap.SecondsInError = uint16(secs)
	}

	t.health.Set(float64(t.snap.Health))
	t.lastError.Set(float64(t.snap.LastErrorCode))
	t.failures.Set(float64(t.snap.ConsecutiveFailures))
	if !t.snap.LastSuccess.IsZero() {
		t.lastSuccess.Set(float64(t.snap.LastSuccess.Unix()))
	}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}
