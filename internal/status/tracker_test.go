// internal/status/tracker_test.go
package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestTracker(t *testing.T) (*Tracker, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	tr, err := NewTracker(reg, "plc-1")
	if err != nil {
		t.Fatalf("NewTracker err=%v", err)
	}
	return tr, reg
}

func TestTracker_InitialUnknown(t *testing.T) {
	tr, _ := newTestTracker(t)
	if s := tr.Snapshot(); s.Health != HealthUnknown {
		t.Fatalf("expected unknown health on start, got %d", s.Health)
	}
}

func TestTracker_ErrorThenRecovery(t *testing.T) {
	tr, _ := newTestTracker(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tr.Observe(t0, time.Second, ErrorConnection)
	tr.Observe(t0.Add(60*time.Second), time.Second, ErrorPublish)

	s := tr.Snapshot()
	if s.Health != HealthError || s.LastErrorCode != ErrorPublish {
		t.Fatalf("unexpected snapshot after errors: %+v", s)
	}
	if s.SecondsInError != 60 {
		t.Fatalf("seconds_in_error: got=%d want=60", s.SecondsInError)
	}
	if s.ConsecutiveFailures != 2 {
		t.Fatalf("consecutive failures: got=%d want=2", s.ConsecutiveFailures)
	}
	if got := testutil.ToFloat64(tr.cycles.WithLabelValues("connection")); got != 1 {
		t.Fatalf("connection cycles: got=%f want=1", got)
	}
	if got := testutil.ToFloat64(tr.health); got != float64(HealthError) {
		t.Fatalf("health gauge: got=%f", got)
	}

	ok := t0.Add(120 * time.Second)
	tr.Observe(ok, time.Second, ErrorNone)

	s = tr.Snapshot()
	if s.Health != HealthOK || s.LastErrorCode != 0 || s.SecondsInError != 0 || s.ConsecutiveFailures != 0 {
		t.Fatalf("snapshot not reset on recovery: %+v", s)
	}
	if !s.LastSuccess.Equal(ok) {
		t.Fatalf("last success: got=%v want=%v", s.LastSuccess, ok)
	}
	if got := testutil.ToFloat64(tr.lastSuccess); got != float64(ok.Unix()) {
		t.Fatalf("last success gauge: got=%f", got)
	}
	if n := testutil.CollectAndCount(tr.duration); n != 1 {
		t.Fatalf("expected one duration histogram, got %d", n)
	}
}

func TestTracker_SecondsInErrorSaturates(t *testing.T) {
	tr, _ := newTestTracker(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tr.Observe(t0, 0, ErrorRead)
	tr.Observe(t0.Add(48*time.Hour), 0, ErrorRead)

	if s := tr.Snapshot(); s.SecondsInError != SecondsInErrorMax {
		t.Fatalf("seconds_in_error must saturate, got %d", s.SecondsInError)
	}
}

func TestTracker_NilIsNoop(t *testing.T) {
	var tr *Tracker
	tr.Observe(time.Now(), 0, ErrorDecode)
	if s := tr.Snapshot(); s != (Snapshot{}) {
		t.Fatalf("nil tracker should report zero snapshot")
	}
}

func TestTracker_DoubleRegisterFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewTracker(reg, "plc-1"); err != nil {
		t.Fatalf("first register err=%v", err)
	}
	if _, err := NewTracker(reg, "plc-1"); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestHealthHandler(t *testing.T) {
	tr, _ := newTestTracker(t)
	h := HealthHandler(tr)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unknown health should be 200, got %d", rr.Code)
	}

	tr.Observe(time.Now(), 0, ErrorDecode)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("error health should be 503, got %d", rr.Code)
	}

	var body healthBody
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Health != "error" || body.LastError != "decode" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
