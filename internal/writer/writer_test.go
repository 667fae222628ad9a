// internal/writer/writer_test.go
package writer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tamzrod/plc-telemetry/internal/layout"
	"github.com/tamzrod/plc-telemetry/internal/record"
)

func testRecord(t *testing.T) *record.Record {
	t.Helper()
	rec, err := record.Build(
		time.Date(2024, 3, 1, 13, 15, 0, 0, time.UTC),
		time.UTC,
		[]string{"ts", "level"},
		[]layout.Value{layout.UIntValue(72)},
	)
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}
	return rec
}

type seen struct {
	calls  int
	auth   string
	ctype  string
	body   string
	method string
}

type capture struct {
	mu sync.Mutex
	seen
}

func newServer(t *testing.T, status int, reply string, c *capture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.calls++
		c.auth = r.Header.Get("Authorization")
		c.ctype = r.Header.Get("Content-Type")
		c.method = r.Method
		b, _ := io.ReadAll(r.Body)
		c.body = string(b)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (c *capture) snapshot() seen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seen
}

func TestPost_Created(t *testing.T) {
	c := &capture{}
	srv := newServer(t, http.StatusCreated, `{"id":1}`, c)

	core, logs := observer.New(zap.InfoLevel)
	w, err := New(Config{URL: srv.URL, Token: "abc", Verbose: true}, zap.New(core).Sugar())
	if err != nil {
		t.Fatalf("New err=%v", err)
	}

	if err := w.Post(context.Background(), testRecord(t)); err != nil {
		t.Fatalf("Post err=%v", err)
	}

	got := c.snapshot()
	if got.calls != 1 || got.method != http.MethodPost {
		t.Fatalf("expected one POST, got calls=%d method=%s", got.calls, got.method)
	}
	if got.auth != "Token abc" {
		t.Fatalf("authorization header: got=%q", got.auth)
	}
	if got.ctype != "application/json" {
		t.Fatalf("content type: got=%q", got.ctype)
	}
	if want := `{"ts":"2024-03-01T13:15:00+0000","level":72}`; got.body != want {
		t.Fatalf("body: got=%s want=%s", got.body, want)
	}
	if logs.FilterMessage("record accepted").Len() != 1 {
		t.Fatalf("verbose mode should log accepted records")
	}
}

func TestPost_QuietWhenNotVerbose(t *testing.T) {
	srv := newServer(t, http.StatusCreated, "", &capture{})

	core, logs := observer.New(zap.DebugLevel)
	w, err := New(Config{URL: srv.URL, Token: "abc"}, zap.New(core).Sugar())
	if err != nil {
		t.Fatalf("New err=%v", err)
	}
	if err := w.Post(context.Background(), testRecord(t)); err != nil {
		t.Fatalf("Post err=%v", err)
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no logs, got %d", logs.Len())
	}
}

func TestPost_NonCreatedIsFailure(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError} {
		c := &capture{}
		srv := newServer(t, status, "  nope \n", c)

		w, err := New(Config{URL: srv.URL, Token: "abc"}, nil)
		if err != nil {
			t.Fatalf("New err=%v", err)
		}

		err = w.Post(context.Background(), testRecord(t))

		var pe *PublishError
		if !errors.As(err, &pe) {
			t.Fatalf("status %d: expected PublishError, got %v", status, err)
		}
		if pe.Status != status || pe.Body != "nope" || pe.Transport() {
			t.Fatalf("status %d: unexpected error %+v", status, *pe)
		}
		if n := c.snapshot().calls; n != 1 {
			t.Fatalf("status %d: expected exactly one call, got %d", status, n)
		}
	}
}

func TestPost_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	w, err := New(Config{URL: url, Timeout: time.Second}, nil)
	if err != nil {
		t.Fatalf("New err=%v", err)
	}

	err = w.Post(context.Background(), testRecord(t))

	var pe *PublishError
	if !errors.As(err, &pe) || !pe.Transport() {
		t.Fatalf("expected transport PublishError, got %v", err)
	}
}

func TestPost_LongBodyTruncated(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, strings.Repeat("x", 3*maxBodyLog), &capture{})

	w, err := New(Config{URL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("New err=%v", err)
	}

	var pe *PublishError
	if err := w.Post(context.Background(), testRecord(t)); !errors.As(err, &pe) {
		t.Fatalf("expected PublishError, got %v", err)
	}
	if len(pe.Body) != maxBodyLog {
		t.Fatalf("body len: got=%d want=%d", len(pe.Body), maxBodyLog)
	}
}

func TestNew_RejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "ftp://host/x", "http://", "::bad"} {
		if _, err := New(Config{URL: u}, nil); err == nil {
			t.Fatalf("expected error for url %q", u)
		}
	}
}
