// internal/writer/types.go
package writer

import (
	"context"
	"fmt"
	"time"

	"github.com/tamzrod/plc-telemetry/internal/record"
)

// Writer delivers one record to the telemetry endpoint.
type Writer interface {
	Post(ctx context.Context, rec *record.Record) error
}

// Config is the telemetry endpoint config.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration

	// Verbose logs accepted records too, not only failures.
	Verbose bool
}

// PublishError is a record the endpoint did not accept.
// Either Status is set (the endpoint answered with something other than
// 201) or Cause is set (the request never got an answer).
type PublishError struct {
	URL    string
	Status int
	Body   string
	Cause  error
}

func (e *PublishError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("publish %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("publish %s: status %d: %s", e.URL, e.Status, e.Body)
}

func (e *PublishError) Unwrap() error { return e.Cause }

// Transport reports whether no HTTP status was received.
func (e *PublishError) Transport() bool { return e.Cause != nil }
