// internal/poller/types.go
package poller

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/plc-telemetry/internal/record"
)

// Stage names the cycle step a result stopped at.
type Stage uint8

const (
	StageAcquire Stage = iota + 1
	StageDecode
	StagePublish
)

func (s Stage) String() string {
	switch s {
	case StageAcquire:
		return "acquire"
	case StageDecode:
		return "decode"
	case StagePublish:
		return "publish"
	default:
		return "none"
	}
}

// Cycle is the outcome of one poll cycle.
// Err == nil means Record was accepted by the sink.
type Cycle struct {
	ID       uuid.UUID
	At       time.Time
	Duration time.Duration

	// Stage is zero on success.
	Stage  Stage
	Err    error
	Record *record.Record
}

// OK reports whether the cycle published a record.
func (c Cycle) OK() bool { return c.Err == nil }

// ConnectionError means no session could be opened to the device.
type ConnectionError struct {
	Device  string
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("device %s: connect %s: %v", e.Device, e.Address, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ReadError means a session was open but the block read failed.
type ReadError struct {
	Device string
	Block  int
	Offset int
	Length int
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf(
		"device %s: read block=%d offset=%d length=%d: %v",
		e.Device, e.Block, e.Offset, e.Length, e.Err,
	)
}

func (e *ReadError) Unwrap() error { return e.Err }
