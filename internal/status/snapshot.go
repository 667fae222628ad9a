// internal/status/snapshot.go
package status

import "time"

// Snapshot is the device health as of the last observed cycle.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health              uint16
	LastErrorCode       uint16
	SecondsInError      uint16
	ConsecutiveFailures uint32
	LastSuccess         time.Time
}
