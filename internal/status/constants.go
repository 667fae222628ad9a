// internal/status/constants.go
package status

// Health and error codes are exported as metric values and MUST stay stable.

// ---- HEALTH CODES ----

// HealthUnknown is the boot state before the first cycle completes.
const HealthUnknown uint16 = 0

// HealthOK means the last cycle published a record.
const HealthOK uint16 = 1

// HealthError means the last cycle failed.
const HealthError uint16 = 2

// ---- ERROR CODES ----

// ErrorNone is reported for a successful cycle.
const ErrorNone uint16 = 0

// ErrorConnection means no device session could be opened.
const ErrorConnection uint16 = 1

// ErrorRead means the device block read failed.
const ErrorRead uint16 = 2

// ErrorDecode means the block did not match the layout.
const ErrorDecode uint16 = 3

// ErrorRecord means variable names did not match the decoded values.
const ErrorRecord uint16 = 4

// ErrorPublish means the telemetry endpoint did not accept the record.
const ErrorPublish uint16 = 5

// ---- LIMITS ----

// SecondsInErrorMax caps SecondsInError; it never wraps.
const SecondsInErrorMax = 65535

// ErrorName is the metric label for an error code.
func ErrorName(code uint16) string {
	switch code {
	case ErrorNone:
		return "ok"
	case ErrorConnection:
		return "connection"
	case ErrorRead:
		return "read"
	case ErrorDecode:
		return "decode"
	case ErrorRecord:
		return "record"
	case ErrorPublish:
		return "publish"
	default:
		return "unknown"
	}
}
