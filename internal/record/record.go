// internal/record/record.go
package record

import (
	"fmt"
	"time"

	"github.com/iancoleman/orderedmap"

	"github.com/tamzrod/plc-telemetry/internal/layout"
)

// TimestampLayout is ISO-8601 with a numeric UTC offset (e.g. 2024-03-01T08:15:00-0500).
const TimestampLayout = "2006-01-02T15:04:05-0700"

// ArityMismatchError means the configured names do not line up with the
// decoded values. Expected counts the timestamp slot.
type ArityMismatchError struct {
	Expected int
	Actual   int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("record: %d variable names for %d slots (timestamp + values)", e.Actual, e.Expected)
}

// DuplicateNameError means a name labels more than one slot, which would
// drop the earlier entry from the record.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("record: variable name %q used more than once", e.Name)
}

// CheckNames verifies names can label a timestamp plus n values.
func CheckNames(names []string, n int) error {
	if len(names) != n+1 {
		return &ArityMismatchError{Expected: n + 1, Actual: len(names)}
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return &DuplicateNameError{Name: name}
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Record is one named, ordered reading set. The first entry is the timestamp.
type Record struct {
	m *orderedmap.OrderedMap
}

// Build zips names with a timestamp and values.
// names[0] labels the timestamp, names[i+1] labels values[i].
// ts is rendered in loc; loc must not be nil.
func Build(ts time.Time, loc *time.Location, names []string, values []layout.Value) (*Record, error) {
	if err := CheckNames(names, len(values)); err != nil {
		return nil, err
	}

	m := orderedmap.New()
	m.Set(names[0], ts.In(loc).Format(TimestampLayout))
	for i, v := range values {
		m.Set(names[i+1], v)
	}

	return &Record{m: m}, nil
}

// Keys returns entry names in order.
func (r *Record) Keys() []string {
	return r.m.Keys()
}

// Len is the number of entries, timestamp included.
func (r *Record) Len() int {
	return len(r.m.Keys())
}

// Timestamp returns the formatted timestamp entry.
func (r *Record) Timestamp() string {
	keys := r.m.Keys()
	if len(keys) == 0 {
		return ""
	}
	v, _ := r.m.Get(keys[0])
	s, _ := v.(string)
	return s
}

// Value looks up a decoded value by name.
func (r *Record) Value(name string) (layout.Value, bool) {
	v, ok := r.m.Get(name)
	if !ok {
		return layout.Value{}, false
	}
	lv, ok := v.(layout.Value)
	return lv, ok
}

// MarshalJSON writes the entries as one JSON object in record order.
func (r *Record) MarshalJSON() ([]byte, error) {
	return r.m.MarshalJSON()
}
