// internal/layout/decode.go
package layout

import (
	"encoding/binary"
	"fmt"
	"math"
)

// OutOfRangeError reports a field element that does not fit in the buffer.
type OutOfRangeError struct {
	Field     int // index into the schema
	Offset    int
	Needed    int
	Available int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf(
		"layout: field %d: read of %d bytes at offset %d exceeds buffer of %d bytes",
		e.Field, e.Needed, e.Offset, e.Available,
	)
}

// Decode turns a raw block into values, in schema order then repetition order.
// All multi-byte values are big-endian.
// Pure: no IO, no side effects, no partial output on error.
func Decode(buf []byte, schema Schema) ([]Value, error) {
	out := make([]Value, 0, schema.Count())

	for fi, f := range schema {
		w := f.Kind.Width()
		if w == 0 {
			return nil, fmt.Errorf("layout: field %d: unknown kind %s", fi, f.Kind)
		}

		for i := 0; i < f.Count; i++ {
			off := f.Offset + i*w
			if off < 0 || off+w > len(buf) {
				return nil, &OutOfRangeError{
					Field:     fi,
					Offset:    off,
					Needed:    w,
					Available: len(buf),
				}
			}
			out = append(out, decodeAt(f.Kind, buf[off:off+w]))
		}
	}

	return out, nil
}

// decodeAt interprets exactly Width() bytes.
func decodeAt(k Kind, b []byte) Value {
	switch k {
	case LReal:
		return LRealValue(math.Float64frombits(binary.BigEndian.Uint64(b)))
	case Real:
		return RealValue(math.Float32frombits(binary.BigEndian.Uint32(b)))
	case DInt:
		return DIntValue(int32(binary.BigEndian.Uint32(b)))
	case UInt:
		return UIntValue(binary.BigEndian.Uint16(b))
	default:
		return ByteValue(b[0])
	}
}
