// internal/layout/value.go
package layout

import (
	"encoding/json"
	"fmt"
	"math"
)

// Value is one decoded scalar. Kind selects which Go type Interface returns.
// The raw bits are kept so equal values compare equal with ==, NaN included.
type Value struct {
	kind Kind
	bits uint64
}

func LRealValue(v float64) Value { return Value{kind: LReal, bits: math.Float64bits(v)} }
func RealValue(v float32) Value  { return Value{kind: Real, bits: uint64(math.Float32bits(v))} }
func DIntValue(v int32) Value    { return Value{kind: DInt, bits: uint64(uint32(v))} }
func UIntValue(v uint16) Value   { return Value{kind: UInt, bits: uint64(v)} }
func ByteValue(v uint8) Value    { return Value{kind: Byte, bits: uint64(v)} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) Float64() float64 { return math.Float64frombits(v.bits) }
func (v Value) Float32() float32 { return math.Float32frombits(uint32(v.bits)) }
func (v Value) Int32() int32     { return int32(uint32(v.bits)) }
func (v Value) Uint16() uint16   { return uint16(v.bits) }
func (v Value) Uint8() uint8     { return uint8(v.bits) }

// Interface returns the value as float64, float32, int32, uint16 or uint8.
func (v Value) Interface() interface{} {
	switch v.kind {
	case LReal:
		return v.Float64()
	case Real:
		return v.Float32()
	case DInt:
		return v.Int32()
	case UInt:
		return v.Uint16()
	case Byte:
		return v.Uint8()
	default:
		return nil
	}
}

func (v Value) String() string {
	return fmt.Sprintf("%s(%v)", v.kind, v.Interface())
}

// MarshalJSON encodes the number at its native width.
// NaN and infinities have no JSON form and are written as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case LReal:
		f := v.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return []byte("null"), nil
		}
	case Real:
		f := float64(v.Float32())
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return []byte("null"), nil
		}
	case KindInvalid:
		return []byte("null"), nil
	}
	return json.Marshal(v.Interface())
}
