// internal/layout/reference.go
package layout

// ReferenceBlockSize is the size of the reference data block.
const ReferenceBlockSize = 264

// Reference returns the memory map of the reference packaging-line
// controller: 97 values in a 264 byte data block.
// A fresh slice is returned on every call.
func Reference() Schema {
	s := Schema{
		{Kind: LReal, Count: 5, Offset: 0},
		{Kind: DInt, Count: 1, Offset: 40},
		{Kind: UInt, Count: 1, Offset: 44},
		{Kind: Byte, Count: 6, Offset: 46},
		{Kind: UInt, Count: 7, Offset: 52},
		{Kind: Real, Count: 12, Offset: 66},
		{Kind: UInt, Count: 5, Offset: 114},
		{Kind: Byte, Count: 3, Offset: 124},
		{Kind: UInt, Count: 1, Offset: 128},
		{Kind: Real, Count: 2, Offset: 130},
	}

	// Nine identical 14-byte station groups: 3 status bytes, a counter
	// word and two reals.
	for base := 138; base <= 250; base += 14 {
		s = append(s,
			Field{Kind: Byte, Count: 3, Offset: base},
			Field{Kind: UInt, Count: 1, Offset: base + 4},
			Field{Kind: Real, Count: 2, Offset: base + 6},
		)
	}

	return s
}
