// internal/layout/schema.go
package layout

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the scalar encoding of one schema field.
type Kind uint8

const (
	KindInvalid Kind = iota
	LReal            // 8 bytes, IEEE-754 double
	Real             // 4 bytes, IEEE-754 single
	DInt             // 4 bytes, signed int32
	UInt             // 2 bytes, unsigned int16
	Byte             // 1 byte, unsigned int8
)

var kindNames = map[Kind]string{
	LReal: "lreal",
	Real:  "real",
	DInt:  "dint",
	UInt:  "uint",
	Byte:  "byte",
}

// Width returns the encoded size in bytes, or 0 for an unknown kind.
func (k Kind) Width() int {
	switch k {
	case LReal:
		return 8
	case Real, DInt:
		return 4
	case UInt:
		return 2
	case Byte:
		return 1
	default:
		return 0
	}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind accepts the controller type names case-insensitively.
func ParseKind(s string) (Kind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == want {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("layout: unknown kind %q", s)
}

// UnmarshalYAML lets layouts be written as `kind: lreal`.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML mirrors UnmarshalYAML.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Field describes Count consecutive values of one Kind starting at Offset.
type Field struct {
	Kind   Kind `yaml:"kind"`
	Count  int  `yaml:"count"`
	Offset int  `yaml:"offset"`
}

// end is the first byte past the field.
func (f Field) end() int {
	return f.Offset + f.Count*f.Kind.Width()
}

// Schema is the ordered memory layout of one raw block.
// Geometry only: no names, no semantics.
type Schema []Field

// Count is the number of values a successful Decode yields.
func (s Schema) Count() int {
	n := 0
	for _, f := range s {
		n += f.Count
	}
	return n
}

// Extent is the minimum buffer length the schema can be decoded from.
func (s Schema) Extent() int {
	max := 0
	for _, f := range s {
		if e := f.end(); e > max {
			max = e
		}
	}
	return max
}

// Validate checks the schema is decodable in principle.
// Overlapping fields are allowed; the device layout owns that decision.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return errors.New("layout: schema has no fields")
	}
	for i, f := range s {
		if f.Kind.Width() == 0 {
			return fmt.Errorf("layout: field %d: unknown kind %s", i, f.Kind)
		}
		if f.Count <= 0 {
			return fmt.Errorf("layout: field %d: count must be > 0", i)
		}
		if f.Offset < 0 {
			return fmt.Errorf("layout: field %d: offset must be >= 0", i)
		}
	}
	return nil
}
