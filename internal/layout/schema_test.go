// internal/layout/schema_test.go
package layout

import (
	"encoding/json"
	"math"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestKindWidths(t *testing.T) {
	want := map[Kind]int{LReal: 8, Real: 4, DInt: 4, UInt: 2, Byte: 1, KindInvalid: 0}
	for k, w := range want {
		if got := k.Width(); got != w {
			t.Fatalf("%s width: got=%d want=%d", k, got, w)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"LReal", "lreal", " REAL ", "DInt", "uint", "Byte"} {
		if _, err := ParseKind(s); err != nil {
			t.Fatalf("ParseKind(%q) err=%v", s, err)
		}
	}
	if _, err := ParseKind("word"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestReferenceGeometry(t *testing.T) {
	s := Reference()
	if err := s.Validate(); err != nil {
		t.Fatalf("reference layout invalid: %v", err)
	}
	if got := s.Count(); got != 97 {
		t.Fatalf("reference count: got=%d want=97", got)
	}
	if got := s.Extent(); got != ReferenceBlockSize {
		t.Fatalf("reference extent: got=%d want=%d", got, ReferenceBlockSize)
	}

	// Callers may mutate their copy.
	s[0].Count = 1
	if Reference()[0].Count != 5 {
		t.Fatalf("Reference must return a fresh schema")
	}
}

func TestSchemaValidate(t *testing.T) {
	cases := []struct {
		name   string
		schema Schema
		ok     bool
	}{
		{"empty", Schema{}, false},
		{"zero count", Schema{{Kind: UInt, Count: 0}}, false},
		{"negative offset", Schema{{Kind: UInt, Count: 1, Offset: -2}}, false},
		{"invalid kind", Schema{{Kind: Kind(42), Count: 1}}, false},
		{"overlap allowed", Schema{{Kind: UInt, Count: 1}, {Kind: Byte, Count: 2}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.schema.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestSchemaFromYAML(t *testing.T) {
	src := `
- {kind: lreal, count: 5, offset: 0}
- {kind: DInt, count: 1, offset: 40}
- {kind: uint, count: 1, offset: 44}
`
	var s Schema
	if err := yaml.Unmarshal([]byte(src), &s); err != nil {
		t.Fatalf("yaml err=%v", err)
	}
	if len(s) != 3 || s[1].Kind != DInt || s[2].Offset != 44 {
		t.Fatalf("unexpected schema: %+v", s)
	}
	if s.Extent() != 46 {
		t.Fatalf("extent: got=%d want=46", s.Extent())
	}

	if err := yaml.Unmarshal([]byte("- {kind: word, count: 1}"), &s); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestValueJSON(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{LRealValue(3.14159), "3.14159"},
		{RealValue(0.1), "0.1"},
		{DIntValue(-7), "-7"},
		{UIntValue(72), "72"},
		{ByteValue(255), "255"},
		{LRealValue(math.NaN()), "null"},
		{RealValue(float32(math.Inf(-1))), "null"},
	}
	for _, tc := range cases {
		b, err := json.Marshal(tc.v)
		if err != nil {
			t.Fatalf("marshal %v err=%v", tc.v, err)
		}
		if string(b) != tc.want {
			t.Fatalf("marshal %v: got=%s want=%s", tc.v, b, tc.want)
		}
	}
}
