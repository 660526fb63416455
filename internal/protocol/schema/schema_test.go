package schema

import (
	"encoding/binary"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/danmuck/hotsync/internal/protocol/wire"
	"github.com/danmuck/hotsync/internal/testutil/testlog"
)

type header struct {
	_       Layout `binary:"little,min=12"`
	Version uint16
	Flags   uint32 `binary:"big"`
	Ready   bool
}

type record struct {
	Count    uint8
	HasExtra bool
	Extra    uint32   `binary:"if=HasExtra"`
	Items    []uint16 `binary:"len=Count"`
	Head     header
	Name     string `binary:"cstring"`
	Tag      string `binary:"size=4,pad=0x20"`
	Skipped  int    `binary:"-"`
	hidden   uint8
	Tail     []byte `binary:"len=rest"`
}

type sized struct {
	_      Layout `binary:"min=Length"`
	Length uint16
	Kind   uint8
}

type stamp struct{ v uint32 }

func (s stamp) SizeBinary() int { return 4 }
func (s stamp) WriteBinary(w *wire.Writer) error {
	w.Uint32(s.v, binary.BigEndian)
	return nil
}
func (s *stamp) ReadBinary(r *wire.Reader) error { return nil }

type withCustom struct {
	When stamp
	ID   uint8
}

type generatedish struct {
	A uint8
}

func (generatedish) SizeBinary() int                  { return 1 }
func (generatedish) WriteBinary(w *wire.Writer) error { return nil }
func (*generatedish) ReadBinary(r *wire.Reader) error { return nil }
func (generatedish) GeneratedBinary()                 {}

func TestForBuildsOrderedFields(t *testing.T) {
	testlog.Start(t)

	s, err := Of[record]()
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	var names []string
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	want := []string{"Count", "HasExtra", "Extra", "Items", "Head", "Name", "Tag", "Tail"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected field order: got=%v want=%v", names, want)
	}

	if s.Fields[2].Cond != 1 {
		t.Fatalf("Extra should be gated by HasExtra: %+v", s.Fields[2])
	}
	items := s.Fields[3]
	if items.Kind != KindArray || items.Count.Kind != CountField || items.Count.Field != 0 {
		t.Fatalf("unexpected Items descriptor: %+v", items)
	}
	if s.Fields[0].SizeOf != 3 {
		t.Fatalf("Count should record the array it sizes: %+v", s.Fields[0])
	}
	if items.Elem.Kind != KindUint || items.Elem.Width != 2 {
		t.Fatalf("unexpected Items element: %+v", items.Elem)
	}
	if s.Fields[5].Kind != KindCString {
		t.Fatalf("Name should be a cstring: %v", s.Fields[5].Kind)
	}
	if tag := s.Fields[6]; tag.Kind != KindFixedString || tag.Size != 4 || tag.Pad != 0x20 {
		t.Fatalf("unexpected Tag descriptor: %+v", tag)
	}
	if tail := s.Fields[7]; tail.Count.Kind != CountRest {
		t.Fatalf("Tail should consume the rest: %+v", tail)
	}
}

func TestLayoutEndiannessAndMinimum(t *testing.T) {
	testlog.Start(t)

	s, err := Of[header]()
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	if s.Endian != LittleEndian {
		t.Fatalf("expected little-endian default")
	}
	if s.Fields[0].Endian != LittleEndian || s.Fields[1].Endian != BigEndian {
		t.Fatalf("field endianness not resolved: %+v", s.Fields)
	}
	if s.Min == nil || s.Min.Field != -1 || s.Min.N != 12 {
		t.Fatalf("unexpected minimum: %+v", s.Min)
	}
	if n, ok := s.FixedSize(); !ok || n != 12 {
		t.Fatalf("FixedSize = %d,%v want 12,true", n, ok)
	}

	dyn, err := Of[sized]()
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	if dyn.Min == nil || dyn.Min.Field != 0 {
		t.Fatalf("unexpected field minimum: %+v", dyn.Min)
	}
	if _, ok := dyn.FixedSize(); ok {
		t.Fatalf("field-driven minimum cannot have a fixed size")
	}
}

func TestForIsMemoized(t *testing.T) {
	testlog.Start(t)

	a, err := For(reflect.TypeFor[record]())
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	b, err := For(reflect.TypeFor[*record]())
	if err != nil {
		t.Fatalf("For pointer: %v", err)
	}
	if a != b {
		t.Fatalf("expected the same schema instance")
	}
	if a.Fields[4].Nested != mustSchema(t, reflect.TypeFor[header]()) {
		t.Fatalf("nested schema should be shared with the cache")
	}
}

func mustSchema(t *testing.T, typ reflect.Type) *Schema {
	t.Helper()
	s, err := For(typ)
	if err != nil {
		t.Fatalf("For(%v): %v", typ, err)
	}
	return s
}

func TestCustomPrecedence(t *testing.T) {
	testlog.Start(t)

	s, err := Of[withCustom]()
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	if s.Fields[0].Kind != KindCustom {
		t.Fatalf("stamp should be custom, got %v", s.Fields[0].Kind)
	}
	if IsCustom(reflect.TypeFor[generatedish]()) {
		t.Fatalf("generated types are schema-bearing")
	}
	if !IsCustom(reflect.TypeFor[stamp]()) {
		t.Fatalf("stamp should be custom")
	}
}

type badOrder struct {
	Items []uint8 `binary:"len=Count"`
	Count uint8
}

type badCond struct {
	Flag  uint8
	Value uint8 `binary:"if=Flag"`
}

type badRest struct {
	Tail []uint8 `binary:"len=rest"`
	More uint8
}

type badString struct {
	Name string
}

type badKind struct {
	N int
}

type badTag struct {
	N uint8 `binary:"sideways"`
}

type badMin struct {
	_ Layout `binary:"min=Missing"`
	N uint8
}

type lateLayout struct {
	A uint16
	_ Layout `binary:"little"`
	B uint16
}

type layoutWithFieldOption struct {
	_ Layout `binary:"little,cstring"`
	N uint8
}

type minOnField struct {
	M uint8 `binary:"min=4"`
	X uint8
}

type signedMin struct {
	_ Layout `binary:"min=M"`
	M int8
}

type wideMin struct {
	_ Layout `binary:"min=M"`
	M uint32
}

type badShared struct {
	N uint8
	A []uint8 `binary:"len=N"`
	B []uint8 `binary:"len=N"`
}

func TestBuildErrors(t *testing.T) {
	testlog.Start(t)

	cases := []struct {
		typ    reflect.Type
		reason string
	}{
		{reflect.TypeFor[badOrder](), "declared earlier"},
		{reflect.TypeFor[badCond](), "not a bool"},
		{reflect.TypeFor[badRest](), "last field"},
		{reflect.TypeFor[badString](), "cstring or size"},
		{reflect.TypeFor[badKind](), "unsupported kind"},
		{reflect.TypeFor[badTag](), "unknown option"},
		{reflect.TypeFor[badMin](), "not found"},
		{reflect.TypeFor[badShared](), "already counts"},
		{reflect.TypeFor[lateLayout](), "first field"},
		{reflect.TypeFor[layoutWithFieldOption](), "only byte order and min"},
		{reflect.TypeFor[minOnField](), "only valid on the Layout field"},
		{reflect.TypeFor[signedMin](), "uint8 or uint16"},
		{reflect.TypeFor[wideMin](), "uint8 or uint16"},
		{reflect.TypeFor[uint16](), "must be structs"},
	}
	for _, tc := range cases {
		_, err := For(tc.typ)
		var schemaErr *Error
		if !errors.As(err, &schemaErr) {
			t.Fatalf("%v: expected *Error, got %v", tc.typ, err)
		}
		if !strings.Contains(err.Error(), tc.reason) {
			t.Fatalf("%v: error %q does not mention %q", tc.typ, err, tc.reason)
		}
		again, _ := For(tc.typ)
		if again != nil {
			t.Fatalf("%v: failed build should stay failed", tc.typ)
		}
	}
}
