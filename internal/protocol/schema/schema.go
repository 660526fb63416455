package schema

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// Layout is a zero-size marker field that carries type-level tag options.
type Layout struct{}

// Endian is a schema byte order.
type Endian uint8

const (
	BigEndian Endian = iota
	LittleEndian
)

func (e Endian) Order() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (e Endian) AppendOrder() binary.AppendByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (e Endian) String() string {
	if e == LittleEndian {
		return "little"
	}
	return "big"
}

// Kind classifies a field descriptor.
type Kind uint8

const (
	KindUint Kind = iota + 1
	KindInt
	KindBool
	KindStruct
	KindCustom
	KindArray
	KindFixedString
	KindCString
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindStruct:
		return "struct"
	case KindCustom:
		return "custom"
	case KindArray:
		return "array"
	case KindFixedString:
		return "fixed_string"
	case KindCString:
		return "cstring"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsPrimitive reports whether fields of this kind have a fixed width.
func (k Kind) IsPrimitive() bool {
	return k == KindUint || k == KindInt || k == KindBool
}

// CountKind says where an array's element count comes from.
type CountKind uint8

const (
	// CountNatural is a Go array's own length.
	CountNatural CountKind = iota + 1
	// CountField reads the count from an earlier integer field.
	CountField
	// CountFixed is a declared constant count.
	CountFixed
	// CountRest consumes the remaining input.
	CountRest
)

// Count describes an array's element count source.
type Count struct {
	Kind  CountKind
	Field int // index into Schema.Fields for CountField
	N     int // element count for CountFixed and CountNatural
}

// MinLength is a type-level minimum encoded length.
type MinLength struct {
	Field int // index into Schema.Fields, or -1 for a constant
	N     int
}

// Field is one wire field.
type Field struct {
	Name  string
	Index int // struct field index; -1 for array elements
	Type  reflect.Type
	Kind  Kind
	Width int // bytes, for primitive kinds
	Endian

	Nested *Schema // KindStruct
	Elem   *Field  // KindArray
	Count  Count   // KindArray

	Size int  // KindFixedString byte size
	Pad  byte // KindFixedString pad byte
	Nul  bool // KindFixedString holds a NUL-terminated value

	Cond   int // index of the bool field gating this one, or -1
	SizeOf int // index of the array this field counts, or -1
}

// Schema is the ordered wire layout of one struct type.
type Schema struct {
	Type   reflect.Type
	Endian Endian
	Fields []Field
	Min    *MinLength
}

// Name is the Go type name the schema was built from.
func (s *Schema) Name() string {
	return s.Type.Name()
}

// FixedSize returns the encoded size when it does not depend on field values.
func (s *Schema) FixedSize() (int, bool) {
	if s.Min != nil && s.Min.Field >= 0 {
		return 0, false
	}
	n := 0
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Cond >= 0 {
			return 0, false
		}
		size, ok := f.fixedSize()
		if !ok {
			return 0, false
		}
		n += size
	}
	if s.Min != nil && n < s.Min.N {
		n = s.Min.N
	}
	return n, true
}

func (f *Field) fixedSize() (int, bool) {
	switch f.Kind {
	case KindUint, KindInt, KindBool:
		return f.Width, true
	case KindFixedString:
		return f.Size, true
	case KindStruct:
		return f.Nested.FixedSize()
	case KindArray:
		if f.Count.Kind != CountNatural && f.Count.Kind != CountFixed {
			return 0, false
		}
		elem, ok := f.Elem.fixedSize()
		return elem * f.Count.N, ok
	default:
		return 0, false
	}
}
