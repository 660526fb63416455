package codec

import (
	"fmt"
	"math"
	"reflect"

	"github.com/danmuck/hotsync/internal/protocol/schema"
	"github.com/danmuck/hotsync/internal/protocol/wire"
)

var byteType = reflect.TypeFor[uint8]()

func present(s *schema.Schema, f *schema.Field, v reflect.Value) bool {
	return f.Cond < 0 || v.Field(s.Fields[f.Cond].Index).Bool()
}

func minimum(s *schema.Schema, v reflect.Value) (int, error) {
	if s.Min.Field < 0 {
		return s.Min.N, nil
	}
	f := &s.Fields[s.Min.Field]
	n, err := intValue(f, v.Field(f.Index))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f.Name, err)
	}
	return n, nil
}

// intValue reads an integer field as a non-negative length.
func intValue(f *schema.Field, v reflect.Value) (int, error) {
	if f.Kind == schema.KindInt {
		n := v.Int()
		if n < 0 {
			return 0, fmt.Errorf("%w: negative length %d", wire.ErrValueOutOfRange, n)
		}
		return int(n), nil
	}
	n := v.Uint()
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: length %d", wire.ErrValueOutOfRange, n)
	}
	return int(n), nil
}

func sizeStruct(s *schema.Schema, v reflect.Value) (int, error) {
	n := 0
	for i := range s.Fields {
		f := &s.Fields[i]
		if !present(s, f, v) {
			continue
		}
		size, err := sizeValue(f, v.Field(f.Index))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", f.Name, err)
		}
		n += size
	}
	if s.Min != nil {
		m, err := minimum(s, v)
		if err != nil {
			return 0, err
		}
		n = max(n, m)
	}
	return n, nil
}

func sizeValue(f *schema.Field, v reflect.Value) (int, error) {
	switch f.Kind {
	case schema.KindUint, schema.KindInt, schema.KindBool:
		return f.Width, nil
	case schema.KindCString:
		return wire.CStringSize(v.String()), nil
	case schema.KindFixedString:
		return f.Size, nil
	case schema.KindCustom:
		return v.Addr().Interface().(wire.Marshaler).SizeBinary(), nil
	case schema.KindStruct:
		return sizeStruct(f.Nested, v)
	case schema.KindArray:
		count := v.Len()
		if f.Count.Kind == schema.CountFixed && count != f.Count.N {
			return 0, fmt.Errorf("%w: have %d elements, want %d", wire.ErrFixedSizeMismatch, count, f.Count.N)
		}
		if f.Elem.Kind.IsPrimitive() {
			return count * f.Elem.Width, nil
		}
		n := 0
		for i := 0; i < count; i++ {
			size, err := sizeValue(f.Elem, v.Index(i))
			if err != nil {
				return 0, fmt.Errorf("[%d]: %w", i, err)
			}
			n += size
		}
		return n, nil
	}
	return 0, fmt.Errorf("unhandled kind %v", f.Kind)
}

func writeStruct(w *wire.Writer, s *schema.Schema, v reflect.Value) error {
	start := w.Len()
	for i := range s.Fields {
		f := &s.Fields[i]
		if !present(s, f, v) {
			continue
		}
		fv := v.Field(f.Index)
		var err error
		if f.SizeOf >= 0 {
			err = writeLength(w, f, v.Field(s.Fields[f.SizeOf].Index).Len())
		} else {
			err = writeValue(w, f, fv)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	if s.Min != nil {
		m, err := minimum(s, v)
		if err != nil {
			return err
		}
		w.PadTo(start, m)
	}
	return nil
}

// writeLength encodes n in a count field, replacing the field's own value.
func writeLength(w *wire.Writer, f *schema.Field, n int) error {
	bits := f.Width * 8
	limit := uint64(1)<<bits - 1
	if f.Kind == schema.KindInt {
		limit >>= 1
	}
	if bits == 64 {
		limit = math.MaxInt64
	}
	if uint64(n) > limit {
		return fmt.Errorf("%w: %d elements do not fit in %d bytes", wire.ErrValueOutOfRange, n, f.Width)
	}
	writeUint(w, f, uint64(n))
	return nil
}

func writeUint(w *wire.Writer, f *schema.Field, u uint64) {
	order := f.Endian.AppendOrder()
	switch f.Width {
	case 1:
		w.Uint8(uint8(u))
	case 2:
		w.Uint16(uint16(u), order)
	case 4:
		w.Uint32(uint32(u), order)
	default:
		w.Uint64(u, order)
	}
}

func writeValue(w *wire.Writer, f *schema.Field, v reflect.Value) error {
	switch f.Kind {
	case schema.KindUint:
		writeUint(w, f, v.Uint())
	case schema.KindInt:
		writeUint(w, f, uint64(v.Int()))
	case schema.KindBool:
		w.Bool(v.Bool())
	case schema.KindCString:
		return w.CString(v.String())
	case schema.KindFixedString:
		return w.FixedString(v.String(), f.Size, f.Pad, f.Nul)
	case schema.KindCustom:
		return v.Addr().Interface().(wire.Marshaler).WriteBinary(w)
	case schema.KindStruct:
		return writeStruct(w, f.Nested, v)
	case schema.KindArray:
		count := v.Len()
		if f.Count.Kind == schema.CountFixed && count != f.Count.N {
			return fmt.Errorf("%w: have %d elements, want %d", wire.ErrFixedSizeMismatch, count, f.Count.N)
		}
		if f.Elem.Type == byteType && v.Kind() == reflect.Slice {
			w.Write(v.Bytes())
			return nil
		}
		for i := 0; i < count; i++ {
			if err := writeValue(w, f.Elem, v.Index(i)); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unhandled kind %v", f.Kind)
	}
	return nil
}

func readStruct(r *wire.Reader, s *schema.Schema, v reflect.Value) error {
	start := r.Offset()
	for i := range s.Fields {
		f := &s.Fields[i]
		if !present(s, f, v) {
			continue
		}
		fv := v.Field(f.Index)
		count := -1
		if f.Kind == schema.KindArray && f.Count.Kind == schema.CountField {
			src := &s.Fields[f.Count.Field]
			n, err := intValue(src, v.Field(src.Index))
			if err != nil {
				return fmt.Errorf("%s: %w", f.Name, err)
			}
			count = n
		}
		if err := readValue(r, f, fv, count); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	if s.Min != nil {
		m, err := minimum(s, v)
		if err != nil {
			return err
		}
		return r.SkipTo(start, m)
	}
	return nil
}

func readUint(r *wire.Reader, f *schema.Field) (uint64, error) {
	order := f.Endian.Order()
	switch f.Width {
	case 1:
		v, err := r.Uint8()
		return uint64(v), err
	case 2:
		v, err := r.Uint16(order)
		return uint64(v), err
	case 4:
		v, err := r.Uint32(order)
		return uint64(v), err
	default:
		return r.Uint64(order)
	}
}

// readValue decodes one field. count is the element count for arrays sized by
// another field and is ignored otherwise.
func readValue(r *wire.Reader, f *schema.Field, v reflect.Value, count int) error {
	switch f.Kind {
	case schema.KindUint:
		u, err := readUint(r, f)
		if err != nil {
			return err
		}
		v.SetUint(u)
	case schema.KindInt:
		u, err := readUint(r, f)
		if err != nil {
			return err
		}
		v.SetInt(signExtend(u, f.Width))
	case schema.KindBool:
		b, err := r.Bool()
		if err != nil {
			return err
		}
		v.SetBool(b)
	case schema.KindCString:
		s, err := r.CString()
		if err != nil {
			return err
		}
		v.SetString(s)
	case schema.KindFixedString:
		s, err := r.FixedString(f.Size, f.Pad, f.Nul)
		if err != nil {
			return err
		}
		v.SetString(s)
	case schema.KindCustom:
		return v.Addr().Interface().(wire.Unmarshaler).ReadBinary(r)
	case schema.KindStruct:
		return readStruct(r, f.Nested, v)
	case schema.KindArray:
		return readArray(r, f, v, count)
	default:
		return fmt.Errorf("unhandled kind %v", f.Kind)
	}
	return nil
}

func readArray(r *wire.Reader, f *schema.Field, v reflect.Value, count int) error {
	switch f.Count.Kind {
	case schema.CountNatural, schema.CountFixed:
		count = f.Count.N
	case schema.CountRest:
		return readRest(r, f, v)
	}
	if least := minElemSize(f.Elem); least > 0 && count > r.Remaining()/least {
		return fmt.Errorf("%w: %d elements of at least %d bytes, have %d", wire.ErrShortBuffer, count, least, r.Remaining())
	}

	if v.Kind() == reflect.Slice {
		if count == 0 {
			v.SetZero()
			return nil
		}
		if f.Elem.Type == byteType {
			b, err := r.Bytes(count)
			if err != nil {
				return err
			}
			v.SetBytes(append([]byte(nil), b...))
			return nil
		}
		v.Set(reflect.MakeSlice(v.Type(), count, count))
	}
	for i := 0; i < count; i++ {
		if err := readValue(r, f.Elem, v.Index(i), -1); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

// readRest decodes elements until the input is exhausted.
func readRest(r *wire.Reader, f *schema.Field, v reflect.Value) error {
	if r.Remaining() == 0 {
		v.SetZero()
		return nil
	}
	if f.Elem.Type == byteType {
		b, err := r.Bytes(r.Remaining())
		if err != nil {
			return err
		}
		v.SetBytes(append([]byte(nil), b...))
		return nil
	}
	out := reflect.MakeSlice(v.Type(), 0, 0)
	for i := 0; r.Remaining() > 0; i++ {
		elem := reflect.New(v.Type().Elem()).Elem()
		before := r.Offset()
		if err := readValue(r, f.Elem, elem, -1); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
		if r.Offset() == before {
			return fmt.Errorf("[%d]: element consumed no input", i)
		}
		out = reflect.Append(out, elem)
	}
	v.Set(out)
	return nil
}

func minElemSize(f *schema.Field) int {
	switch f.Kind {
	case schema.KindUint, schema.KindInt, schema.KindBool:
		return f.Width
	case schema.KindFixedString:
		return f.Size
	case schema.KindCString:
		return 1
	case schema.KindStruct:
		if n, ok := f.Nested.FixedSize(); ok {
			return n
		}
	}
	return 0
}

func signExtend(u uint64, width int) int64 {
	switch width {
	case 1:
		return int64(int8(u))
	case 2:
		return int64(int16(u))
	case 4:
		return int64(int32(u))
	default:
		return int64(u)
	}
}
