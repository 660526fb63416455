package codec

import (
	"fmt"
	"reflect"

	"github.com/danmuck/hotsync/internal/protocol/schema"
	"github.com/danmuck/hotsync/internal/protocol/wire"
)

// Size returns the encoded size of v.
func Size(v any) (int, error) {
	if m, ok := v.(wire.Marshaler); ok {
		return m.SizeBinary(), nil
	}
	return InterpretSize(v)
}

// Write appends the encoding of v to w.
func Write(w *wire.Writer, v any) error {
	if m, ok := v.(wire.Marshaler); ok {
		return m.WriteBinary(w)
	}
	return InterpretWrite(w, v)
}

// Read decodes into v, which must be a non-nil pointer.
func Read(r *wire.Reader, v any) error {
	if u, ok := v.(wire.Unmarshaler); ok {
		return u.ReadBinary(r)
	}
	return InterpretRead(r, v)
}

// Marshal returns the encoding of v.
func Marshal(v any) ([]byte, error) {
	n, err := Size(v)
	if err != nil {
		return nil, err
	}
	w := wire.NewWriter(make([]byte, 0, n))
	if err := Write(w, v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Unmarshal decodes data into v and returns the number of bytes consumed.
// Trailing bytes are left for the caller.
func Unmarshal(data []byte, v any) (int, error) {
	r := wire.NewReader(data)
	if err := Read(r, v); err != nil {
		return r.Offset(), err
	}
	return r.Offset(), nil
}

// InterpretSize computes the encoded size of v from its schema.
func InterpretSize(v any) (int, error) {
	s, rv, err := resolve(v)
	if err != nil {
		return 0, err
	}
	n, err := sizeStruct(s, rv)
	if err != nil {
		return 0, fmt.Errorf("codec: size %s: %w", s.Type, err)
	}
	return n, nil
}

// InterpretWrite appends v to w by walking its schema.
func InterpretWrite(w *wire.Writer, v any) error {
	s, rv, err := resolve(v)
	if err != nil {
		return err
	}
	if err := writeStruct(w, s, rv); err != nil {
		return fmt.Errorf("codec: write %s: %w", s.Type, err)
	}
	return nil
}

// InterpretRead decodes into the struct v points at by walking its schema.
func InterpretRead(r *wire.Reader, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotPointer
	}
	s, err := schema.For(rv.Type())
	if err != nil {
		return err
	}
	rv = rv.Elem()
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}
	if err := readStruct(r, s, rv); err != nil {
		return fmt.Errorf("codec: read %s: %w", s.Type, err)
	}
	return nil
}

// resolve returns the schema and an addressable struct value for v.
func resolve(v any) (*schema.Schema, reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, rv, ErrNilValue
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, rv, ErrNilValue
		}
		rv = rv.Elem()
	}
	s, err := schema.For(rv.Type())
	if err != nil {
		return nil, rv, err
	}
	if !rv.CanAddr() {
		p := reflect.New(rv.Type())
		p.Elem().Set(rv)
		rv = p.Elem()
	}
	return s, rv, nil
}
