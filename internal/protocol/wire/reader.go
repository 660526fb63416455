package wire

import (
	"encoding/binary"
	"fmt"
)

// Reader consumes encoded values from a byte slice. Slices it returns alias
// the underlying buffer.
type Reader struct {
	buf []byte
	off int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset is the number of bytes consumed.
func (r *Reader) Offset() int {
	return r.off
}

func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) need(n int) error {
	if n < 0 || r.Remaining() < n {
		return fmt.Errorf("%w: need %d at offset %d, have %d", ErrShortBuffer, n, r.off, r.Remaining())
	}
	return nil
}

func (r *Reader) Uint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

// Bool decodes one byte; any nonzero value is true.
func (r *Reader) Bool() (bool, error) {
	v, err := r.Uint8()
	return v != 0, err
}

func (r *Reader) Uint16(order binary.ByteOrder) (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := order.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

func (r *Reader) Uint32(order binary.ByteOrder) (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := order.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *Reader) Uint64(order binary.ByteOrder) (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := order.Uint64(r.buf[r.off:])
	r.off += 8
	return v, nil
}

// Bytes returns a view of the next n bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.off += n
	return nil
}

// SkipTo advances until at least min bytes have been consumed since start.
func (r *Reader) SkipTo(start, min int) error {
	if consumed := r.off - start; consumed < min {
		return r.Skip(min - consumed)
	}
	return nil
}
