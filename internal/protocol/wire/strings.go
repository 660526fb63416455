package wire

import (
	"bytes"
	"fmt"
	"strings"
)

// CStringSize is the encoded size of a NUL-terminated string.
func CStringSize(s string) int {
	return len(s) + 1
}

// CString writes s followed by one zero byte. s must not contain a zero byte.
func (w *Writer) CString(s string) error {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return fmt.Errorf("%w at index %d", ErrEmbeddedNul, i)
	}
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
	return nil
}

// CString reads up to the first zero byte, which is consumed but not returned.
func (r *Reader) CString() (string, error) {
	i := bytes.IndexByte(r.buf[r.off:], 0)
	if i < 0 {
		return "", fmt.Errorf("%w at offset %d", ErrUnterminated, r.off)
	}
	s := string(r.buf[r.off : r.off+i])
	r.off += i + 1
	return s, nil
}

// FixedString writes s into exactly size bytes, filling the remainder with
// pad. With nul set, s must leave room for a terminating zero and must not
// contain one.
func (w *Writer) FixedString(s string, size int, pad byte, nul bool) error {
	limit := size
	if nul && limit > 0 {
		limit--
	}
	if len(s) > limit {
		return fmt.Errorf("%w: %d bytes do not fit in %d", ErrValueOutOfRange, len(s), limit)
	}
	if nul {
		if i := strings.IndexByte(s, 0); i >= 0 {
			return fmt.Errorf("%w at index %d", ErrEmbeddedNul, i)
		}
	}
	w.buf = append(w.buf, s...)
	n := len(s)
	if nul && n < size {
		w.buf = append(w.buf, 0)
		n++
	}
	w.Fill(pad, size-n)
	return nil
}

// FixedString reads size bytes. With nul set the text ends at the first zero
// byte; otherwise trailing pad bytes are trimmed.
func (r *Reader) FixedString(size int, pad byte, nul bool) (string, error) {
	b, err := r.Bytes(size)
	if err != nil {
		return "", err
	}
	if nul {
		if i := bytes.IndexByte(b, 0); i >= 0 {
			b = b[:i]
		}
		return string(b), nil
	}
	end := len(b)
	for end > 0 && b[end-1] == pad {
		end--
	}
	return string(b[:end]), nil
}
