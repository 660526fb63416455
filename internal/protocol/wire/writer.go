package wire

import "encoding/binary"

// Writer appends encoded values to a growing buffer.
type Writer struct {
	buf []byte
}

// NewWriter appends to buf[:len(buf)].
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Len is the number of bytes written so far, including any initial contents.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Uint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) Bool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
		return
	}
	w.buf = append(w.buf, 0)
}

func (w *Writer) Uint16(v uint16, order binary.AppendByteOrder) {
	w.buf = order.AppendUint16(w.buf, v)
}

func (w *Writer) Uint32(v uint32, order binary.AppendByteOrder) {
	w.buf = order.AppendUint32(w.buf, v)
}

func (w *Writer) Uint64(v uint64, order binary.AppendByteOrder) {
	w.buf = order.AppendUint64(w.buf, v)
}

func (w *Writer) Write(b []byte) {
	w.buf = append(w.buf, b...)
}

// Fill appends n copies of b.
func (w *Writer) Fill(b byte, n int) {
	for ; n > 0; n-- {
		w.buf = append(w.buf, b)
	}
}

// PadTo zero-fills until at least min bytes follow start.
func (w *Writer) PadTo(start, min int) {
	if written := len(w.buf) - start; written < min {
		w.Fill(0, min-written)
	}
}
