package slp

import (
	"errors"
	"io"
)

const DefaultChunkSize = 4096

// Reader accumulates bytes from an io.Reader and parses packets out of them.
// It keeps unconsumed bytes buffered between reads.
type Reader struct {
	src    io.Reader
	parser Parser
	buf    []byte
	chunk  int
}

func NewReader(src io.Reader, chunkSize int) *Reader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Reader{
		src:   src,
		buf:   make([]byte, 0, chunkSize),
		chunk: chunkSize,
	}
}

// Synced reports whether the underlying parser has locked on.
func (r *Reader) Synced() bool {
	return r.parser.Synced()
}

// Buffered is the number of read but unconsumed bytes.
func (r *Reader) Buffered() int {
	return len(r.buf)
}

// Step performs one read from the source and delivers every packet that became
// complete. It returns the number of bytes read. The source's io.EOF is
// returned once all complete packets before it have been delivered.
func (r *Reader) Step(emit func(Packet) error) (int, error) {
	r.ensureSpace()
	n, readErr := r.src.Read(r.buf[len(r.buf):cap(r.buf)])
	r.buf = r.buf[:len(r.buf)+n]

	consumed, err := r.parser.Parse(r.buf, emit)
	rest := copy(r.buf, r.buf[consumed:])
	r.buf = r.buf[:rest]
	if err != nil {
		return n, err
	}
	if readErr != nil {
		return n, readErr
	}
	return n, nil
}

// ReadAll steps until the source is exhausted. A clean end of stream returns nil.
func (r *Reader) ReadAll(emit func(Packet) error) error {
	for {
		if _, err := r.Step(emit); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (r *Reader) ensureSpace() {
	free := cap(r.buf) - len(r.buf)
	if free >= r.chunk/2 && free > 0 {
		return
	}
	size := 2 * cap(r.buf)
	if size < len(r.buf)+r.chunk {
		size = len(r.buf) + r.chunk
	}
	grown := make([]byte, len(r.buf), size)
	copy(grown, r.buf)
	r.buf = grown
}
