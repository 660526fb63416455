package link

import (
	"sync"
	"sync/atomic"
)

// bufferPool hands out encode buffers and counts outstanding rentals.
type bufferPool struct {
	pool     sync.Pool
	rented   atomic.Int64
	returned atomic.Int64
}

func newBufferPool() *bufferPool {
	return &bufferPool{
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, 0, 512)
				return &b
			},
		},
	}
}

// rent returns an owned buffer of exactly n bytes.
func (p *bufferPool) rent(n int) *ownedBuffer {
	bp := p.pool.Get().(*[]byte)
	if cap(*bp) < n {
		b := make([]byte, n)
		bp = &b
	}
	*bp = (*bp)[:n]
	p.rented.Add(1)
	return &ownedBuffer{pool: p, buf: bp}
}

func (p *bufferPool) outstanding() int64 {
	return p.rented.Load() - p.returned.Load()
}

// ownedBuffer is a rented buffer owned by one send job. It goes back to its
// pool through release, which must run exactly once.
type ownedBuffer struct {
	pool     *bufferPool
	buf      *[]byte
	released atomic.Bool
}

func (o *ownedBuffer) bytes() []byte {
	return *o.buf
}

func (o *ownedBuffer) release() {
	if !o.released.CompareAndSwap(false, true) {
		panic("link: send buffer released twice")
	}
	*o.buf = (*o.buf)[:0]
	o.pool.pool.Put(o.buf)
	o.buf = nil
	o.pool.returned.Add(1)
}
