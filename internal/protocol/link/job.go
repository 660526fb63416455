package link

import (
	"context"
	"sync"

	"github.com/danmuck/hotsync/internal/protocol/slp"
)

// SendJob is one queued transmission. Its completion fires exactly once.
type SendJob struct {
	id     uint64
	dest   byte
	src    byte
	typ    byte
	txnID  byte
	size   int
	buf    *ownedBuffer
	once   sync.Once
	done   chan struct{}
	result error
}

func newSendJob(id uint64, p slp.Packet, buf *ownedBuffer) *SendJob {
	return &SendJob{
		id:    id,
		dest:  p.Dest,
		src:   p.Src,
		typ:   p.Type,
		txnID: p.TxnID,
		size:  len(buf.bytes()),
		buf:   buf,
		done:  make(chan struct{}),
	}
}

// ID is the connection-unique, submission-ordered job id.
func (j *SendJob) ID() uint64 {
	return j.id
}

// Size is the encoded packet length.
func (j *SendJob) Size() int {
	return j.size
}

// Done is closed when the job completes.
func (j *SendJob) Done() <-chan struct{} {
	return j.done
}

// Err returns the completion result. It is nil until Done is closed.
func (j *SendJob) Err() error {
	select {
	case <-j.done:
		return j.result
	default:
		return nil
	}
}

// Wait blocks until the job completes or ctx ends.
func (j *SendJob) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.result
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *SendJob) encoded() []byte {
	return j.buf.bytes()
}

// complete releases the buffer and fires completion. It reports whether this
// call was the one that completed the job.
func (j *SendJob) complete(err error) bool {
	fired := false
	j.once.Do(func() {
		j.buf.release()
		j.buf = nil
		j.result = err
		close(j.done)
		fired = true
	})
	return fired
}
