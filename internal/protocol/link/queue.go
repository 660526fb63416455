package link

import (
	"context"
	"sync"
)

// sendQueue is the FIFO between senders and the write loop.
type sendQueue struct {
	mu     sync.Mutex
	items  []*SendJob
	closed bool
	max    int
	notify chan struct{}
}

func newSendQueue(max int) *sendQueue {
	return &sendQueue{
		max:    max,
		notify: make(chan struct{}, 1),
	}
}

func (q *sendQueue) push(j *SendJob) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	if q.max > 0 && len(q.items) >= q.max {
		q.mu.Unlock()
		return ErrQueueFull
	}
	q.items = append(q.items, j)
	q.mu.Unlock()
	q.wake()
	return nil
}

// pop returns the oldest job, waiting for one if needed. It returns
// errQueueDone once the queue is complete and empty.
func (q *sendQueue) pop(ctx context.Context) (*SendJob, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			j := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return j, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return nil, errQueueDone
		}

		select {
		case <-q.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// remove takes j out of the queue if it has not been popped yet.
func (q *sendQueue) remove(j *SendJob) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, item := range q.items {
		if item == j {
			copy(q.items[i:], q.items[i+1:])
			q.items[len(q.items)-1] = nil
			q.items = q.items[:len(q.items)-1]
			return true
		}
	}
	return false
}

// complete stops further pushes. Queued jobs are still handed out.
func (q *sendQueue) complete() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

// drain completes the queue and returns every job still in it, oldest first.
func (q *sendQueue) drain() []*SendJob {
	q.mu.Lock()
	q.closed = true
	out := q.items
	q.items = nil
	q.mu.Unlock()
	q.wake()
	return out
}

func (q *sendQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *sendQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
