package link

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/danmuck/hotsync/internal/protocol/slp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/danmuck/hotsync/internal/protocol/link"

// Transport is the duplex byte stream under a connection. Run closes it when
// its context ends so a blocked Read returns.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// Flusher is implemented by transports that buffer writes.
type Flusher interface {
	Flush() error
}

// Handler receives each parsed packet on the read loop. The payload is only
// valid for the duration of the call.
type Handler interface {
	HandlePacket(c *Conn, p slp.Packet) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(c *Conn, p slp.Packet) error

func (f HandlerFunc) HandlePacket(c *Conn, p slp.Packet) error {
	return f(c, p)
}

type Option func(*Conn)

func WithConfig(cfg Config) Option {
	return func(c *Conn) {
		c.cfg = cfg
	}
}

func WithObserver(o Observer) Option {
	return func(c *Conn) {
		if o != nil {
			c.observer = o
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Conn) {
		if t != nil {
			c.tracer = t
		}
	}
}

// Conn drives one read loop and one write loop over a Transport.
type Conn struct {
	transport Transport
	handler   Handler
	cfg       Config
	observer  Observer
	tracer    trace.Tracer
	log       zerolog.Logger

	queue     *sendQueue
	pool      *bufferPool
	nextID    atomic.Uint64
	running   atomic.Bool
	closeOnce sync.Once
	interrupt sync.Once
}

func New(t Transport, h Handler, opts ...Option) *Conn {
	c := &Conn{
		transport: t,
		handler:   h,
		cfg:       DefaultConfig(),
		observer:  nopObserver{},
		tracer:    otel.Tracer(tracerName),
		log:       log.With().Str("component", "link").Logger(),
		pool:      newBufferPool(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.handler == nil {
		c.handler = HandlerFunc(func(*Conn, slp.Packet) error { return nil })
	}
	c.queue = newSendQueue(c.cfg.MaxQueuedJobs)
	return c
}

// Enqueue encodes p into a job and queues it without waiting for transmission.
func (c *Conn) Enqueue(p slp.Packet) (*SendJob, error) {
	if len(p.Payload) > slp.MaxPayload {
		return nil, slp.ErrPayloadTooLarge
	}
	buf := c.pool.rent(p.EncodedLen())
	if _, err := slp.Encode(buf.bytes(), p); err != nil {
		buf.release()
		return nil, err
	}
	job := newSendJob(c.nextID.Add(1), p, buf)
	if err := c.queue.push(job); err != nil {
		c.finish(job, err)
		return nil, err
	}
	c.log.Trace().Uint64("job", job.id).Stringer("packet", p).Msg("link.Enqueue")
	return job, nil
}

// Send queues p and waits for it to be written and flushed. If ctx ends while
// the job is still queued, the job is withdrawn and completed as canceled.
func (c *Conn) Send(ctx context.Context, p slp.Packet) error {
	ctx, span := c.tracer.Start(ctx, "slp.send", trace.WithAttributes(
		attribute.Int("slp.dest", int(p.Dest)),
		attribute.Int("slp.src", int(p.Src)),
		attribute.Int("slp.type", int(p.Type)),
		attribute.Int("slp.txn_id", int(p.TxnID)),
		attribute.Int("slp.payload_len", len(p.Payload)),
	))
	defer span.End()

	err := c.send(ctx, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Conn) send(ctx context.Context, p slp.Packet) error {
	job, err := c.Enqueue(p)
	if err != nil {
		return err
	}
	select {
	case <-job.Done():
		return job.Err()
	case <-ctx.Done():
		if c.queue.remove(job) {
			c.finish(job, ErrCanceled)
			return ctx.Err()
		}
		// Already handed to the write loop; its result is authoritative.
		<-job.Done()
		return job.Err()
	}
}

// CompleteSends stops accepting jobs. The write loop finishes the ones already
// queued and then ends, which ends Run.
func (c *Conn) CompleteSends() {
	c.queue.complete()
}

// Pending is the number of queued, not yet written jobs.
func (c *Conn) Pending() int {
	return c.queue.len()
}

// Close fails every queued job with ErrCanceled, in submission order, and
// stops accepting new ones. It is safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		jobs := c.queue.drain()
		if len(jobs) > 0 {
			c.log.Debug().Int("jobs", len(jobs)).Msg("link.Close canceling queued sends")
		}
		for _, job := range jobs {
			c.finish(job, ErrCanceled)
		}
	})
	return nil
}

// Run drives the read and write loops until either ends, then cancels the
// other, waits for it and closes the connection. A clean end of stream or
// queue completion returns nil.
func (c *Conn) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	stop := context.AfterFunc(ctx, c.interruptTransport)
	defer stop()

	type result struct {
		loop string
		err  error
	}
	results := make(chan result, 2)
	go func() { results <- result{"read", c.readLoop(ctx)} }()
	go func() { results <- result{"write", c.writeLoop(ctx)} }()

	first := <-results
	c.log.Debug().Str("loop", first.loop).Err(first.err).Msg("link.Run loop ended")
	cancel()
	second := <-results
	c.log.Debug().Str("loop", second.loop).Err(second.err).Msg("link.Run loop ended")
	c.Close()

	if err := parent.Err(); err != nil {
		return err
	}
	for _, r := range []result{first, second} {
		if r.err != nil && !errors.Is(r.err, context.Canceled) {
			return r.err
		}
	}
	return nil
}

func (c *Conn) readLoop(ctx context.Context) error {
	reader := slp.NewReader(c.transport, c.cfg.ReadChunkSize)
	wasSynced := false
	emit := func(p slp.Packet) error {
		c.observer.PacketReceived(p)
		return c.handler.HandlePacket(c, p)
	}
	for {
		n, err := reader.Step(emit)
		if n > 0 {
			c.observer.BytesReceived(n)
		}
		if !wasSynced && reader.Synced() {
			wasSynced = true
			c.log.Info().Msg("link.readLoop synchronized")
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				c.log.Debug().Int("buffered", reader.Buffered()).Msg("link.readLoop end of stream")
				return nil
			}
			var fe *slp.FrameError
			if errors.As(err, &fe) {
				c.observer.FramingError(err)
			}
			c.log.Error().Err(err).Msg("link.readLoop failed")
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Conn) writeLoop(ctx context.Context) error {
	for {
		job, err := c.queue.pop(ctx)
		if errors.Is(err, errQueueDone) {
			return nil
		}
		if err != nil {
			return err
		}

		err = c.transmit(job)
		if err != nil && ctx.Err() != nil {
			c.finish(job, ErrCanceled)
			return ctx.Err()
		}
		if err != nil {
			c.log.Warn().Err(err).Uint64("job", job.id).Msg("link.writeLoop transmit failed")
		}
		c.finish(job, err)
	}
}

func (c *Conn) transmit(job *SendJob) error {
	if _, err := c.transport.Write(job.encoded()); err != nil {
		return err
	}
	if f, ok := c.transport.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (c *Conn) finish(job *SendJob, err error) {
	if job.complete(err) {
		c.observer.JobCompleted(job.id, job.size, err)
	}
}

func (c *Conn) interruptTransport() {
	c.interrupt.Do(func() {
		if err := c.transport.Close(); err != nil {
			c.log.Debug().Err(err).Msg("link.interruptTransport close failed")
		}
	})
}
