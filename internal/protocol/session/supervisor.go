package session

import (
	"context"
	"math/rand"
	"time"

	"github.com/danmuck/hotsync/internal/protocol/link"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Dialer opens a fresh transport. It is closed after each connection ends.
type Dialer func(ctx context.Context) (link.Transport, error)

// Hooks observe the supervisor's connection lifecycle. Nil hooks are skipped.
type Hooks struct {
	Connected    func(c *link.Conn)
	Disconnected func(err error)
	Retrying     func(attempt int, delay time.Duration, err error)
}

type Option func(*Supervisor)

func WithConfig(cfg Config) Option {
	return func(s *Supervisor) {
		s.cfg = cfg
	}
}

// WithLinkOptions are applied to every link.Conn the supervisor creates.
func WithLinkOptions(opts ...link.Option) Option {
	return func(s *Supervisor) {
		s.linkOpts = append(s.linkOpts, opts...)
	}
}

func WithHooks(h Hooks) Option {
	return func(s *Supervisor) {
		s.hooks = h
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(s *Supervisor) {
		s.rng = rng
	}
}

type Supervisor struct {
	dial     Dialer
	handler  link.Handler
	cfg      Config
	linkOpts []link.Option
	hooks    Hooks
	rng      *rand.Rand
	log      zerolog.Logger
}

func NewSupervisor(dial Dialer, h link.Handler, opts ...Option) *Supervisor {
	s := &Supervisor{
		dial:    dial,
		handler: h,
		cfg:     DefaultConfig(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		log:     log.With().Str("component", "session").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run dials and serves connections until ctx ends or MaxAttempts
// consecutive failures occur. It returns ctx.Err() on cancellation and the
// last failure otherwise.
func (s *Supervisor) Run(ctx context.Context) error {
	var failures int
	for {
		t, err := s.dial(ctx)
		if err == nil {
			failures = 0
			err = s.serve(ctx, t)
		} else {
			s.log.Warn().Err(err).Int("attempt", failures+1).Msg("session.Supervisor dial failed")
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		failures++
		if !s.shouldRetry(failures) {
			return err
		}
		delay := s.retryDelay(failures)
		if s.hooks.Retrying != nil {
			s.hooks.Retrying(failures, delay, err)
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func (s *Supervisor) serve(ctx context.Context, t link.Transport) error {
	conn := link.New(t, s.handler, s.linkOpts...)
	if s.hooks.Connected != nil {
		s.hooks.Connected(conn)
	}
	s.log.Info().Msg("session.Supervisor connected")

	err := conn.Run(ctx)
	_ = t.Close()
	if s.hooks.Disconnected != nil {
		s.hooks.Disconnected(err)
	}
	s.log.Info().Err(err).Msg("session.Supervisor disconnected")
	return err
}

func (s *Supervisor) shouldRetry(failures int) bool {
	if s.cfg.MaxAttempts <= 0 {
		return true
	}
	return failures < s.cfg.MaxAttempts
}

func sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
