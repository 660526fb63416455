package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/danmuck/hotsync/internal/config"
	"github.com/danmuck/hotsync/internal/logging"
	"github.com/danmuck/hotsync/internal/observability"
	"github.com/danmuck/hotsync/internal/protocol/link"
	"github.com/danmuck/hotsync/internal/protocol/session"
	"github.com/danmuck/hotsync/internal/protocol/slp"
	"github.com/danmuck/hotsync/internal/transport/serial"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type listenOptions struct {
	format      string
	capturePath string
	loopback    bool
}

func listenCmd() *cobra.Command {
	var (
		configPath  string
		device      string
		baud        int
		metricsAddr string
		opts        listenOptions
	)
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Open a serial line and print received packets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			flags := cmd.Flags()
			if flags.Changed("device") {
				cfg.Serial.Device = device
			}
			if flags.Changed("baud") {
				cfg.Serial.Baud = baud
			}
			if flags.Changed("metrics") {
				cfg.Metrics.Addr = metricsAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logging.Apply(cfg.LoggingConfig())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runListen(ctx, cfg, opts, cmd.OutOrStdout(), serialDialer(cfg.SerialConfig()))
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (.toml, .yaml or .yml)")
	flags.StringVarP(&device, "device", "d", serial.DefaultDevice, "serial device")
	flags.IntVarP(&baud, "baud", "b", serial.DefaultBaud, "line speed")
	flags.StringVar(&metricsAddr, "metrics", "", "serve prometheus metrics on this address")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format: text, json or cbor")
	flags.StringVar(&opts.capturePath, "capture", "", "tee received bytes into this file (.zst and .lz4 compress)")
	flags.BoolVar(&opts.loopback, "loopback", true, "answer loopback packets")
	return cmd
}

func serialDialer(cfg serial.Config) session.Dialer {
	return func(context.Context) (link.Transport, error) {
		port, err := serial.Open(cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Stringer("port", port).Int("baud", cfg.Baud).Msg("slpdump opened line")
		return port, nil
	}
}

// runListen serves the line until ctx ends. Cancellation is a clean exit.
func runListen(ctx context.Context, cfg config.Config, opts listenOptions, out io.Writer, dial session.Dialer) error {
	rw, err := newRecordWriter(opts.format, out)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewLinkMetrics(
		observability.WithRegistry(reg),
		observability.WithConstLabels(prometheus.Labels{"device": filepath.Base(cfg.Serial.Device)}),
	)
	if cfg.Metrics.Addr != "" {
		shutdown, err := serveMetrics(cfg.Metrics.Addr, reg)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	if opts.capturePath != "" {
		capture, err := createCapture(opts.capturePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := capture.Close(); err != nil {
				log.Warn().Err(err).Str("file", opts.capturePath).Msg("slpdump capture close failed")
			}
		}()
		dial = tapDialer(dial, &captureTap{w: capture, path: opts.capturePath})
	}

	var (
		count    int
		loopback link.Handler
	)
	if opts.loopback {
		loopback = link.Loopback(nil)
	}
	handler := link.HandlerFunc(func(c *link.Conn, p slp.Packet) error {
		count++
		if err := rw.WriteRecord(newRecord(count, p)); err != nil {
			return err
		}
		if err := rw.Flush(); err != nil {
			return err
		}
		if loopback == nil {
			return nil
		}
		return loopback.HandlePacket(c, p)
	})

	sup := session.NewSupervisor(dial, handler,
		session.WithConfig(cfg.SessionConfig()),
		session.WithLinkOptions(
			link.WithConfig(cfg.LinkConfig()),
			link.WithObserver(metrics),
		),
		session.WithHooks(session.Hooks{
			Connected:    func(*link.Conn) { metrics.SetUp(true) },
			Disconnected: func(error) { metrics.SetUp(false) },
			Retrying: func(attempt int, delay time.Duration, err error) {
				metrics.Reconnected()
				log.Info().Int("attempt", attempt).Dur("delay", delay).Err(err).Msg("slpdump reopening line")
			},
		}),
	)
	err = sup.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func serveMetrics(addr string, gatherer prometheus.Gatherer) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.MetricsHandler(gatherer))
	srv := &http.Server{
		Handler:           observability.RequestLogger(log.Logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("slpdump metrics server failed")
		}
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("slpdump serving metrics")
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// captureTap receives every byte read from the line. A write failure turns
// the tap off rather than dropping the connection.
type captureTap struct {
	mu     sync.Mutex
	w      io.Writer
	path   string
	failed bool
}

func (c *captureTap) record(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed {
		return
	}
	if _, err := c.w.Write(b); err != nil {
		c.failed = true
		log.Warn().Err(err).Str("file", c.path).Msg("slpdump capture disabled")
	}
}

func tapDialer(dial session.Dialer, tap *captureTap) session.Dialer {
	return func(ctx context.Context) (link.Transport, error) {
		t, err := dial(ctx)
		if err != nil {
			return nil, err
		}
		return &tappedTransport{Transport: t, tap: tap}, nil
	}
}

// tappedTransport copies reads into a captureTap and forwards Flush to the
// wrapped transport.
type tappedTransport struct {
	link.Transport
	tap *captureTap
}

func (t *tappedTransport) Read(b []byte) (int, error) {
	n, err := t.Transport.Read(b)
	if n > 0 {
		t.tap.record(b[:n])
	}
	return n, err
}

func (t *tappedTransport) Flush() error {
	if f, ok := t.Transport.(link.Flusher); ok {
		return f.Flush()
	}
	return nil
}
