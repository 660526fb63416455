package observability

import (
	"errors"

	"github.com/danmuck/hotsync/internal/protocol/link"
	"github.com/danmuck/hotsync/internal/protocol/slp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures LinkMetrics.
type MetricsConfig struct {
	Namespace   string
	ConstLabels prometheus.Labels
	// Registry defaults to prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

type MetricsOption func(*MetricsConfig)

func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "hotsync",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// LinkMetrics exports link.Conn events as prometheus series. It implements
// link.Observer.
type LinkMetrics struct {
	rxBytes       prometheus.Counter
	txBytes       prometheus.Counter
	packets       *prometheus.CounterVec
	framingErrors *prometheus.CounterVec
	jobs          *prometheus.CounterVec
	up            prometheus.Gauge
	reconnects    prometheus.Counter
}

var _ link.Observer = (*LinkMetrics)(nil)

// NewLinkMetrics registers the link series. It panics if they are already
// registered with the chosen registry.
func NewLinkMetrics(opts ...MetricsOption) *LinkMetrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)
	counter := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   "link",
			Name:        name,
			Help:        help,
			ConstLabels: cfg.ConstLabels,
		}
	}

	return &LinkMetrics{
		rxBytes: factory.NewCounter(counter("rx_bytes_total", "Bytes read from the transport.")),
		txBytes: factory.NewCounter(counter("tx_bytes_total", "Encoded bytes of packets sent successfully.")),
		packets: factory.NewCounterVec(
			counter("packets_received_total", "Packets delivered to the handler."),
			[]string{"type"},
		),
		framingErrors: factory.NewCounterVec(
			counter("framing_errors_total", "Unrecoverable framing failures."),
			[]string{"reason"},
		),
		jobs: factory.NewCounterVec(
			counter("send_jobs_total", "Completed send jobs by result."),
			[]string{"result"},
		),
		up: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   "link",
			Name:        "up",
			Help:        "1 while a link connection is running.",
			ConstLabels: cfg.ConstLabels,
		}),
		reconnects: factory.NewCounter(counter("reconnects_total", "Transport reopen attempts after a failure.")),
	}
}

func (m *LinkMetrics) BytesReceived(n int) {
	m.rxBytes.Add(float64(n))
}

func (m *LinkMetrics) PacketReceived(p slp.Packet) {
	m.packets.WithLabelValues(slp.TypeName(p.Type)).Inc()
}

func (m *LinkMetrics) FramingError(err error) {
	m.framingErrors.WithLabelValues(framingReason(err)).Inc()
}

func (m *LinkMetrics) JobCompleted(_ uint64, size int, err error) {
	m.jobs.WithLabelValues(jobResult(err)).Inc()
	if err == nil {
		m.txBytes.Add(float64(size))
	}
}

// SetUp records whether a connection is currently running.
func (m *LinkMetrics) SetUp(up bool) {
	if up {
		m.up.Set(1)
		return
	}
	m.up.Set(0)
}

func (m *LinkMetrics) Reconnected() {
	m.reconnects.Inc()
}

func framingReason(err error) string {
	switch {
	case errors.Is(err, slp.ErrBadMagic):
		return "bad_magic"
	case errors.Is(err, slp.ErrHeaderChecksum):
		return "header_checksum"
	case errors.Is(err, slp.ErrFooterCRC):
		return "footer_crc"
	case errors.Is(err, slp.ErrPayloadTooLarge):
		return "payload_too_large"
	default:
		return "other"
	}
}

func jobResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, link.ErrCanceled):
		return "canceled"
	case errors.Is(err, link.ErrClosed):
		return "closed"
	default:
		return "error"
	}
}
