package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/hotsync/internal/logging"
	"github.com/danmuck/hotsync/internal/protocol/link"
	"github.com/danmuck/hotsync/internal/protocol/session"
	"github.com/danmuck/hotsync/internal/transport/serial"
	"gopkg.in/yaml.v3"
)

// Config is the process configuration for the hotsync tools.
type Config struct {
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
	Link      LinkConfig      `toml:"link" yaml:"link"`
	Serial    SerialConfig    `toml:"serial" yaml:"serial"`
	Metrics   MetricsConfig   `toml:"metrics" yaml:"metrics"`
	Reconnect ReconnectConfig `toml:"reconnect" yaml:"reconnect"`
}

type LoggingConfig struct {
	Level   string `toml:"level" yaml:"level"`
	File    string `toml:"file" yaml:"file"`
	NoColor bool   `toml:"no_color" yaml:"no_color"`
}

type LinkConfig struct {
	ReadChunkSize int `toml:"read_chunk_size" yaml:"read_chunk_size"`
	MaxQueuedJobs int `toml:"max_queued_jobs" yaml:"max_queued_jobs"`
}

type SerialConfig struct {
	Device string `toml:"device" yaml:"device"`
	Baud   int    `toml:"baud" yaml:"baud"`
}

// MetricsConfig controls the prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// ReconnectConfig controls how slpdump listen reopens a failed line.
type ReconnectConfig struct {
	InitialDelay time.Duration `toml:"initial_delay" yaml:"initial_delay"`
	MaxDelay     time.Duration `toml:"max_delay" yaml:"max_delay"`
	// MaxAttempts bounds consecutive failures. Zero retries forever.
	MaxAttempts int `toml:"max_attempts" yaml:"max_attempts"`
}

func Default() Config {
	lc := link.DefaultConfig()
	sc := serial.DefaultConfig()
	rc := session.DefaultConfig()
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Link: LinkConfig{
			ReadChunkSize: lc.ReadChunkSize,
			MaxQueuedJobs: lc.MaxQueuedJobs,
		},
		Serial: SerialConfig{Device: sc.Device, Baud: sc.Baud},
		Reconnect: ReconnectConfig{
			InitialDelay: rc.Backoff.InitialDelay,
			MaxDelay:     rc.Backoff.MaxDelay,
			MaxAttempts:  rc.MaxAttempts,
		},
	}
}

// Load reads path as TOML or YAML (by extension), applies the values it
// defines on top of Default, and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml", "":
		cfg, err = decodeTOML(data)
	case ".yaml", ".yml":
		cfg, err = decodeYAML(data)
	default:
		return Config{}, fmt.Errorf("config load failed (%s): unknown format %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func decodeTOML(data []byte) (Config, error) {
	cfg := Default()

	var raw Config
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw)
	if err != nil {
		return Config{}, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("logging", "level") {
		cfg.Logging.Level = strings.TrimSpace(raw.Logging.Level)
	}
	if meta.IsDefined("logging", "file") {
		cfg.Logging.File = strings.TrimSpace(raw.Logging.File)
	}
	if meta.IsDefined("logging", "no_color") {
		cfg.Logging.NoColor = raw.Logging.NoColor
	}

	if meta.IsDefined("link", "read_chunk_size") {
		cfg.Link.ReadChunkSize = raw.Link.ReadChunkSize
	}
	if meta.IsDefined("link", "max_queued_jobs") {
		cfg.Link.MaxQueuedJobs = raw.Link.MaxQueuedJobs
	}

	if meta.IsDefined("serial", "device") {
		cfg.Serial.Device = strings.TrimSpace(raw.Serial.Device)
	}
	if meta.IsDefined("serial", "baud") {
		cfg.Serial.Baud = raw.Serial.Baud
	}

	if meta.IsDefined("metrics", "addr") {
		cfg.Metrics.Addr = strings.TrimSpace(raw.Metrics.Addr)
	}

	if meta.IsDefined("reconnect", "initial_delay") {
		cfg.Reconnect.InitialDelay = raw.Reconnect.InitialDelay
	}
	if meta.IsDefined("reconnect", "max_delay") {
		cfg.Reconnect.MaxDelay = raw.Reconnect.MaxDelay
	}
	if meta.IsDefined("reconnect", "max_attempts") {
		cfg.Reconnect.MaxAttempts = raw.Reconnect.MaxAttempts
	}
	return cfg, nil
}

func decodeYAML(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// An empty document leaves the defaults in place.
		if errors.Is(err, io.EOF) {
			return Default(), nil
		}
		return Config{}, err
	}
	cfg.Logging.Level = strings.TrimSpace(cfg.Logging.Level)
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
	cfg.Serial.Device = strings.TrimSpace(cfg.Serial.Device)
	cfg.Metrics.Addr = strings.TrimSpace(cfg.Metrics.Addr)
	return cfg, nil
}

func (c Config) Validate() error {
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	if c.Link.ReadChunkSize <= 0 {
		return fmt.Errorf("link.read_chunk_size: must be positive, got %d", c.Link.ReadChunkSize)
	}
	if c.Link.MaxQueuedJobs < 0 {
		return fmt.Errorf("link.max_queued_jobs: must not be negative, got %d", c.Link.MaxQueuedJobs)
	}
	if c.Serial.Device == "" {
		return fmt.Errorf("serial.device: required")
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud: must be positive, got %d", c.Serial.Baud)
	}
	if c.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			return fmt.Errorf("metrics.addr: %w", err)
		}
	}
	if c.Reconnect.InitialDelay < 0 {
		return fmt.Errorf("reconnect.initial_delay: must not be negative, got %v", c.Reconnect.InitialDelay)
	}
	if c.Reconnect.MaxDelay != 0 && c.Reconnect.MaxDelay < c.Reconnect.InitialDelay {
		return fmt.Errorf("reconnect.max_delay: %v is below initial_delay %v", c.Reconnect.MaxDelay, c.Reconnect.InitialDelay)
	}
	if c.Reconnect.MaxAttempts < 0 {
		return fmt.Errorf("reconnect.max_attempts: must not be negative, got %d", c.Reconnect.MaxAttempts)
	}
	return nil
}

// LinkConfig converts the [link] section for link.WithConfig.
func (c Config) LinkConfig() link.Config {
	return link.Config{
		ReadChunkSize: c.Link.ReadChunkSize,
		MaxQueuedJobs: c.Link.MaxQueuedJobs,
	}
}

func (c Config) SerialConfig() serial.Config {
	return serial.Config{Device: c.Serial.Device, Baud: c.Serial.Baud}
}

// SessionConfig converts the [reconnect] section for session.WithConfig.
func (c Config) SessionConfig() session.Config {
	out := session.DefaultConfig()
	out.Backoff.InitialDelay = c.Reconnect.InitialDelay
	out.Backoff.MaxDelay = c.Reconnect.MaxDelay
	out.MaxAttempts = c.Reconnect.MaxAttempts
	return out
}

// LoggingConfig overlays the [logging] section on the runtime profile.
// HOTSYNC_LOG_* environment overrides are applied last.
func (c Config) LoggingConfig() logging.Config {
	out := logging.DefaultConfig(logging.ProfileRuntime)
	if lvl, ok := logging.ParseLevel(c.Logging.Level); ok {
		out.Level = lvl
	}
	out.File = c.Logging.File
	out.NoColor = c.Logging.NoColor
	return logging.WithEnv(out)
}
