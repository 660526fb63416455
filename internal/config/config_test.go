package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/hotsync/internal/testutil/testlog"
	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTOMLDefaultsAndOverrides(t *testing.T) {
	testlog.Start(t)

	path := writeFile(t, "hotsync.toml", `
[link]
max_queued_jobs = 8

[serial]
device = " /dev/ttyS1 "

[metrics]
addr = "127.0.0.1:9464"

[reconnect]
max_delay = "30s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Link.MaxQueuedJobs != 8 {
		t.Fatalf("unexpected max queued jobs: %d", cfg.Link.MaxQueuedJobs)
	}
	if cfg.Link.ReadChunkSize != 4096 {
		t.Fatalf("read chunk default lost: %d", cfg.Link.ReadChunkSize)
	}
	if cfg.Serial.Device != "/dev/ttyS1" {
		t.Fatalf("unexpected device: %q", cfg.Serial.Device)
	}
	if cfg.Serial.Baud != 57600 {
		t.Fatalf("baud default lost: %d", cfg.Serial.Baud)
	}
	if cfg.Metrics.Addr != "127.0.0.1:9464" {
		t.Fatalf("unexpected metrics addr: %q", cfg.Metrics.Addr)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected level: %q", cfg.Logging.Level)
	}
	if cfg.Reconnect.MaxDelay != 30*time.Second || cfg.Reconnect.InitialDelay != 250*time.Millisecond {
		t.Fatalf("unexpected reconnect: %+v", cfg.Reconnect)
	}
}

func TestLoadTOMLExplicitZeroOverridesDefault(t *testing.T) {
	testlog.Start(t)

	path := writeFile(t, "hotsync.toml", "[link]\nread_chunk_size = 0\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "link.read_chunk_size") {
		t.Fatalf("expected read_chunk_size error, got %v", err)
	}
}

func TestLoadTOMLRejectsUnknownKeys(t *testing.T) {
	testlog.Start(t)

	path := writeFile(t, "hotsync.toml", "[serial]\nparity = \"even\"\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "serial.parity") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	testlog.Start(t)

	path := writeFile(t, "hotsync.yaml", `
logging:
  level: debug
serial:
  baud: 115200
reconnect:
  initial_delay: 1s
  max_delay: 10s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level: %q", cfg.Logging.Level)
	}
	if cfg.Serial.Baud != 115200 || cfg.Serial.Device != "/dev/ttyUSB0" {
		t.Fatalf("unexpected serial: %+v", cfg.Serial)
	}
	if cfg.Link.ReadChunkSize != 4096 {
		t.Fatalf("read chunk default lost: %d", cfg.Link.ReadChunkSize)
	}
	if cfg.Reconnect.InitialDelay != time.Second || cfg.Reconnect.MaxDelay != 10*time.Second {
		t.Fatalf("unexpected reconnect: %+v", cfg.Reconnect)
	}
}

func TestLoadEmptyYAMLKeepsDefaults(t *testing.T) {
	testlog.Start(t)

	cfg, err := Load(writeFile(t, "hotsync.yml", ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	testlog.Start(t)

	if _, err := Load(writeFile(t, "hotsync.json", "{}")); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestValidate(t *testing.T) {
	testlog.Start(t)

	cases := map[string]func(*Config){
		"logging.level":        func(c *Config) { c.Logging.Level = "loud" },
		"link.read_chunk_size": func(c *Config) { c.Link.ReadChunkSize = -1 },
		"link.max_queued_jobs": func(c *Config) { c.Link.MaxQueuedJobs = -1 },
		"serial.device":        func(c *Config) { c.Serial.Device = "" },
		"serial.baud":          func(c *Config) { c.Serial.Baud = 0 },
		"metrics.addr":         func(c *Config) { c.Metrics.Addr = "9464" },
		"reconnect.max_delay":  func(c *Config) { c.Reconnect.MaxDelay = time.Millisecond },
	}
	for field, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.HasPrefix(err.Error(), field) {
			t.Fatalf("%s: expected field error, got %v", field, err)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConversions(t *testing.T) {
	testlog.Start(t)

	cfg := Default()
	cfg.Link.MaxQueuedJobs = 3
	cfg.Serial.Baud = 9600
	cfg.Logging.Level = "warn"
	cfg.Logging.File = "/tmp/hotsync-test.log"

	if lc := cfg.LinkConfig(); lc.MaxQueuedJobs != 3 || lc.ReadChunkSize != 4096 {
		t.Fatalf("unexpected link config: %+v", lc)
	}
	if sc := cfg.SerialConfig(); sc.Baud != 9600 || sc.Device != "/dev/ttyUSB0" {
		t.Fatalf("unexpected serial config: %+v", sc)
	}
	cfg.Reconnect.MaxAttempts = 4
	if sc := cfg.SessionConfig(); sc.MaxAttempts != 4 || sc.Backoff.InitialDelay != 250*time.Millisecond || !sc.Backoff.Jitter {
		t.Fatalf("unexpected session config: %+v", sc)
	}
	t.Setenv("HOTSYNC_LOG_LEVEL", "")
	t.Setenv("HOTSYNC_LOG_FILE", "")
	lg := cfg.LoggingConfig()
	if lg.Level != zerolog.WarnLevel || lg.File != "/tmp/hotsync-test.log" {
		t.Fatalf("unexpected logging config: %+v", lg)
	}
	t.Setenv("HOTSYNC_LOG_LEVEL", "error")
	if lg := cfg.LoggingConfig(); lg.Level != zerolog.ErrorLevel {
		t.Fatalf("env override ignored: %+v", lg)
	}
}

func TestTemplatesLoadAsDefaults(t *testing.T) {
	testlog.Start(t)

	for _, name := range []string{"hotsync.toml", "hotsync.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		if err := WriteTemplate(path, false); err != nil {
			t.Fatalf("%s: write template: %v", name, err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("%s: load template: %v", name, err)
		}
		if cfg != Default() {
			t.Fatalf("%s: template differs from defaults: %+v", name, cfg)
		}
		if err := WriteTemplate(path, false); err == nil {
			t.Fatalf("%s: expected refusal to overwrite", name)
		}
		if err := WriteTemplate(path, true); err != nil {
			t.Fatalf("%s: overwrite: %v", name, err)
		}
	}
	if _, err := Template("ini"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
