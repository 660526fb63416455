package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Template returns a starter config in the given format: toml or yaml.
func Template(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "toml":
		return tomlTemplate, nil
	case "yaml", "yml":
		return yamlTemplate, nil
	default:
		return "", fmt.Errorf("unknown config format: %s", format)
	}
}

// WriteTemplate writes the starter config for path's extension.
func WriteTemplate(path string, overwrite bool) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		format = "toml"
	}
	template, err := Template(format)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const tomlTemplate = `[logging]
# trace | debug | info | warn | error | off
level = "info"
# file = "/var/log/hotsync.log"
no_color = false

[link]
read_chunk_size = 4096
# 0 leaves the send queue unbounded.
max_queued_jobs = 0

[serial]
device = "/dev/ttyUSB0"
baud = 57600

[metrics]
# addr = "127.0.0.1:9464"

[reconnect]
initial_delay = "250ms"
max_delay = "5s"
# 0 retries forever.
max_attempts = 0
`

const yamlTemplate = `logging:
  # trace | debug | info | warn | error | off
  level: info
  # file: /var/log/hotsync.log
  no_color: false

link:
  read_chunk_size: 4096
  # 0 leaves the send queue unbounded.
  max_queued_jobs: 0

serial:
  device: /dev/ttyUSB0
  baud: 57600

metrics:
  # e.g. 127.0.0.1:9464
  addr: ""

reconnect:
  initial_delay: 250ms
  max_delay: 5s
  # 0 retries forever.
  max_attempts: 0
`
