// Package serial opens a raw serial line for the link layer.
package serial

import (
	"errors"
	"fmt"
	"os"
)

const (
	DefaultDevice = "/dev/ttyUSB0"
	DefaultBaud   = 57600
)

var ErrUnsupportedBaud = errors.New("serial: unsupported baud rate")

// Config selects a device and line speed. The line is always 8N1 with no
// flow control.
type Config struct {
	Device string
	Baud   int
}

func DefaultConfig() Config {
	return Config{Device: DefaultDevice, Baud: DefaultBaud}
}

// Port is an open serial line. It implements link.Transport, link.Flusher
// and io.Closer; Close unblocks a pending Read.
type Port struct {
	f      *os.File
	device string
}

func (p *Port) Read(b []byte) (int, error) {
	return p.f.Read(b)
}

func (p *Port) Write(b []byte) (int, error) {
	return p.f.Write(b)
}

func (p *Port) Close() error {
	return p.f.Close()
}

func (p *Port) Device() string {
	return p.device
}

func (p *Port) String() string {
	return fmt.Sprintf("serial(%s)", p.device)
}
