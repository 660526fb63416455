//go:build !linux

package serial

import (
	"errors"
	"fmt"
	"runtime"
)

var ErrUnsupportedPlatform = errors.New("serial: unsupported platform")

func Open(cfg Config) (*Port, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
}

func (p *Port) Flush() error {
	return nil
}
