package slp

import (
	"errors"
	"fmt"
)

var (
	ErrBadMagic        = errors.New("slp: bad magic")
	ErrHeaderChecksum  = errors.New("slp: header checksum mismatch")
	ErrFooterCRC       = errors.New("slp: footer crc mismatch")
	ErrPayloadTooLarge = errors.New("slp: payload too large")
	ErrShortBuffer     = errors.New("slp: short buffer")
)

// FrameError reports an unrecoverable framing failure after lock-on.
type FrameError struct {
	Err    error
	Offset int
	Want   uint16
	Got    uint16
}

func (e *FrameError) Error() string {
	if errors.Is(e.Err, ErrBadMagic) {
		return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("%v at offset %d: want %#04x got %#04x", e.Err, e.Offset, e.Want, e.Got)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
