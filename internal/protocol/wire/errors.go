package wire

import "errors"

var (
	ErrShortBuffer       = errors.New("wire: short buffer")
	ErrUnterminated      = errors.New("wire: unterminated string")
	ErrEmbeddedNul       = errors.New("wire: string contains a zero byte")
	ErrValueOutOfRange   = errors.New("wire: value out of range")
	ErrFixedSizeMismatch = errors.New("wire: fixed size mismatch")
)
